package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tieubaoca/recipe-assistant/types"
)

// LoadRecipeRecords reads raw recipe records from a JSON array or a CSV
// export, selected by file extension. CSV multi-value fields
// (ingredients, tags) are semicolon-separated.
func LoadRecipeRecords(path string) ([]types.RawRecipeRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSONRecords(path)
	case ".csv":
		return loadCSVRecords(path)
	default:
		return nil, fmt.Errorf("unsupported recipe file format: %s", path)
	}
}

func loadJSONRecords(path string) ([]types.RawRecipeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipe file: %w", err)
	}
	defer f.Close()

	var records []types.RawRecipeRecord
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode recipe file: %w", err)
	}
	return records, nil
}

func loadCSVRecords(path string) ([]types.RawRecipeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipe file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]types.RawRecipeRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, types.RawRecipeRecord{
			ID:           field(row, "id"),
			Title:        field(row, "title"),
			Ingredients:  splitList(field(row, "ingredients")),
			Instructions: field(row, "instructions"),
			Tags:         splitList(field(row, "tags")),
			PrepMinutes:  parseMinutes(field(row, "prep_minutes")),
			CookMinutes:  parseMinutes(field(row, "cook_minutes")),
			Servings:     parseMinutes(field(row, "servings")),
		})
	}
	return records, nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseMinutes is tolerant of blanks and junk; the indexer validates
// what actually matters.
func parseMinutes(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
