package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tieubaoca/recipe-assistant/config"
	"github.com/tieubaoca/recipe-assistant/database"
	"github.com/tieubaoca/recipe-assistant/types"
)

// IndexerService normalizes raw recipe records and writes them to the
// search store in batches. A malformed record is counted and skipped;
// it never aborts the batch it arrived in.
type IndexerService struct {
	store database.SearchStore
	cfg   config.IndexerConfig
}

func NewIndexerService(store database.SearchStore, cfg config.IndexerConfig) *IndexerService {
	return &IndexerService{
		store: store,
		cfg:   cfg,
	}
}

// Index runs one ingestion pass and reports the summary. Re-indexing an
// existing ID overwrites the stored document. On context cancellation the
// summary covers the work done so far and the context error is returned
// alongside it.
func (s *IndexerService) Index(ctx context.Context, records []types.RawRecipeRecord) (*types.IndexSummary, error) {
	summary := &types.IndexSummary{}

	docs := make([]types.RecipeDocument, 0, len(records))
	for _, record := range records {
		doc, err := normalizeRecord(record)
		if err != nil {
			summary.Failed++
			log.Printf("Skipping record %q: %v", record.ID, err)
			continue
		}
		docs = append(docs, doc)
	}

	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = len(docs)
	}
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		batchSummary, err := s.upsertWithRetry(ctx, batch)
		if batchSummary != nil {
			summary.Add(*batchSummary)
		}
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			// Retries exhausted for this batch; count it failed and
			// move on so one bad batch cannot sink the whole run.
			summary.Failed += len(batch)
			log.Printf("Batch of %d documents failed after %d attempts: %v", len(batch), s.cfg.MaxAttempts, err)
		}
	}
	return summary, nil
}

func (s *IndexerService) upsertWithRetry(ctx context.Context, batch []types.RecipeDocument) (*types.IndexSummary, error) {
	backoff := time.Duration(s.cfg.RetryBackoffMS) * time.Millisecond
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		batchSummary, err := s.store.Upsert(ctx, batch)
		if err == nil {
			return batchSummary, nil
		}
		lastErr = err
		if attempt == s.cfg.MaxAttempts {
			break
		}
		log.Printf("Upsert attempt %d failed, retrying in %v: %v", attempt, backoff, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, lastErr
}

// normalizeRecord trims and lowercases a record into its indexed form.
// Records without an ID or a title cannot be indexed or cited.
func normalizeRecord(record types.RawRecipeRecord) (types.RecipeDocument, error) {
	id := strings.TrimSpace(record.ID)
	title := strings.TrimSpace(record.Title)
	if id == "" {
		return types.RecipeDocument{}, fmt.Errorf("%w: missing id", types.ErrInvalidRecord)
	}
	if title == "" {
		return types.RecipeDocument{}, fmt.Errorf("%w: missing title", types.ErrInvalidRecord)
	}

	ingredients := make([]string, 0, len(record.Ingredients))
	for _, ing := range record.Ingredients {
		if v := strings.TrimSpace(ing); v != "" {
			ingredients = append(ingredients, v)
		}
	}
	tags := make([]string, 0, len(record.Tags))
	for _, tag := range record.Tags {
		if v := strings.ToLower(strings.TrimSpace(tag)); v != "" {
			tags = append(tags, v)
		}
	}

	return types.RecipeDocument{
		ID:           id,
		Title:        title,
		Ingredients:  ingredients,
		Instructions: strings.TrimSpace(record.Instructions),
		Tags:         tags,
		PrepMinutes:  record.PrepMinutes,
		CookMinutes:  record.CookMinutes,
		Servings:     record.Servings,
	}, nil
}
