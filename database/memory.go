package database

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/tieubaoca/recipe-assistant/types"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// MemorySearchStore is an in-memory SearchStore with brute-force term
// matching. It exists so the pipeline can run and be tested without a
// live Weaviate instance; scoring is a simple boosted term-overlap count,
// deterministic for identical inputs.
type MemorySearchStore struct {
	mu   sync.RWMutex
	docs map[string]types.RecipeDocument
}

func NewMemorySearchStore() *MemorySearchStore {
	return &MemorySearchStore{docs: make(map[string]types.RecipeDocument)}
}

func (s *MemorySearchStore) Upsert(ctx context.Context, docs []types.RecipeDocument) (*types.IndexSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := &types.IndexSummary{}
	for _, doc := range docs {
		if _, ok := s.docs[doc.ID]; ok {
			summary.Updated++
		} else {
			summary.Inserted++
		}
		s.docs[doc.ID] = doc
	}
	return summary, nil
}

func (s *MemorySearchStore) Search(ctx context.Context, query SearchQuery) ([]ScoredRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := tokenize(query.Text)
	var results []ScoredRecipe
	for _, doc := range s.docs {
		if !hasAllTags(doc.Tags, query.Tags) {
			continue
		}
		score := s.score(doc, terms, query.Boosts)
		if score <= 0 {
			continue
		}
		results = append(results, ScoredRecipe{Document: doc, Score: score})
	}

	// Score descending, id ascending on ties.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.ID < results[j].Document.ID
	})

	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results, nil
}

// Count returns the number of indexed documents.
func (s *MemorySearchStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Get returns the indexed document for an id, if present.
func (s *MemorySearchStore) Get(id string) (types.RecipeDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

func (s *MemorySearchStore) score(doc types.RecipeDocument, terms []string, boosts types.FieldBoosts) float64 {
	titleTokens := toSet(tokenize(doc.Title))
	ingredientTokens := toSet(tokenize(strings.Join(doc.Ingredients, " ")))
	instructionTokens := toSet(tokenize(doc.Instructions))

	var score float64
	for _, term := range terms {
		if titleTokens[term] {
			score += boosts.Title
		}
		if ingredientTokens[term] {
			score += boosts.Ingredients
		}
		if instructionTokens[term] {
			score += boosts.Instructions
		}
	}
	return score
}

func hasAllTags(docTags, queryTags []string) bool {
	if len(queryTags) == 0 {
		return true
	}
	have := toSet(docTags)
	for _, tag := range queryTags {
		if !have[strings.ToLower(tag)] {
			return false
		}
	}
	return true
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
