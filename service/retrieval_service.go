package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/tieubaoca/recipe-assistant/config"
	"github.com/tieubaoca/recipe-assistant/database"
	"github.com/tieubaoca/recipe-assistant/types"
)

// RetrievalService ranks indexed recipes against a question using the
// search store's keyword scoring, then applies the query's hard filters.
type RetrievalService struct {
	store database.SearchStore
	cfg   config.RetrievalConfig
}

func NewRetrievalService(store database.SearchStore, cfg config.RetrievalConfig) *RetrievalService {
	return &RetrievalService{
		store: store,
		cfg:   cfg,
	}
}

// Retrieve returns at most k candidates ordered by descending score,
// ranks assigned 1..n. A store failure is fatal to the call; it is never
// reported as an empty result set.
func (s *RetrievalService) Retrieve(ctx context.Context, query types.Query, k int) ([]types.Candidate, error) {
	if k <= 0 {
		k = s.cfg.TopK
	}

	// Over-fetch so the post-retrieval time filter does not starve
	// the result set.
	limit := k
	if query.MaxTotalMinutes > 0 {
		limit = k * 2
	}

	scored, err := s.store.Search(ctx, database.SearchQuery{
		Text:  query.Question,
		Tags:  query.Tags,
		Limit: limit,
		Boosts: types.FieldBoosts{
			Title:        s.cfg.TitleBoost,
			Ingredients:  s.cfg.IngredientBoost,
			Instructions: s.cfg.InstructionBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRetrievalUnavailable, err)
	}

	seen := make(map[string]bool, len(scored))
	candidates := make([]types.Candidate, 0, len(scored))
	for _, sr := range scored {
		if seen[sr.Document.ID] {
			continue
		}
		seen[sr.Document.ID] = true
		if query.MaxTotalMinutes > 0 && sr.Document.TotalMinutes() > query.MaxTotalMinutes {
			continue
		}
		candidates = append(candidates, types.Candidate{
			Document: sr.Document,
			Score:    sr.Score,
		})
	}

	// Stores order by score already; re-sort to pin the tie-break.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Document.ID < candidates[j].Document.ID
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
	return candidates, nil
}
