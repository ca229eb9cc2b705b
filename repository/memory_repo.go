package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tieubaoca/recipe-assistant/types"
)

// MemoryExchangeRepo is an in-memory ExchangeRepo with the same
// transition semantics as the MongoDB implementation. Used by tests and
// for running the pipeline without a database.
type MemoryExchangeRepo struct {
	mu        sync.Mutex
	exchanges map[string]*types.Exchange
	feedback  []types.Feedback
}

func NewMemoryExchangeRepo() *MemoryExchangeRepo {
	return &MemoryExchangeRepo{exchanges: make(map[string]*types.Exchange)}
}

func (r *MemoryExchangeRepo) CreateExchange(ctx context.Context, exchange *types.Exchange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exchanges[exchange.ID]; ok {
		return fmt.Errorf("exchange %s already exists", exchange.ID)
	}
	copied := *exchange
	r.exchanges[exchange.ID] = &copied
	return nil
}

func (r *MemoryExchangeRepo) CompleteExchange(ctx context.Context, id string, result types.ExchangeResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	exchange, ok := r.exchanges[id]
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownExchange, id)
	}
	if exchange.Status != types.StatusCreated {
		return fmt.Errorf("%w: %s", types.ErrDuplicateRecord, id)
	}
	exchange.Status = result.Status
	exchange.FailureKind = result.FailureKind
	exchange.Candidates = result.Candidates
	exchange.Answer = result.Answer
	exchange.ModelUsed = result.ModelUsed
	exchange.ResponseTime = result.ResponseTime
	exchange.Relevance = result.Relevance
	exchange.RelevanceExplanation = result.RelevanceExplanation
	exchange.PromptTokens = result.PromptTokens
	exchange.CompletionTokens = result.CompletionTokens
	exchange.TotalTokens = result.TotalTokens
	exchange.EvalPromptTokens = result.EvalPromptTokens
	exchange.EvalCompletionTokens = result.EvalCompletionTokens
	exchange.EvalTotalTokens = result.EvalTotalTokens
	exchange.EstimatedCost = result.EstimatedCost
	return nil
}

func (r *MemoryExchangeRepo) GetExchange(ctx context.Context, id string) (*types.Exchange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exchange, ok := r.exchanges[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownExchange, id)
	}
	copied := *exchange
	return &copied, nil
}

func (r *MemoryExchangeRepo) ListRecent(ctx context.Context, limit int64, relevance string) ([]types.Exchange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var exchanges []types.Exchange
	for _, exchange := range r.exchanges {
		if relevance != "" && exchange.Relevance != relevance {
			continue
		}
		exchanges = append(exchanges, *exchange)
	}
	sort.Slice(exchanges, func(i, j int) bool {
		return exchanges[i].CreatedAt > exchanges[j].CreatedAt
	})
	if limit > 0 && int64(len(exchanges)) > limit {
		exchanges = exchanges[:limit]
	}
	return exchanges, nil
}

func (r *MemoryExchangeRepo) CreateFeedback(ctx context.Context, feedback *types.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exchanges[feedback.ExchangeID]; !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownExchange, feedback.ExchangeID)
	}
	r.feedback = append(r.feedback, *feedback)
	return nil
}

func (r *MemoryExchangeRepo) FeedbackStats(ctx context.Context) (*types.FeedbackStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &types.FeedbackStats{}
	for _, fb := range r.feedback {
		if fb.Rating > 0 {
			stats.ThumbsUp++
		} else if fb.Rating < 0 {
			stats.ThumbsDown++
		}
	}
	return stats, nil
}

// FeedbackCount reports how many feedback rows exist, for tests.
func (r *MemoryExchangeRepo) FeedbackCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.feedback)
}
