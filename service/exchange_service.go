package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tieubaoca/recipe-assistant/repository"
	"github.com/tieubaoca/recipe-assistant/types"
)

// ExchangeRecorder is the pipeline's view of exchange persistence: open
// a record before work starts, close it with exactly one result.
type ExchangeRecorder interface {
	// RecordStart creates an exchange in "created" state and returns
	// its id.
	RecordStart(ctx context.Context, query types.Query) (string, error)
	// RecordResult writes the terminal outcome. Calling it twice for
	// the same id returns types.ErrDuplicateRecord.
	RecordResult(ctx context.Context, id string, result types.ExchangeResult) error
	// RecordFeedback attaches a rating to an existing exchange and
	// returns the feedback id.
	RecordFeedback(ctx context.Context, exchangeID string, rating int, comment string) (string, error)
}

// ExchangeService implements ExchangeRecorder over the exchange
// repository and exposes the read-side queries the API serves.
type ExchangeService struct {
	repo repository.ExchangeRepo
}

func NewExchangeService(repo repository.ExchangeRepo) *ExchangeService {
	return &ExchangeService{repo: repo}
}

func (s *ExchangeService) RecordStart(ctx context.Context, query types.Query) (string, error) {
	exchange := &types.Exchange{
		ID:        uuid.NewString(),
		Question:  query.Question,
		Status:    types.StatusCreated,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.repo.CreateExchange(ctx, exchange); err != nil {
		return "", err
	}
	return exchange.ID, nil
}

func (s *ExchangeService) RecordResult(ctx context.Context, id string, result types.ExchangeResult) error {
	return s.repo.CompleteExchange(ctx, id, result)
}

func (s *ExchangeService) RecordFeedback(ctx context.Context, exchangeID string, rating int, comment string) (string, error) {
	feedback := &types.Feedback{
		ID:         uuid.NewString(),
		ExchangeID: exchangeID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now().Unix(),
	}
	if err := s.repo.CreateFeedback(ctx, feedback); err != nil {
		return "", err
	}
	return feedback.ID, nil
}

func (s *ExchangeService) GetExchange(ctx context.Context, id string) (*types.Exchange, error) {
	return s.repo.GetExchange(ctx, id)
}

func (s *ExchangeService) ListRecent(ctx context.Context, limit int64, relevance string) ([]types.Exchange, error) {
	return s.repo.ListRecent(ctx, limit, relevance)
}

func (s *ExchangeService) FeedbackStats(ctx context.Context) (*types.FeedbackStats, error) {
	return s.repo.FeedbackStats(ctx)
}
