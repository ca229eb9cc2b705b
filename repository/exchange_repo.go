package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tieubaoca/recipe-assistant/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ExchangeRepo owns the durable store for exchanges and feedback.
// All writes are transactional at single-document granularity, which is
// what MongoDB guarantees per operation.
type ExchangeRepo interface {
	CreateExchange(ctx context.Context, exchange *types.Exchange) error
	// CompleteExchange moves an exchange from "created" to its terminal
	// state exactly once. A second call for the same id returns
	// types.ErrDuplicateRecord; an unknown id returns
	// types.ErrUnknownExchange.
	CompleteExchange(ctx context.Context, id string, result types.ExchangeResult) error
	GetExchange(ctx context.Context, id string) (*types.Exchange, error)
	ListRecent(ctx context.Context, limit int64, relevance string) ([]types.Exchange, error)

	// CreateFeedback attaches feedback to an existing exchange,
	// regardless of the exchange's answered/failed state. Returns
	// types.ErrUnknownExchange without writing when the exchange does
	// not exist.
	CreateFeedback(ctx context.Context, feedback *types.Feedback) error
	FeedbackStats(ctx context.Context) (*types.FeedbackStats, error)
}

type exchangeRepo struct {
	exchanges *mongo.Collection
	feedback  *mongo.Collection
}

func NewExchangeRepo(db *mongo.Database) ExchangeRepo {
	return &exchangeRepo{
		exchanges: db.Collection("exchanges"),
		feedback:  db.Collection("feedback"),
	}
}

// NewMongoClient connects to MongoDB with the given URI.
func NewMongoClient(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the repo queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("exchanges").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create exchanges index: %w", err)
	}
	_, err = db.Collection("feedback").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "exchange_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create feedback index: %w", err)
	}
	return nil
}

func (r *exchangeRepo) CreateExchange(ctx context.Context, exchange *types.Exchange) error {
	_, err := r.exchanges.InsertOne(ctx, exchange)
	return err
}

func (r *exchangeRepo) CompleteExchange(ctx context.Context, id string, result types.ExchangeResult) error {
	update := bson.M{"$set": bson.M{
		"status":                 result.Status,
		"failure_kind":           result.FailureKind,
		"candidates":             result.Candidates,
		"answer":                 result.Answer,
		"model_used":             result.ModelUsed,
		"response_time":          result.ResponseTime,
		"relevance":              result.Relevance,
		"relevance_explanation":  result.RelevanceExplanation,
		"prompt_tokens":          result.PromptTokens,
		"completion_tokens":      result.CompletionTokens,
		"total_tokens":           result.TotalTokens,
		"eval_prompt_tokens":     result.EvalPromptTokens,
		"eval_completion_tokens": result.EvalCompletionTokens,
		"eval_total_tokens":      result.EvalTotalTokens,
		"estimated_cost":         result.EstimatedCost,
	}}

	// Matching on status makes the created -> terminal transition one-way.
	res, err := r.exchanges.UpdateOne(ctx, bson.M{"_id": id, "status": types.StatusCreated}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetExchange(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", types.ErrDuplicateRecord, id)
	}
	return nil
}

func (r *exchangeRepo) GetExchange(ctx context.Context, id string) (*types.Exchange, error) {
	var exchange types.Exchange
	err := r.exchanges.FindOne(ctx, bson.M{"_id": id}).Decode(&exchange)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownExchange, id)
	}
	if err != nil {
		return nil, err
	}
	return &exchange, nil
}

func (r *exchangeRepo) ListRecent(ctx context.Context, limit int64, relevance string) ([]types.Exchange, error) {
	filter := bson.M{}
	if relevance != "" {
		filter["relevance"] = relevance
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.exchanges.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exchanges []types.Exchange
	for cursor.Next(ctx) {
		var exchange types.Exchange
		if err := cursor.Decode(&exchange); err != nil {
			return nil, err
		}
		exchanges = append(exchanges, exchange)
	}
	return exchanges, cursor.Err()
}

func (r *exchangeRepo) CreateFeedback(ctx context.Context, feedback *types.Feedback) error {
	count, err := r.exchanges.CountDocuments(ctx, bson.M{"_id": feedback.ExchangeID})
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", types.ErrUnknownExchange, feedback.ExchangeID)
	}
	_, err = r.feedback.InsertOne(ctx, feedback)
	return err
}

func (r *exchangeRepo) FeedbackStats(ctx context.Context) (*types.FeedbackStats, error) {
	up, err := r.feedback.CountDocuments(ctx, bson.M{"rating": bson.M{"$gt": 0}})
	if err != nil {
		return nil, err
	}
	down, err := r.feedback.CountDocuments(ctx, bson.M{"rating": bson.M{"$lt": 0}})
	if err != nil {
		return nil, err
	}
	return &types.FeedbackStats{ThumbsUp: up, ThumbsDown: down}, nil
}
