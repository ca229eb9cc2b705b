package service

import (
	"context"

	"github.com/tieubaoca/recipe-assistant/types"
)

// AIService is the capability interface over the answer-generation
// backend. Implementations enforce their own timeout and classify
// failures as types.ErrGenerationFailed.
type AIService interface {
	Generate(ctx context.Context, prompt string) (*types.Generation, error)
}

// RelevanceEvaluator judges a generated answer against its question
// with a second model call. Optional; the pipeline works without it.
type RelevanceEvaluator interface {
	EvaluateRelevance(ctx context.Context, question, answer string) (*types.RelevanceEvaluation, error)
}
