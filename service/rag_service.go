package service

import (
	"context"
	"log"
	"time"

	"github.com/tieubaoca/recipe-assistant/types"
)

// Retriever produces ranked candidates for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query types.Query, k int) ([]types.Candidate, error)
}

// RAGService orchestrates one question through the full pipeline:
// retrieve, build prompt, generate, record. Every run writes exactly one
// terminal result to the exchange record, whichever way it ends.
type RAGService struct {
	retriever Retriever
	ai        AIService
	exchanges ExchangeRecorder
	// evaluator is optional; nil disables answer self-evaluation.
	evaluator RelevanceEvaluator
	topK      int
}

func NewRAGService(retriever Retriever, ai AIService, exchanges ExchangeRecorder, evaluator RelevanceEvaluator, topK int) *RAGService {
	return &RAGService{
		retriever: retriever,
		ai:        ai,
		exchanges: exchanges,
		evaluator: evaluator,
		topK:      topK,
	}
}

// Ask answers one question. The exchange record is opened before any
// work starts and closed with exactly one terminal result on every exit
// path, including cancellation.
func (s *RAGService) Ask(ctx context.Context, query types.Query) (*types.AskResponse, error) {
	start := time.Now()

	exchangeID, err := s.exchanges.RecordStart(ctx, query)
	if err != nil {
		return nil, err
	}

	recorded := false
	defer func() {
		if recorded {
			return
		}
		// The request context may already be dead; the record write
		// must still land.
		recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		s.recordFailure(recordCtx, exchangeID, nil, types.FailureCancelled)
	}()

	candidates, err := s.retriever.Retrieve(ctx, query, s.topK)
	if err != nil {
		recorded = true
		s.recordFailure(context.WithoutCancel(ctx), exchangeID, nil, failureKind(ctx, types.FailureRetrievalUnavailable))
		return nil, err
	}

	prompt := BuildPrompt(query.Question, candidates)

	gen, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		recorded = true
		s.recordFailure(context.WithoutCancel(ctx), exchangeID, candidates, failureKind(ctx, types.FailureGenerationFailed))
		return nil, err
	}

	result := types.ExchangeResult{
		Status:           types.StatusAnswered,
		Candidates:       types.Refs(candidates),
		Answer:           gen.Answer,
		ModelUsed:        gen.Model,
		PromptTokens:     gen.PromptTokens,
		CompletionTokens: gen.CompletionTokens,
		TotalTokens:      gen.TotalTokens,
	}

	var eval *types.RelevanceEvaluation
	if s.evaluator != nil {
		eval, err = s.evaluator.EvaluateRelevance(ctx, query.Question, gen.Answer)
		if err != nil {
			// Evaluation is best-effort; the answer stands without it.
			log.Printf("Relevance evaluation failed for exchange %s: %v", exchangeID, err)
			eval = nil
		} else {
			result.Relevance = eval.Relevance
			result.RelevanceExplanation = eval.Explanation
			result.EvalPromptTokens = eval.PromptTokens
			result.EvalCompletionTokens = eval.CompletionTokens
			result.EvalTotalTokens = eval.TotalTokens
		}
	}
	result.EstimatedCost = EstimateCost(gen.Model, gen, eval)
	result.ResponseTime = time.Since(start).Seconds()

	// Flip the flag before the write: if the write itself errors we must
	// not follow up with a second, contradictory record. The answer was
	// produced, so the terminal write goes through even if the caller
	// disconnected meanwhile.
	recorded = true
	if err := s.exchanges.RecordResult(context.WithoutCancel(ctx), exchangeID, result); err != nil {
		return nil, err
	}

	resp := &types.AskResponse{
		ExchangeID:    exchangeID,
		Question:      query.Question,
		Answer:        gen.Answer,
		Sources:       make([]types.SourceRef, 0, len(candidates)),
		ModelUsed:     gen.Model,
		ResponseTime:  result.ResponseTime,
		EstimatedCost: result.EstimatedCost,
	}
	for _, c := range candidates {
		resp.Sources = append(resp.Sources, types.SourceRef{
			ID:    c.Document.ID,
			Title: c.Document.Title,
			Score: c.Score,
		})
	}
	if eval != nil {
		resp.Relevance = eval.Relevance
		resp.RelevanceExplanation = eval.Explanation
	}
	return resp, nil
}

func (s *RAGService) recordFailure(ctx context.Context, exchangeID string, candidates []types.Candidate, kind string) {
	err := s.exchanges.RecordResult(ctx, exchangeID, types.ExchangeResult{
		Status:      types.StatusFailed,
		Candidates:  types.Refs(candidates),
		FailureKind: kind,
	})
	if err != nil {
		log.Printf("Failed to record %s failure for exchange %s: %v", kind, exchangeID, err)
	}
}

// failureKind maps a pipeline failure to its recorded kind. A dead
// request context takes precedence: the caller went away, not the backend.
func failureKind(ctx context.Context, kind string) string {
	if ctx.Err() != nil {
		return types.FailureCancelled
	}
	return kind
}
