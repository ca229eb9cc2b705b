package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/recipe-assistant/types"
)

// fakeAI returns a canned answer, or fails, or blocks until the context dies.
type fakeAI struct {
	answer string
	err    error
	block  bool
}

func (f *fakeAI) Generate(ctx context.Context, prompt string) (*types.Generation, error) {
	if f.block {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %v", types.ErrGenerationFailed, ctx.Err())
	}
	if f.err != nil {
		return nil, f.err
	}
	return &types.Generation{
		Answer:           f.answer,
		Model:            "test-model",
		PromptTokens:     100,
		CompletionTokens: 40,
		TotalTokens:      140,
	}, nil
}

type fakeRetriever struct {
	candidates []types.Candidate
	err        error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query types.Query, k int) ([]types.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

// countingRecorder tracks every terminal write so tests can assert the
// exactly-one-result guarantee.
type countingRecorder struct {
	mu      sync.Mutex
	started int
	results map[string][]types.ExchangeResult
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{results: make(map[string][]types.ExchangeResult)}
}

func (r *countingRecorder) RecordStart(ctx context.Context, query types.Query) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
	return fmt.Sprintf("ex-%d", r.started), nil
}

func (r *countingRecorder) RecordResult(ctx context.Context, id string, result types.ExchangeResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[id] = append(r.results[id], result)
	if len(r.results[id]) > 1 {
		return types.ErrDuplicateRecord
	}
	return nil
}

func (r *countingRecorder) RecordFeedback(ctx context.Context, exchangeID string, rating int, comment string) (string, error) {
	return "", nil
}

func (r *countingRecorder) resultsFor(id string) []types.ExchangeResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[id]
}

func ragCandidates() []types.Candidate {
	return []types.Candidate{
		{
			Document: types.RecipeDocument{
				ID:          "r1",
				Title:       "Chicken Rice",
				Ingredients: []string{"chicken", "rice"},
			},
			Score: 7.0,
			Rank:  1,
		},
	}
}

func TestAskSuccessRecordsExactlyOneAnsweredResult(t *testing.T) {
	recorder := newCountingRecorder()
	svc := NewRAGService(
		&fakeRetriever{candidates: ragCandidates()},
		&fakeAI{answer: "Make chicken rice."},
		recorder,
		nil,
		5,
	)

	res, err := svc.Ask(context.Background(), types.Query{Question: "What can I cook with chicken and rice?"})
	require.NoError(t, err)

	assert.Equal(t, "Make chicken rice.", res.Answer)
	assert.Equal(t, "test-model", res.ModelUsed)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, "r1", res.Sources[0].ID)

	results := recorder.resultsFor(res.ExchangeID)
	require.Len(t, results, 1)
	assert.Equal(t, types.StatusAnswered, results[0].Status)
	assert.Equal(t, "Make chicken rice.", results[0].Answer)
	assert.Equal(t, 140, results[0].TotalTokens)
	require.Len(t, results[0].Candidates, 1)
	assert.Equal(t, "r1", results[0].Candidates[0].ID)
}

func TestAskRetrievalFailureRecordsFailedResult(t *testing.T) {
	recorder := newCountingRecorder()
	svc := NewRAGService(
		&fakeRetriever{err: fmt.Errorf("%w: connection refused", types.ErrRetrievalUnavailable)},
		&fakeAI{answer: "unused"},
		recorder,
		nil,
		5,
	)

	_, err := svc.Ask(context.Background(), types.Query{Question: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrRetrievalUnavailable)

	results := recorder.resultsFor("ex-1")
	require.Len(t, results, 1)
	assert.Equal(t, types.StatusFailed, results[0].Status)
	assert.Equal(t, types.FailureRetrievalUnavailable, results[0].FailureKind)
}

func TestAskGenerationFailureRecordsFailedResult(t *testing.T) {
	recorder := newCountingRecorder()
	svc := NewRAGService(
		&fakeRetriever{candidates: ragCandidates()},
		&fakeAI{err: fmt.Errorf("%w: model exploded", types.ErrGenerationFailed)},
		recorder,
		nil,
		5,
	)

	_, err := svc.Ask(context.Background(), types.Query{Question: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrGenerationFailed)

	results := recorder.resultsFor("ex-1")
	require.Len(t, results, 1)
	assert.Equal(t, types.StatusFailed, results[0].Status)
	assert.Equal(t, types.FailureGenerationFailed, results[0].FailureKind)
	// What was retrieved is still recorded on the failure.
	require.Len(t, results[0].Candidates, 1)
}

func TestAskEmptyRetrievalStillAnswers(t *testing.T) {
	recorder := newCountingRecorder()
	svc := NewRAGService(
		&fakeRetriever{candidates: nil},
		&fakeAI{answer: "No matching recipes were found."},
		recorder,
		nil,
		5,
	)

	res, err := svc.Ask(context.Background(), types.Query{Question: "something obscure"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Answer)
	assert.Empty(t, res.Sources)

	results := recorder.resultsFor(res.ExchangeID)
	require.Len(t, results, 1)
	assert.Equal(t, types.StatusAnswered, results[0].Status)
}

func TestAskCancellationRecordsCancelledResult(t *testing.T) {
	recorder := newCountingRecorder()
	svc := NewRAGService(
		&fakeRetriever{candidates: ragCandidates()},
		&fakeAI{block: true},
		recorder,
		nil,
		5,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Ask(ctx, types.Query{Question: "q"})
	require.Error(t, err)

	results := recorder.resultsFor("ex-1")
	require.Len(t, results, 1)
	assert.Equal(t, types.StatusFailed, results[0].Status)
	assert.Equal(t, types.FailureCancelled, results[0].FailureKind)
}

func TestAskUsesEvaluatorWhenConfigured(t *testing.T) {
	recorder := newCountingRecorder()
	svc := NewRAGService(
		&fakeRetriever{candidates: ragCandidates()},
		&fakeAI{answer: "Make chicken rice."},
		recorder,
		fakeEvaluator{relevance: types.RelevanceRelevant},
		5,
	)

	res, err := svc.Ask(context.Background(), types.Query{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, types.RelevanceRelevant, res.Relevance)

	results := recorder.resultsFor(res.ExchangeID)
	require.Len(t, results, 1)
	assert.Equal(t, types.RelevanceRelevant, results[0].Relevance)
}

func TestAskEvaluatorFailureDoesNotFailRequest(t *testing.T) {
	recorder := newCountingRecorder()
	svc := NewRAGService(
		&fakeRetriever{candidates: ragCandidates()},
		&fakeAI{answer: "Make chicken rice."},
		recorder,
		fakeEvaluator{err: errors.New("evaluator down")},
		5,
	)

	res, err := svc.Ask(context.Background(), types.Query{Question: "q"})
	require.NoError(t, err)
	assert.Empty(t, res.Relevance)

	results := recorder.resultsFor(res.ExchangeID)
	require.Len(t, results, 1)
	assert.Equal(t, types.StatusAnswered, results[0].Status)
}

type fakeEvaluator struct {
	relevance string
	err       error
}

func (f fakeEvaluator) EvaluateRelevance(ctx context.Context, question, answer string) (*types.RelevanceEvaluation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.RelevanceEvaluation{
		Relevance:   f.relevance,
		Explanation: "test evaluation",
	}, nil
}
