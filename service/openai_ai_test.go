package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tieubaoca/recipe-assistant/types"
)

func TestStripCodeFences(t *testing.T) {
	raw := "```json\n{\"Relevance\": \"RELEVANT\"}\n```"
	assert.Equal(t, `{"Relevance": "RELEVANT"}`, stripCodeFences(raw))

	plain := `{"Relevance": "RELEVANT"}`
	assert.Equal(t, plain, stripCodeFences(plain))
}

func TestEstimateCostKnownModel(t *testing.T) {
	gen := &types.Generation{PromptTokens: 1000, CompletionTokens: 500}
	eval := &types.RelevanceEvaluation{PromptTokens: 200, CompletionTokens: 100}

	cost := EstimateCost("gpt-4o-mini", gen, eval)
	assert.InDelta(t, (1200*0.00015+600*0.0006)/1000, cost, 1e-12)
}

func TestEstimateCostWithoutEvaluation(t *testing.T) {
	gen := &types.Generation{PromptTokens: 1000, CompletionTokens: 500}

	cost := EstimateCost("gpt-4o-mini", gen, nil)
	assert.InDelta(t, (1000*0.00015+500*0.0006)/1000, cost, 1e-12)
}

func TestEstimateCostUnknownModel(t *testing.T) {
	gen := &types.Generation{PromptTokens: 1000, CompletionTokens: 500}

	assert.Zero(t, EstimateCost("some-local-model", gen, nil))
}
