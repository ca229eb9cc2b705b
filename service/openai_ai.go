package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/recipe-assistant/config"
	"github.com/tieubaoca/recipe-assistant/types"
)

// OpenAIService generates answers through an OpenAI-compatible chat
// completion endpoint.
type OpenAIService struct {
	client         *openai.Client
	model          string
	timeout        time.Duration
	retryTransient bool
}

func NewOpenAIService(baseURL, apiKey, model string, genCfg config.GenerationConfig) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL // Set this to your local LLM server URL
	}
	client := openai.NewClientWithConfig(cfg)
	return &OpenAIService{
		client:         client,
		model:          model,
		timeout:        time.Duration(genCfg.TimeoutSeconds) * time.Second,
		retryTransient: genCfg.RetryTransient,
	}
}

// Generate invokes the model with a bounded timeout. Backend errors,
// timeouts, and empty output all surface as types.ErrGenerationFailed.
// When retry_transient is enabled, a rate-limit or server error is
// retried once, still bounded by the same deadline.
func (s *OpenAIService) Generate(ctx context.Context, prompt string) (*types.Generation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.complete(ctx, prompt)
	if err != nil && s.retryTransient && isTransientError(err) && ctx.Err() == nil {
		log.Printf("Transient generation error, retrying once: %v", err)
		resp, err = s.complete(ctx, prompt)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response generated", types.ErrGenerationFailed)
	}
	answer := resp.Choices[0].Message.Content
	if strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("%w: empty model output", types.ErrGenerationFailed)
	}

	return &types.Generation{
		Answer:           answer,
		Model:            s.model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		ResponseTime:     time.Since(start).Seconds(),
	}, nil
}

func (s *OpenAIService) complete(ctx context.Context, prompt string) (openai.ChatCompletionResponse, error) {
	return s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		},
	)
}

// EvaluateRelevance classifies the answer with a second model call.
// A response that cannot be parsed yields RelevanceUnknown, not an error.
func (s *OpenAIService) EvaluateRelevance(ctx context.Context, question, answer string) (*types.RelevanceEvaluation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.complete(ctx, BuildEvaluationPrompt(question, answer))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate answer: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("failed to evaluate answer: no response generated")
	}

	evaluation := &types.RelevanceEvaluation{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	content := stripCodeFences(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), evaluation); err != nil {
		evaluation.Relevance = types.RelevanceUnknown
		evaluation.Explanation = "Failed to parse evaluation"
	}
	return evaluation, nil
}

func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func isTransientError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	return false
}

// EstimateCost computes the approximate API cost in USD for one exchange.
func EstimateCost(model string, gen *types.Generation, eval *types.RelevanceEvaluation) float64 {
	if model != "gpt-4o-mini" {
		return 0
	}
	promptTokens := gen.PromptTokens
	completionTokens := gen.CompletionTokens
	if eval != nil {
		promptTokens += eval.PromptTokens
		completionTokens += eval.CompletionTokens
	}
	return (float64(promptTokens)*0.00015 + float64(completionTokens)*0.0006) / 1000
}
