package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/recipe-assistant/config"
	"github.com/tieubaoca/recipe-assistant/types"
	"google.golang.org/api/option"
)

// GeminiService is the Gemini generation backend. Multiple API keys can
// be supplied; on a backend error the service rotates to the next key
// and retries once.
type GeminiService struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
	model      *genai.GenerativeModel
	modelName  string
	timeout    time.Duration
	mu         sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string, genCfg config.GenerationConfig) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	service := &GeminiService{
		apiKeys:    apiKeys,
		currentKey: 0,
		modelName:  modelName,
		timeout:    time.Duration(genCfg.TimeoutSeconds) * time.Second,
	}

	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	s.model = client.GenerativeModel(s.modelName)
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	currentKey := (s.currentKey + 1) % len(s.apiKeys)
	s.currentKey = currentKey
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

func (s *GeminiService) Generate(ctx context.Context, prompt string) (*types.Generation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		// Try rotating API key if there's an error
		if rotateErr := s.rotateAPIKey(); rotateErr != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrGenerationFailed, rotateErr)
		}
		resp, err = s.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrGenerationFailed, err)
		}
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no response generated", types.ErrGenerationFailed)
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					content += string(text)
				}
			}
		}
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty model output", types.ErrGenerationFailed)
	}

	gen := &types.Generation{
		Answer:       content,
		Model:        s.modelName,
		ResponseTime: time.Since(start).Seconds(),
	}
	if resp.UsageMetadata != nil {
		gen.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		gen.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		gen.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return gen, nil
}
