package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/openai"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

// DefaultOpenAIBaseURL is used when no base URL is configured.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// TextGenerator abstracts a chat model that answers a single prompt.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// GeneratorFactory creates a TextGenerator. Production code uses DefaultGeneratorFactory;
// tests inject a factory that returns a mock.
type GeneratorFactory func(ctx context.Context, baseURL, apiKey, model string) (TextGenerator, error)

// fantasyGenerator wraps a fantasy language model to satisfy TextGenerator.
type fantasyGenerator struct {
	model fantasy.LanguageModel
}

func (g *fantasyGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	agent := fantasy.NewAgent(g.model, fantasy.WithSystemPrompt(system))
	result, err := agent.Generate(ctx, fantasy.AgentCall{
		Prompt: prompt,
	})
	if err != nil {
		return "", err
	}
	return result.Response.Content.Text(), nil
}

// DefaultGeneratorFactory creates a real OpenAI-compatible chat model.
func DefaultGeneratorFactory(ctx context.Context, baseURL, apiKey, model string) (TextGenerator, error) {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	provider, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithAPIKey(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI provider: %w", err)
	}

	lm, err := provider.LanguageModel(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("creating language model: %w", err)
	}
	return &fantasyGenerator{model: lm}, nil
}

// OpenAIClient implements Client using an OpenAI-compatible chat API.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	factory GeneratorFactory
	policy  retryPolicy
}

// NewOpenAIClient creates a new OpenAIClient.
// The apiKey should be checked with ValidateAPIKey before construction.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration, factory GeneratorFactory) *OpenAIClient {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if factory == nil {
		factory = DefaultGeneratorFactory
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		factory: factory,
		policy:  retryPolicy{timeout: timeout},
	}
}

// Complete sends a prompt to the chat model and returns the raw answer text.
// Retries up to 3 times with exponential backoff (1s → 2s → 4s).
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx)
	log.Info("starting LLM request", "provider", "openai", "model", c.model)
	start := time.Now()

	gen, err := c.factory(ctx, c.baseURL, c.apiKey, c.model)
	if err != nil {
		return "", fmt.Errorf("creating OpenAI client: %w", err)
	}

	text, err := withRetry(ctx, "openai", c.policy, func(reqCtx context.Context) (string, error) {
		out, err := gen.Generate(reqCtx, SystemPrompt, prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(out) == "" {
			return "", errors.New("empty response from OpenAI")
		}
		return out, nil
	})
	if err != nil {
		return "", err
	}

	log.Info("LLM request complete",
		"provider", "openai",
		"model", c.model,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
