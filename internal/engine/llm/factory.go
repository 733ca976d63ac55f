package llm

import (
	"context"
	"fmt"

	"github.com/irahardianto/memsafe/internal/engine/config"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

// Factories holds the injectable constructors for provider SDK clients.
// Zero values select the production implementations.
type Factories struct {
	Gemini ClientFactory
	OpenAI GeneratorFactory
	// HuggingFaceBaseURL overrides the inference endpoint; used by tests.
	HuggingFaceBaseURL string
}

// NewClient builds the Client for the provider selected in cfg.
// The API key is validated first; format warnings are logged, not returned.
// The result is rate limited according to cfg.RequestsPerMinute.
func NewClient(ctx context.Context, cfg *config.Config, f Factories) (Client, error) {
	provider, err := config.ParseProvider(string(cfg.Provider))
	if err != nil {
		return nil, err
	}

	key := NormalizeAPIKey(cfg.APIKey().Value())
	warning, err := ValidateAPIKey(provider, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", provider, err)
	}
	if warning != "" {
		logger.FromContext(ctx).Warn(warning, "provider", provider)
	}

	model := cfg.ModelName()

	var c Client
	switch provider {
	case config.ProviderGemini:
		c = NewGeminiClient(key, model, cfg.Timeout, f.Gemini)
	case config.ProviderHuggingFace:
		c = NewHuggingFaceClient(key, model, f.HuggingFaceBaseURL, cfg.Timeout, nil)
	default:
		c = NewOpenAIClient(key, cfg.OpenAIBaseURL, model, cfg.Timeout, f.OpenAI)
	}

	return WithRateLimit(c, cfg.RequestsPerMinute), nil
}
