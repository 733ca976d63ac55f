package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/irahardianto/memsafe/internal/engine/config"
)

var (
	// ErrMissingAPIKey is returned when the selected provider has no credential.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrInvalidAPIKey is returned when a credential has an impossible format.
	ErrInvalidAPIKey = errors.New("invalid API key format")
)

const (
	openAIKeyPrefix    = "sk-"
	openAIMinKeyLength = 20
)

// keyEnvVars names the environment variable users should set per provider.
var keyEnvVars = map[config.Provider]string{
	config.ProviderOpenAI:      "OPENAI_API_KEY",
	config.ProviderGemini:      "GEMINI_API_KEY",
	config.ProviderHuggingFace: "HUGGINGFACE_API_TOKEN",
}

// NormalizeAPIKey trims whitespace and surrounding quotes left over from .env files.
func NormalizeAPIKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.Trim(key, `"'`)
	return strings.TrimSpace(key)
}

// ValidateAPIKey checks a provider credential before any request is made.
// A non-empty warning is returned for keys that look unusual but may still work.
func ValidateAPIKey(provider config.Provider, key string) (warning string, err error) {
	key = NormalizeAPIKey(key)
	if key == "" {
		return "", fmt.Errorf("%w: set %s in the environment, a .env file or the config file", ErrMissingAPIKey, keyEnvVars[provider])
	}

	if provider != config.ProviderOpenAI {
		return "", nil
	}

	if !strings.HasPrefix(key, openAIKeyPrefix) {
		return "", fmt.Errorf("%w: OpenAI API keys should start with %q", ErrInvalidAPIKey, openAIKeyPrefix)
	}
	if len(key) < openAIMinKeyLength {
		return "API key seems too short, valid OpenAI keys are typically 51+ characters", nil
	}
	return "", nil
}
