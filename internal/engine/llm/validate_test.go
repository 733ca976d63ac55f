package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/irahardianto/memsafe/internal/engine/config"
)

func TestValidateAPIKey(t *testing.T) {
	long := "sk-" + strings.Repeat("a", 48)

	tests := []struct {
		name        string
		provider    config.Provider
		key         string
		wantErr     error
		wantWarning bool
	}{
		{"openai valid", config.ProviderOpenAI, long, nil, false},
		{"openai quoted", config.ProviderOpenAI, `"` + long + `"`, nil, false},
		{"openai short", config.ProviderOpenAI, "sk-short", nil, true},
		{"openai wrong prefix", config.ProviderOpenAI, "pk-" + strings.Repeat("a", 48), ErrInvalidAPIKey, false},
		{"openai missing", config.ProviderOpenAI, "", ErrMissingAPIKey, false},
		{"openai whitespace", config.ProviderOpenAI, "   ", ErrMissingAPIKey, false},
		{"gemini any format", config.ProviderGemini, "AIza123", nil, false},
		{"gemini missing", config.ProviderGemini, "", ErrMissingAPIKey, false},
		{"huggingface any format", config.ProviderHuggingFace, "hf_x", nil, false},
		{"huggingface missing", config.ProviderHuggingFace, "", ErrMissingAPIKey, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning, err := ValidateAPIKey(tt.provider, tt.key)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (warning != "") != tt.wantWarning {
				t.Errorf("warning = %q, wantWarning %v", warning, tt.wantWarning)
			}
		})
	}
}

func TestValidateAPIKey_MissingNamesEnvVar(t *testing.T) {
	_, err := ValidateAPIKey(config.ProviderHuggingFace, "")
	if err == nil || !strings.Contains(err.Error(), "HUGGINGFACE_API_TOKEN") {
		t.Errorf("expected error to name HUGGINGFACE_API_TOKEN, got %v", err)
	}
}

func TestNormalizeAPIKey(t *testing.T) {
	tests := map[string]string{
		"  sk-abc  ": "sk-abc",
		`"sk-abc"`:   "sk-abc",
		`'sk-abc'`:   "sk-abc",
		"\tsk-abc\n": "sk-abc",
		`" sk-abc "`: "sk-abc",
		"":           "",
	}
	for in, want := range tests {
		if got := NormalizeAPIKey(in); got != want {
			t.Errorf("NormalizeAPIKey(%q) = %q, want %q", in, got, want)
		}
	}
}
