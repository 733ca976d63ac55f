// Package llm sends memory-safety analysis prompts to language-model providers.
package llm

import (
	"context"
)

// Client abstracts LLM API interaction for testability.
type Client interface {
	// Complete sends a prompt to the model and returns its raw text answer.
	// The answer is untrusted and is interpreted by the parser package.
	Complete(ctx context.Context, prompt string) (string, error)
}
