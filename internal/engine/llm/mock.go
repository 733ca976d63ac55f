package llm

import (
	"context"
	"sync"
)

// MockClient is a test double for llm.Client.
type MockClient struct {
	Response string
	Err      error

	mu      sync.Mutex
	prompts []string
}

// Complete records the prompt and returns the configured response and error.
func (m *MockClient) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.Response, m.Err
}

// Prompts returns every prompt received so far.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
