package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irahardianto/memsafe/internal/platform/logger"
	"google.golang.org/genai"
)

// GenerativeClient abstracts the Gemini generative AI client for testability.
type GenerativeClient interface {
	// GenerateContent sends a prompt and returns a response.
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientFactory creates a GenerativeClient. Production code uses DefaultClientFactory;
// tests inject a factory that returns a mock.
type ClientFactory func(ctx context.Context, apiKey string) (GenerativeClient, error)

// genaiClient wraps the real genai.Client to satisfy GenerativeClient.
type genaiClient struct {
	inner *genai.Client
}

func (g *genaiClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.inner.Models.GenerateContent(ctx, model, contents, config)
}

// DefaultClientFactory creates a real Gemini API client.
func DefaultClientFactory(ctx context.Context, apiKey string) (GenerativeClient, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &genaiClient{inner: c}, nil
}

// GeminiClient implements Client using the Google Gemini API.
type GeminiClient struct {
	apiKey  string
	model   string
	factory ClientFactory
	policy  retryPolicy
}

// NewGeminiClient creates a new GeminiClient.
// The apiKey must be non-empty; callers should validate before construction.
// The factory creates the underlying generative client; use DefaultClientFactory for production.
func NewGeminiClient(apiKey, model string, timeout time.Duration, factory ClientFactory) *GeminiClient {
	if model == "" {
		model = "gemini-3-pro"
	}
	if factory == nil {
		factory = DefaultClientFactory
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		factory: factory,
		policy:  retryPolicy{timeout: timeout},
	}
}

// Complete sends a prompt to Gemini and returns the raw answer text.
// Uses structured output mode so the answer is usually a bare JSON object.
// Retries up to 3 times with exponential backoff (1s → 2s → 4s).
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx)
	log.Info("starting LLM request", "provider", "gemini", "model", c.model)
	start := time.Now()

	client, err := c.factory(ctx, c.apiKey)
	if err != nil {
		return "", fmt.Errorf("creating Gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema(),
	}

	text, err := withRetry(ctx, "gemini", c.policy, func(reqCtx context.Context) (string, error) {
		resp, err := client.GenerateContent(reqCtx, c.model, genai.Text(prompt), config)
		if err != nil {
			return "", err
		}
		return extractText(resp)
	})
	if err != nil {
		return "", err
	}

	log.Info("LLM request complete",
		"provider", "gemini",
		"model", c.model,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// extractText pulls the text content from a Gemini response.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("empty response from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content parts in response")
	}
	part := candidate.Content.Parts[0]
	if part.Text == "" {
		return "", errors.New("empty text in response part")
	}
	return part.Text, nil
}

// analysisSchema returns the JSON schema of the analysis document
// used with Gemini's structured output mode.
func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":      {Type: genai.TypeString, Description: "One paragraph summary"},
			"safety_score": {Type: genai.TypeInteger, Description: "0 (unsafe) to 100 (safe)"},
			"vulnerabilities": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"type":                        {Type: genai.TypeString},
						"severity":                    {Type: genai.TypeString, Enum: []string{"Low", "Medium", "High", "Critical"}},
						"cwe":                         {Type: genai.TypeInteger, Description: "CWE number without prefix"},
						"explanation":                 {Type: genai.TypeString},
						"insecure_snippet_start_line": {Type: genai.TypeInteger, Description: "Line number (1-based)"},
						"insecure_snippet_end_line":   {Type: genai.TypeInteger, Description: "Line number (1-based, inclusive)"},
						"pattern":                     {Type: genai.TypeString, Description: "Literal text copied from the vulnerable line"},
					},
					Required: []string{"type", "severity", "explanation"},
				},
			},
			"suggested_rust": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"rust_snippet": {Type: genai.TypeString},
						"why_safe":     {Type: genai.TypeString},
					},
				},
			},
		},
		Required: []string{"summary", "safety_score", "vulnerabilities"},
	}
}
