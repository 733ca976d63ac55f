package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/irahardianto/memsafe/internal/platform/logger"
)

const (
	// DefaultHuggingFaceBaseURL is the inference endpoint prefix; the model id is appended.
	DefaultHuggingFaceBaseURL = "https://router.huggingface.co/models"
	// HuggingFaceAutoModel selects the first available model from the fallback list.
	HuggingFaceAutoModel = "auto"

	maxErrorBody = 4 << 10
)

// huggingFaceFallbackModels are small models that are usually served on the free tier.
var huggingFaceFallbackModels = []string{
	"bigscience/bloom-560m",
	"gpt2",
	"distilgpt2",
}

// HuggingFaceClient implements Client using the Hugging Face Inference API.
type HuggingFaceClient struct {
	token   string
	model   string
	baseURL string
	http    *http.Client
	policy  retryPolicy
}

// NewHuggingFaceClient creates a new HuggingFaceClient.
// An empty baseURL selects DefaultHuggingFaceBaseURL; a nil httpClient selects http.DefaultClient.
func NewHuggingFaceClient(token, model, baseURL string, timeout time.Duration, httpClient *http.Client) *HuggingFaceClient {
	if model == "" {
		model = "mistralai/Mistral-7B-Instruct-v0.2"
	}
	if baseURL == "" {
		baseURL = DefaultHuggingFaceBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HuggingFaceClient{
		token:   token,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		policy:  retryPolicy{timeout: timeout},
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Complete sends a prompt to the configured model and returns the generated text.
// With model "auto" each fallback model is tried in turn.
func (c *HuggingFaceClient) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx)

	models := []string{c.model}
	if c.model == HuggingFaceAutoModel {
		models = huggingFaceFallbackModels
	}

	var errs []error
	for _, model := range models {
		log.Info("starting LLM request", "provider", "huggingface", "model", model)
		start := time.Now()

		text, err := withRetry(ctx, "huggingface", c.policy, func(reqCtx context.Context) (string, error) {
			return c.generate(reqCtx, model, prompt)
		})
		if err == nil {
			log.Info("LLM request complete",
				"provider", "huggingface",
				"model", model,
				"chars", len(text),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return text, nil
		}
		if ctx.Err() != nil {
			return "", err
		}

		log.Warn("model unavailable", "provider", "huggingface", "model", model, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", model, err))
	}

	if len(errs) == 1 {
		return "", errs[0]
	}
	return "", fmt.Errorf("all Hugging Face models are unavailable: %w", errors.Join(errs...))
}

// generate performs one inference request.
func (c *HuggingFaceClient) generate(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: formatHuggingFacePrompt(model, prompt),
		Parameters: hfParameters{
			MaxNewTokens: 2000,
			Temperature:  0.1,
		},
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return "", permanent(fmt.Errorf("encoding request: %w", err))
	}

	endpoint := c.baseURL + "/" + escapeModelPath(model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", permanent(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-wait-for-model", "true")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if err := statusError(model, resp.StatusCode, data); err != nil {
		return "", err
	}

	text := cleanGenerated(extractGenerated(data))
	if text == "" {
		return "", errors.New("empty response from Hugging Face")
	}
	return text, nil
}

// statusError maps non-2xx responses to actionable errors. Loading, rate
// limiting and server errors stay retryable; everything else is permanent.
func statusError(model string, status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusServiceUnavailable:
		var info struct {
			EstimatedTime float64 `json:"estimated_time"`
		}
		wait := "unknown"
		if json.Unmarshal(body, &info) == nil && info.EstimatedTime > 0 {
			wait = fmt.Sprintf("%.0f", info.EstimatedTime)
		}
		return fmt.Errorf("model %q is loading (estimated wait: %s seconds), try again in a minute", model, wait)
	case status == http.StatusTooManyRequests:
		return errors.New("rate limit exceeded, the free tier allows a few requests per minute")
	case status == http.StatusGone:
		return permanent(fmt.Errorf("model %q is no longer available at this endpoint, choose a different model", model))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return permanent(fmt.Errorf("API token rejected by Hugging Face (%d)", status))
	case status >= 500:
		return fmt.Errorf("inference API error (%d): %s", status, truncate(body))
	default:
		return permanent(fmt.Errorf("inference API error (%d): %s", status, truncate(body)))
	}
}

// formatHuggingFacePrompt wraps the prompt in the chat markup the model family expects.
func formatHuggingFacePrompt(model, prompt string) string {
	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, "tinyllama"):
		return "<|user|>\n" + prompt + "<|assistant|>\n"
	case strings.Contains(m, "mistral"), strings.Contains(m, "zephyr"):
		return "<s>[INST] " + prompt + " [/INST]"
	default:
		return prompt
	}
}

// extractGenerated accepts the response shapes served by different inference
// backends: [{generated_text}], [{text}], {generated_text}, {text}, or a bare string.
// Anything else is returned as its JSON text so the interpreter can still try it.
func extractGenerated(data []byte) string {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}

	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		v = list[0]
	}

	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["generated_text"].(string); ok {
			return s
		}
		if s, ok := t["text"].(string); ok {
			return s
		}
	}

	out, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(out)
}

// cleanGenerated strips instruction markers echoed back by instruct models.
func cleanGenerated(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "[INST]")
	text = strings.TrimSuffix(text, "[/INST]")
	return strings.TrimSpace(text)
}

func escapeModelPath(model string) string {
	parts := strings.Split(model, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "…"
	}
	return s
}
