package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irahardianto/memsafe/internal/platform/logger"
)

const (
	maxRetries            = 3
	defaultRequestTimeout = 120 * time.Second
	initialBackoff        = 1 * time.Second
)

// permanentError marks a failure that another attempt cannot fix,
// such as a rejected API key or a model that no longer exists.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return &permanentError{err: err}
}

// retryPolicy controls how withRetry spaces and bounds attempts.
type retryPolicy struct {
	timeout time.Duration
	backoff time.Duration
}

func (p retryPolicy) withDefaults() retryPolicy {
	if p.timeout <= 0 {
		p.timeout = defaultRequestTimeout
	}
	if p.backoff <= 0 {
		p.backoff = initialBackoff
	}
	return p
}

// withRetry runs attempt up to maxRetries times with exponential backoff
// (1s → 2s → 4s by default). Each attempt gets its own timeout.
func withRetry(ctx context.Context, provider string, policy retryPolicy, attempt func(ctx context.Context) (string, error)) (string, error) {
	log := logger.FromContext(ctx)
	policy = policy.withDefaults()

	var lastErr error
	backoff := policy.backoff

	for i := range maxRetries {
		log.Debug("LLM request attempt", "attempt", i+1, "provider", provider)

		reqCtx, cancel := context.WithTimeout(ctx, policy.timeout)
		text, err := attempt(reqCtx)
		cancel()

		if err == nil {
			return text, nil
		}

		lastErr = fmt.Errorf("attempt %d: %w", i+1, err)

		var perm *permanentError
		if errors.As(err, &perm) {
			return "", fmt.Errorf("%s request failed: %w", provider, perm.err)
		}
		if i == maxRetries-1 {
			break
		}

		log.Warn("LLM request failed, retrying",
			"provider", provider,
			"attempt", i+1,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%s request cancelled: %w", provider, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return "", fmt.Errorf("%s request failed after %d attempts: %w", provider, maxRetries, lastErr)
}
