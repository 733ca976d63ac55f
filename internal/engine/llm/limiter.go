package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// rateLimitedClient delays requests so that at most the configured number
// reach the provider per minute. It is safe for concurrent use.
type rateLimitedClient struct {
	next    Client
	limiter *rate.Limiter
}

// WithRateLimit wraps c so that calls are spaced to requestsPerMinute.
// A non-positive value disables limiting and returns c unchanged.
func WithRateLimit(c Client, requestsPerMinute int) Client {
	if requestsPerMinute <= 0 {
		return c
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &rateLimitedClient{
		next:    c,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (r *rateLimitedClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return r.next.Complete(ctx, prompt)
}
