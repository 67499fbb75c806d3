package insights

import (
	"context"
	"errors"
	"log"
	"time"
)

type retryProvider struct {
	inner       Provider
	attempts    int
	initialWait time.Duration
}

// WithRetry retries rate limits and outages with exponential backoff.
func WithRetry(p Provider, attempts int, initialWait time.Duration) Provider {
	if attempts < 1 {
		attempts = 1
	}
	return &retryProvider{inner: p, attempts: attempts, initialWait: initialWait}
}

func (r *retryProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (*ProviderResponse, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			wait := r.initialWait * time.Duration(1<<uint(attempt-1))
			log.Printf("[insights] retrying provider call in %v (attempt %d)", wait, attempt+1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		resp, err := r.inner.Generate(ctx, systemPrompt, userPrompt)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !transient(err) {
			return nil, err
		}
		log.Printf("[insights] provider attempt %d failed: %v", attempt+1, err)
	}
	return nil, lastErr
}

func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rl *ErrRateLimit
	var down *ErrProviderUnavailable
	return errors.As(err, &rl) || errors.As(err, &down)
}
