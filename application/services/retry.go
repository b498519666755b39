package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
)

// RetryFixed runs fn up to attempts times with a fixed delay between
// attempts. Every error is treated as retryable; once the budget is spent
// the last attempt's error is returned.
func RetryFixed[T any](ctx context.Context, logger outbound.LoggerPort, attempts int, delay time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.WarnWithFields("Attempt failed", map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": attempts,
			"error":        err.Error(),
		})

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
