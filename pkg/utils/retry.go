package utils

import (
	"context"
	"fmt"
	"time"
)

// Retry runs fn up to maxAttempts times, doubling the backoff between
// attempts. It returns nil on the first success, the last error once the
// attempt budget is spent, or the context error if the context is done
// while waiting.
func Retry(ctx context.Context, maxAttempts int, backoff time.Duration, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	wait := backoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := fn(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}

	return fmt.Errorf("all %d attempts failed: %w", maxAttempts, lastErr)
}
