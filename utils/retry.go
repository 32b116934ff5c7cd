package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryWithBackoff calls fn up to attempts times, waiting attempt² seconds
// between calls. It gives up early when ctx is done. Only startup
// dependencies use it; scheduled work never retries inside a cycle.
func RetryWithBackoff(ctx context.Context, attempts int, fn func(context.Context) error, logger *Logger) error {
	return retry(ctx, attempts, time.Second, fn, logger)
}

func retry(ctx context.Context, attempts int, unit time.Duration, fn func(context.Context) error, logger *Logger) error {
	attempts = max(attempts, 1)

	var err error
	for n := 1; ; n++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if n == attempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
		}

		wait := time.Duration(n*n) * unit
		logger.Warn("Attempt %d/%d failed (%v), next in %v", n, attempts, err, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry interrupted after %d attempts: %w", n, ctx.Err())
		case <-timer.C:
		}
	}
}
