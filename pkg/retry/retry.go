// Package retry provides a bounded-retry combinator for flaky upstream calls.
package retry

import (
	"context"
	"time"
)

// DelayFunc returns how long to wait before the next attempt. The argument is
// the 1-based number of the attempt that just failed.
type DelayFunc func(attempt int) time.Duration

// Linear returns a delay growing as base * attempt.
func Linear(base time.Duration) DelayFunc {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

// Do runs fn up to maxAttempts times. A failure is retried only when retryable
// reports true for its error; any other error is returned immediately. Between
// attempts Do sleeps for delay(attempt), honoring context cancellation. After
// the last attempt the last error is returned as-is.
func Do[T any](ctx context.Context, maxAttempts int, delay DelayFunc, retryable func(error) bool, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !retryable(err) || attempt == maxAttempts {
			return zero, lastErr
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay(attempt)):
		}
	}

	return zero, lastErr
}
