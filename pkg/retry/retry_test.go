package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errThrottled = errors.New("429 too many requests")

func noDelay(int) time.Duration { return 0 }

func always(error) bool { return true }

func TestDoSucceedsAfterRetries(t *testing.T) {
	attempts := 0
	result, err := Do(context.Background(), 3, noDelay, always, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errThrottled
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), 3, noDelay, always, func(ctx context.Context) (int, error) {
		attempts++
		return 0, errThrottled
	})

	require.ErrorIs(t, err, errThrottled)
	assert.Equal(t, 3, attempts)
}

func TestDoNonRetryableFailsImmediately(t *testing.T) {
	fatal := errors.New("bad request")
	attempts := 0
	_, err := Do(context.Background(), 3, noDelay, func(err error) bool { return false }, func(ctx context.Context) (int, error) {
		attempts++
		return 0, fatal
	})

	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, attempts)
}

func TestDoStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	_, err := Do(ctx, 3, func(int) time.Duration { return time.Minute }, always, func(ctx context.Context) (int, error) {
		attempts++
		return 0, errThrottled
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestLinearGrowsWithAttempt(t *testing.T) {
	delay := Linear(2 * time.Second)

	assert.Equal(t, 2*time.Second, delay(1))
	assert.Equal(t, 4*time.Second, delay(2))
	assert.Equal(t, 6*time.Second, delay(3))
}
