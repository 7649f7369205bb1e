package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(opts ...Option) Retry {
	base := []Option{
		WithDelay(1 * time.Millisecond),
		WithMaxDelay(2 * time.Millisecond),
	}
	return New(append(base, opts...)...)
}

func TestRetry_Execute(t *testing.T) {
	t.Run("successful operation", func(t *testing.T) {
		r := New()
		callCount := 0

		err := r.Execute(t.Context(), func() error {
			callCount++
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, callCount, "Operation should be called exactly once")
	})

	t.Run("retry until success", func(t *testing.T) {
		r := fastRetry(WithAttempts(3))
		callCount := 0

		err := r.Execute(t.Context(), func() error {
			callCount++
			if callCount < 2 {
				return errors.New("temporary error")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, callCount, "Operation should be called exactly twice")
	})

	t.Run("retry exhausted", func(t *testing.T) {
		r := fastRetry(WithAttempts(3))
		callCount := 0
		expectedErr := errors.New("persistent error")

		err := r.Execute(t.Context(), func() error {
			callCount++
			return expectedErr
		})

		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, 3, callCount, "Operation should be called exactly 3 times")
	})

	t.Run("does not retry errors rejected by RetryIf", func(t *testing.T) {
		permanent := errors.New("permanent")
		r := fastRetry(
			WithAttempts(5),
			WithRetryIf(func(err error) bool { return !errors.Is(err, permanent) }),
		)
		callCount := 0

		err := r.Execute(t.Context(), func() error {
			callCount++
			return permanent
		})

		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, callCount)
	})

	t.Run("calls OnRetry before each retry", func(t *testing.T) {
		var attempts []uint
		r := fastRetry(
			WithAttempts(3),
			WithOnRetry(func(attempt uint, _ error) { attempts = append(attempts, attempt) }),
		)

		_ = r.Execute(t.Context(), func() error { return errors.New("boom") })

		require.NotEmpty(t, attempts)
		assert.Equal(t, uint(0), attempts[0])
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		r := fastRetry(WithAttempts(10))
		callCount := 0

		err := r.Execute(ctx, func() error {
			callCount++
			return errors.New("boom")
		})

		assert.Error(t, err)
		assert.LessOrEqual(t, callCount, 1)
	})
}
