package network

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(t *testing.T) {
	t.Helper()
	saved := retryBaseDelay
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = saved })
}

func TestWithRetrySucceedsFirstAttempt(t *testing.T) {
	fastRetry(t)

	calls := 0
	err := WithRetry(context.Background(), "test", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRecoversFromTransient(t *testing.T) {
	fastRetry(t)

	calls := 0
	err := WithRetry(context.Background(), "test", func() error {
		calls++
		if calls < 3 {
			return ErrConnectionFailed
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	fastRetry(t)

	calls := 0
	err := WithRetry(context.Background(), "test", func() error {
		calls++
		return ErrConnectionFailed
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.Equal(t, MaxAttempts, calls)
}

func TestWithRetryDoesNotRetryPermanentErrors(t *testing.T) {
	fastRetry(t)

	calls := 0
	err := WithRetry(context.Background(), "test", func() error {
		calls++
		return ErrBroadcastRejected
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBroadcastRejected)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRespectsContextCancellation(t *testing.T) {
	saved := retryBaseDelay
	retryBaseDelay = time.Hour
	t.Cleanup(func() { retryBaseDelay = saved })

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- WithRetry(ctx, "test", func() error {
			calls++
			return ErrConnectionFailed
		})
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("WithRetry did not return after context cancellation")
	}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(ErrConnectionFailed))
	assert.True(t, isTransient(errors.Join(errors.New("wrapped"), ErrConnectionFailed)))
	assert.False(t, isTransient(ErrBroadcastRejected))
	assert.False(t, isTransient(ErrAuthFailed))
	assert.False(t, isTransient(errors.New("other")))
}
