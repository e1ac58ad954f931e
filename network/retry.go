package network

import (
	"context"
	"errors"
	"time"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("network")

// MaxAttempts bounds how many times a transient failure is retried.
const MaxAttempts = 3

// retryBaseDelay is the backoff for the first retry; it doubles per attempt.
// Variable so tests can shorten it.
var retryBaseDelay = 500 * time.Millisecond

// WithRetry runs fn up to MaxAttempts times, backing off between attempts.
// Only transient failures (ErrConnectionFailed) are retried; validation and
// rejection errors return immediately, as does context cancellation.
func WithRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	delay := retryBaseDelay

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		if attempt == MaxAttempts {
			break
		}

		log.Warnf("%s failed (attempt %d/%d), retrying in %s: %v", op, attempt, MaxAttempts, delay, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return err
}

// isTransient reports whether the error is worth retrying.
func isTransient(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}
