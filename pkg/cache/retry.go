package cache

import (
	"context"
	"errors"
	"time"
)

// Backoff retries an operation with exponentially growing pauses. Only
// errors marked with [Transient] are retried.
type Backoff struct {
	Attempts int           // total calls, at least 1
	Delay    time.Duration // pause after the first failure
	Max      time.Duration // upper bound for a single pause; 0 means none
}

// DefaultBackoff keeps cache lookups fast: a cache that stays down is
// treated as a miss by callers, not waited on.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond, Max: time.Second}

type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying. Transient(nil) is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err}
}

// IsTransient reports whether err, or an error it wraps, was marked with
// Transient.
func IsTransient(err error) bool {
	var t transientError
	return errors.As(err, &t)
}

// Retry calls fn until it succeeds, returns a non-transient error, the
// attempts run out or ctx is done. The last error is returned unwrapped
// from its transient marker.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if attempt >= b.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
	return errors.Unwrap(err)
}
