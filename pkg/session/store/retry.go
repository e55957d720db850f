package store

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/matzehuels/cfgview/pkg/session"
)

// RetryableError marks a failure worth retrying, such as a backend that is still
// starting up.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return stderrors.As(err, &re)
}

// RetryWithBackoff calls fn up to attempts times, doubling delay after each
// retryable failure. Other errors are returned immediately.
func RetryWithBackoff(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// OpenWithRetry opens the backend, retrying connection failures of network
// backends three times starting at one second.
func OpenWithRetry(ctx context.Context, cfg Config) (session.Store, error) {
	network := strings.EqualFold(cfg.Backend, BackendRedis) || strings.EqualFold(cfg.Backend, BackendMongo)
	var st session.Store
	err := RetryWithBackoff(ctx, 3, time.Second, func() error {
		s, err := Open(ctx, cfg)
		if err != nil {
			if network {
				return Retryable(err)
			}
			return err
		}
		st = s
		return nil
	})
	if err != nil {
		var re *RetryableError
		if stderrors.As(err, &re) {
			return nil, re.Err
		}
		return nil, err
	}
	return st, nil
}
