package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/payfilter/internal/service"
)

var (
	// ErrRateLimit indicates that the API rate limit has been exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries indicates that all retry attempts have been exhausted.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError marks whether WithRetry may try an operation again.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so WithRetry returns it without another attempt.
func Permanent(err error) error {
	return &RetryableError{Err: err, Retryable: false}
}

// DefaultRetryOptions are used by the remote sources and exporters.
var DefaultRetryOptions = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: 500 * time.Millisecond,
	MaxDelay:     10 * time.Second,
	Multiplier:   2.0,
}

// backoff yields the wait before each retry.
type backoff struct {
	next       time.Duration
	max        time.Duration
	multiplier float64
}

func newBackoff(opts service.RetryOptions) *backoff {
	b := &backoff{next: opts.InitialDelay, max: opts.MaxDelay, multiplier: opts.Multiplier}
	if b.next <= 0 {
		b.next = 100 * time.Millisecond
	}
	if b.max <= 0 {
		b.max = 30 * time.Second
	}
	if b.multiplier <= 0 {
		b.multiplier = 2.0
	}
	return b
}

// delay returns the wait for the coming retry. Rate-limit errors wait the
// longest allowed delay.
func (b *backoff) delay(err error) time.Duration {
	if errors.Is(err, ErrRateLimit) || errors.Is(err, ErrPlaidRateLimit) {
		return b.max
	}
	d := b.next
	b.next = min(time.Duration(float64(b.next)*b.multiplier), b.max)
	return d
}

// WithRetry runs operation until it succeeds, returns a permanent error, or
// runs out of attempts. The last error is wrapped with ErrMaxRetries.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	b := newBackoff(opts)
	logger := Component("retry")

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		var retryErr *RetryableError
		if errors.As(err, &retryErr) && !retryErr.Retryable {
			return err
		}
		if attempt >= attempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempts, err)
		}

		wait := b.delay(err)
		logger.Warn("Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", attempts,
			"delay", wait,
			"error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
