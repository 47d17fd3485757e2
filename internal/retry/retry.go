// Package retry wraps a single unreliable operation with bounded retries
// and exponential backoff. Only errors classified as transient consume
// retry budget; everything else fails immediately.
package retry

import (
	"context"
	"errors"
	"net"
	"time"
)

// Policy parameterizes retry behavior.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// InitialDelay is the backoff after the first failure.
	InitialDelay time.Duration
	// MaxDelay caps the backoff between attempts.
	MaxDelay time.Duration
	// Factor multiplies the delay after each failed attempt.
	Factor float64
}

// Default returns the standard policy: 3 attempts with 1s, 2s, 4s
// backoff capped at 8s.
func Default() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     8 * time.Second,
		Factor:       2.0,
	}
}

// Do executes op under the policy. It returns nil on the first success,
// the error unchanged when it is not transient, and the last error after
// the attempt budget is exhausted.
func (p Policy) Do(ctx context.Context, op func() error) error {
	if ctx == nil {
		return errors.New("retry: nil context")
	}
	if op == nil {
		return errors.New("retry: nil operation")
	}

	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	delay := p.InitialDelay
	if delay <= 0 {
		delay = time.Second
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 8 * time.Second
	}
	factor := p.Factor
	if factor <= 1 {
		factor = 2.0
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
		if attempt >= maxAttempts {
			break
		}

		if err := sleepWithContext(ctx, delay); err != nil {
			return err
		}
		delay = time.Duration(float64(delay) * factor)
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return lastErr
}

// DoWithValue executes an operation returning a value under the policy.
func DoWithValue[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	var value T
	err := p.Do(ctx, func() error {
		var opErr error
		value, opErr = op()
		return opErr
	})
	return value, err
}

// TransientError marks a failure expected to potentially succeed on
// retry: timeouts, rate limits, transport drops.
type TransientError struct {
	Err error
}

// Error formats the wrapped error.
func (e *TransientError) Error() string {
	if e == nil || e.Err == nil {
		return "retry: transient error"
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped error.
func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps an error so the policy will retry it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether an error should be retried: explicitly
// marked transient, a network timeout, or a per-call deadline expiry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var transient *TransientError
	if errors.As(err, &transient) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
