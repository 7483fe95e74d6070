package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ErrExhausted matches every error returned after the last retry attempt failed.
var ErrExhausted = errors.New("retries exhausted")

// ExhaustedError carries the last failure seen by Do.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap exposes both ErrExhausted and the last failure to errors.Is/As.
func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrExhausted, e.Last}
}

// Policy configures bounded exponential backoff.
type Policy struct {
	// Attempts is the total number of calls, including the first one.
	// Default: 3
	Attempts int

	// BaseDelay is the delay before the first retry.
	// Default: 4 seconds
	BaseDelay time.Duration

	// MaxDelay caps every backoff delay.
	// Default: 10 seconds
	MaxDelay time.Duration

	// Retryable decides whether a failure is transient. Default: IsTransient.
	Retryable func(error) bool

	// OnRetry is called before each backoff sleep.
	OnRetry func(attempt int, delay time.Duration, err error)

	// Clock sleeps between attempts. Default: SystemClock.
	Clock Clock
}

// DefaultPolicy returns 3 attempts with 4s base and 10s max delay.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:  3,
		BaseDelay: 4 * time.Second,
		MaxDelay:  10 * time.Second,
		Retryable: IsTransient,
		Clock:     SystemClock(),
	}
}

// ApplyDefaults fills unset fields from DefaultPolicy.
func (p *Policy) ApplyDefaults() {
	defaults := DefaultPolicy()

	if p.Attempts <= 0 {
		p.Attempts = defaults.Attempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaults.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaults.MaxDelay
	}
	if p.Retryable == nil {
		p.Retryable = defaults.Retryable
	}
	if p.Clock == nil {
		p.Clock = defaults.Clock
	}
}

// Backoff returns min(MaxDelay, BaseDelay*2^n) where n counts failures so far, starting at 0.
func (p Policy) Backoff(n int) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < n; i++ {
		delay *= 2
		if delay >= p.MaxDelay || delay <= 0 {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Do calls fn until it succeeds, fails fatally, or runs out of attempts.
// Fatal failures are returned as-is after one call. Exhaustion returns an
// *ExhaustedError wrapping the last failure.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	p.ApplyDefaults()

	var zero T
	var lastErr error

	for attempt := 0; attempt < p.Attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !p.Retryable(err) {
			return zero, err
		}

		if attempt == p.Attempts-1 {
			break
		}

		delay := p.Backoff(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, delay, err)
		}

		if err := p.Clock.Sleep(ctx, delay); err != nil {
			return zero, fmt.Errorf("retry backoff canceled: %w", err)
		}
	}

	return zero, &ExhaustedError{Attempts: p.Attempts, Last: lastErr}
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Transient marks err as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// Fatal marks err as non-retryable, overriding any status code it carries.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// StatusCoder is implemented by errors carrying an HTTP-style status code.
type StatusCoder interface {
	StatusCode() int
}

// RetryableStatus reports whether an HTTP status signals a transient condition.
func RetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}

// IsTransient is the default retry predicate. Only failures explicitly marked
// transient, carrying a 429/5xx status, or network timeouts are retried.
// Context errors and unmarked failures are fatal.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var fatal *fatalError
	if errors.As(err, &fatal) {
		return false
	}

	var transient *transientError
	if errors.As(err, &transient) {
		return true
	}

	var coder StatusCoder
	if errors.As(err, &coder) {
		return RetryableStatus(coder.StatusCode())
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}
