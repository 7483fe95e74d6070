// Package resilience guards outbound calls to the language model and query
// services: a sliding-window RateLimiter, a bounded exponential-backoff retry
// Policy, and a Guard that applies both around a single call.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"alfredoptarigan/resume-scorer/internal/metrics"
)

// ErrInvalidLimit is returned when a limiter is configured so that it could
// never admit a request.
var ErrInvalidLimit = errors.New("rate limiter requires max requests > 0 and window > 0")

// RateLimiter admits at most maxRequests units of work in any trailing window.
//
// Admissions are tracked as an ordered slice of timestamps. A timestamp t is
// live while t > now-window. Callers beyond the limit are suspended until the
// oldest live admission expires. Admission order among waiters is not FIFO.
type RateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	admitted    []time.Time
	clock       Clock
}

// LimiterOption customizes a RateLimiter.
type LimiterOption func(*RateLimiter)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) LimiterOption {
	return func(r *RateLimiter) {
		if c != nil {
			r.clock = c
		}
	}
}

// NewRateLimiter creates a limiter admitting maxRequests per window.
func NewRateLimiter(maxRequests int, window time.Duration, opts ...LimiterOption) (*RateLimiter, error) {
	if maxRequests <= 0 || window <= 0 {
		return nil, fmt.Errorf("%w (got %d per %s)", ErrInvalidLimit, maxRequests, window)
	}

	r := &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		admitted:    make([]time.Time, 0, maxRequests),
		clock:       SystemClock(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Acquire blocks until one more admission fits in the window, then records it.
// It returns early only when ctx is done.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	start := r.clock.Now()

	for {
		r.mu.Lock()
		now := r.clock.Now()
		r.evict(now)

		if len(r.admitted) < r.maxRequests {
			r.admitted = append(r.admitted, now)
			r.mu.Unlock()
			metrics.RateLimitWait.Observe(now.Sub(start).Seconds())
			return nil
		}

		wait := r.admitted[0].Add(r.window).Sub(now)
		r.mu.Unlock()

		if err := r.clock.Sleep(ctx, wait); err != nil {
			return fmt.Errorf("waiting for rate limit slot: %w", err)
		}
	}
}

// InFlight reports how many admissions are currently inside the window.
func (r *RateLimiter) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evict(r.clock.Now())
	return len(r.admitted)
}

// evict drops admissions at or before now-window. Must hold r.mu.
func (r *RateLimiter) evict(now time.Time) {
	cutoff := now.Add(-r.window)

	i := 0
	for i < len(r.admitted) && !r.admitted[i].After(cutoff) {
		i++
	}
	if i > 0 {
		r.admitted = append(r.admitted[:0], r.admitted[i:]...)
	}
}
