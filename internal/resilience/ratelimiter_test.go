package resilience

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_RejectsInvalidLimits(t *testing.T) {
	_, err := NewRateLimiter(0, time.Minute)
	require.ErrorIs(t, err, ErrInvalidLimit)

	_, err = NewRateLimiter(5, 0)
	require.ErrorIs(t, err, ErrInvalidLimit)
}

func TestRateLimiter_AdmitsImmediatelyUnderLimit(t *testing.T) {
	clock := newFakeClock()
	limiter, err := NewRateLimiter(3, time.Minute, WithClock(clock))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Acquire(context.Background()))
	}

	assert.Empty(t, clock.Sleeps(), "no admission should wait while under the limit")
	assert.Equal(t, 3, limiter.InFlight())
}

func TestRateLimiter_WaitsForOldestToExpire(t *testing.T) {
	clock := newFakeClock()
	limiter, err := NewRateLimiter(2, 10*time.Second, WithClock(clock))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, limiter.Acquire(ctx))
	clock.Advance(3 * time.Second)
	require.NoError(t, limiter.Acquire(ctx))
	clock.Advance(1 * time.Second)

	start := clock.Now()
	require.NoError(t, limiter.Acquire(ctx))

	assert.Equal(t, []time.Duration{6 * time.Second}, clock.Sleeps())
	assert.Equal(t, 6*time.Second, clock.Now().Sub(start))
	assert.Equal(t, 2, limiter.InFlight())
}

func TestRateLimiter_EvictsExpiredAdmissions(t *testing.T) {
	clock := newFakeClock()
	limiter, err := NewRateLimiter(1, time.Second, WithClock(clock))
	require.NoError(t, err)

	require.NoError(t, limiter.Acquire(context.Background()))
	clock.Advance(time.Second)

	assert.Equal(t, 0, limiter.InFlight(), "an admission exactly one window old has expired")
	require.NoError(t, limiter.Acquire(context.Background()))
	assert.Empty(t, clock.Sleeps())
}

func TestRateLimiter_ContextCancelled(t *testing.T) {
	clock := newFakeClock()
	limiter, err := NewRateLimiter(1, time.Minute, WithClock(clock))
	require.NoError(t, err)
	require.NoError(t, limiter.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = limiter.Acquire(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, limiter.InFlight())
}

// Any trailing window must contain at most maxRequests admissions, whatever
// the arrival pattern.
func TestRateLimiter_WindowPropertyWithSyntheticClock(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		maxRequests := 1 + rng.Intn(6)
		window := time.Duration(1+rng.Intn(20)) * time.Second

		clock := newFakeClock()
		limiter, err := NewRateLimiter(maxRequests, window, WithClock(clock))
		require.NoError(t, err)

		var admissions []time.Time
		for call := 0; call < 200; call++ {
			clock.Advance(time.Duration(rng.Intn(int(window/time.Millisecond)/2+1)) * time.Millisecond)
			require.NoError(t, limiter.Acquire(context.Background()))
			admissions = append(admissions, clock.Now())
		}

		for i, at := range admissions {
			inWindow := 0
			for _, other := range admissions[:i+1] {
				if other.After(at.Add(-window)) {
					inWindow++
				}
			}
			require.LessOrEqualf(t, inWindow, maxRequests,
				"trial %d: %d admissions in window ending at call %d (max %d, window %s)",
				trial, inWindow, i, maxRequests, window)
		}
	}
}

func TestRateLimiter_ConcurrentCallers(t *testing.T) {
	limiter, err := NewRateLimiter(5, 40*time.Millisecond)
	require.NoError(t, err)

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, limiter.Acquire(context.Background()))
		}()
	}
	wg.Wait()

	// 20 admissions at 5 per window need at least three full windows of waiting.
	assert.GreaterOrEqual(t, time.Since(start), 3*40*time.Millisecond)
	assert.LessOrEqual(t, limiter.InFlight(), 5)
}
