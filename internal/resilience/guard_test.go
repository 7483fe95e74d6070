package resilience

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGuard_EveryAttemptTakesAnAdmissionSlot(t *testing.T) {
	clock := newFakeClock()
	limiter, err := NewRateLimiter(10, time.Minute, WithClock(clock))
	require.NoError(t, err)

	core, observed := observer.New(zapcore.WarnLevel)
	guard := NewGuard(limiter, testPolicy(clock), zap.New(core))

	calls := 0
	got, err := Call(context.Background(), guard, "complete", func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", statusError{code: http.StatusTooManyRequests}
		}
		return "done", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, limiter.InFlight())

	entries := observed.FilterMessage("retrying external call after transient failure").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "complete", entries[0].ContextMap()["op"])
}

func TestGuard_LimiterBlocksAttempts(t *testing.T) {
	clock := newFakeClock()
	limiter, err := NewRateLimiter(1, 30*time.Second, WithClock(clock))
	require.NoError(t, err)

	policy := testPolicy(clock)
	policy.BaseDelay = time.Second
	guard := NewGuard(limiter, policy, nil)

	calls := 0
	_, err = Call(context.Background(), guard, "query", func(context.Context) (int, error) {
		calls++
		return 0, Transient(errors.New("busy"))
	})

	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 3, calls)
	// Each retry waits for its backoff and then for the window to roll over.
	assert.Equal(t, []time.Duration{
		time.Second, 29 * time.Second,
		2 * time.Second, 28 * time.Second,
	}, clock.Sleeps())
}

func TestCall_NilGuardCallsThrough(t *testing.T) {
	got, err := Call(context.Background(), nil, "noop", func(context.Context) (string, error) {
		return "direct", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "direct", got)
}
