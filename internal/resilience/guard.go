package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/metrics"
)

// Guard applies the shared RateLimiter and retry Policy to external calls.
// Every attempt, including retries, takes its own admission slot.
type Guard struct {
	limiter *RateLimiter
	policy  Policy
	logger  *zap.Logger
}

// NewGuard builds a Guard. A nil limiter disables admission control.
func NewGuard(limiter *RateLimiter, policy Policy, log *zap.Logger) *Guard {
	policy.ApplyDefaults()
	return &Guard{
		limiter: limiter,
		policy:  policy,
		logger:  logger.OrNop(log),
	}
}

// Call runs fn under g. op names the call in logs.
func Call[T any](ctx context.Context, g *Guard, op string, fn func(context.Context) (T, error)) (T, error) {
	if g == nil {
		return fn(ctx)
	}

	policy := g.policy
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		g.logger.Warn("retrying external call after transient failure",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", policy.Attempts),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
	}

	return Do(ctx, policy, func(ctx context.Context) (T, error) {
		var zero T
		if g.limiter != nil {
			if err := g.limiter.Acquire(ctx); err != nil {
				return zero, err
			}
		}

		result, err := fn(ctx)
		switch {
		case err == nil:
			metrics.ExternalCalls.WithLabelValues("success").Inc()
		case policy.Retryable(err):
			metrics.ExternalCalls.WithLabelValues("transient").Inc()
		default:
			metrics.ExternalCalls.WithLabelValues("fatal").Inc()
		}
		return result, err
	})
}
