// Package metrics holds the Prometheus collectors exported by the scorer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "resume_scorer"

var (
	// RateLimitWait observes how long callers were suspended in RateLimiter.Acquire.
	RateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ratelimit",
			Name:      "wait_seconds",
			Help:      "Time spent waiting for an admission slot",
			Buckets:   []float64{0, 0.1, 0.5, 1, 5, 15, 30, 60},
		},
	)

	// ExternalCalls counts guarded external call attempts.
	// Labels: result (success, transient, fatal)
	ExternalCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "external",
			Name:      "call_attempts_total",
			Help:      "External call attempts by result",
		},
		[]string{"result"},
	)

	// DocumentCacheLookups counts DocumentCache lookups.
	// Labels: result (hit, miss, shared, error)
	DocumentCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "document_cache",
			Name:      "lookups_total",
			Help:      "Document cache lookups by result",
		},
		[]string{"result"},
	)

	// ParameterScores counts scored parameters.
	// Labels: category, outcome (scored, degraded, skipped, failed_zero)
	ParameterScores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "parameters_total",
			Help:      "Scored parameters by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	// Evaluations counts finished evaluation runs.
	// Labels: status (pass, fail, error)
	Evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "evaluations_total",
			Help:      "Finished evaluations by verdict",
		},
		[]string{"status"},
	)
)
