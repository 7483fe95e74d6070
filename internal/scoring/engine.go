package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/metrics"
)

// FailurePolicy decides what happens to a parameter whose scoring failed fatally.
type FailurePolicy string

const (
	// FailurePolicyExclude leaves failed parameters out of both sums.
	FailurePolicyExclude FailurePolicy = "exclude"
	// FailurePolicyZero scores failed parameters as 0 with their full weight.
	FailurePolicyZero FailurePolicy = "zero"
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case FailurePolicyExclude, FailurePolicyZero:
		return p, nil
	case "":
		return FailurePolicyExclude, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q (want %q or %q)", s, FailurePolicyExclude, FailurePolicyZero)
	}
}

const defaultBatchSize = 3

// EngineConfig tunes an Engine.
type EngineConfig struct {
	PassingThreshold float64
	FailurePolicy    FailurePolicy
	// BatchSize only groups progress logging; it never changes the result.
	BatchSize int
}

// SkippedParameter records a parameter left out of the aggregate and why.
type SkippedParameter struct {
	ParameterKey string   `json:"parameter_key"`
	Category     Category `json:"category"`
	Reason       string   `json:"reason"`
	Err          error    `json:"-"`
}

// Report is everything produced by one evaluation run.
type Report struct {
	Outcome Outcome            `json:"outcome"`
	Results []ScoreResult      `json:"results"`
	Skipped []SkippedParameter `json:"skipped,omitempty"`
}

// Engine scores parameters sequentially and aggregates them.
type Engine struct {
	calculators map[Category]Calculator
	cfg         EngineConfig
	logger      *zap.Logger
}

func NewEngine(calculators map[Category]Calculator, cfg EngineConfig, log *zap.Logger) *Engine {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.FailurePolicy == "" {
		cfg.FailurePolicy = FailurePolicyExclude
	}
	return &Engine{
		calculators: calculators,
		cfg:         cfg,
		logger:      logger.OrNop(log),
	}
}

// Evaluate scores params in input order. A failing parameter never aborts the
// run; only context cancellation does. When no parameter produced a real score
// (all skipped or all fell back to defaults) the run fails with
// ErrNoParametersEvaluated. The returned report lists skipped parameters even
// when aggregation fails.
func (e *Engine) Evaluate(ctx context.Context, params []Parameter, ec EvaluationContext) (*Report, error) {
	report := &Report{}

	for start := 0; start < len(params); start += e.cfg.BatchSize {
		end := min(start+e.cfg.BatchSize, len(params))
		e.logger.Info("scoring batch",
			zap.Int("from", start+1),
			zap.Int("to", end),
			zap.Int("total", len(params)),
		)

		for _, p := range params[start:end] {
			if err := ctx.Err(); err != nil {
				return report, fmt.Errorf("evaluation interrupted: %w", err)
			}
			if err := e.scoreOne(ctx, p, ec, report); err != nil {
				return report, err
			}
		}
	}

	if len(report.Results) > 0 && countValid(report.Results) == 0 {
		return report, fmt.Errorf("all %d scored parameters fell back to defaults: %w", len(report.Results), ErrNoParametersEvaluated)
	}

	outcome, err := Aggregate(report.Results, e.cfg.PassingThreshold)
	if err != nil {
		return report, err
	}
	report.Outcome = outcome

	e.logger.Info("evaluation aggregated",
		zap.Float64("final_score", outcome.FinalScore),
		zap.Float64("total_weight", outcome.TotalWeight),
		zap.String("status", string(outcome.Status)),
		zap.Int("scored", len(report.Results)),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

// countValid counts results that carry a real score rather than a default.
func countValid(results []ScoreResult) int {
	n := 0
	for _, r := range results {
		if r.Degraded == "" && r.Weight > 0 {
			n++
		}
	}
	return n
}

func (e *Engine) scoreOne(ctx context.Context, p Parameter, ec EvaluationContext, report *Report) error {
	if p.Weight <= 0 {
		e.skip(report, p, errors.New("non-positive weight"))
		return nil
	}

	calc, ok := e.calculators[p.Category]
	if !ok || calc == nil {
		e.fail(report, p, &ConfigError{Parameter: p.Key, Field: "type", Reason: fmt.Sprintf("unknown category %q", p.Category)})
		return nil
	}

	score, err := calc.Calculate(ctx, p, ec)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("scoring %q: %w", p.Key, err)
		}
		e.fail(report, p, err)
		return nil
	}

	outcome := "scored"
	if score.Degraded != nil {
		outcome = "degraded"
		e.logger.Warn("parameter scored with default",
			zap.String("parameter", p.Key),
			zap.Error(score.Degraded),
		)
	}
	metrics.ParameterScores.WithLabelValues(string(p.Category), outcome).Inc()

	report.Results = append(report.Results, NewScoreResult(p, score.Value, score.Degraded))
	return nil
}

// fail applies the failure policy to a fatally failed parameter.
func (e *Engine) fail(report *Report, p Parameter, err error) {
	e.logger.Error("parameter scoring failed",
		zap.String("parameter", p.Key),
		zap.String("policy", string(e.cfg.FailurePolicy)),
		zap.Error(err),
	)

	if e.cfg.FailurePolicy == FailurePolicyZero {
		metrics.ParameterScores.WithLabelValues(string(p.Category), "failed_zero").Inc()
		report.Results = append(report.Results, NewScoreResult(p, 0, err))
		return
	}
	e.skip(report, p, err)
}

func (e *Engine) skip(report *Report, p Parameter, err error) {
	metrics.ParameterScores.WithLabelValues(string(p.Category), "skipped").Inc()
	report.Skipped = append(report.Skipped, SkippedParameter{
		ParameterKey: p.Key,
		Category:     p.Category,
		Reason:       err.Error(),
		Err:          err,
	})
}
