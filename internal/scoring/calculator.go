package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/resilience"
)

// Score is the result of one calculator run. Degraded is set when a
// recoverable failure (exhausted retries, unparseable answer) resolved the
// value to its documented default of 0.
type Score struct {
	Value    float64
	Degraded error
}

// Calculator turns one parameter plus the resume into a score in [0, 100].
// A non-nil error is fatal for that parameter only.
type Calculator interface {
	Calculate(ctx context.Context, p Parameter, ec EvaluationContext) (Score, error)
}

// degrade maps an external-call failure to a default score. Cancellation and
// configuration errors still propagate.
func degrade(err error) (Score, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrInvalidConfig) {
		return Score{}, err
	}
	return Score{Value: 0, Degraded: err}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// QuantitativeCalculator asks for a number and normalizes it against the
// parameter's max value and benefit type.
type QuantitativeCalculator struct {
	guard  *resilience.Guard
	logger *zap.Logger
}

func NewQuantitativeCalculator(guard *resilience.Guard, log *zap.Logger) *QuantitativeCalculator {
	return &QuantitativeCalculator{guard: guard, logger: logger.OrNop(log)}
}

func (q *QuantitativeCalculator) Calculate(ctx context.Context, p Parameter, ec EvaluationContext) (Score, error) {
	if err := p.validateQuantitative(); err != nil {
		return Score{}, err
	}

	answer, err := resilience.Call(ctx, q.guard, "query", func(ctx context.Context) (string, error) {
		return ec.Query(ctx, quantitativeQuestion(p.Description))
	})
	if err != nil {
		return degrade(fmt.Errorf("querying %q: %w", p.Key, err))
	}

	raw, ok := FirstNumber(answer)
	var degraded error
	if !ok {
		degraded = fmt.Errorf("no numeric value in answer %q", logger.Truncate(answer, 60))
	}

	value, err := NormalizeQuantitative(raw, *p.MaxValue, p.Benefit)
	if err != nil {
		return Score{}, &ConfigError{Parameter: p.Key, Field: "max_value", Reason: err.Error()}
	}

	q.logger.Debug("quantitative parameter scored",
		zap.String("parameter", p.Key),
		zap.Float64("raw", raw),
		zap.Float64("score", value),
	)
	return Score{Value: value, Degraded: degraded}, nil
}

// NormalizeQuantitative clamps raw to [0, maxValue] and maps it to [0, 100].
// Higher: v/max*100. Lower: 100 - v/max*100.
func NormalizeQuantitative(raw, maxValue float64, benefit BenefitType) (float64, error) {
	if math.IsNaN(maxValue) || maxValue <= 0 {
		return 0, fmt.Errorf("max value must be greater than zero, got %v", maxValue)
	}
	if math.IsNaN(raw) {
		raw = 0
	}

	ratio := clamp(raw, 0, maxValue) / maxValue * 100

	switch benefit {
	case BenefitHigher:
		return ratio, nil
	case BenefitLower:
		return 100 - ratio, nil
	default:
		return 0, fmt.Errorf("unrecognized benefit type %q", benefit)
	}
}

var (
	affirmativeWords = map[string]struct{}{
		"true": {}, "yes": {}, "1": {}, "confirmed": {}, "present": {}, "found": {},
	}
	negativeWords = map[string]struct{}{
		"false": {}, "no": {}, "not": {}, "none": {}, "absent": {}, "unknown": {},
	}
	wordPattern = regexp.MustCompile(`[a-z0-9]+`)
)

// BooleanScore maps a True/False answer to 100 or 0. Any negative word wins
// over affirmative ones so "not found" stays 0; no match at all is 0.
func BooleanScore(response string) float64 {
	affirmed := false
	for _, word := range wordPattern.FindAllString(strings.ToLower(response), -1) {
		if _, neg := negativeWords[word]; neg {
			return 0
		}
		if _, pos := affirmativeWords[word]; pos {
			affirmed = true
		}
	}
	if affirmed {
		return 100
	}
	return 0
}

// BooleanCalculator asks a strict True/False question about the resume.
type BooleanCalculator struct {
	guard  *resilience.Guard
	logger *zap.Logger
}

func NewBooleanCalculator(guard *resilience.Guard, log *zap.Logger) *BooleanCalculator {
	return &BooleanCalculator{guard: guard, logger: logger.OrNop(log)}
}

func (b *BooleanCalculator) Calculate(ctx context.Context, p Parameter, ec EvaluationContext) (Score, error) {
	answer, err := resilience.Call(ctx, b.guard, "query", func(ctx context.Context) (string, error) {
		return ec.Query(ctx, booleanQuestion(p.Description))
	})
	if err != nil {
		return degrade(fmt.Errorf("querying %q: %w", p.Key, err))
	}

	value := BooleanScore(answer)
	b.logger.Debug("boolean parameter scored",
		zap.String("parameter", p.Key),
		zap.String("answer", logger.Truncate(answer, 40)),
		zap.Float64("score", value),
	)
	return Score{Value: value}, nil
}

// TextualCalculator grades depth of knowledge in two completions: a narrative
// evaluation, then a restatement of only its numeric score.
type TextualCalculator struct {
	llm    Completer
	guard  *resilience.Guard
	logger *zap.Logger
}

// NewTextualCalculator builds the calculator. A nil llm makes every textual
// parameter fail with ErrMissingCredential.
func NewTextualCalculator(llm Completer, guard *resilience.Guard, log *zap.Logger) *TextualCalculator {
	return &TextualCalculator{llm: llm, guard: guard, logger: logger.OrNop(log)}
}

func (t *TextualCalculator) Calculate(ctx context.Context, p Parameter, ec EvaluationContext) (Score, error) {
	if t.llm == nil {
		return Score{}, &ConfigError{Parameter: p.Key, Field: "credential", Reason: "no text-generation client configured", Err: ErrMissingCredential}
	}

	evaluation, err := resilience.Call(ctx, t.guard, "complete", func(ctx context.Context) (string, error) {
		return t.llm.Complete(ctx, textualEvaluationPrompt(p.Description, ec.ResumeText()))
	})
	if err != nil {
		return degrade(fmt.Errorf("evaluating %q: %w", p.Key, err))
	}

	scoreText, err := resilience.Call(ctx, t.guard, "complete", func(ctx context.Context) (string, error) {
		return t.llm.Complete(ctx, textualScorePrompt(evaluation))
	})
	if err != nil {
		return degrade(fmt.Errorf("extracting score for %q: %w", p.Key, err))
	}

	value, err := ParseTextualScore(scoreText)
	if err != nil {
		t.logger.Warn("textual score not parseable",
			zap.String("parameter", p.Key),
			zap.String("response", logger.Truncate(scoreText, 60)),
		)
		return Score{Value: 0, Degraded: err}, nil
	}

	t.logger.Debug("textual parameter scored",
		zap.String("parameter", p.Key),
		zap.Float64("score", value),
	)
	return Score{Value: value}, nil
}

// ParseTextualScore parses the restated score as a float and clamps it to [0, 100].
func ParseTextualScore(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) {
		return 0, fmt.Errorf("score %q is not a number", logger.Truncate(trimmed, 40))
	}
	return clamp(value, 0, 100), nil
}
