package scoring

import "fmt"

// DefaultPassingThreshold is the final score needed for a pass.
const DefaultPassingThreshold = 70.0

// Status is the evaluation verdict.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// ScoreResult is one parameter's contribution to the aggregate.
type ScoreResult struct {
	ParameterKey  string   `json:"parameter_key"`
	Category      Category `json:"category"`
	RawScore      float64  `json:"raw_score"`
	Weight        float64  `json:"weight"`
	WeightedScore float64  `json:"weighted_score"`
	// Degraded explains why RawScore fell back to a default, if it did.
	Degraded string `json:"degraded,omitempty"`
}

// NewScoreResult records raw*weight for p.
func NewScoreResult(p Parameter, raw float64, degraded error) ScoreResult {
	r := ScoreResult{
		ParameterKey:  p.Key,
		Category:      p.Category,
		RawScore:      raw,
		Weight:        p.Weight,
		WeightedScore: raw * p.Weight,
	}
	if degraded != nil {
		r.Degraded = degraded.Error()
	}
	return r
}

// Outcome is the final weighted score of an evaluation.
type Outcome struct {
	TotalWeightedScore float64 `json:"total_weighted_score"`
	TotalWeight        float64 `json:"total_weight"`
	FinalScore         float64 `json:"final_score"`
	PassingThreshold   float64 `json:"passing_threshold"`
	Status             Status  `json:"status"`
}

// Aggregate folds results into an Outcome. Results with non-positive weight
// do not contribute. When nothing contributes, ErrNoParametersEvaluated is
// returned instead of a zero or NaN score.
func Aggregate(results []ScoreResult, threshold float64) (Outcome, error) {
	var out Outcome
	for _, r := range results {
		if r.Weight <= 0 {
			continue
		}
		out.TotalWeightedScore += r.WeightedScore
		out.TotalWeight += r.Weight
	}

	if out.TotalWeight == 0 {
		return Outcome{}, fmt.Errorf("aggregating %d results: %w", len(results), ErrNoParametersEvaluated)
	}

	out.FinalScore = out.TotalWeightedScore / out.TotalWeight
	out.PassingThreshold = threshold
	out.Status = StatusFail
	if out.FinalScore >= threshold {
		out.Status = StatusPass
	}
	return out, nil
}
