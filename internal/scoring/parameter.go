// Package scoring turns weighted parameter definitions and an ingested resume
// into a normalized 0-100 score and a pass/fail verdict.
package scoring

import (
	"fmt"
	"math"
	"strings"
)

// Category selects the scoring strategy for a parameter.
type Category string

const (
	Quantitative Category = "quantitative"
	Boolean      Category = "boolean"
	Textual      Category = "textual"
	// Portfolio scores the candidate's public GitHub repositories against the
	// parameter description. It is never chosen by the classifier.
	Portfolio Category = "portfolio"
)

// Categories lists the known categories in display order.
var Categories = []Category{Quantitative, Boolean, Textual, Portfolio}

// ParseCategory accepts the stored lower-case form and the capitalised labels.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("unknown parameter category %q", s)
}

func (c Category) Valid() bool {
	switch c {
	case Quantitative, Boolean, Textual, Portfolio:
		return true
	}
	return false
}

// Classifiable reports whether the classifier may answer with c.
func (c Category) Classifiable() bool {
	return c.Valid() && c != Portfolio
}

// Label is the capitalised form used in prompts.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// BenefitType tells whether larger raw values are better for a quantitative parameter.
type BenefitType string

const (
	BenefitHigher BenefitType = "higher"
	BenefitLower  BenefitType = "lower"
)

// ParseBenefitType accepts "higher"/"lower" and the "High is better"/"Low is better" labels.
func ParseBenefitType(s string) (BenefitType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "higher", "high", "high is better":
		return BenefitHigher, nil
	case "lower", "low", "low is better":
		return BenefitLower, nil
	}
	return "", fmt.Errorf("unknown benefit type %q", s)
}

// Parameter is one weighted evaluation criterion.
//
// MaxValue and Benefit are only meaningful for Quantitative parameters and are
// left empty for the other categories.
type Parameter struct {
	Key         string
	Name        string
	Category    Category
	Weight      float64
	MaxValue    *float64
	Benefit     BenefitType
	Description string
}

// NormalizeKey derives the configuration key from a display name:
// lower-cased, whitespace collapsed to single underscores.
func NormalizeKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// NewParameter builds a validated parameter for authoring. The description
// defaults to the display name.
func NewParameter(name string, category Category, weight float64, maxValue *float64, benefit BenefitType) (Parameter, error) {
	name = strings.Join(strings.Fields(name), " ")

	p := Parameter{
		Key:         NormalizeKey(name),
		Name:        name,
		Category:    category,
		Weight:      weight,
		Description: name,
	}
	if category == Quantitative {
		p.MaxValue = maxValue
		p.Benefit = benefit
	}

	if err := p.Validate(); err != nil {
		return Parameter{}, err
	}
	return p, nil
}

// WithDescription returns a copy of p whose description is d. The description
// is the phrase placed in scoring prompts; a blank d keeps the current one.
func (p Parameter) WithDescription(d string) Parameter {
	if d = strings.Join(strings.Fields(d), " "); d != "" {
		p.Description = d
	}
	return p
}

// Validate checks the authoring invariants. Weight must be positive, and a
// quantitative parameter needs a positive max value and a benefit type.
func (p Parameter) Validate() error {
	if p.Key == "" {
		return &ConfigError{Parameter: p.Name, Field: "name", Reason: "must not be empty"}
	}
	if !p.Category.Valid() {
		return &ConfigError{Parameter: p.Key, Field: "type", Reason: fmt.Sprintf("unknown category %q", p.Category)}
	}
	if math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) || p.Weight <= 0 {
		return &ConfigError{Parameter: p.Key, Field: "weight", Reason: "must be greater than zero"}
	}
	if p.Category == Quantitative {
		return p.validateQuantitative()
	}
	return nil
}

func (p Parameter) validateQuantitative() error {
	if p.MaxValue == nil {
		return &ConfigError{Parameter: p.Key, Field: "max_value", Reason: "required for quantitative parameters"}
	}
	if v := *p.MaxValue; math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &ConfigError{Parameter: p.Key, Field: "max_value", Reason: "must be greater than zero"}
	}
	switch p.Benefit {
	case BenefitHigher, BenefitLower:
		return nil
	case "":
		return &ConfigError{Parameter: p.Key, Field: "benefit_type", Reason: "required for quantitative parameters"}
	default:
		return &ConfigError{Parameter: p.Key, Field: "benefit_type", Reason: fmt.Sprintf("unrecognized value %q", p.Benefit)}
	}
}
