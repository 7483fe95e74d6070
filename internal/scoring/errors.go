package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig matches every *ConfigError.
	ErrInvalidConfig = errors.New("invalid parameter configuration")

	// ErrMissingCredential is reported when a calculator has no client to call.
	ErrMissingCredential = errors.New("missing credential")

	// ErrAmbiguousClassification matches every *AmbiguousClassificationError.
	ErrAmbiguousClassification = errors.New("ambiguous classification")

	// ErrNoParametersEvaluated is returned when nothing contributed weight to the aggregate.
	ErrNoParametersEvaluated = errors.New("no parameters evaluated")
)

// ConfigError is a setup problem with a single parameter. It is never
// defaulted away: the parameter is not scored.
type ConfigError struct {
	Parameter string
	Field     string
	Reason    string
	Err       error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("parameter %q: invalid %s: %s", e.Parameter, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidConfig, e.Err}
	}
	return []error{ErrInvalidConfig}
}

// AmbiguousClassificationError is returned when the model answer does not
// name exactly one category.
type AmbiguousClassificationError struct {
	Name     string
	Response string
}

func (e *AmbiguousClassificationError) Error() string {
	return fmt.Sprintf("cannot classify parameter %q: unexpected answer %q", e.Name, e.Response)
}

func (e *AmbiguousClassificationError) Unwrap() error {
	return ErrAmbiguousClassification
}
