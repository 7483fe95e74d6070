package scoring

import "context"

// Completer is a text-generation service: prompt in, free-form text out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Querier answers natural-language questions about one ingested resume.
type Querier interface {
	Query(ctx context.Context, question string) (string, error)
}

// EvaluationContext is the ingested resume as seen by the calculators.
type EvaluationContext interface {
	Querier
	ResumeText() string
}
