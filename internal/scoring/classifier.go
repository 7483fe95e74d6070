package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/resilience"
)

// Classifier assigns a category to a new parameter name at authoring time.
type Classifier struct {
	llm    Completer
	guard  *resilience.Guard
	logger *zap.Logger
}

func NewClassifier(llm Completer, guard *resilience.Guard, log *zap.Logger) *Classifier {
	return &Classifier{
		llm:    llm,
		guard:  guard,
		logger: logger.OrNop(log),
	}
}

// Classify issues a single completion and maps the answer to a Category.
// Anything other than exactly one category label is an
// *AmbiguousClassificationError; the caller must not guess.
func (c *Classifier) Classify(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("parameter name is required")
	}
	if c.llm == nil {
		return "", &ConfigError{Parameter: name, Field: "credential", Reason: "no text-generation client configured", Err: ErrMissingCredential}
	}

	response, err := resilience.Call(ctx, c.guard, "classify", func(ctx context.Context) (string, error) {
		return c.llm.Complete(ctx, classificationPrompt(name))
	})
	if err != nil {
		return "", fmt.Errorf("classifying parameter %q: %w", name, err)
	}

	category := Category(normalizeLabel(response))
	if !category.Classifiable() {
		c.logger.Warn("ambiguous classification",
			zap.String("parameter", name),
			zap.String("response", logger.Truncate(response, 80)),
		)
		return "", &AmbiguousClassificationError{Name: name, Response: response}
	}

	c.logger.Debug("parameter classified",
		zap.String("parameter", name),
		zap.String("category", string(category)),
	)
	return category, nil
}

// normalizeLabel trims whitespace plus the quoting and punctuation models
// commonly wrap a one-word answer in, then case-folds.
func normalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`*.")
	return strings.ToLower(strings.TrimSpace(s))
}
