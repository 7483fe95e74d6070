package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
)

// OpenAICompleter generates text through an OpenAI-compatible endpoint.
type OpenAICompleter struct {
	llm    *openai.LLM
	logger *zap.Logger
}

func NewOpenAICompleter(apiKey, model, baseURL string, log *zap.Logger) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, errors.New("openai API key is empty")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	return &OpenAICompleter{llm: llm, logger: logger.OrNop(log).Named("openai")}, nil
}

// Complete implements scoring.Completer.
func (o *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	o.logger.Debug("generating content", zap.String("prompt", logger.Truncate(prompt, 120)))

	text, err := llms.GenerateFromSinglePrompt(ctx, o.llm, prompt, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", wrapOpenAIError(err))
	}
	return text, nil
}
