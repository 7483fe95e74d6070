package services

import (
	"context"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/config"
	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/scoring"
)

// NewCompleter picks the text-generation client for cfg.Provider. It returns
// a nil Completer, not an error, when the provider's API key is unset, so
// scoring reports the missing credential per parameter.
func NewCompleter(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (scoring.Completer, error) {
	log = logger.OrNop(log)

	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			log.Warn("OPENAI_API_KEY is not set; text generation is disabled")
			return nil, nil
		}
		completer, err := NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL, log)
		if err != nil {
			return nil, err
		}
		return completer, nil
	default:
		if cfg.GeminiAPIKey == "" {
			log.Warn("GEMINI_API_KEY is not set; text generation is disabled")
			return nil, nil
		}
		gemini, err := NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.EmbeddingModel, log)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	}
}
