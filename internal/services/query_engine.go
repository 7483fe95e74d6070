package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/scoring"
)

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// QueryEngine answers questions about one ingested document: it embeds the
// question, retrieves that document's closest chunks and asks the model.
// Calls are not rate limited here; callers wrap Query in their own guard.
type QueryEngine struct {
	embedder Embedder
	store    QdrantService
	llm      scoring.Completer
	prompts  *PromptBuilder
	topK     int
	logger   *zap.Logger
}

func NewQueryEngine(embedder Embedder, store QdrantService, llm scoring.Completer, topK int, log *zap.Logger) *QueryEngine {
	if topK <= 0 {
		topK = 5
	}
	return &QueryEngine{
		embedder: embedder,
		store:    store,
		llm:      llm,
		prompts:  NewPromptBuilder(),
		topK:     topK,
		logger:   logger.OrNop(log).Named("query"),
	}
}

// Query answers question from the chunks stored under docHash.
func (q *QueryEngine) Query(ctx context.Context, docHash, question string) (string, error) {
	if q.llm == nil {
		return "", &scoring.ConfigError{Parameter: "query", Field: "credential", Reason: "no text-generation client configured", Err: scoring.ErrMissingCredential}
	}
	if docHash == "" {
		return "", errors.New("query needs a document hash")
	}

	embedding, err := q.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embedding question: %w", err)
	}

	results, err := q.store.SearchSimilar(ctx, docHash, embedding, q.topK)
	if err != nil {
		return "", fmt.Errorf("retrieving context: %w", err)
	}

	q.logger.Debug("retrieved context",
		zap.String("doc", shortHash(docHash)),
		zap.String("question", logger.Truncate(question, 80)),
		zap.Int("chunks", len(results)),
	)

	answer, err := q.llm.Complete(ctx, q.prompts.BuildAnswerPrompt(question, FormatRAGContext(results)))
	if err != nil {
		return "", fmt.Errorf("answering question: %w", err)
	}
	return answer, nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
