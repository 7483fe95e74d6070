package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/resilience"
)

// Representation is an ingested resume: its text and a handle for semantic
// queries against its stored chunks. It satisfies scoring.EvaluationContext.
type Representation struct {
	Hash       string
	Text       string
	PageCount  int
	ChunkCount int

	engine *QueryEngine
}

// ResumeText is the structured resume text used by textual evaluation.
func (r *Representation) ResumeText() string {
	return r.Text
}

// Query answers question from this resume's chunks only.
func (r *Representation) Query(ctx context.Context, question string) (string, error) {
	if r.engine == nil {
		return "", fmt.Errorf("document %s has no query engine", shortHash(r.Hash))
	}
	return r.engine.Query(ctx, r.Hash, question)
}

// Ingestor extracts, chunks, embeds and stores a document.
type Ingestor struct {
	extractor DocumentExtractor
	chunker   TextChunker
	embedder  Embedder
	store     QdrantService
	engine    *QueryEngine
	guard     *resilience.Guard
	logger    *zap.Logger
}

func NewIngestor(
	extractor DocumentExtractor,
	chunker TextChunker,
	embedder Embedder,
	store QdrantService,
	engine *QueryEngine,
	guard *resilience.Guard,
	log *zap.Logger,
) *Ingestor {
	return &Ingestor{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		engine:    engine,
		guard:     guard,
		logger:    logger.OrNop(log).Named("ingest"),
	}
}

// Ingest stores raw under hash. Each chunk embedding is a guarded call, so a
// long resume spends several rate-limit slots.
func (i *Ingestor) Ingest(ctx context.Context, hash string, raw []byte, fileType string) (*Representation, error) {
	doc, err := i.extractor.Extract(raw, fileType)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	type piece struct {
		section string
		text    string
	}
	var pieces []piece
	for _, c := range i.chunker.Chunk(doc.Text) {
		pieces = append(pieces, piece{section: "resume", text: c})
	}
	for _, s := range []piece{
		{section: "experience", text: doc.Experience},
		{section: "education", text: doc.Education},
		{section: "skills", text: doc.Skills},
	} {
		for _, c := range i.chunker.Chunk(s.text) {
			pieces = append(pieces, piece{section: s.section, text: c})
		}
	}

	chunks := make([]EmbeddedChunk, 0, len(pieces))
	for idx, p := range pieces {
		embedding, err := resilience.Call(ctx, i.guard, "embed", func(ctx context.Context) ([]float32, error) {
			return i.embedder.Embed(ctx, p.text)
		})
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d of %d: %w", idx+1, len(pieces), err)
		}
		chunks = append(chunks, EmbeddedChunk{Index: idx, Section: p.section, Text: p.text, Embedding: embedding})
	}

	if err := i.store.UpsertChunks(ctx, hash, chunks); err != nil {
		return nil, fmt.Errorf("storing chunks: %w", err)
	}

	i.logger.Info("document ingested",
		zap.String("doc", shortHash(hash)),
		zap.Int("pages", doc.PageCount),
		zap.Int("chunks", len(chunks)),
	)

	return &Representation{
		Hash:       hash,
		Text:       doc.StructuredText(),
		PageCount:  doc.PageCount,
		ChunkCount: len(chunks),
		engine:     i.engine,
	}, nil
}

// Forget removes the stored chunks of hash.
func (i *Ingestor) Forget(ctx context.Context, hash string) error {
	return i.store.DeleteDocument(ctx, hash)
}
