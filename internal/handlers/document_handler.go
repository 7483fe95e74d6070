package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/repositories"
)

// CacheInvalidator drops a document's cached ingestion.
type CacheInvalidator interface {
	Invalidate(hash string) bool
}

// ChunkForgetter deletes a document's stored chunks.
type ChunkForgetter interface {
	Forget(ctx context.Context, hash string) error
}

type DocumentHandler struct {
	docRepo repositories.DocumentRepository
	cache   CacheInvalidator
	chunks  ChunkForgetter
	logger  *zap.Logger
}

func NewDocumentHandler(docRepo repositories.DocumentRepository, cache CacheInvalidator, chunks ChunkForgetter, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docRepo: docRepo,
		cache:   cache,
		chunks:  chunks,
		logger:  logger.OrNop(log),
	}
}

// HandleInvalidateCache handles DELETE /documents/:id/cache. The next
// evaluation of the document ingests it again.
func (h *DocumentHandler) HandleInvalidateCache(c *fiber.Ctx) error {
	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID format",
		})
	}

	doc, err := h.docRepo.FindByID(docID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to look up document",
		})
	}

	cached := h.cache.Invalidate(doc.ContentHash)
	if err := h.chunks.Forget(c.UserContext(), doc.ContentHash); err != nil {
		h.logger.Error("deleting stored chunks failed", zap.String("document_id", docID.String()), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to delete stored chunks",
		})
	}

	return c.JSON(fiber.Map{
		"document_id": docID.String(),
		"was_cached":  cached,
	})
}
