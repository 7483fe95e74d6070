package handlers

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/models"
	"alfredoptarigan/resume-scorer/internal/repositories"
	"alfredoptarigan/resume-scorer/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
	logger         *zap.Logger
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
		logger:         logger.OrNop(log),
	}
}

// HandleUpload handles POST /upload. The multipart field is "resume"; the
// same content uploaded twice returns the existing document.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing 'resume' file (PDF or TXT)",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	fileType, err := services.FileTypeFromName(file.Filename)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxFileSize+1))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}
	if int64(len(data)) > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	hash := services.ContentHash(data)

	existing, err := h.docRepo.FindByHash(hash)
	if err == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message":  "Document already uploaded",
			"document": uploadResponse(existing, true),
		})
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		h.logger.Error("document lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to check for existing document",
		})
	}

	filePath, err := h.storageService.SaveFile(hash, fileType, data)
	if err != nil {
		h.logger.Error("saving upload failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save resume file",
		})
	}

	doc := models.Document{
		ID:               uuid.New(),
		ContentHash:      hash,
		OriginalFileName: file.Filename,
		FileType:         fileType,
		FilePath:         filePath,
		SizeBytes:        int64(len(data)),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup uploaded file if database insert fails
		if rmErr := h.storageService.DeleteFile(filePath); rmErr != nil {
			h.logger.Warn("cleanup after failed insert", zap.Error(rmErr))
		}
		h.logger.Error("saving document record failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save resume document record",
		})
	}

	h.logger.Info("resume uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("file_type", fileType),
		zap.Int64("size_bytes", doc.SizeBytes),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "File uploaded successfully",
		"document": uploadResponse(&doc, false),
	})
}

func uploadResponse(doc *models.Document, duplicate bool) models.UploadResponse {
	return models.UploadResponse{
		ID:           doc.ID.String(),
		ContentHash:  doc.ContentHash,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
		Duplicate:    duplicate,
	}
}
