package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/models"
	"alfredoptarigan/resume-scorer/internal/repositories"
	"alfredoptarigan/resume-scorer/internal/scoring"
)

// ParameterClassifier assigns a category to a parameter name.
type ParameterClassifier interface {
	Classify(ctx context.Context, name string) (scoring.Category, error)
}

// ParameterHandler manages the parameter configuration record.
type ParameterHandler struct {
	store      repositories.ParameterStore
	classifier ParameterClassifier
	logger     *zap.Logger
}

func NewParameterHandler(store repositories.ParameterStore, classifier ParameterClassifier, log *zap.Logger) *ParameterHandler {
	return &ParameterHandler{
		store:      store,
		classifier: classifier,
		logger:     logger.OrNop(log),
	}
}

// HandleList handles GET /parameters
func (h *ParameterHandler) HandleList(c *fiber.Ctx) error {
	params, err := h.store.Load()
	if err != nil {
		h.logger.Error("loading parameters failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load parameters",
		})
	}

	out := make([]models.ParameterResponse, 0, len(params))
	for _, p := range params {
		out = append(out, parameterResponse(p))
	}
	return c.JSON(fiber.Map{"parameters": out})
}

// HandleUpsert handles POST /parameters. When type is omitted the name is
// classified first.
func (h *ParameterHandler) HandleUpsert(c *fiber.Ctx) error {
	var req models.ParameterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	var category scoring.Category
	if req.Type == "" {
		classified, err := h.classifier.Classify(c.UserContext(), req.Name)
		if err != nil {
			return h.classifyError(c, err)
		}
		category = classified
	} else {
		parsed, err := scoring.ParseCategory(req.Type)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		category = parsed
	}

	var benefit scoring.BenefitType
	if category == scoring.Quantitative && req.BenefitType != "" {
		parsed, err := scoring.ParseBenefitType(req.BenefitType)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		benefit = parsed
	}

	p, err := scoring.NewParameter(req.Name, category, req.Weight, req.MaxValue, benefit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	p = p.WithDescription(req.Description)

	if err := h.store.Upsert(p); err != nil {
		h.logger.Error("saving parameter failed", zap.String("parameter", p.Key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save parameter",
		})
	}

	h.logger.Info("parameter saved", zap.String("parameter", p.Key), zap.String("category", string(p.Category)))
	return c.Status(fiber.StatusCreated).JSON(parameterResponse(p))
}

// HandleDelete handles DELETE /parameters/:key
func (h *ParameterHandler) HandleDelete(c *fiber.Ctx) error {
	key := c.Params("key")
	if err := h.store.Delete(key); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Parameter not found",
			})
		}
		h.logger.Error("deleting parameter failed", zap.String("parameter", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete parameter",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleClassify handles POST /parameters/classify
func (h *ParameterHandler) HandleClassify(c *fiber.Ctx) error {
	var req models.ClassifyRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	category, err := h.classifier.Classify(c.UserContext(), req.Name)
	if err != nil {
		return h.classifyError(c, err)
	}

	return c.JSON(models.ClassifyResponse{Name: req.Name, Type: category.Label()})
}

func (h *ParameterHandler) classifyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, scoring.ErrAmbiguousClassification):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
			"hint":  "set the type explicitly",
		})
	case errors.Is(err, scoring.ErrMissingCredential):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		h.logger.Error("classification failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Classification failed",
		})
	}
}

func parameterResponse(p scoring.Parameter) models.ParameterResponse {
	return models.ParameterResponse{
		Key:         p.Key,
		Name:        p.Name,
		Type:        string(p.Category),
		Weight:      p.Weight,
		MaxValue:    p.MaxValue,
		BenefitType: string(p.Benefit),
		Description: p.Description,
	}
}
