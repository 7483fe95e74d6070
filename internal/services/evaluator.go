package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/metrics"
	"alfredoptarigan/resume-scorer/internal/models"
	"alfredoptarigan/resume-scorer/internal/repositories"
	"alfredoptarigan/resume-scorer/internal/scoring"
)

// ErrNoParameters is recorded on an evaluation when the parameter record is empty.
var ErrNoParameters = errors.New("no parameters configured")

type EvaluatorService interface {
	EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error
}

// DocumentIngester is the expensive ingestion step the cache memoizes.
type DocumentIngester interface {
	Ingest(ctx context.Context, hash string, raw []byte, fileType string) (*Representation, error)
}

// ScoringEngine scores parameters against an ingested resume.
type ScoringEngine interface {
	Evaluate(ctx context.Context, params []scoring.Parameter, ec scoring.EvaluationContext) (*scoring.Report, error)
}

type evaluatorService struct {
	evalRepo   repositories.EvaluationRepository
	docRepo    repositories.DocumentRepository
	paramStore repositories.ParameterStore
	storage    StorageService
	cache      *DocumentCache
	ingester   DocumentIngester
	engine     ScoringEngine
	logger     *zap.Logger
}

func NewEvaluatorService(
	evalRepo repositories.EvaluationRepository,
	docRepo repositories.DocumentRepository,
	paramStore repositories.ParameterStore,
	storage StorageService,
	cache *DocumentCache,
	ingester DocumentIngester,
	engine ScoringEngine,
	log *zap.Logger,
) EvaluatorService {
	return &evaluatorService{
		evalRepo:   evalRepo,
		docRepo:    docRepo,
		paramStore: paramStore,
		storage:    storage,
		cache:      cache,
		ingester:   ingester,
		engine:     engine,
		logger:     logger.OrNop(log).Named("evaluator"),
	}
}

// EvaluateCandidate runs one queued evaluation to completion. Any failure
// before or during scoring marks the evaluation failed with the error text.
func (e *evaluatorService) EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error {
	if err := e.evalRepo.UpdateStatus(evalID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log := e.logger.With(zap.String("evaluation_id", evalID.String()))
	log.Info("evaluation started")

	report, err := e.run(ctx, evalID, log)
	if err != nil {
		metrics.Evaluations.WithLabelValues("error").Inc()
		log.Error("evaluation failed", zap.Error(err))

		var rows []models.ParameterScore
		if report != nil {
			rows = scoreRows(report)
		}
		if updateErr := e.evalRepo.UpdateError(evalID, err.Error(), rows); updateErr != nil {
			log.Error("failed to record evaluation error", zap.Error(updateErr))
		}
		return err
	}

	outcome := report.Outcome
	update := &repositories.EvaluationUpdateData{
		Verdict:            string(outcome.Status),
		FinalScore:         outcome.FinalScore,
		TotalWeightedScore: outcome.TotalWeightedScore,
		TotalWeight:        outcome.TotalWeight,
		PassingThreshold:   outcome.PassingThreshold,
		Scores:             scoreRows(report),
	}
	if err := e.evalRepo.UpdateResult(evalID, update); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	metrics.Evaluations.WithLabelValues(string(outcome.Status)).Inc()
	log.Info("evaluation completed",
		zap.Float64("final_score", outcome.FinalScore),
		zap.String("verdict", string(outcome.Status)),
	)
	return nil
}

func (e *evaluatorService) run(ctx context.Context, evalID uuid.UUID, log *zap.Logger) (*scoring.Report, error) {
	evaluation, err := e.evalRepo.FindByID(evalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	doc, err := e.docRepo.FindByID(evaluation.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	params, err := e.paramStore.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}
	if len(params) == 0 {
		return nil, ErrNoParameters
	}

	raw, err := e.storage.ReadFile(doc.FilePath)
	if err != nil {
		return nil, err
	}

	rep, err := e.cache.GetOrIngest(ctx, raw, func(ctx context.Context, hash string, raw []byte) (*Representation, error) {
		return e.ingester.Ingest(ctx, hash, raw, doc.FileType)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ingest document: %w", err)
	}
	if rep.Hash != doc.ContentHash {
		log.Warn("stored file no longer matches its recorded hash",
			zap.String("recorded", shortHash(doc.ContentHash)),
			zap.String("actual", shortHash(rep.Hash)),
		)
	}

	log.Info("scoring document",
		zap.String("doc", shortHash(rep.Hash)),
		zap.Int("parameters", len(params)),
	)
	return e.engine.Evaluate(ctx, params, rep)
}

// scoreRows flattens a report into persisted rows, scored parameters first in
// scoring order, then skipped ones.
func scoreRows(report *scoring.Report) []models.ParameterScore {
	rows := make([]models.ParameterScore, 0, len(report.Results)+len(report.Skipped))

	for _, r := range report.Results {
		raw, weighted := r.RawScore, r.WeightedScore
		row := models.ParameterScore{
			Position:      len(rows),
			ParameterKey:  r.ParameterKey,
			Category:      string(r.Category),
			RawScore:      &raw,
			Weight:        r.Weight,
			WeightedScore: &weighted,
		}
		if r.Degraded != "" {
			note := r.Degraded
			row.Note = &note
		}
		rows = append(rows, row)
	}

	for _, s := range report.Skipped {
		reason := s.Reason
		rows = append(rows, models.ParameterScore{
			Position:     len(rows),
			ParameterKey: s.ParameterKey,
			Category:     string(s.Category),
			Skipped:      true,
			Note:         &reason,
		})
	}

	return rows
}
