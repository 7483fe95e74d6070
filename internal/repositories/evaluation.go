package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-scorer/internal/models"
)

type EvaluationRepository interface {
	Create(eval *models.Evaluation) error
	FindByID(id uuid.UUID) (*models.Evaluation, error)
	UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error
	UpdateResult(id uuid.UUID, result *EvaluationUpdateData) error
	UpdateError(id uuid.UUID, errorMsg string, scores []models.ParameterScore) error
	FindPendingJobs(limit int) ([]models.Evaluation, error)
}

// EvaluationUpdateData is the outcome of a completed run.
type EvaluationUpdateData struct {
	Verdict            string
	FinalScore         float64
	TotalWeightedScore float64
	TotalWeight        float64
	PassingThreshold   float64
	Scores             []models.ParameterScore
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(eval *models.Evaluation) error {
	if err := r.db.Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

// FindByID loads the evaluation with its parameter rows in scoring order.
func (r *evaluationRepository) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := r.db.
		Preload("ParameterScores", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&eval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &eval, nil
}

func (r *evaluationRepository) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	result := r.db.Model(&models.Evaluation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
	}

	return nil
}

// UpdateResult marks the evaluation completed and replaces its parameter rows
// in one transaction.
func (r *evaluationRepository) UpdateResult(id uuid.UUID, data *EvaluationUpdateData) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Evaluation{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":               models.StatusCompleted,
				"verdict":              data.Verdict,
				"final_score":          data.FinalScore,
				"total_weighted_score": data.TotalWeightedScore,
				"total_weight":         data.TotalWeight,
				"passing_threshold":    data.PassingThreshold,
				"error_message":        nil,
				"updated_at":           time.Now(),
			})

		if result.Error != nil {
			return fmt.Errorf("failed to update result: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
		}

		return replaceScores(tx, id, data.Scores)
	})
}

// UpdateError marks the evaluation failed. Any parameter rows produced before
// the failure are kept for diagnosis.
func (r *evaluationRepository) UpdateError(id uuid.UUID, errorMsg string, scores []models.ParameterScore) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Evaluation{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":        models.StatusFailed,
				"error_message": errorMsg,
				"updated_at":    time.Now(),
			})

		if result.Error != nil {
			return fmt.Errorf("failed to update error: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
		}

		return replaceScores(tx, id, scores)
	})
}

func replaceScores(tx *gorm.DB, id uuid.UUID, scores []models.ParameterScore) error {
	if err := tx.Where("evaluation_id = ?", id).Delete(&models.ParameterScore{}).Error; err != nil {
		return fmt.Errorf("failed to clear parameter scores: %w", err)
	}
	if len(scores) == 0 {
		return nil
	}

	for i := range scores {
		scores[i].ID = 0
		scores[i].EvaluationID = id
	}
	if err := tx.Create(&scores).Error; err != nil {
		return fmt.Errorf("failed to save parameter scores: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&evals).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return evals, nil
}
