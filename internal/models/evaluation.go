package models

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationStatus string

const (
	StatusQueued     EvaluationStatus = "queued"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

// Evaluation is one scoring run of a document against the configured parameters.
type Evaluation struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DocumentID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"document_id"`
	Status             EvaluationStatus `gorm:"not null;default:'queued'" json:"status"`
	Verdict            *string          `gorm:"type:text" json:"verdict,omitempty"`
	FinalScore         *float64         `gorm:"type:decimal(6,2)" json:"final_score,omitempty"`
	TotalWeightedScore *float64         `json:"total_weighted_score,omitempty"`
	TotalWeight        *float64         `json:"total_weight,omitempty"`
	PassingThreshold   *float64         `json:"passing_threshold,omitempty"`
	ErrorMessage       *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt          time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Document        Document         `gorm:"foreignKey:DocumentID" json:"-"`
	ParameterScores []ParameterScore `gorm:"foreignKey:EvaluationID;constraint:OnDelete:CASCADE" json:"parameter_scores,omitempty"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// ParameterScore is one parameter's row in an evaluation. Skipped rows carry
// the reason and no score.
type ParameterScore struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	EvaluationID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position      int       `gorm:"not null" json:"position"`
	ParameterKey  string    `gorm:"type:text;not null" json:"parameter_key"`
	Category      string    `gorm:"type:text" json:"category"`
	RawScore      *float64  `json:"raw_score,omitempty"`
	Weight        float64   `json:"weight"`
	WeightedScore *float64  `json:"weighted_score,omitempty"`
	Skipped       bool      `json:"skipped"`
	Note          *string   `gorm:"type:text" json:"note,omitempty"`
}

func (ParameterScore) TableName() string {
	return "parameter_scores"
}
