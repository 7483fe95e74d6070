package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded resume. ContentHash is the SHA-256 of the raw
// bytes and doubles as the document-cache key and vector-store doc_id.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ContentHash      string    `gorm:"type:char(64);uniqueIndex;not null" json:"content_hash"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	FileType         string    `gorm:"type:text" json:"file_type"`
	FilePath         string    `gorm:"type:text" json:"file_path"`
	SizeBytes        int64     `json:"size_bytes"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}
