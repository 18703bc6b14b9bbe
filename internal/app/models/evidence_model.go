package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Evidence is the stored metadata of an uploaded file attached to an
// audit, optionally scoped to one of its line items or incidents. The raw
// bytes live in object storage; only the returned path is recorded here.
type Evidence struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	AuditID     uuid.UUID  `json:"audit_id" gorm:"type:uuid;not null;index"`
	LineItemID  *uuid.UUID `json:"line_item_id,omitempty" gorm:"type:uuid"`
	IncidentID  *uuid.UUID `json:"incident_id,omitempty" gorm:"type:uuid"`
	FileName    string     `json:"file_name" gorm:"type:varchar(255);not null"`
	StoragePath string     `json:"storage_path" gorm:"type:varchar(500);not null"`
	MediaType   string     `json:"media_type" gorm:"type:varchar(100);not null"`
	SizeBytes   int64      `json:"size_bytes" gorm:"not null"`
	Description *string    `json:"description,omitempty" gorm:"type:varchar(500)"`
	UploadedBy  uuid.UUID  `json:"uploaded_by" gorm:"type:uuid;not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (e *Evidence) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type EvidenceCreateRequest struct {
	LineItemID  *string `json:"line_item_id,omitempty" validate:"omitempty,uuid"`
	IncidentID  *string `json:"incident_id,omitempty" validate:"omitempty,uuid"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}
