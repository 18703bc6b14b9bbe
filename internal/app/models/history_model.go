package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditStatusHistory records every lifecycle transition of an audit. Rows
// are append-only; the FromStatus of the first row is nil.
type AuditStatusHistory struct {
	ID         uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	AuditID    uuid.UUID    `json:"audit_id" gorm:"type:uuid;not null;index"`
	FromStatus *AuditStatus `json:"from_status" gorm:"type:varchar(20)"`
	ToStatus   AuditStatus  `json:"to_status" gorm:"type:varchar(20);not null"`
	Reason     *string      `json:"reason,omitempty" gorm:"type:text"`
	CreatedBy  *uuid.UUID   `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (h *AuditStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
