package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
)

// HistoryService keeps the append-only transition log for audits.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{
		db: db,
	}
}

// LogStatusChange appends a transition row inside the caller's
// transaction so the log commits atomically with the transition itself.
func (s *HistoryService) LogStatusChange(tx *gorm.DB, auditID uuid.UUID, fromStatus *models.AuditStatus, toStatus models.AuditStatus, reason *string, createdBy *uuid.UUID) error {
	history := &models.AuditStatusHistory{
		AuditID:    auditID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		Reason:     reason,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now(),
	}

	if err := tx.Create(history).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to record status change")
	}

	return nil
}

// GetAuditHistory returns the transition log for one audit, newest first.
func (s *HistoryService) GetAuditHistory(auditID string) ([]*models.AuditStatusHistory, error) {
	parsedID, err := uuid.Parse(auditID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid audit ID format")
	}

	var history []*models.AuditStatusHistory
	if err := s.db.Where("audit_id = ?", parsedID).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audit history")
	}

	return history, nil
}
