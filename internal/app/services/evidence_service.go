package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/infrastructures"
)

// EvidenceService streams uploaded bytes to object storage and records the
// returned path as evidence metadata. The engine never reads the bytes
// back; downloads are the storage backend's concern.
type EvidenceService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	auditService *AuditService
	storage      infrastructures.ObjectStorage
}

func NewEvidenceService(db *gorm.DB, validator *infrastructures.Validator, auditService *AuditService, storage infrastructures.ObjectStorage) *EvidenceService {
	return &EvidenceService{
		db:           db,
		validator:    validator,
		auditService: auditService,
		storage:      storage,
	}
}

func (s *EvidenceService) UploadEvidence(ctx context.Context, auditID string, req *models.EvidenceCreateRequest, fileName, mediaType string, data []byte, uploadedBy uuid.UUID) (*models.Evidence, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.NewValidationError("Uploaded file is empty",
			errors.FieldError{Field: "file", Message: "must not be empty"})
	}
	if fileName == "" {
		return nil, errors.NewValidationError("File name is required",
			errors.FieldError{Field: "file", Message: "file name is required"})
	}
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	audit, err := s.auditService.GetAudit(auditID)
	if err != nil {
		return nil, err
	}

	evidence := &models.Evidence{
		FileName:    fileName,
		MediaType:   mediaType,
		SizeBytes:   int64(len(data)),
		Description: req.Description,
		UploadedBy:  uploadedBy,
	}

	if req.LineItemID != nil {
		lineItemID, err := uuid.Parse(*req.LineItemID)
		if err != nil {
			return nil, errors.NewValidationError("Invalid line item ID format")
		}
		if !auditOwnsLineItem(audit, lineItemID) {
			return nil, errors.NewNotFoundError("Line item not found on this audit")
		}
		evidence.LineItemID = &lineItemID
	}

	if req.IncidentID != nil {
		incidentID, err := uuid.Parse(*req.IncidentID)
		if err != nil {
			return nil, errors.NewValidationError("Invalid incident ID format")
		}
		if !auditOwnsIncident(audit, incidentID) {
			return nil, errors.NewNotFoundError("Incident not found on this audit")
		}
		evidence.IncidentID = &incidentID
	}

	// State guard runs before the upload so no orphan object is written
	// for a rejected request.
	if err := audit.AttachEvidence(evidence); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("audits/%s/%s-%s", audit.ID, uuid.New().String(), fileName)
	storagePath, err := s.storage.Put(ctx, objectName, mediaType, data)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to store evidence file")
	}
	evidence.StoragePath = storagePath

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(evidence).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to create evidence record")
		}
		return versionedAuditUpdate(tx, audit, map[string]interface{}{})
	})
	if err != nil {
		// The DB write failed after the object was stored; remove the
		// orphan best-effort.
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			infrastructures.GetLogger().Warnf("failed to remove orphan evidence object %s: %v", storagePath, delErr)
		}
		return nil, err
	}

	return evidence, nil
}

func (s *EvidenceService) GetEvidence(evidenceID string) (*models.Evidence, error) {
	evidenceUUID, err := uuid.Parse(evidenceID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid evidence ID format")
	}

	var evidence models.Evidence
	if err := s.db.Where("id = ?", evidenceUUID).First(&evidence).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Evidence not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get evidence")
	}

	return &evidence, nil
}

func (s *EvidenceService) GetAuditEvidences(auditID string) ([]*models.Evidence, error) {
	auditUUID, err := uuid.Parse(auditID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid audit ID format")
	}

	var evidences []*models.Evidence
	if err := s.db.Where("audit_id = ?", auditUUID).
		Order("created_at ASC").
		Find(&evidences).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audit evidences")
	}

	return evidences, nil
}

func (s *EvidenceService) DeleteEvidence(ctx context.Context, evidenceID string) error {
	evidence, err := s.GetEvidence(evidenceID)
	if err != nil {
		return err
	}

	audit, err := s.auditService.GetAudit(evidence.AuditID.String())
	if err != nil {
		return err
	}
	if !audit.IsMutable() {
		return errors.NewInvalidStateError("Cannot remove evidence from a " + string(audit.Status) + " audit")
	}

	if err := s.db.Delete(evidence).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to delete evidence record")
	}

	if err := s.storage.Delete(ctx, evidence.StoragePath); err != nil {
		infrastructures.GetLogger().Warnf("failed to remove evidence object %s: %v", evidence.StoragePath, err)
	}

	return nil
}

func auditOwnsIncident(audit *models.Audit, incidentID uuid.UUID) bool {
	for _, incident := range audit.Incidents {
		if incident.ID == incidentID {
			return true
		}
	}
	return false
}
