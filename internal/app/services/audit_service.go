package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/infrastructures"
)

// AuditService orchestrates the audit lifecycle: the aggregate methods on
// models.Audit decide whether a transition is legal, this service mints
// numbers, persists the outcome under an optimistic version check and logs
// the transition.
type AuditService struct {
	db             *gorm.DB
	validator      *infrastructures.Validator
	counterService *CounterService
	historyService *HistoryService
}

func NewAuditService(db *gorm.DB, validator *infrastructures.Validator, counterService *CounterService, historyService *HistoryService) *AuditService {
	return &AuditService{
		db:             db,
		validator:      validator,
		counterService: counterService,
		historyService: historyService,
	}
}

func (s *AuditService) CreateAudit(req *models.AuditCreateRequest, createdBy uuid.UUID) (*models.Audit, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid supplier ID format")
	}

	var supplier models.Supplier
	if err := s.db.Where("id = ?", supplierID).First(&supplier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Supplier not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get supplier")
	}
	if !supplier.Active {
		return nil, errors.NewValidationError("Supplier is inactive",
			errors.FieldError{Field: "supplier_id", Message: "supplier is inactive"})
	}

	receptionDate := time.Now()
	if req.ReceptionDate != nil {
		receptionDate = *req.ReceptionDate
	}

	var audit *models.Audit
	err = s.db.Transaction(func(tx *gorm.DB) error {
		seq, err := s.counterService.NextSequence(tx, models.CounterAudits)
		if err != nil {
			return err
		}

		audit = &models.Audit{
			Number:              FormatNumber("AUD", seq),
			ReceptionDate:       receptionDate,
			SupplierID:          supplierID,
			PurchaseOrderNumber: req.PurchaseOrderNumber,
			Status:              models.AuditStatusDraft,
			Notes:               req.Notes,
			CreatedBy:           createdBy,
			Version:             1,
		}

		if err := tx.Create(audit).Error; err != nil {
			if err == gorm.ErrDuplicatedKey {
				return errors.NewConstraintViolationError("Audit number already exists")
			}
			return errors.NewInternalServerError(err, "Failed to create audit")
		}

		return s.historyService.LogStatusChange(tx, audit.ID, nil, models.AuditStatusDraft, nil, &createdBy)
	})
	if err != nil {
		return nil, err
	}

	return audit, nil
}

func (s *AuditService) GetAudit(auditID string) (*models.Audit, error) {
	auditUUID, err := uuid.Parse(auditID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid audit ID format")
	}

	var audit models.Audit
	err = s.db.Preload("Supplier").
		Preload("LineItems").
		Preload("LineItems.Product").
		Preload("Incidents").
		Preload("Evidences").
		Where("id = ?", auditUUID).
		First(&audit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Audit not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get audit")
	}

	return &audit, nil
}

func (s *AuditService) GetAudits(pagination *models.PaginationRequest, filter *models.AuditListFilter) (*models.Pagination[[]models.Audit], error) {
	if err := s.validator.Validate(filter); err != nil {
		return nil, err
	}

	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	applyFilter := func(query *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.SupplierID != nil {
			query = query.Where("supplier_id = ?", *filter.SupplierID)
		}
		if filter.DateFrom != nil {
			query = query.Where("reception_date >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			query = query.Where("reception_date <= ?", *filter.DateTo)
		}
		return query
	}

	var totalItems int64
	if err := applyFilter(s.db.Model(&models.Audit{})).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count audits")
	}

	var audits []models.Audit
	query := applyFilter(s.db.Preload("Supplier")).
		Order("created_at DESC").
		Limit(pagination.Limit)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&audits).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audits")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Audit]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      audits,
	}, nil
}

// UpdateAudit edits header fields. Only mutable audits accept edits; the
// number is immutable for the lifetime of the record.
func (s *AuditService) UpdateAudit(auditID string, req *models.AuditUpdateRequest) (*models.Audit, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	audit, err := s.GetAudit(auditID)
	if err != nil {
		return nil, err
	}

	if !audit.IsMutable() {
		return nil, errors.NewInvalidStateError("Cannot edit a " + string(audit.Status) + " audit")
	}

	values := map[string]interface{}{}
	if req.ReceptionDate != nil {
		values["reception_date"] = *req.ReceptionDate
		audit.ReceptionDate = *req.ReceptionDate
	}
	if req.Notes != nil {
		values["notes"] = *req.Notes
		audit.Notes = req.Notes
	}
	if len(values) == 0 {
		return audit, nil
	}

	if err := s.versionedUpdate(s.db, audit, values); err != nil {
		return nil, err
	}

	return audit, nil
}

func (s *AuditService) FinalizeAudit(auditID string, actor uuid.UUID) (*models.Audit, error) {
	return s.transition(auditID, actor, nil, func(audit *models.Audit, now time.Time) (map[string]interface{}, error) {
		if err := audit.Finalize(now); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status":       audit.Status,
			"finalized_at": audit.FinalizedAt,
		}, nil
	})
}

func (s *AuditService) CloseAudit(auditID string, actor uuid.UUID) (*models.Audit, error) {
	return s.transition(auditID, actor, nil, func(audit *models.Audit, now time.Time) (map[string]interface{}, error) {
		if err := audit.Close(now); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status":    audit.Status,
			"closed_at": audit.ClosedAt,
		}, nil
	})
}

func (s *AuditService) CancelAudit(auditID string, actor uuid.UUID, reason *string) (*models.Audit, error) {
	return s.transition(auditID, actor, reason, func(audit *models.Audit, now time.Time) (map[string]interface{}, error) {
		if err := audit.Cancel(); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status": audit.Status,
		}, nil
	})
}

// DeleteAudit removes a DRAFT audit and its children. Anything past DRAFT
// is part of the receiving record and can only be cancelled.
func (s *AuditService) DeleteAudit(auditID string) error {
	audit, err := s.GetAudit(auditID)
	if err != nil {
		return err
	}

	if audit.Status != models.AuditStatusDraft {
		return errors.NewInvalidStateError("Only draft audits can be deleted")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("audit_id = ?", audit.ID).Delete(&models.Evidence{}).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete audit evidence")
		}
		if err := tx.Where("audit_id = ?", audit.ID).Delete(&models.Incident{}).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete audit incidents")
		}
		if err := tx.Where("audit_id = ?", audit.ID).Delete(&models.LineItem{}).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete audit line items")
		}
		if err := tx.Where("audit_id = ?", audit.ID).Delete(&models.AuditStatusHistory{}).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete audit history")
		}
		if err := tx.Delete(&models.Audit{}, audit.ID).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete audit")
		}
		return nil
	})
}

// transition runs one lifecycle edge: load, apply the pure aggregate
// method, persist status fields under the version check, log history.
func (s *AuditService) transition(auditID string, actor uuid.UUID, reason *string, apply func(*models.Audit, time.Time) (map[string]interface{}, error)) (*models.Audit, error) {
	audit, err := s.GetAudit(auditID)
	if err != nil {
		return nil, err
	}

	fromStatus := audit.Status
	values, err := apply(audit, time.Now())
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.versionedUpdate(tx, audit, values); err != nil {
			return err
		}
		return s.historyService.LogStatusChange(tx, audit.ID, &fromStatus, audit.Status, reason, &actor)
	})
	if err != nil {
		return nil, err
	}

	return audit, nil
}

func (s *AuditService) versionedUpdate(tx *gorm.DB, audit *models.Audit, values map[string]interface{}) error {
	return versionedAuditUpdate(tx, audit, values)
}

// versionedAuditUpdate writes the given fields only if the aggregate
// version is unchanged since load. Zero affected rows means a concurrent
// writer won. Shared by every service that mutates an audit's row.
func versionedAuditUpdate(tx *gorm.DB, audit *models.Audit, values map[string]interface{}) error {
	values["version"] = audit.Version + 1

	res := tx.Model(&models.Audit{}).
		Where("id = ? AND version = ?", audit.ID, audit.Version).
		Updates(values)
	if res.Error != nil {
		return errors.NewInternalServerError(res.Error, "Failed to update audit")
	}
	if res.RowsAffected == 0 {
		return errors.NewConcurrencyError("Audit was modified by another request, reload and retry")
	}

	audit.Version++
	return nil
}
