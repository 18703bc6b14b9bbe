package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/infrastructures"
)

type IncidentService struct {
	db             *gorm.DB
	validator      *infrastructures.Validator
	auditService   *AuditService
	counterService *CounterService
}

func NewIncidentService(db *gorm.DB, validator *infrastructures.Validator, auditService *AuditService, counterService *CounterService) *IncidentService {
	return &IncidentService{
		db:             db,
		validator:      validator,
		auditService:   auditService,
		counterService: counterService,
	}
}

// RaiseIncident flags a discrepancy on a mutable audit, minting the
// incident number and flipping the audit's derived has_incidents flag in
// one transaction.
func (s *IncidentService) RaiseIncident(auditID string, req *models.IncidentCreateRequest, createdBy uuid.UUID) (*models.Incident, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	audit, err := s.auditService.GetAudit(auditID)
	if err != nil {
		return nil, err
	}

	incident := &models.Incident{
		Type:        req.Type,
		Severity:    req.Severity,
		Status:      models.IncidentStatusOpen,
		Description: req.Description,
		CreatedBy:   createdBy,
	}

	if req.LineItemID != nil {
		lineItemID, err := uuid.Parse(*req.LineItemID)
		if err != nil {
			return nil, errors.NewValidationError("Invalid line item ID format")
		}
		if !auditOwnsLineItem(audit, lineItemID) {
			return nil, errors.NewNotFoundError("Line item not found on this audit")
		}
		incident.LineItemID = &lineItemID
	}

	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			return nil, errors.NewValidationError("Invalid assignee ID format")
		}
		incident.AssigneeID = &assigneeID
	}

	if err := audit.AttachIncident(incident); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		seq, err := s.counterService.NextSequence(tx, models.CounterIncidents)
		if err != nil {
			return err
		}
		incident.Number = FormatNumber("INC", seq)

		if err := tx.Create(incident).Error; err != nil {
			if err == gorm.ErrDuplicatedKey {
				return errors.NewConstraintViolationError("Incident number already exists")
			}
			return errors.NewInternalServerError(err, "Failed to create incident")
		}

		return versionedAuditUpdate(tx, audit, map[string]interface{}{
			"has_incidents": true,
		})
	})
	if err != nil {
		return nil, err
	}

	return incident, nil
}

func (s *IncidentService) GetIncident(incidentID string) (*models.Incident, error) {
	incidentUUID, err := uuid.Parse(incidentID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid incident ID format")
	}

	var incident models.Incident
	if err := s.db.Where("id = ?", incidentUUID).First(&incident).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Incident not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get incident")
	}

	return &incident, nil
}

func (s *IncidentService) GetIncidents(pagination *models.PaginationRequest, filter *models.IncidentListFilter) (*models.Pagination[[]models.Incident], error) {
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
		if filter.Type != nil {
			query = query.Where("type = ?", *filter.Type)
		}
		if filter.Severity != nil {
			query = query.Where("severity = ?", *filter.Severity)
		}
		return query
	}

	var totalItems int64
	if err := applyFilter(s.db.Model(&models.Incident{})).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count incidents")
	}

	var incidents []models.Incident
	query := applyFilter(s.db.Order("created_at DESC").Limit(pagination.Limit))
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&incidents).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get incidents")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Incident]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      incidents,
	}, nil
}

func (s *IncidentService) GetAuditIncidents(auditID string) ([]*models.Incident, error) {
	auditUUID, err := uuid.Parse(auditID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid audit ID format")
	}

	var incidents []*models.Incident
	if err := s.db.Where("audit_id = ?", auditUUID).
		Order("created_at ASC").
		Find(&incidents).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audit incidents")
	}

	return incidents, nil
}

func (s *IncidentService) StartReview(incidentID string) (*models.Incident, error) {
	incident, err := s.GetIncident(incidentID)
	if err != nil {
		return nil, err
	}

	if err := incident.StartReview(); err != nil {
		return nil, err
	}

	err = settleIncident(s.db, incident, []models.IncidentStatus{models.IncidentStatusOpen}, map[string]interface{}{
		"status": incident.Status,
	})
	if err != nil {
		return nil, err
	}

	return incident, nil
}

func (s *IncidentService) ResolveIncident(incidentID string, req *models.IncidentResolveRequest) (*models.Incident, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	incident, err := s.GetIncident(incidentID)
	if err != nil {
		return nil, err
	}

	if err := incident.Resolve(req.Resolution, time.Now()); err != nil {
		return nil, err
	}

	err = settleIncident(s.db, incident, openIncidentStatuses, map[string]interface{}{
		"status":      incident.Status,
		"resolution":  incident.Resolution,
		"resolved_at": incident.ResolvedAt,
	})
	if err != nil {
		return nil, err
	}

	return incident, nil
}

func (s *IncidentService) RejectIncident(incidentID string, req *models.IncidentResolveRequest) (*models.Incident, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	incident, err := s.GetIncident(incidentID)
	if err != nil {
		return nil, err
	}

	if err := incident.Reject(req.Resolution, time.Now()); err != nil {
		return nil, err
	}

	err = settleIncident(s.db, incident, openIncidentStatuses, map[string]interface{}{
		"status":      incident.Status,
		"resolution":  incident.Resolution,
		"resolved_at": incident.ResolvedAt,
	})
	if err != nil {
		return nil, err
	}

	return incident, nil
}

// UpdateIncident reassigns or reclassifies an incident that is still open.
func (s *IncidentService) UpdateIncident(incidentID string, req *models.IncidentUpdateRequest) (*models.Incident, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	incident, err := s.GetIncident(incidentID)
	if err != nil {
		return nil, err
	}
	if !incident.IsOpen() {
		return nil, errors.NewInvalidStateError("Cannot edit a " + string(incident.Status) + " incident")
	}

	values := map[string]interface{}{}
	if req.Severity != nil {
		incident.Severity = *req.Severity
		values["severity"] = *req.Severity
	}
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			return nil, errors.NewValidationError("Invalid assignee ID format")
		}
		var assignee models.User
		if err := s.db.Where("id = ?", assigneeID).First(&assignee).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.NewNotFoundError("Assignee not found")
			}
			return nil, errors.NewInternalServerError(err, "Failed to get assignee")
		}
		incident.AssigneeID = &assigneeID
		values["assignee_id"] = assigneeID
	}
	if len(values) == 0 {
		return incident, nil
	}

	if err := settleIncident(s.db, incident, openIncidentStatuses, values); err != nil {
		return nil, err
	}

	return incident, nil
}

var openIncidentStatuses = []models.IncidentStatus{
	models.IncidentStatusOpen,
	models.IncidentStatusInReview,
}

// settleIncident writes a review outcome only while the incident still
// holds one of the expected statuses in the database. Zero affected rows
// means another request settled it between load and write, so the stale
// write is refused instead of reverting the winner's transition.
func settleIncident(tx *gorm.DB, incident *models.Incident, from []models.IncidentStatus, values map[string]interface{}) error {
	res := tx.Model(&models.Incident{}).
		Where("id = ? AND status IN ?", incident.ID, from).
		Updates(values)
	if res.Error != nil {
		return errors.NewInternalServerError(res.Error, "Failed to update incident")
	}
	if res.RowsAffected == 0 {
		return errors.NewConcurrencyError("Incident was settled by another request, reload and retry")
	}
	return nil
}

func auditOwnsLineItem(audit *models.Audit, lineItemID uuid.UUID) bool {
	for _, item := range audit.LineItems {
		if item.ID == lineItemID {
			return true
		}
	}
	return false
}
