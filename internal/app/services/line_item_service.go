package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/infrastructures"
)

type LineItemService struct {
	db             *gorm.DB
	validator      *infrastructures.Validator
	auditService   *AuditService
	historyService *HistoryService
}

func NewLineItemService(db *gorm.DB, validator *infrastructures.Validator, auditService *AuditService, historyService *HistoryService) *LineItemService {
	return &LineItemService{
		db:             db,
		validator:      validator,
		auditService:   auditService,
		historyService: historyService,
	}
}

// AddLineItem appends one expected-vs-received record to an audit. The
// aggregate decides whether the audit still accepts items and whether the
// append promotes it out of DRAFT; this service persists that outcome.
func (s *LineItemService) AddLineItem(auditID string, req *models.LineItemCreateRequest, actor uuid.UUID) (*models.LineItem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	audit, err := s.auditService.GetAudit(auditID)
	if err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid product ID format")
	}

	var product models.Product
	if err := s.db.Where("id = ?", productID).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Product not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get product")
	}

	item := &models.LineItem{
		ProductID:   productID,
		ExpectedQty: req.ExpectedQty,
		ReceivedQty: req.ReceivedQty,
		Notes:       req.Notes,
	}

	fromStatus := audit.Status
	if err := audit.AddLineItem(item); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to create line item")
		}

		values := map[string]interface{}{"status": audit.Status}
		if err := versionedAuditUpdate(tx, audit, values); err != nil {
			return err
		}

		if fromStatus != audit.Status {
			return s.historyService.LogStatusChange(tx, audit.ID, &fromStatus, audit.Status, nil, &actor)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *LineItemService) GetLineItems(auditID string) ([]*models.LineItem, error) {
	auditUUID, err := uuid.Parse(auditID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid audit ID format")
	}

	var items []*models.LineItem
	if err := s.db.Preload("Product").
		Where("audit_id = ?", auditUUID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get line items")
	}

	return items, nil
}

// UpdateLineItem edits quantities or notes while the audit is mutable.
// The difference is always recomputed from the new inputs.
func (s *LineItemService) UpdateLineItem(auditID, itemID string, req *models.LineItemUpdateRequest) (*models.LineItem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	audit, item, err := s.getOwnedItem(auditID, itemID)
	if err != nil {
		return nil, err
	}
	if !audit.IsMutable() {
		return nil, errors.NewInvalidStateError("Cannot edit line items of a " + string(audit.Status) + " audit")
	}

	if req.ExpectedQty != nil {
		item.ExpectedQty = *req.ExpectedQty
	}
	if req.ReceivedQty != nil {
		item.ReceivedQty = *req.ReceivedQty
	}
	if req.Notes != nil {
		item.Notes = req.Notes
	}
	item.Recompute()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to update line item")
		}
		// Bump the parent version so concurrent audit edits are serialized.
		return versionedAuditUpdate(tx, audit, map[string]interface{}{})
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// RemoveLineItem deletes an item while the audit is mutable. The audit
// stays IN_PROCESS even when the last item is removed; it can no longer
// return to DRAFT.
func (s *LineItemService) RemoveLineItem(auditID, itemID string) error {
	audit, item, err := s.getOwnedItem(auditID, itemID)
	if err != nil {
		return err
	}
	if !audit.IsMutable() {
		return errors.NewInvalidStateError("Cannot remove line items from a " + string(audit.Status) + " audit")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(item).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete line item")
		}
		return versionedAuditUpdate(tx, audit, map[string]interface{}{})
	})
}

func (s *LineItemService) getOwnedItem(auditID, itemID string) (*models.Audit, *models.LineItem, error) {
	audit, err := s.auditService.GetAudit(auditID)
	if err != nil {
		return nil, nil, err
	}

	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		return nil, nil, errors.NewValidationError("Invalid line item ID format")
	}

	var item models.LineItem
	if err := s.db.Where("id = ? AND audit_id = ?", itemUUID, audit.ID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, errors.NewNotFoundError("Line item not found")
		}
		return nil, nil, errors.NewInternalServerError(err, "Failed to get line item")
	}

	return audit, &item, nil
}
