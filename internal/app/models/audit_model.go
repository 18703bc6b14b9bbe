package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/errors"
)

type AuditStatus string

const (
	AuditStatusDraft     AuditStatus = "DRAFT"
	AuditStatusInProcess AuditStatus = "IN_PROCESS"
	AuditStatusFinalized AuditStatus = "FINALIZED"
	AuditStatusClosed    AuditStatus = "CLOSED"
	AuditStatusCancelled AuditStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible.
func (s AuditStatus) IsTerminal() bool {
	return s == AuditStatusClosed || s == AuditStatusCancelled
}

// Audit is a single receiving inspection against a supplier delivery. It
// owns its line items, incidents and evidence; children never outlive it
// and may only be added while the audit is still mutable.
type Audit struct {
	ID                  uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Number              string      `json:"number" gorm:"type:varchar(20);uniqueIndex;not null"`
	ReceptionDate       time.Time   `json:"reception_date" gorm:"not null"`
	SupplierID          uuid.UUID   `json:"supplier_id" gorm:"type:uuid;not null;index"`
	PurchaseOrderNumber string      `json:"purchase_order_number" gorm:"type:varchar(50);not null"`
	Status              AuditStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Notes               *string     `json:"notes,omitempty" gorm:"type:text"`
	HasIncidents        bool        `json:"has_incidents" gorm:"not null;default:false"`
	CreatedBy           uuid.UUID   `json:"created_by" gorm:"type:uuid;not null"`
	Version             int64       `json:"version" gorm:"not null;default:1"`
	CreatedAt           time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
	FinalizedAt         *time.Time  `json:"finalized_at,omitempty"`
	ClosedAt            *time.Time  `json:"closed_at,omitempty"`

	Supplier  Supplier   `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	LineItems []LineItem `json:"line_items,omitempty" gorm:"foreignKey:AuditID"`
	Incidents []Incident `json:"incidents,omitempty" gorm:"foreignKey:AuditID"`
	Evidences []Evidence `json:"evidences,omitempty" gorm:"foreignKey:AuditID"`
}

func (a *Audit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsMutable reports whether children may still be attached and header
// fields edited.
func (a *Audit) IsMutable() bool {
	return a.Status == AuditStatusDraft || a.Status == AuditStatusInProcess
}

// AddLineItem appends a line item, recomputing its difference. The first
// line item promotes the audit from DRAFT to IN_PROCESS. All checks run
// before any mutation.
func (a *Audit) AddLineItem(item *LineItem) error {
	if !a.IsMutable() {
		return errors.NewInvalidStateError(fmt.Sprintf("Cannot add line items to a %s audit", a.Status))
	}
	if item.ExpectedQty < 0 || item.ReceivedQty < 0 {
		return errors.NewValidationError("Quantities must be non-negative",
			errors.FieldError{Field: "expected_qty", Message: "must be >= 0"},
			errors.FieldError{Field: "received_qty", Message: "must be >= 0"})
	}
	item.AuditID = a.ID
	item.Difference = item.ReceivedQty - item.ExpectedQty
	a.LineItems = append(a.LineItems, *item)
	if a.Status == AuditStatusDraft {
		a.Status = AuditStatusInProcess
	}
	return nil
}

// AttachIncident records a discrepancy against the audit and flips the
// derived HasIncidents flag.
func (a *Audit) AttachIncident(incident *Incident) error {
	if !a.IsMutable() {
		return errors.NewInvalidStateError(fmt.Sprintf("Cannot raise incidents on a %s audit", a.Status))
	}
	incident.AuditID = a.ID
	a.Incidents = append(a.Incidents, *incident)
	a.HasIncidents = true
	return nil
}

// AttachEvidence records uploaded file metadata against the audit.
func (a *Audit) AttachEvidence(evidence *Evidence) error {
	if !a.IsMutable() {
		return errors.NewInvalidStateError(fmt.Sprintf("Cannot attach evidence to a %s audit", a.Status))
	}
	evidence.AuditID = a.ID
	a.Evidences = append(a.Evidences, *evidence)
	return nil
}

// Finalize moves the audit from IN_PROCESS to FINALIZED and stamps
// FinalizedAt. An audit with zero line items never left DRAFT and cannot
// finalize. Open incidents do not block finalization.
func (a *Audit) Finalize(now time.Time) error {
	if a.Status != AuditStatusInProcess {
		if a.Status == AuditStatusDraft {
			return errors.NewInvalidStateError("Cannot finalize an audit without line items")
		}
		return errors.NewInvalidStateError(fmt.Sprintf("Cannot finalize a %s audit", a.Status))
	}
	if len(a.LineItems) == 0 {
		return errors.NewInvalidStateError("Cannot finalize an audit without line items")
	}
	a.Status = AuditStatusFinalized
	a.FinalizedAt = &now
	return nil
}

// Close moves the audit from FINALIZED to CLOSED and stamps ClosedAt.
func (a *Audit) Close(now time.Time) error {
	if a.Status != AuditStatusFinalized {
		return errors.NewInvalidStateError(fmt.Sprintf("Cannot close a %s audit, it must be finalized first", a.Status))
	}
	a.Status = AuditStatusClosed
	a.ClosedAt = &now
	return nil
}

// Cancel abandons a DRAFT or IN_PROCESS audit. Finalized audits cannot be
// cancelled.
func (a *Audit) Cancel() error {
	if !a.IsMutable() {
		return errors.NewInvalidStateError(fmt.Sprintf("Cannot cancel a %s audit", a.Status))
	}
	a.Status = AuditStatusCancelled
	return nil
}

type AuditCreateRequest struct {
	SupplierID          string     `json:"supplier_id" validate:"required,uuid"`
	PurchaseOrderNumber string     `json:"purchase_order_number" validate:"required,max=50"`
	ReceptionDate       *time.Time `json:"reception_date,omitempty"`
	Notes               *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type AuditUpdateRequest struct {
	ReceptionDate *time.Time `json:"reception_date,omitempty"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type AuditListFilter struct {
	Status     *AuditStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT IN_PROCESS FINALIZED CLOSED CANCELLED"`
	SupplierID *string      `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	DateFrom   *time.Time   `json:"date_from,omitempty"`
	DateTo     *time.Time   `json:"date_to,omitempty"`
}
