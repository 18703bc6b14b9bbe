package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/errors"
)

type IncidentType string

const (
	IncidentTypeMissing       IncidentType = "MISSING"
	IncidentTypeOverage       IncidentType = "OVERAGE"
	IncidentTypeDamaged       IncidentType = "DAMAGED"
	IncidentTypeWrongItem     IncidentType = "WRONG_ITEM"
	IncidentTypeDocumentation IncidentType = "DOCUMENTATION"
	IncidentTypeOther         IncidentType = "OTHER"
)

type IncidentSeverity string

const (
	IncidentSeverityLow      IncidentSeverity = "LOW"
	IncidentSeverityMedium   IncidentSeverity = "MEDIUM"
	IncidentSeverityHigh     IncidentSeverity = "HIGH"
	IncidentSeverityCritical IncidentSeverity = "CRITICAL"
)

type IncidentStatus string

const (
	IncidentStatusOpen     IncidentStatus = "OPEN"
	IncidentStatusInReview IncidentStatus = "IN_REVIEW"
	IncidentStatusResolved IncidentStatus = "RESOLVED"
	IncidentStatusRejected IncidentStatus = "REJECTED"
)

// Incident is a flagged discrepancy tied to an audit and optionally to one
// of its line items.
type Incident struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	Number      string           `json:"number" gorm:"type:varchar(20);uniqueIndex;not null"`
	AuditID     uuid.UUID        `json:"audit_id" gorm:"type:uuid;not null;index"`
	LineItemID  *uuid.UUID       `json:"line_item_id,omitempty" gorm:"type:uuid;index"`
	Type        IncidentType     `json:"type" gorm:"type:varchar(20);not null"`
	Severity    IncidentSeverity `json:"severity" gorm:"type:varchar(20);not null"`
	Status      IncidentStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	Description string           `json:"description" gorm:"type:varchar(1000);not null"`
	Resolution  *string          `json:"resolution,omitempty" gorm:"type:text"`
	AssigneeID  *uuid.UUID       `json:"assignee_id,omitempty" gorm:"type:uuid"`
	CreatedBy   uuid.UUID        `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt   time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty"`
}

func (i *Incident) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsOpen reports whether the incident still accepts review outcomes.
func (i *Incident) IsOpen() bool {
	return i.Status == IncidentStatusOpen || i.Status == IncidentStatusInReview
}

// StartReview moves an OPEN incident into IN_REVIEW.
func (i *Incident) StartReview() error {
	if i.Status != IncidentStatusOpen {
		return errors.NewInvalidStateError(fmt.Sprintf("Cannot start review on a %s incident", i.Status))
	}
	i.Status = IncidentStatusInReview
	return nil
}

// Resolve records the resolution text and stamps ResolvedAt. Only OPEN or
// IN_REVIEW incidents can be resolved.
func (i *Incident) Resolve(resolution string, now time.Time) error {
	if !i.IsOpen() {
		return errors.NewInvalidStateError(fmt.Sprintf("Cannot resolve a %s incident", i.Status))
	}
	i.Status = IncidentStatusResolved
	i.Resolution = &resolution
	i.ResolvedAt = &now
	return nil
}

// Reject dismisses an OPEN or IN_REVIEW incident with a reason.
func (i *Incident) Reject(reason string, now time.Time) error {
	if !i.IsOpen() {
		return errors.NewInvalidStateError(fmt.Sprintf("Cannot reject a %s incident", i.Status))
	}
	i.Status = IncidentStatusRejected
	i.Resolution = &reason
	i.ResolvedAt = &now
	return nil
}

type IncidentCreateRequest struct {
	LineItemID  *string          `json:"line_item_id,omitempty" validate:"omitempty,uuid"`
	Type        IncidentType     `json:"type" validate:"required,oneof=MISSING OVERAGE DAMAGED WRONG_ITEM DOCUMENTATION OTHER"`
	Severity    IncidentSeverity `json:"severity" validate:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	Description string           `json:"description" validate:"required,max=1000"`
	AssigneeID  *string          `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
}

type IncidentUpdateRequest struct {
	Severity   *IncidentSeverity `json:"severity,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	AssigneeID *string           `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
}

type IncidentResolveRequest struct {
	Resolution string `json:"resolution" validate:"required,max=2000"`
}

type IncidentListFilter struct {
	Status   *IncidentStatus   `json:"status,omitempty" validate:"omitempty,oneof=OPEN IN_REVIEW RESOLVED REJECTED"`
	Type     *IncidentType     `json:"type,omitempty" validate:"omitempty,oneof=MISSING OVERAGE DAMAGED WRONG_ITEM DOCUMENTATION OTHER"`
	Severity *IncidentSeverity `json:"severity,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
}
