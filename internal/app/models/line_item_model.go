package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LineItem is one product's expected-vs-received record inside an audit.
// Difference is derived from its inputs on every write, never authoritative
// on its own.
type LineItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AuditID     uuid.UUID `json:"audit_id" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ExpectedQty int64     `json:"expected_qty" gorm:"not null"`
	ReceivedQty int64     `json:"received_qty" gorm:"not null"`
	Difference  int64     `json:"difference" gorm:"not null"`
	Notes       *string   `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (l *LineItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Recompute refreshes the derived difference after a quantity change.
func (l *LineItem) Recompute() {
	l.Difference = l.ReceivedQty - l.ExpectedQty
}

type LineItemCreateRequest struct {
	ProductID   string  `json:"product_id" validate:"required,uuid"`
	ExpectedQty int64   `json:"expected_qty" validate:"min=0"`
	ReceivedQty int64   `json:"received_qty" validate:"min=0"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type LineItemUpdateRequest struct {
	ExpectedQty *int64  `json:"expected_qty,omitempty" validate:"omitempty,min=0"`
	ReceivedQty *int64  `json:"received_qty,omitempty" validate:"omitempty,min=0"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
