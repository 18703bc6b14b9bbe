package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Supplier struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Code         string    `json:"code" gorm:"type:varchar(30);uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"type:varchar(150);not null"`
	ContactName  *string   `json:"contact_name,omitempty" gorm:"type:varchar(150)"`
	ContactEmail *string   `json:"contact_email,omitempty" gorm:"type:varchar(255)"`
	ContactPhone *string   `json:"contact_phone,omitempty" gorm:"type:varchar(30)"`
	Address      *string   `json:"address,omitempty" gorm:"type:varchar(500)"`
	Active       bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type SupplierCreateRequest struct {
	Code         string  `json:"code" validate:"required,max=30"`
	Name         string  `json:"name" validate:"required,max=150"`
	ContactName  *string `json:"contact_name,omitempty" validate:"omitempty,max=150"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone,omitempty" validate:"omitempty,max=30"`
	Address      *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

type SupplierUpdateRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=150"`
	ContactName  *string `json:"contact_name,omitempty" validate:"omitempty,max=150"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone,omitempty" validate:"omitempty,max=30"`
	Address      *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Active       *bool   `json:"active,omitempty"`
}
