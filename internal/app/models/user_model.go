package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "ADMIN"
	UserRoleAuditor UserRole = "AUDITOR"
	UserRoleViewer  UserRole = "VIEWER"
)

// User mirrors the identity provider's subject. Tokens are issued
// externally; this table only resolves subjects to roles.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	FullName  string    `json:"full_name" gorm:"type:varchar(150);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null"`
	Role      UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'AUDITOR'"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type UserCreateRequest struct {
	Username string   `json:"username" validate:"required,max=50"`
	FullName string   `json:"full_name" validate:"required,max=150"`
	Email    string   `json:"email" validate:"required,email"`
	Role     UserRole `json:"role" validate:"omitempty,oneof=ADMIN AUDITOR VIEWER"`
}

type UserUpdateRequest struct {
	FullName *string   `json:"full_name,omitempty" validate:"omitempty,max=150"`
	Email    *string   `json:"email,omitempty" validate:"omitempty,email"`
	Role     *UserRole `json:"role,omitempty" validate:"omitempty,oneof=ADMIN AUDITOR VIEWER"`
	Active   *bool     `json:"active,omitempty"`
}
