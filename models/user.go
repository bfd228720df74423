package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleWriter UserRole = "writer"
	RoleAdmin  UserRole = "admin"
)

// FallbackAuthorID is the identity story intake falls back to when the
// submitter cannot be resolved to a user row.
const FallbackAuthorID = "00000000-0000-0000-0000-000000000000"

func (r UserRole) Valid() bool {
	return r == RoleWriter || r == RoleAdmin
}

// NormalizeRole maps an empty role to writer.
func NormalizeRole(r UserRole) UserRole {
	if r == "" {
		return RoleWriter
	}
	return r
}

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	FullName     *string   `json:"full_name"`
	Email        *string   `json:"email" gorm:"uniqueIndex"`
	Bio          *string   `json:"bio"`
	AvatarURL    *string   `json:"avatar_url"`
	Role         UserRole  `json:"role" gorm:"not null;default:'writer'"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Role = NormalizeRole(u.Role)
	return nil
}

// DisplayName returns the full name or a neutral placeholder.
func (u *User) DisplayName() string {
	if u == nil || u.FullName == nil || *u.FullName == "" {
		return "Anonymous Author"
	}
	return *u.FullName
}
