// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is bumped on verification and password change.
	UpdatedAt time.Time

	// Email is unique across all users, compared exactly as stored.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is the bcrypt hash. Never exposed.
	PasswordHash string `gorm:"size:255;not null"`

	// VerifiedWithID references the Verification that activated this account.
	VerifiedWithID *uuid.UUID `gorm:"type:uuid"`
}

// IsVerified reports whether the user has completed email verification.
func (u *User) IsVerified() bool {
	return u.VerifiedWithID != nil
}

// BeforeCreate assigns an ID when none was set.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
