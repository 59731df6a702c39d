// Package entity defines the domain entities for the upload feature.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Upload is the registry record of an object placed in storage by a client.
// PresignedGet is issued once at registration against the key
// content/{ID}/{FileName} and is valid until ExpiresAt.
type Upload struct {
	// ID is also the storage key prefix.
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// UserID is nil for ownerless uploads.
	UserID *uuid.UUID `gorm:"type:uuid;index"`

	FileName     string    `gorm:"not null"`
	ContentType  string    `gorm:"not null"`
	PresignedGet string    `gorm:"not null"`
	ExpiresAt    time.Time `gorm:"not null"`
}

// IsOwnedBy reports whether userID owns the upload. Ownerless uploads are owned by nobody.
func (u *Upload) IsOwnedBy(userID uuid.UUID) bool {
	return u.UserID != nil && *u.UserID == userID
}

// HasOwner reports whether the upload is tied to a user.
func (u *Upload) HasOwner() bool {
	return u.UserID != nil
}
