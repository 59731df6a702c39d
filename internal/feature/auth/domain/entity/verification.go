package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verification is a single-use email verification capability.
// ActivatedAt is nil while pending and set once consumed; it never goes back.
type Verification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      *uuid.UUID `gorm:"type:uuid;index"`
	ActivatedAt *time.Time
}

// IsActivated reports whether the verification has been consumed.
func (v *Verification) IsActivated() bool {
	return v.ActivatedAt != nil
}

// BeforeCreate assigns an ID when none was set.
func (v *Verification) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
