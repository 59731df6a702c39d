package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fileshare_backend/internal/feature/auth/domain/entity"
	"fileshare_backend/internal/feature/auth/usecase"
)

// verificationGorm is the GORM implementation of usecase.VerificationRepository.
type verificationGorm struct {
	db *gorm.DB
}

var _ usecase.VerificationRepository = (*verificationGorm)(nil)

// NewVerificationGorm creates a verification repository backed by db.
func NewVerificationGorm(db *gorm.DB) *verificationGorm {
	return &verificationGorm{db: db}
}

// Create inserts a pending verification.
func (r *verificationGorm) Create(ctx context.Context, v *entity.Verification) error {
	if v == nil {
		return errors.New("verification is nil")
	}
	return r.db.WithContext(ctx).Create(v).Error
}

// FindByID returns usecase.ErrVerificationNotFound when no row matches.
func (r *verificationGorm) FindByID(ctx context.Context, id uuid.UUID) (*entity.Verification, error) {
	var v entity.Verification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Activate consumes the verification and marks the user verified in one transaction.
// The activation only matches a row whose activated_at is still NULL, so of any
// number of concurrent callers exactly one sees a row affected.
func (r *verificationGorm) Activate(ctx context.Context, id, userID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Verification{}).
			Where("id = ? AND activated_at IS NULL", id).
			UpdateColumns(map[string]any{"activated_at": at, "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrVerificationAlreadyActivated
		}

		res = tx.Model(&entity.User{}).
			Where("id = ?", userID).
			UpdateColumns(map[string]any{"verified_with_id": id, "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrUserNotFound
		}
		return nil
	})
}
