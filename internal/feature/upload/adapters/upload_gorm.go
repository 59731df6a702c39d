// Package adapters はuploadフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fileshare_backend/internal/feature/upload/domain/entity"
	"fileshare_backend/internal/feature/upload/usecase"
)

// uploadGorm はUploadRepositoryインターフェースのGORM実装です。
type uploadGorm struct {
	db *gorm.DB
}

var _ usecase.UploadRepository = (*uploadGorm)(nil)

// NewUploadGorm は指定されたgorm.DB接続でuploadGormの新しいインスタンスを生成します。
func NewUploadGorm(db *gorm.DB) *uploadGorm {
	return &uploadGorm{db: db}
}

func (r *uploadGorm) Create(ctx context.Context, u *entity.Upload) error {
	if u == nil {
		return errors.New("upload is nil")
	}
	if u.ID == uuid.Nil {
		return errors.New("upload id is not set")
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *uploadGorm) FindByID(ctx context.Context, id uuid.UUID) (*entity.Upload, error) {
	var u entity.Upload
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUploadNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *uploadGorm) List(ctx context.Context) ([]entity.Upload, error) {
	var uploads []entity.Upload
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&uploads).Error; err != nil {
		return nil, err
	}
	return uploads, nil
}

func (r *uploadGorm) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Upload, error) {
	var uploads []entity.Upload
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error
	if err != nil {
		return nil, err
	}
	return uploads, nil
}

func (r *uploadGorm) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Upload{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUploadNotFound
	}
	return nil
}
