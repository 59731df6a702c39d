// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fileshare_backend/internal/feature/auth/domain/entity"
	"fileshare_backend/internal/feature/auth/usecase"
	"fileshare_backend/internal/platform/db"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// 同じメールアドレスのユーザーが既に存在する場合、usecase.ErrEmailAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID はIDでユーザーを取得します。
func (r *userGorm) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdatePassword はパスワードハッシュとupdated_atを更新します。
func (r *userGorm) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"password_hash": passwordHash, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// Delete はユーザーを物理削除します。
func (r *userGorm) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}
