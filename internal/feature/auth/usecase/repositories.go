package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fileshare_backend/internal/feature/auth/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。
	// メールアドレスが重複する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail はメールアドレスに完全一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID はIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// UpdatePassword はパスワードハッシュを置き換え、updated_atを更新します。
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) error

	// Delete はユーザーを物理削除します。関連するアップロードや検証は削除しません。
	Delete(ctx context.Context, id uuid.UUID) error
}

// VerificationRepository はメール検証レコードの永続化層を抽象化します。
type VerificationRepository interface {
	// Create は未使用（Pending）の検証レコードを永続化します。
	Create(ctx context.Context, v *entity.Verification) error

	// FindByID はIDに一致する検証レコードを取得します。
	// 存在しない場合、ErrVerificationNotFoundを返します。
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Verification, error)

	// Activate は activated_at が NULL の場合に限り検証を有効化し、
	// 同一トランザクション内でユーザーの verified_with_id を設定します。
	// 既に有効化済みの場合、ErrVerificationAlreadyActivatedを返します。
	Activate(ctx context.Context, id, userID uuid.UUID, at time.Time) error
}
