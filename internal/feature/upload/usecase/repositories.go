package usecase

import (
	"context"

	"github.com/google/uuid"

	"fileshare_backend/internal/feature/upload/domain/entity"
)

// UploadRepository はアップロード台帳の永続化操作を抽象化します。
type UploadRepository interface {
	// Create はアップロードを登録します。IDは呼び出し側で設定済みであること。
	Create(ctx context.Context, u *entity.Upload) error
	// FindByID はIDでアップロードを取得します。存在しない場合は ErrUploadNotFound。
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Upload, error)
	// List は全件を作成日時の降順で返します。
	List(ctx context.Context) ([]entity.Upload, error)
	// ListByUser は指定ユーザーのアップロードを作成日時の降順で返します。
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Upload, error)
	// Delete は行を物理削除します。存在しない場合は ErrUploadNotFound。
	Delete(ctx context.Context, id uuid.UUID) error
}
