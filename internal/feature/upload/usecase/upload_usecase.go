// Package usecase はuploadフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	authentity "fileshare_backend/internal/feature/auth/domain/entity"
	"fileshare_backend/internal/feature/upload/domain/entity"
	"fileshare_backend/internal/platform/storage"
	"fileshare_backend/internal/shared/apperr"
)

const (
	// PutURLTTL はクライアントが直ちにPUTする前提の短い有効期間です。
	PutURLTTL = 30 * time.Second
	// MaxExpiry はGET URLに設定できる最長の有効期間です。
	MaxExpiry = 7 * 24 * time.Hour
)

// Presigner はオブジェクトストレージへの署名付きURL発行と削除を抽象化します。
type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Notifier はアップロード開始のベストエフォート通知です。
type Notifier interface {
	UploadStarted(email, fileName, presignedGet string)
}

// uploadUsecase は二段階アップロードと所有権チェックを実装します。
type uploadUsecase struct {
	uploads   UploadRepository
	presigner Presigner
	notifier  Notifier
	admins    map[string]struct{}
	now       func() time.Time
}

// NewUploadUsecase はuploadUsecaseの新しいインスタンスを生成します。
// adminEmails に含まれるユーザーは所有者でなくても参照・削除できます。
func NewUploadUsecase(uploads UploadRepository, presigner Presigner, notifier Notifier, adminEmails []string) *uploadUsecase {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &uploadUsecase{
		uploads:   uploads,
		presigner: presigner,
		notifier:  notifier,
		admins:    admins,
		now:       time.Now,
	}
}

// Start はアップロードを登録し、クライアントが直接PUTするためのURLを返します。
// 行はPUT URLを返す前に書き込まれます。PUTの完了はこのサービスには通知されません。
func (u *uploadUsecase) Start(ctx context.Context, owner *authentity.User, fileName, contentType string, expiresAt time.Time) (string, error) {
	if !owner.IsVerified() {
		return "", apperr.Forbidden("email not verified")
	}

	// 1. 有効期限の検証
	ttl := expiresAt.Sub(u.now())
	if ttl <= 0 {
		return "", apperr.BadRequest("expires_at must be in the future")
	}
	if ttl > MaxExpiry {
		return "", apperr.BadRequest("expires_at must be within 7 days")
	}

	// 2. IDとオブジェクトキー
	id := uuid.New()
	key := storage.ObjectKey(id, fileName)

	// 3. GET URLを発行して行に保存
	getURL, err := u.presigner.PresignGet(ctx, key, ttl)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidExpiry) {
			return "", apperr.BadRequest("expires_at must be in the future")
		}
		return "", apperr.Internal("failed to presign get url", err)
	}

	ownerID := owner.ID
	record := &entity.Upload{
		ID:           id,
		UserID:       &ownerID,
		FileName:     fileName,
		ContentType:  contentType,
		PresignedGet: getURL,
		ExpiresAt:    expiresAt,
	}
	if err := u.uploads.Create(ctx, record); err != nil {
		return "", apperr.Internal("failed to create upload", err)
	}

	// 4. 通知はベストエフォート
	u.notifier.UploadStarted(owner.Email, fileName, getURL)

	// 5. 同じキーに対する短命のPUT URL
	putURL, err := u.presigner.PresignPut(ctx, key, contentType, PutURLTTL)
	if err != nil {
		return "", apperr.Internal("failed to presign put url", err)
	}
	return putURL, nil
}

// List は全アップロードを返します。
func (u *uploadUsecase) List(ctx context.Context) ([]entity.Upload, error) {
	uploads, err := u.uploads.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list uploads", err)
	}
	return uploads, nil
}

// ListMine は呼び出しユーザーのアップロードを返します。
func (u *uploadUsecase) ListMine(ctx context.Context, caller *authentity.User) ([]entity.Upload, error) {
	uploads, err := u.uploads.ListByUser(ctx, caller.ID)
	if err != nil {
		return nil, apperr.Internal("failed to list uploads", err)
	}
	return uploads, nil
}

// Get は所有権を確認してアップロードを返します。
func (u *uploadUsecase) Get(ctx context.Context, caller *authentity.User, id uuid.UUID) (*entity.Upload, error) {
	return u.authorized(ctx, caller, id)
}

// Delete はストレージのオブジェクトを削除し、成功した場合のみ行を削除します。
func (u *uploadUsecase) Delete(ctx context.Context, caller *authentity.User, id uuid.UUID) error {
	record, err := u.authorized(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := u.presigner.Delete(ctx, storage.ObjectKey(record.ID, record.FileName)); err != nil {
		return apperr.Internal("failed to delete object", err)
	}

	if err := u.uploads.Delete(ctx, record.ID); err != nil {
		if errors.Is(err, ErrUploadNotFound) {
			return apperr.NotFound(notFoundMessage(record.ID))
		}
		return apperr.Internal("failed to delete upload", err)
	}
	return nil
}

// authorized はアップロードを取得し、呼び出しユーザーがアクセスできるか確認します。
// 所有者のいないアップロードは認証済みの誰でもアクセスできます。
func (u *uploadUsecase) authorized(ctx context.Context, caller *authentity.User, id uuid.UUID) (*entity.Upload, error) {
	record, err := u.uploads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUploadNotFound) {
			return nil, apperr.NotFound(notFoundMessage(id))
		}
		return nil, apperr.Internal("failed to find upload", err)
	}

	if record.HasOwner() && !record.IsOwnedBy(caller.ID) && !u.isAdmin(caller) {
		return nil, apperr.Forbidden(notOwnerMessage)
	}
	return record, nil
}

const notOwnerMessage = "This upload does not belong to you"

func notFoundMessage(id uuid.UUID) string {
	return fmt.Sprintf("no upload with id %s", id)
}

func (u *uploadUsecase) isAdmin(user *authentity.User) bool {
	_, ok := u.admins[strings.ToLower(user.Email)]
	return ok
}
