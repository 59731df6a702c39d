package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fileshare_backend/internal/feature/upload/domain/entity"
	"fileshare_backend/internal/feature/upload/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entity.Upload{}), "failed to migrate tables")
	return db
}

func newUpload(owner *uuid.UUID, name string, createdAt time.Time) *entity.Upload {
	return &entity.Upload{
		ID:           uuid.New(),
		CreatedAt:    createdAt,
		UserID:       owner,
		FileName:     name,
		ContentType:  "text/plain",
		PresignedGet: "https://storage.example/content/" + name,
		ExpiresAt:    createdAt.Add(24 * time.Hour),
	}
}

func TestUploadGorm_CreateAndFind(t *testing.T) {
	repo := NewUploadGorm(setupTestDB(t))
	ctx := context.Background()

	owner := uuid.New()
	u := newUpload(&owner, "a.txt", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "a.txt", got.FileName)
	assert.Equal(t, u.PresignedGet, got.PresignedGet)
	require.NotNil(t, got.UserID)
	assert.Equal(t, owner, *got.UserID)
	assert.True(t, u.ExpiresAt.Equal(got.ExpiresAt))
}

func TestUploadGorm_CreateRequiresID(t *testing.T) {
	repo := NewUploadGorm(setupTestDB(t))

	err := repo.Create(context.Background(), &entity.Upload{FileName: "a"})
	assert.Error(t, err)
	assert.Error(t, repo.Create(context.Background(), nil))
}

func TestUploadGorm_FindByID_NotFound(t *testing.T) {
	repo := NewUploadGorm(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, usecase.ErrUploadNotFound)
}

func TestUploadGorm_List(t *testing.T) {
	repo := NewUploadGorm(setupTestDB(t))
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := newUpload(&alice, "first", base)
	second := newUpload(&bob, "second", base.Add(time.Minute))
	third := newUpload(&alice, "third", base.Add(2*time.Minute))
	orphan := newUpload(nil, "orphan", base.Add(3*time.Minute))
	for _, u := range []*entity.Upload{first, second, third, orphan} {
		require.NoError(t, repo.Create(ctx, u))
	}

	t.Run("all uploads newest first", func(t *testing.T) {
		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, []string{"orphan", "third", "second", "first"}, names(all))
	})

	t.Run("by user", func(t *testing.T) {
		mine, err := repo.ListByUser(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "first"}, names(mine))
	})

	t.Run("user without uploads", func(t *testing.T) {
		none, err := repo.ListByUser(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestUploadGorm_Delete(t *testing.T) {
	repo := NewUploadGorm(setupTestDB(t))
	ctx := context.Background()

	u := newUpload(nil, "gone", time.Now())
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err := repo.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, usecase.ErrUploadNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, u.ID), usecase.ErrUploadNotFound)
}

func names(uploads []entity.Upload) []string {
	out := make([]string, 0, len(uploads))
	for _, u := range uploads {
		out = append(out, u.FileName)
	}
	return out
}
