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

	"fileshare_backend/internal/feature/auth/domain/entity"
	"fileshare_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to initialize test database")

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(&entity.User{}, &entity.Verification{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func createUser(t *testing.T, repo *userGorm, email string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, PasswordHash: "hashed_password"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestNewUserGorm(t *testing.T) {
	db := setupTestDB(t)

	repo := NewUserGorm(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		user := &entity.User{Email: "test@example.com", PasswordHash: "hashed_password"}
		err := repo.Create(context.Background(), user)

		assert.NoError(t, err, "failed to create user")
		assert.NotEqual(t, uuid.Nil, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
		assert.False(t, user.UpdatedAt.IsZero(), "UpdatedAt is not set")
		assert.False(t, user.IsVerified())
	})

	t.Run("duplicate email error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		createUser(t, repo, "duplicate@example.com")

		err := repo.Create(context.Background(), &entity.User{Email: "duplicate@example.com", PasswordHash: "other"})

		assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
	})

	t.Run("email match is case-sensitive", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		createUser(t, repo, "case@example.com")

		err := repo.Create(context.Background(), &entity.User{Email: "CASE@example.com", PasswordHash: "other"})

		assert.NoError(t, err)
	})

	t.Run("nil user error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		assert.Error(t, repo.Create(context.Background(), nil))
	})
}

func TestUserGorm_Find(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	created := createUser(t, repo, "find@example.com")

	byEmail, err := repo.FindByEmail(context.Background(), "find@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "find@example.com", byID.Email)
	assert.Nil(t, byID.VerifiedWithID)

	_, err = repo.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

func TestUserGorm_UpdatePassword(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	created := createUser(t, repo, "pw@example.com")
	later := created.UpdatedAt.Add(time.Hour)

	require.NoError(t, repo.UpdatePassword(context.Background(), created.ID, "new-hash", later))

	got, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.WithinDuration(t, later, got.UpdatedAt, time.Second)

	err = repo.UpdatePassword(context.Background(), uuid.New(), "x", later)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

func TestUserGorm_Delete(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	created := createUser(t, repo, "gone@example.com")

	require.NoError(t, repo.Delete(context.Background(), created.ID))

	_, err := repo.FindByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	assert.ErrorIs(t, repo.Delete(context.Background(), created.ID), usecase.ErrUserNotFound)
}
