package adapters

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileshare_backend/internal/feature/auth/domain/entity"
	"fileshare_backend/internal/feature/auth/usecase"
)

func TestVerificationGorm_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserGorm(db)
	repo := NewVerificationGorm(db)
	user := createUser(t, users, "v@example.com")

	v := &entity.Verification{UserID: &user.ID}
	require.NoError(t, repo.Create(context.Background(), v))
	assert.NotEqual(t, uuid.Nil, v.ID)

	got, err := repo.FindByID(context.Background(), v.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UserID)
	assert.Equal(t, user.ID, *got.UserID)
	assert.False(t, got.IsActivated())

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, usecase.ErrVerificationNotFound)

	assert.Error(t, repo.Create(context.Background(), nil))
}

func TestVerificationGorm_Activate(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserGorm(db)
	repo := NewVerificationGorm(db)
	user := createUser(t, users, "activate@example.com")

	v := &entity.Verification{UserID: &user.ID}
	require.NoError(t, repo.Create(context.Background(), v))

	at := time.Now().Add(time.Minute)
	require.NoError(t, repo.Activate(context.Background(), v.ID, user.ID, at))

	gotV, err := repo.FindByID(context.Background(), v.ID)
	require.NoError(t, err)
	require.True(t, gotV.IsActivated())
	assert.WithinDuration(t, at, *gotV.ActivatedAt, time.Second)

	gotU, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, gotU.IsVerified())
	assert.Equal(t, v.ID, *gotU.VerifiedWithID)

	err = repo.Activate(context.Background(), v.ID, user.ID, time.Now())
	assert.ErrorIs(t, err, usecase.ErrVerificationAlreadyActivated)
}

func TestVerificationGorm_ActivateMissingUserRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVerificationGorm(db)
	ghost := uuid.New()

	v := &entity.Verification{UserID: &ghost}
	require.NoError(t, repo.Create(context.Background(), v))

	err := repo.Activate(context.Background(), v.ID, ghost, time.Now())
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	got, err := repo.FindByID(context.Background(), v.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActivated(), "activation must roll back with the user update")
}

func TestVerificationGorm_ActivateConcurrent(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserGorm(db)
	repo := NewVerificationGorm(db)
	user := createUser(t, users, "race@example.com")

	v := &entity.Verification{UserID: &user.ID}
	require.NoError(t, repo.Create(context.Background(), v))

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		won       int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Activate(context.Background(), v.ID, user.ID, time.Now())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, usecase.ErrVerificationAlreadyActivated):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	assert.Equal(t, callers-1, conflicts)
}
