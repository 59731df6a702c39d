// Package storage issues presigned URLs against the object store and removes objects.
// File bytes never pass through this service.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fileshare_backend/internal/platform/config"
)

// ErrInvalidExpiry is returned for a non-positive presign lifetime.
var ErrInvalidExpiry = errors.New("presign lifetime must be positive")

// Presigner is the object-storage collaborator.
type Presigner interface {
	// PresignGet returns a GET URL for key valid for ttl.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	// PresignPut returns a PUT URL for key valid for ttl, bound to contentType.
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	// Delete removes key. A missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// ObjectKey returns the storage key for an upload.
// fileName is used as given; path separators and dot segments are not rejected.
func ObjectKey(id uuid.UUID, fileName string) string {
	return fmt.Sprintf("content/%s/%s", id, fileName)
}

// New builds the Presigner selected by cfg.Driver.
func New(ctx context.Context, cfg config.Storage) (Presigner, error) {
	switch cfg.Driver {
	case "", "s3":
		return NewS3(ctx, cfg)
	case "minio":
		return NewMinio(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func checkTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidExpiry
	}
	return nil
}

// withTimeout bounds a storage call when timeout is positive.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
