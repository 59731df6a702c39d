// Package db opens the relational store and owns its schema.
package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fileshare_backend/internal/platform/config"
)

// retryInterval is the pause between connection attempts.
var retryInterval = 3 * time.Second

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// PostgresOpener opens dsn with the Postgres driver (pgx under the hood).
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		zap.L().Warn("db connect failed, retrying", zap.Error(err))
		time.Sleep(retryInterval)
	}
}

// OpenDB connects to Postgres and applies the pool settings from cfg.
func OpenDB(cfg config.Database) (*gorm.DB, error) {
	db, err := ConnectWithRetry(cfg.URL, cfg.ConnectTimeout, PostgresOpener)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// IsUniqueViolation reports whether err is a unique constraint failure, either
// translated by gorm or raised directly by Postgres.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
