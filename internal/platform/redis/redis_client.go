package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fileshare_backend/internal/platform/config"
)

const pingTimeout = 3 * time.Second

// NewRedisClient は設定からクライアントを生成し、接続確認を行います。
// 接続できない場合はクライアントを閉じてエラーを返します。
func NewRedisClient(cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		zap.L().Error("Redis connection failed", zap.String("address", cfg.Addr()), zap.Error(err))
		_ = rdb.Close()
		return nil, err
	}

	zap.L().Info("Redis connection successful", zap.String("address", cfg.Addr()))
	return rdb, nil
}
