// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fileshare_backend/internal/feature/auth/usecase"
	"fileshare_backend/internal/platform/cache"
)

// NewCooldown creates the verification resend cooldown.
// If Redis is available, it returns a Redis-backed implementation shared by all instances.
// Otherwise, it falls back to an in-process cache. The returned func releases resources.
func NewCooldown(rdb *redis.Client) (usecase.Cooldown, func()) {
	if rdb != nil {
		return cache.NewRedisCooldown(rdb, "cooldown"), func() {}
	}
	zap.L().Warn("Redis unavailable. Verification cooldown is per instance.")
	mem := cache.NewMemoryCooldown()
	return mem, func() { _ = mem.Close() }
}
