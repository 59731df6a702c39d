// Package cache provides short-lived key stores used to rate limit actions.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCooldown holds cooldown keys in Redis so every instance shares them.
type RedisCooldown struct {
	rdb       *redis.Client
	namespace string
}

// NewRedisCooldown creates a Redis-backed cooldown. If namespace is empty, it uses "cooldown".
func NewRedisCooldown(rdb *redis.Client, namespace string) *RedisCooldown {
	if namespace == "" {
		namespace = "cooldown"
	}
	return &RedisCooldown{rdb: rdb, namespace: namespace}
}

// Acquire sets key with ttl only if it is absent. It returns false while the key is held.
func (c *RedisCooldown) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, c.cacheKey(key), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown setnx: %w", err)
	}
	return ok, nil
}

// cacheKey generates the namespaced Redis key.
func (c *RedisCooldown) cacheKey(key string) string {
	return c.namespace + ":" + safe(key)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}
