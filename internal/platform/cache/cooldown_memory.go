package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v2"
)

// MemoryCooldown keeps cooldown keys in process memory. Used when Redis is unavailable;
// limits then apply per instance.
type MemoryCooldown struct {
	mu    sync.Mutex
	cache *ttlcache.Cache
}

// NewMemoryCooldown creates an in-memory cooldown. Call Close to stop its janitor.
func NewMemoryCooldown() *MemoryCooldown {
	c := ttlcache.NewCache()
	c.SkipTTLExtensionOnHit(true)
	return &MemoryCooldown{cache: c}
}

// Acquire sets key with ttl only if it is absent. It returns false while the key is held.
func (c *MemoryCooldown) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.cache.Get(key)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, ttlcache.ErrNotFound):
		return false, err
	}

	if err := c.cache.SetWithTTL(key, struct{}{}, ttl); err != nil {
		return false, err
	}
	return true, nil
}

// Close stops the expiry goroutine.
func (c *MemoryCooldown) Close() error {
	return c.cache.Close()
}
