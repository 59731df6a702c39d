package ratelimiter

import (
	"sync"
	"time"
)

// Limiter は、通知送信などの操作の頻度を制限するインターフェースです。
type Limiter interface {
	Allow() bool
}

// RateLimiterは、固定ウィンドウ方式で操作の頻度を制限します。
// 複数のgoroutineから同時に呼び出しても安全です。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // interval あたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Allowは上限に達していなければカウントを進めてtrueを返します。
// 上限に達している場合は待機せずにfalseを返します。
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	if rl.count >= rl.limit {
		return false
	}
	rl.count++
	return true
}
