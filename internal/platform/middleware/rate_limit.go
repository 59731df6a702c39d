package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"fileshare_backend/internal/api"
)

const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewIPRateLimiter allows perMinute requests per IP, refilled evenly over the minute.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		now:      time.Now,
	}
}

func (l *IPRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, key)
		}
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Handler rejects requests over the budget with 429.
func (l *IPRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).AllowN(l.now(), 1) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Message: "too many requests"})
			return
		}
		c.Next()
	}
}

// RateLimit is a shorthand for NewIPRateLimiter(perMinute).Handler().
// perMinute <= 0 returns a pass-through middleware.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return NewIPRateLimiter(perMinute).Handler()
}
