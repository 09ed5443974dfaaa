// file: internal/server/middleware/ratelimit.go
// version: 2.0.0
// guid: 1331705a-85cb-4158-92f5-5ce203d8a0e7

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientEntry pairs a token bucket with the time it was last used so idle
// clients can be swept out.
type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter enforces a per-client-IP request budget on the gateway
// API. Every gateway request turns into one or more third-party catalog
// calls, so a single noisy caller can burn through upstream quotas; the
// budget caps that at the door.
type ClientRateLimiter struct {
	mu             sync.Mutex
	entries        map[string]*clientEntry
	requestsPerMin int
	burst          int
	idleTTL        time.Duration
}

// NewClientRateLimiter creates a limiter allowing requestsPerMinute sustained
// requests with the given burst per client IP.
func NewClientRateLimiter(requestsPerMinute, burst int) *ClientRateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &ClientRateLimiter{
		entries:        make(map[string]*clientEntry),
		requestsPerMin: requestsPerMinute,
		burst:          burst,
		idleTTL:        15 * time.Minute,
	}
}

func (l *ClientRateLimiter) limiterForClient(ip string) *rate.Limiter {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) > l.idleTTL {
			delete(l.entries, key)
		}
	}

	entry, ok := l.entries[ip]
	if !ok {
		perSecond := float64(l.requestsPerMin) / 60.0
		entry = &clientEntry{
			limiter:  rate.NewLimiter(rate.Limit(perSecond), l.burst),
			lastSeen: now,
		}
		l.entries[ip] = entry
		return entry.limiter
	}

	entry.lastSeen = now
	return entry.limiter
}

// ActiveClients reports how many client buckets are currently tracked.
func (l *ClientRateLimiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Middleware returns a Gin middleware that enforces the configured budget.
func (l *ClientRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.limiterForClient(ip).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":  "rate limit exceeded",
				"code":   "RATE_LIMITED",
				"status": http.StatusTooManyRequests,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
