package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	// IdleTimeout drops the limiter of a client not seen for this long.
	IdleTimeout time.Duration
}

// DefaultRateLimitConfig returns the rate limit applied to evaluation routes.
// Every request runs a fresh interpreter, so the limit is lower than a
// typical JSON API.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 50,
		Burst:             100,
		IdleTimeout:       10 * time.Minute,
	}
}

// clientLimiters keeps one token bucket per client IP
type clientLimiters struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(cfg RateLimitConfig) *clientLimiters {
	return &clientLimiters{
		cfg:     cfg,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

func (l *clientLimiters) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cfg.IdleTimeout > 0 {
		for key, c := range l.clients {
			if now.Sub(c.lastSeen) > l.cfg.IdleTimeout {
				delete(l.clients, key)
			}
		}
	}

	c, exists := l.clients[ip]
	if !exists {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *clientLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit creates a per-IP rate limiting middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiters := newClientLimiters(cfg)

	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP()) {
			abortRateLimited(c)
			return
		}
		c.Next()
	}
}

// GlobalRateLimit creates a global rate limiting middleware.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			abortRateLimited(c)
			return
		}
		c.Next()
	}
}

func abortRateLimited(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error": "rate limit exceeded",
		"kind":  "rate_limited",
	})
}
