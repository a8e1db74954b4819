package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/bookstore-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/bookstore-service/internal/platform/logging"
)

// Rate limiter defaults.
const (
	DefaultRateLimitRPS   = 10
	DefaultRateLimitBurst = 20
	DefaultClientIdleTTL  = 3 * time.Minute
	defaultSweepInterval  = time.Minute
)

// RateLimitConfig configures per-client token buckets.
type RateLimitConfig struct {
	// RPS is the sustained request rate allowed per client IP.
	RPS float64

	// Burst is the bucket capacity.
	Burst int

	// IdleTTL is how long an unseen client keeps its bucket.
	IdleTTL time.Duration
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds one token bucket per client IP.
type RateLimiter struct {
	cfg RateLimitConfig
	now func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

// NewRateLimiter creates a limiter. Zero config fields take the defaults.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.RPS <= 0 {
		cfg.RPS = DefaultRateLimitRPS
	}

	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimitBurst
	}

	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultClientIdleTTL
	}

	return &RateLimiter{
		cfg:     cfg,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// Allow consumes one token from ip's bucket.
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.clients[ip] = c
	}

	now := l.now()
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// Sweep drops buckets of clients idle longer than IdleTTL and returns how
// many were dropped.
func (l *RateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.cfg.IdleTTL)
	dropped := 0

	for ip, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
			dropped++
		}
	}

	return dropped
}

// Run sweeps idle clients every minute until ctx is done.
func (l *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(defaultSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 {
				logging.FromContext(ctx).DebugContext(ctx, "rate limiter swept idle clients", slog.Int("count", n))
			}
		}
	}
}

// Middleware rejects requests over budget with 429 RATE_LIMITED. Health
// probes under /-/ are never limited.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	retryAfter := strconv.Itoa(max(1, int(1/l.cfg.RPS)))

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/-/") {
			c.Next()
			return
		}

		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", retryAfter)
			dto.AbortWithErrorCode(c, dto.ErrorCodeRateLimited, "rate limit exceeded")

			return
		}

		c.Next()
	}
}
