// Package middleware wraps every HTTP handler with trace injection, rate
// limiting and request metrics, the way the rest of the analysis core's
// ambient stack is carried regardless of which feature a route implements.
package middleware

import (
	"context"
	"net"
	"sync"

	"golang.org/x/time/rate"

	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/internal/data/redisStore"
	"github.com/novaquill/docmind/pkg/logger_i"
)

var rlLogger = logger_i.NewLogger("ratelimiter")

// RateLimiter is per-IP, backed by a distributed Redis fixed-window counter
// when Redis is reachable, and an in-process token bucket per IP otherwise.
// A Redis outage mid-run degrades to the in-memory fallback rather than
// failing every request, controlled by config.FALLBACK_REDIS_TO_INTERNALSTORE.
type RateLimiter struct {
	store *redisStore.Store

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// NewRateLimiter tries to back the limiter with Redis; if Redis is
// unreachable it falls back to the in-memory limiter immediately, rather
// than failing server startup.
func NewRateLimiter(ctx context.Context) *RateLimiter {
	store := redisStore.GetRedisStore(ctx, config.RedisRateLimiterStoreDB)
	if store == nil {
		rlLogger.Warn("redis unreachable, rate limiter running in-memory only")
	}
	return &RateLimiter{store: store, local: make(map[string]*rate.Limiter)}
}

// Allow reports whether the request from remoteAddr may proceed.
func (rl *RateLimiter) Allow(ctx context.Context, remoteAddr string) bool {
	ip := hostOnly(remoteAddr)

	if rl.store != nil {
		allowed, err := rl.allowRedis(ctx, ip)
		if err == nil {
			return allowed
		}
		rlLogger.Error("redis rate limit check failed", "error", err)
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			return true // fail open rather than lock everyone out
		}
	}

	return rl.allowLocal(ip)
}

func (rl *RateLimiter) allowRedis(ctx context.Context, ip string) (bool, error) {
	count, err := rl.store.IncrWithExpiry(ctx, "ratelimit:"+ip, config.RedisRateLimiterKeyTTL)
	if err != nil {
		return false, err
	}
	return count <= int64(config.BURST_RATE_LIMIT_PER_SECOND), nil
}

func (rl *RateLimiter) allowLocal(ip string) bool {
	rl.mu.Lock()
	limiter, exists := rl.local[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)
		rl.local[ip] = limiter
	}
	rl.mu.Unlock()
	return limiter.Allow()
}

func hostOnly(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
