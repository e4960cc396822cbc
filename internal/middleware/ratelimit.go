package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/butterfly-accounts/internal/logging"
	"github.com/AnshRaj112/butterfly-accounts/pkg/clientip"
	"github.com/redis/go-redis/v9"
)

const (
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked
	BlockedIPDuration = 24 * time.Hour
)

// RateLimiter is a fixed-window limiter shared across instances through
// Redis. An IP that exceeds the window is blocked for BlockedIPDuration.
type RateLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxRequests int
	logger      *logging.Logger
}

func NewRateLimiter(client *redis.Client, window time.Duration, maxRequests int, logger *logging.Logger) *RateLimiter {
	return &RateLimiter{client: client, window: window, maxRequests: maxRequests, logger: logger}
}

// Limit applies the limiter to next. Redis failures let the request through.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := clientip.RealClientIP(r)

		blocked, err := l.IsBlocked(ctx, ip)
		if err == nil && blocked {
			writeTooManyRequests(w, "Your IP has been temporarily blocked due to excessive requests. Please try again later.", 0)
			return
		}

		count, err := l.hit(ctx, r.URL.Path, ip)
		if err != nil {
			logging.FromContext(ctx, l.logger).Warn("rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if count > int64(l.maxRequests) {
			if err := l.client.Set(ctx, BlockedIPKeyPrefix+ip, "1", BlockedIPDuration).Err(); err != nil {
				logging.FromContext(ctx, l.logger).Warn("block ip failed", "error", err)
			}
			writeTooManyRequests(w, "Rate limit exceeded. Your IP has been temporarily blocked. Please try again later.", int(l.window.Seconds()))
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(l.maxRequests)-count, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(l.window).Unix(), 10))

		next.ServeHTTP(w, r)
	})
}

// hit counts the request in the current window for the path and IP.
func (l *RateLimiter) hit(ctx context.Context, path, ip string) (int64, error) {
	key := RateLimitKeyPrefix + path + ":" + ip

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// First request opens the window.
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// IsBlocked checks if an IP is currently blocked
func (l *RateLimiter) IsBlocked(ctx context.Context, ip string) (bool, error) {
	count, err := l.client.Exists(ctx, BlockedIPKeyPrefix+ip).Result()
	return count > 0, err
}

// Unblock removes an IP from the blocked list
func (l *RateLimiter) Unblock(ctx context.Context, ip string) error {
	return l.client.Del(ctx, BlockedIPKeyPrefix+ip).Err()
}

func writeTooManyRequests(w http.ResponseWriter, message string, retryAfter int) {
	w.Header().Set("Content-Type", "application/json")
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(fmt.Sprintf(`{"message":%q}`, message)))
}
