package memory

import (
	"context"
	"time"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter is a fixed-window counter over a Store.
type RateLimiter struct {
	store  *Store
	limit  int
	window time.Duration
}

func NewRateLimiter(store *Store, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{store: store, limit: limit, window: window}
}

func (l *RateLimiter) Allow(_ context.Context, key string) (*domain.RateLimitResult, error) {
	count, resetAt := l.store.Incr(rateLimitPrefix+key, l.window)

	remaining := int64(l.limit) - count
	if remaining < 0 {
		remaining = 0
	}

	result := &domain.RateLimitResult{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
	if !result.Allowed {
		result.RetryAfter = resetAt.Sub(l.store.now())
		if result.RetryAfter < time.Second {
			result.RetryAfter = time.Second
		}
	}
	return result, nil
}
