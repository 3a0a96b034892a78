package repository

import (
	"context"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
)

// RateLimiter consumes one unit of budget for key and reports what is left.
// Implementations: in-memory fixed window, Redis token bucket.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (*domain.RateLimitResult, error)
}
