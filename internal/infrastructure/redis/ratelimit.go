package redis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:ip:"

// tokenBucket refills at rate tokens/sec up to burst and takes one token per call.
// Returns {allowed, retry_after_seconds, remaining}.
var tokenBucket = goredis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	tokens = math.min(burst, tokens + ((now - last_update) * rate))

	local allowed = 0
	local retry_after = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// RateLimiter spends limit tokens per window, shared across every gateway instance.
type RateLimiter struct {
	client *Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

func (l *RateLimiter) Allow(ctx context.Context, key string) (*domain.RateLimitResult, error) {
	rate := float64(l.limit) / l.window.Seconds()
	ttl := int(math.Ceil(l.window.Seconds())) * 2
	now := time.Now()

	res, err := tokenBucket.Run(ctx, l.client.rdb,
		[]string{rateLimitPrefix + key},
		rate, l.limit, now.Unix(), ttl,
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("run token bucket: %w", err)
	}

	result := &domain.RateLimitResult{
		Allowed:    res[0] == 1,
		Limit:      l.limit,
		Remaining:  res[2],
		RetryAfter: time.Duration(res[1]) * time.Second,
	}
	// Full refill time from what is left.
	missing := float64(int64(l.limit) - result.Remaining)
	result.ResetAt = now.Add(time.Duration(missing / rate * float64(time.Second)))
	return result, nil
}
