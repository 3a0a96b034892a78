package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
	"github.com/ErlanBelekov/content-gateway/internal/metrics"
	"github.com/ErlanBelekov/content-gateway/internal/repository"
	"github.com/gin-gonic/gin"
)

const errTooManyRequests = "Too many requests"

// RateLimit spends one unit of the client IP's budget per request and answers
// 429 once it is gone. Limiter errors fail open.
func RateLimit(limiter repository.RateLimiter, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "ratelimit")

	return func(c *gin.Context) {
		res, ok := CheckRateLimit(c, limiter, logger)
		if !ok {
			c.Next()
			return
		}
		if !res.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": errTooManyRequests})
			return
		}
		c.Next()
	}
}

// CheckRateLimit consumes budget and writes the X-RateLimit headers. ok is
// false when the limiter failed and the caller should let the request through.
func CheckRateLimit(c *gin.Context, limiter repository.RateLimiter, logger *slog.Logger) (*domain.RateLimitResult, bool) {
	ctx := c.Request.Context()

	res, err := limiter.Allow(ctx, ClientKey(c.ClientIP()))
	if err != nil {
		logger.ErrorContext(ctx, "rate limit check failed", "error", err)
		metrics.RateLimitDecisionsTotal.WithLabelValues("error").Inc()
		return nil, false
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

	if !res.Allowed {
		metrics.RateLimitDecisionsTotal.WithLabelValues("limited").Inc()
		c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
		logger.WarnContext(ctx, "rate limit exceeded",
			"endpoint", c.Request.Method+" "+c.Request.URL.Path,
			"retry_after_seconds", int(res.RetryAfter.Seconds()))
		return res, true
	}

	metrics.RateLimitDecisionsTotal.WithLabelValues("allowed").Inc()
	return res, true
}

// ClientKey is the limiter key for a client IP. Backends never see raw addresses.
func ClientKey(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
