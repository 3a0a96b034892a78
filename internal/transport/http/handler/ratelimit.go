package handler

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/content-gateway/internal/repository"
	"github.com/ErlanBelekov/content-gateway/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

type RateLimitHandler struct {
	limiter repository.RateLimiter
	logger  *slog.Logger
}

func NewRateLimitHandler(limiter repository.RateLimiter, logger *slog.Logger) *RateLimitHandler {
	return &RateLimitHandler{
		limiter: limiter,
		logger:  logger.With("component", "ratelimit_handler"),
	}
}

type rateLimitResponse struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"resetAt"`
}

// GET /api/security/rate-limit
// Spends one unit of the caller's budget and reports what is left.
func (h *RateLimitHandler) Probe(c *gin.Context) {
	res, ok := middleware.CheckRateLimit(c, h.limiter, h.logger)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rate limiter unavailable"})
		return
	}
	if !res.Allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
		return
	}

	c.JSON(http.StatusOK, rateLimitResponse{
		Allowed:   res.Allowed,
		Limit:     res.Limit,
		Remaining: res.Remaining,
		ResetAt:   res.ResetAt.Unix(),
	})
}
