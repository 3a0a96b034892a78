package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
	"github.com/ErlanBelekov/content-gateway/internal/metrics"
	"github.com/ErlanBelekov/content-gateway/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

// csrfUsecaser is the subset of CSRFUsecase the handler needs.
type csrfUsecaser interface {
	IssueResponse(ctx context.Context) (domain.Response, *domain.CSRFToken, error)
	VerifyResponse(submitted string, req domain.Request) (domain.Response, error)
}

type CSRFHandler struct {
	csrf   csrfUsecaser
	logger *slog.Logger
}

func NewCSRFHandler(csrf csrfUsecaser, logger *slog.Logger) *CSRFHandler {
	return &CSRFHandler{
		csrf:   csrf,
		logger: logger.With("component", "csrf_handler"),
	}
}

type verifyCSRFRequest struct {
	CSRFToken string `json:"csrfToken"`
}

// GET /api/csrf
// Returns {"csrfToken": "...", "timestamp": <unix ms>} and sets the csrf-token cookie.
func (h *CSRFHandler) Issue(c *gin.Context) {
	res, _, err := h.csrf.IssueResponse(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "issue csrf token", "error", err)
		metrics.CSRFOperationsTotal.WithLabelValues("issue", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.CSRFOperationsTotal.WithLabelValues("issue", "ok").Inc()
	writeResponse(c, res)
}

// POST /api/csrf
// 200 on match, 400 missing token, 401 no cookie, 403 mismatch.
// A body that is not JSON counts as a missing token.
func (h *CSRFHandler) Verify(c *gin.Context) {
	var req verifyCSRFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.CSRFToken = ""
	}

	res, err := h.csrf.VerifyResponse(req.CSRFToken, domain.Request{
		Path:    c.Request.URL.Path,
		Cookies: middleware.CookieMap(c.Request),
	})

	outcome := "ok"
	if err != nil {
		outcome = verifyOutcome(err)
		h.logger.WarnContext(c.Request.Context(), "csrf verification failed", "reason", outcome)
	}
	metrics.CSRFOperationsTotal.WithLabelValues("verify", outcome).Inc()

	writeResponse(c, res)
}

func verifyOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrCSRFTokenMissing):
		return "missing_token"
	case errors.Is(err, domain.ErrCSRFNoStoredToken):
		return "no_stored_token"
	case errors.Is(err, domain.ErrCSRFTokenMismatch):
		return "mismatch"
	default:
		return "error"
	}
}
