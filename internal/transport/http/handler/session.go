package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
	"github.com/ErlanBelekov/content-gateway/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

type sessionDecoder interface {
	Decode(raw string) (*domain.Session, error)
}

type sessionCookieFinder interface {
	SessionCookie(cookies map[string]string) string
}

type SessionHandler struct {
	sessions sessionDecoder
	cookies  sessionCookieFinder
	logger   *slog.Logger
}

func NewSessionHandler(sessions sessionDecoder, cookies sessionCookieFinder, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		cookies:  cookies,
		logger:   logger.With("component", "session_handler"),
	}
}

type sessionUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type sessionResponse struct {
	User    sessionUserResponse `json:"user"`
	Expires time.Time           `json:"expires"`
}

// GET /api/auth/session
// Returns the decoded session, or {} when there is none or it does not verify.
func (h *SessionHandler) Get(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	raw := h.cookies.SessionCookie(middleware.CookieMap(c.Request))
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	s, err := h.sessions.Decode(raw)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionInvalid) {
			h.logger.ErrorContext(c.Request.Context(), "decode session", "error", err)
		}
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		User: sessionUserResponse{
			ID:    s.User.ID,
			Email: s.User.Email,
			Name:  s.User.Name,
		},
		Expires: s.Expires.UTC(),
	})
}
