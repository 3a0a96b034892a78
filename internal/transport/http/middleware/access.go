package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
	"github.com/ErlanBelekov/content-gateway/internal/metrics"
	"github.com/ErlanBelekov/content-gateway/internal/usecase"
	"github.com/gin-gonic/gin"
)

// accessDecider is the subset of AccessRouter the middleware needs.
type accessDecider interface {
	SessionPresent(cookies map[string]string) bool
	Decide(path string, authenticated bool) domain.Decision
}

// Access forwards or redirects every request by path and session-cookie
// presence. Static assets skip the check entirely.
func Access(router accessDecider, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "access")

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if usecase.Excluded(path) {
			c.Next()
			return
		}

		authenticated := router.SessionPresent(CookieMap(c.Request))
		d := router.Decide(path, authenticated)
		metrics.AccessDecisionsTotal.WithLabelValues(string(d.Action), d.Reason).Inc()

		if !d.IsRedirect() {
			c.Next()
			return
		}

		logger.DebugContext(c.Request.Context(), "access redirect",
			"path", path, "location", d.Location, "reason", d.Reason, "authenticated", authenticated)
		c.Redirect(http.StatusTemporaryRedirect, d.Location)
		c.Abort()
	}
}

// CookieMap flattens request cookies. When a name repeats the first one wins,
// matching http.Request.Cookie.
func CookieMap(r *http.Request) map[string]string {
	cookies := r.Cookies()
	m := make(map[string]string, len(cookies))
	for _, ck := range cookies {
		if _, seen := m[ck.Name]; !seen {
			m[ck.Name] = ck.Value
		}
	}
	return m
}
