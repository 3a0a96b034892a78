package middleware_test

import (
	"net/http"
	"testing"

	"github.com/ErlanBelekov/content-gateway/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func newSecurityEngine(hsts bool) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Security(hsts))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestSecurity(t *testing.T) {
	tests := []struct {
		name        string
		hsts        bool
		checkHeader string
		wantValue   string
	}{
		{"nosniff", false, "X-Content-Type-Options", "nosniff"},
		{"frame deny", false, "X-Frame-Options", "DENY"},
		{"referrer policy", false, "Referrer-Policy", "strict-origin-when-cross-origin"},
		{"permissions policy", false, "Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
		{"csp frame ancestors", false, "Content-Security-Policy", "frame-ancestors 'none'"},
		{"hsts when enabled", true, "Strict-Transport-Security", "max-age=63072000; includeSubDomains"},
		{"no hsts when disabled", false, "Strict-Transport-Security", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(newSecurityEngine(tt.hsts), "/")

			if got := w.Header().Get(tt.checkHeader); got != tt.wantValue {
				t.Errorf("header %s = %q, want %q", tt.checkHeader, got, tt.wantValue)
			}
		})
	}
}
