package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/content-gateway/internal/repository"
	"github.com/ErlanBelekov/content-gateway/internal/transport/http/handler"
	"github.com/ErlanBelekov/content-gateway/internal/transport/http/middleware"
	"github.com/ErlanBelekov/content-gateway/internal/usecase"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type Deps struct {
	Logger  *slog.Logger
	Access  *usecase.AccessRouter
	CSRF    *usecase.CSRFUsecase
	Session *usecase.SessionUsecase
	Limiter repository.RateLimiter
	// Nil answers every forwarded page with 404.
	Proxy *handler.ProxyHandler
	HSTS  bool
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	// /api/csrf/ goes through the pipeline like any other path instead of
	// being answered with a 301 before middleware runs.
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security(d.HSTS))
	r.Use(sloggin.New(d.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Access(d.Access, d.Logger))

	csrfHandler := handler.NewCSRFHandler(d.CSRF, d.Logger)
	sessionHandler := handler.NewSessionHandler(d.Session, d.Access, d.Logger)
	rateLimitHandler := handler.NewRateLimitHandler(d.Limiter, d.Logger)

	api := r.Group("/api")
	api.GET("/csrf", csrfHandler.Issue)
	api.POST("/csrf", middleware.RateLimit(d.Limiter, d.Logger), csrfHandler.Verify)
	api.GET("/auth/session", sessionHandler.Get)
	api.GET("/security/rate-limit", rateLimitHandler.Probe)

	if d.Proxy != nil {
		r.NoRoute(d.Proxy.Forward)
	} else {
		r.NoRoute(handler.NotFound)
	}

	return r
}
