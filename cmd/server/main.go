package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/content-gateway/config"
	"github.com/ErlanBelekov/content-gateway/internal/health"
	"github.com/ErlanBelekov/content-gateway/internal/infrastructure/memory"
	"github.com/ErlanBelekov/content-gateway/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/content-gateway/internal/infrastructure/redis"
	ctxlog "github.com/ErlanBelekov/content-gateway/internal/log"
	"github.com/ErlanBelekov/content-gateway/internal/metrics"
	"github.com/ErlanBelekov/content-gateway/internal/repository"
	httptransport "github.com/ErlanBelekov/content-gateway/internal/transport/http"
	"github.com/ErlanBelekov/content-gateway/internal/transport/http/handler"
	"github.com/ErlanBelekov/content-gateway/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer)

	// Rate limiting: shared budget in Redis when configured, per-process otherwise.
	var limiter repository.RateLimiter
	if cfg.RedisURL != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		checker.Register("redis", rdb)
		limiter = redis.NewRateLimiter(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow)
	} else {
		store := memory.NewStore()
		metrics.RegisterStoreKeys(prometheus.DefaultRegisterer, store.Len)
		limiter = memory.NewRateLimiter(store, cfg.RateLimitRequests, cfg.RateLimitWindow)
	}

	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()
		checker.Register("postgres", pool)
	}

	proxy, err := handler.NewProxyHandler(cfg.UpstreamURL, logger)
	if err != nil {
		log.Fatalf("upstream: %v", err)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:  logger,
		Access:  usecase.NewAccessRouter(),
		CSRF:    usecase.NewCSRFUsecase(cfg.IsProduction(), usecase.WithMaxAge(cfg.CSRFCookieMaxAge)),
		Session: usecase.NewSessionUsecase([]byte(cfg.SessionSecret)),
		Limiter: limiter,
		Proxy:   proxy,
		HSTS:    cfg.Env != "local",
	})

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "upstream", cfg.UpstreamURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
