package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	SessionSecret string `env:"SESSION_SECRET,required" validate:"required,min=32"`
	UpstreamURL   string `env:"UPSTREAM_URL"            validate:"omitempty,url"`

	// Optional dependencies. Empty means in-memory rate limiting and no postgres readiness check.
	RedisURL    string `env:"REDIS_URL"    validate:"omitempty,url"`
	DatabaseURL string `env:"DATABASE_URL" validate:"omitempty,url"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"10" validate:"min=1,max=10000"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW"   envDefault:"1m" validate:"min=1s"`

	CSRFCookieMaxAge time.Duration `env:"CSRF_COOKIE_MAX_AGE" envDefault:"24h" validate:"min=1m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether cookies must carry the Secure flag.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
