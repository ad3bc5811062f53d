package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// Token signing. The process must refuse to start without a secret:
	// issuing unverifiable tokens is worse than not running at all.
	SecretKey string `env:"SECRET_KEY,required" validate:"required,min=32"`
	Algorithm string `env:"ALGORITHM" envDefault:"HS256" validate:"required,oneof=HS256 HS384 HS512"`

	AccessTokenExpireMinutes  int `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30" validate:"min=1,max=1440"`
	RefreshTokenExpireMinutes int `env:"REFRESH_TOKEN_EXPIRE_MINUTES" envDefault:"60" validate:"min=1,max=43200"`
	TempCodeExpireMinutes     int `env:"TEMP_CODE_EXPIRE_MINUTES" envDefault:"3" validate:"min=1,max=120"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
	AppBaseURL   string `env:"APP_BASE_URL"   envDefault:"http://localhost:8080"`

	ReminderCron string `env:"REMINDER_CRON" envDefault:"0 8 * * *"`
}

func Load() (*Config, error) {
	// Local dev convenience; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireMinutes) * time.Minute
}

func (c *Config) TempCodeTTL() time.Duration {
	return time.Duration(c.TempCodeExpireMinutes) * time.Minute
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
