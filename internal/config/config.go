// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Draft store backends.
const (
	DraftStoreMemory = "memory"
	DraftStoreRedis  = "redis"
)

// Config holds runtime configuration for the BFF and the CLI.
type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	AppPort string `envconfig:"APP_PORT" default:"8080"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	ReadTimeout     time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"APP_SHUTDOWN_TIMEOUT" default:"30s"`

	BackendBaseURL string        `envconfig:"BACKEND_BASE_URL" required:"true"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"20s"`

	DraftStore             string        `envconfig:"DRAFT_STORE" default:"memory"`
	RedisAddr              string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	DraftTTL               time.Duration `envconfig:"DRAFT_TTL" default:"12h"`
	DraftCompressThreshold int           `envconfig:"DRAFT_COMPRESS_THRESHOLD" default:"8192"`

	DefaultInstallments int           `envconfig:"DEFAULT_INSTALLMENTS" default:"10"`
	PaymentCacheTTL     time.Duration `envconfig:"PAYMENT_CACHE_TTL" default:"30s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	if c.BackendBaseURL == "" {
		return errors.New("backend base url must be provided")
	}
	switch c.DraftStore {
	case DraftStoreMemory, DraftStoreRedis:
	default:
		return fmt.Errorf("unknown draft store %q (want %s or %s)", c.DraftStore, DraftStoreMemory, DraftStoreRedis)
	}
	if c.DraftTTL <= 0 {
		return errors.New("draft ttl must be positive")
	}
	if c.DefaultInstallments < 1 {
		return errors.New("default installments must be at least 1")
	}
	if c.PaymentCacheTTL <= 0 {
		return errors.New("payment cache ttl must be positive")
	}
	return nil
}

// IsDevelopment returns true when the application runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
