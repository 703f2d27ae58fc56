// Package config loads tenantry settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// File store drivers.
const (
	FileStoreLocal  = "local"
	FileStoreRedis  = "redis"
	FileStoreWebDAV = "webdav"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"` // empty picks json in production, text otherwise

	// Database. An empty DATABASE_URL selects SQLite at SQLITE_PATH.
	DatabaseURL      string `env:"DATABASE_URL"`
	SQLitePath       string `env:"SQLITE_PATH"`
	DatabaseMaxConns int    `env:"DATABASE_MAX_CONNS" envDefault:"10"`

	// File store
	FileStoreDriver        string `env:"FILESTORE_DRIVER" envDefault:"local"`
	FileStoreRoot          string `env:"FILESTORE_ROOT" envDefault:"./data/uploads"`
	FileStoreEncryptionKey string `env:"FILESTORE_ENCRYPTION_KEY"`
	RedisURL               string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	WebDAVURL              string `env:"WEBDAV_URL"`
	WebDAVUser             string `env:"WEBDAV_USER"`
	WebDAVPassword         string `env:"WEBDAV_PASSWORD"`

	// Circuit breaker around remote file stores
	BreakerMaxRequests uint32        `env:"BREAKER_MAX_REQUESTS" envDefault:"1"`
	BreakerInterval    time.Duration `env:"BREAKER_INTERVAL" envDefault:"60s"`
	BreakerTimeout     time.Duration `env:"BREAKER_TIMEOUT" envDefault:"30s"`
	BreakerMaxFailures uint32        `env:"BREAKER_MAX_FAILURES" envDefault:"5"`

	// RabbitMQ. Empty disables broker publishing.
	RabbitMQURL string `env:"RABBITMQ_URL"`

	// Servers
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	MCPAddr        string        `env:"MCP_ADDR" envDefault:"0.0.0.0:8082"`
	MCPAuthToken   string        `env:"MCP_AUTH_TOKEN"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"`

	// Tracing. Empty disables export.
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.FileStoreDriver {
	case FileStoreLocal, FileStoreRedis:
	case FileStoreWebDAV:
		if c.WebDAVURL == "" {
			return errors.New("WEBDAV_URL is required when FILESTORE_DRIVER=webdav")
		}
	default:
		return fmt.Errorf("unknown FILESTORE_DRIVER %q", c.FileStoreDriver)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
