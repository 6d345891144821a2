package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Runtime   RuntimeConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// RuntimeConfig holds editor config evaluation settings.
type RuntimeConfig struct {
	MaxCallStackSize int           `envconfig:"EDITOR_MAX_CALL_STACK" default:"8192"`
	Timeout          time.Duration `envconfig:"EDITOR_TIMEOUT" default:"0s"`
	MaxConcurrent    int64         `envconfig:"EDITOR_MAX_CONCURRENT" default:"0"`
	EnableConsole    bool          `envconfig:"EDITOR_CONSOLE" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds allowed origins for browser clients.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects settings the runtime cannot honour.
func (c *Config) Validate() error {
	if c.Runtime.MaxCallStackSize < 0 {
		return fmt.Errorf("EDITOR_MAX_CALL_STACK must not be negative, got %d", c.Runtime.MaxCallStackSize)
	}
	if c.Runtime.Timeout < 0 {
		return fmt.Errorf("EDITOR_TIMEOUT must not be negative, got %s", c.Runtime.Timeout)
	}
	if c.Runtime.MaxConcurrent < 0 {
		return fmt.Errorf("EDITOR_MAX_CONCURRENT must not be negative, got %d", c.Runtime.MaxConcurrent)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Runtime: RuntimeConfig{
			MaxCallStackSize: 8192,
			Timeout:          0,
			MaxConcurrent:    0,
			EnableConsole:    true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
	}
}
