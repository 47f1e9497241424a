// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

// Package config provides layered configuration loading for Movie Nexus
// using koanf v2. Precedence (highest wins): environment variables >
// YAML config file > built-in defaults.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	TMDB     ProviderConfig `koanf:"tmdb"`
	OMDB     ProviderConfig `koanf:"omdb"`
	Sync     SyncConfig     `koanf:"sync"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds the relational catalog settings.
// Driver selects sqlite (Path) or postgres (DSN).
type DatabaseConfig struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
	DSN    string `koanf:"dsn"`
}

// ProviderConfig describes one external metadata provider. Instances are
// constructed once at startup and treated as immutable thereafter.
type ProviderConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`

	// RateDelay is the minimum spacing between consecutive requests.
	RateDelay time.Duration `koanf:"rate_delay"`

	// DailyQuota is the number of requests allowed per day. 0 = unlimited.
	DailyQuota int `koanf:"daily_quota"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `koanf:"timeout"`

	// DefaultCacheTTL applies to operations without a specific TTL policy.
	DefaultCacheTTL time.Duration `koanf:"default_cache_ttl"`

	// FailureThreshold is the consecutive-failure count that opens the
	// circuit breaker.
	FailureThreshold uint32 `koanf:"failure_threshold"`

	// RecoveryTimeout is how long the breaker stays open before allowing
	// a half-open trial call.
	RecoveryTimeout time.Duration `koanf:"recovery_timeout"`

	// MaxRetries caps retry attempts for retryable failures.
	MaxRetries int `koanf:"max_retries"`

	// RetryBaseDelay is the first backoff interval; it doubles per attempt.
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
}

// SyncConfig holds defaults for seeding operations.
type SyncConfig struct {
	PopularPages  int `koanf:"popular_pages"`
	TopRatedPages int `koanf:"top_rated_pages"`

	// CastLimit is the number of top-billed cast members kept per movie.
	CastLimit int `koanf:"cast_limit"`
}

// APIConfig holds pagination limits for the catalog read endpoints.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Sentinel errors for configuration validation failures. Missing startup
// configuration is fatal: it is surfaced to the caller and never retried.
var (
	ErrMissingAPIKey  = errors.New("provider API key is required")
	ErrMissingBaseURL = errors.New("provider base URL is required")
)

// Validate checks the configuration for fatal problems. It returns the
// first error found; the server refuses to start on any validation error.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	if err := validateProvider("tmdb", &c.TMDB); err != nil {
		return err
	}
	if err := validateProvider("omdb", &c.OMDB); err != nil {
		return err
	}

	if c.Sync.PopularPages < 0 || c.Sync.TopRatedPages < 0 {
		return errors.New("sync page counts must not be negative")
	}
	if c.Sync.CastLimit < 1 {
		return errors.New("sync.cast_limit must be at least 1")
	}
	if c.API.DefaultPageSize < 1 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return errors.New("api page sizes must satisfy 1 <= default <= max")
	}

	return nil
}

func validateProvider(name string, p *ProviderConfig) error {
	if p.BaseURL == "" {
		return fmt.Errorf("%s: %w", name, ErrMissingBaseURL)
	}
	if p.APIKey == "" {
		return fmt.Errorf("%s: %w", name, ErrMissingAPIKey)
	}
	if p.RateDelay <= 0 {
		return fmt.Errorf("%s.rate_delay must be positive", name)
	}
	if p.DailyQuota < 0 {
		return fmt.Errorf("%s.daily_quota must not be negative", name)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("%s.timeout must be positive", name)
	}
	if p.FailureThreshold == 0 {
		return fmt.Errorf("%s.failure_threshold must be at least 1", name)
	}
	if p.RecoveryTimeout <= 0 {
		return fmt.Errorf("%s.recovery_timeout must be positive", name)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("%s.max_retries must not be negative", name)
	}
	return nil
}
