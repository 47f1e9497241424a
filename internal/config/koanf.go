// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/movienexus/config.yaml",
	"/etc/movienexus/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all built-in defaults. Defaults are
// applied first, then overridden by the config file and environment.
//
// Provider defaults mirror the respective published API limits: TMDB allows
// roughly 40 requests per 10 seconds (0.25s spacing) with no practical daily
// cap; OMDB's free tier allows 1000 requests per day and tends to respond
// slowly, hence the conservative 1s spacing and 45s timeout.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8321,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "/data/movienexus.db",
			DSN:    "",
		},
		TMDB: ProviderConfig{
			BaseURL:          "https://api.themoviedb.org/3",
			APIKey:           "",
			RateDelay:        250 * time.Millisecond,
			DailyQuota:       0, // effectively unlimited
			Timeout:          30 * time.Second,
			DefaultCacheTTL:  time.Hour,
			FailureThreshold: 5,
			RecoveryTimeout:  60 * time.Second,
			MaxRetries:       3,
			RetryBaseDelay:   time.Second,
		},
		OMDB: ProviderConfig{
			BaseURL:          "https://www.omdbapi.com",
			APIKey:           "",
			RateDelay:        time.Second,
			DailyQuota:       1000,
			Timeout:          45 * time.Second,
			DefaultCacheTTL:  24 * time.Hour,
			FailureThreshold: 5,
			RecoveryTimeout:  60 * time.Second,
			MaxRetries:       3,
			RetryBaseDelay:   time.Second,
		},
		Sync: SyncConfig{
			PopularPages:  10,
			TopRatedPages: 5,
			CastLimit:     5,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources and validates it.
//
// Layers (lowest to highest priority):
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (TMDB_API_KEY -> tmdb.api_key, ...)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches the env override and default paths for a config
// file. Returns the first path that exists, or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - TMDB_API_KEY    -> tmdb.api_key
//   - OMDB_RATE_DELAY -> omdb.rate_delay
//   - SERVER_PORT     -> server.port
//   - LOG_LEVEL       -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	// Legacy aliases kept from the first deployment scripts.
	aliases := map[string]string{
		"log_level":     "logging.level",
		"log_format":    "logging.format",
		"database_path": "database.path",
		"database_dsn":  "database.dsn",
	}
	if mapped, ok := aliases[key]; ok {
		return mapped
	}

	for _, prefix := range []string{"server", "database", "tmdb", "omdb", "sync", "api", "logging"} {
		if strings.HasPrefix(key, prefix+"_") {
			return prefix + "." + strings.TrimPrefix(key, prefix+"_")
		}
	}

	// Unknown variables map to nothing koanf knows about; they are ignored
	// at unmarshal time.
	return key
}
