// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

// Package config loads service configuration from defaults, an optional YAML
// file, and environment variables (highest priority).
package config

import (
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Recommend RecommendConfig `koanf:"recommend"`
	Storage   StorageConfig   `koanf:"storage"`
	Cache     CacheConfig     `koanf:"cache"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// SecurityConfig holds request throttling and CORS settings. Authentication
// is handled upstream of this service.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	// Caller includes file:line in log entries.
	Caller bool `koanf:"caller"`
}

// TMDBConfig configures the external catalog.
//
// Environment Variables:
//   - TMDB_API_KEY: API key (required)
//   - TMDB_BASE_URL: API root (default: https://api.themoviedb.org/3)
//   - TMDB_IMAGE_BASE_URL: poster prefix (default: https://image.tmdb.org/t/p/w500)
//   - TMDB_LANGUAGE: response language (default: ru-RU)
//   - TMDB_TIMEOUT: HTTP client timeout (default: 10s)
//   - TMDB_CALL_TIMEOUT: per-call deadline during candidate gathering (default: 8s)
//   - TMDB_RATE_LIMIT / TMDB_RATE_BURST: outbound request throttle (default: 40/s, burst 20)
//   - TMDB_WARMUP_RETRY: delay between taxonomy warm-up attempts (default: 30s)
type TMDBConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	ImageBaseURL      string        `koanf:"image_base_url"`
	Language          string        `koanf:"language"`
	Timeout           time.Duration `koanf:"timeout"`
	CallTimeout       time.Duration `koanf:"call_timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	WarmupRetry       time.Duration `koanf:"warmup_retry"`
}

// RecommendConfig tunes request volume. The scoring weights are fixed in code.
type RecommendConfig struct {
	DefaultLimit      int `koanf:"default_limit"`
	MaxLimit          int `koanf:"max_limit"`
	MaxFavorites      int `koanf:"max_favorites"`
	MaxConcurrency    int `koanf:"max_concurrency"`
	MinFinalizeTitles int `koanf:"min_finalize_titles"`
}

// StorageConfig selects the persistence backend for answers, titles, and profiles.
type StorageConfig struct {
	// Driver is badger (default) or postgres.
	Driver      string `koanf:"driver"`
	BadgerPath  string `koanf:"badger_path"`
	InMemory    bool   `koanf:"in_memory"`
	PostgresDSN string `koanf:"postgres_dsn"`
}

// CacheConfig configures the optional shared genre taxonomy cache and the
// in-process feed cache. An empty RedisAddr keeps the taxonomy in process
// memory only; a zero FeedTTL disables feed caching.
type CacheConfig struct {
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	TaxonomyTTL   time.Duration `koanf:"taxonomy_ttl"`
	FeedTTL       time.Duration `koanf:"feed_ttl"`
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration with the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
