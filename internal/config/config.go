// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

// Package config loads and validates Cocktail Maestro configuration.
//
// Configuration is layered with Koanf: built-in defaults, then an optional
// YAML file, then environment variables. See LoadWithKoanf.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Storage   StorageConfig   `koanf:"storage"`
	Script    ScriptConfig    `koanf:"script"`
	Firestore FirestoreConfig `koanf:"firestore"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// SecurityConfig holds API key and request throttling settings.
//
// Environment Variables:
//   - SECRET_API_KEY: shared key required by every mutating endpoint
//   - CORS_ORIGINS: comma-separated list of allowed origins (default: *)
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW / DISABLE_RATE_LIMIT
type SecurityConfig struct {
	APIKey            string        `koanf:"api_key"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// StorageConfig holds object store settings.
type StorageConfig struct {
	// Path is the Badger data directory. Ignored when InMemory is set.
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// RecipeIndexKey and MaterialIndexKey name the JSON blobs holding the indexes.
	RecipeIndexKey   string `koanf:"recipe_index_key"`
	MaterialIndexKey string `koanf:"material_index_key"`

	// CacheTTL bounds how long a decoded index is served without re-reading the store.
	// Zero disables caching.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// ScriptConfig holds settings for the external image script endpoint.
//
// Environment Variables:
//   - GAS_ENDPOINT: URL of the upload/delete script
//   - SCRIPT_API_KEY: key forwarded to the script (defaults to SECRET_API_KEY)
type ScriptConfig struct {
	Endpoint          string        `koanf:"endpoint"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
}

// FirestoreConfig holds settings for reading user taste analyses from Firestore.
type FirestoreConfig struct {
	Enabled   bool   `koanf:"enabled"`
	ProjectID string `koanf:"project_id"`

	// ServiceAccount is the base64-encoded service account JSON.
	ServiceAccount string `koanf:"service_account"`

	// AnalysisPageSize is how many of the newest analyses are merged per user.
	AnalysisPageSize int `koanf:"analysis_page_size"`

	TokenURL string        `koanf:"token_url"`
	BaseURL  string        `koanf:"base_url"`
	Timeout  time.Duration `koanf:"timeout"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// Limit is the maximum number of recipe keys returned.
	Limit int `koanf:"limit"`

	// FetchTimeout bounds the recipe index read performed per request.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// SimilarityGraphPath optionally replaces the built-in tag similarity table.
	SimilarityGraphPath string `koanf:"similarity_graph_path"`

	// WarmInterval is how often the recipe index cache is refreshed in the background.
	// Zero disables the warmer.
	WarmInterval time.Duration `koanf:"warm_interval"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// ScriptAPIKey returns the key forwarded to the script endpoint,
// falling back to the shared API key.
func (c *Config) ScriptAPIKey() string {
	if c.Script.APIKey != "" {
		return c.Script.APIKey
	}
	return c.Security.APIKey
}
