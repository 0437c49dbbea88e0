// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/tomtom215/cocktailmaestro/internal/logging"
)

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// maxRecommendLimit caps the recommendation list length.
const maxRecommendLimit = 1000

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateScript(); err != nil {
		return err
	}
	if err := c.validateFirestore(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.APIKey == "" {
		return fmt.Errorf("SECRET_API_KEY is required")
	}
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; " +
			"set specific origins such as CORS_ORIGINS=https://yourdomain.com")
	}
	return c.validateRateLimits()
}

// hasWildcardCORS checks if CORS is configured with wildcard origins.
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("STORAGE_PATH is required unless STORAGE_IN_MEMORY=true")
	}
	if c.Storage.RecipeIndexKey == "" {
		return fmt.Errorf("RECIPE_INDEX_KEY must not be empty")
	}
	if c.Storage.MaterialIndexKey == "" {
		return fmt.Errorf("MATERIAL_INDEX_KEY must not be empty")
	}
	if c.Storage.RecipeIndexKey == c.Storage.MaterialIndexKey {
		return fmt.Errorf("RECIPE_INDEX_KEY and MATERIAL_INDEX_KEY must differ")
	}
	if c.Storage.CacheTTL < 0 {
		return fmt.Errorf("INDEX_CACHE_TTL must not be negative")
	}
	return nil
}

func (c *Config) validateScript() error {
	// The script endpoint is optional; image endpoints answer 503 without it.
	if c.Script.Endpoint != "" {
		if err := validateHTTPURL(c.Script.Endpoint, "GAS_ENDPOINT"); err != nil {
			return err
		}
	}
	if c.Script.Timeout <= 0 {
		return fmt.Errorf("SCRIPT_TIMEOUT must be positive")
	}
	if c.Script.RequestsPerSecond < 0 {
		return fmt.Errorf("SCRIPT_REQUESTS_PER_SECOND must not be negative")
	}
	return nil
}

func (c *Config) validateFirestore() error {
	if !c.Firestore.Enabled {
		return nil
	}
	if c.Firestore.ProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required when FIRESTORE_ENABLED=true")
	}
	if c.Firestore.ServiceAccount == "" {
		return fmt.Errorf("FIREBASE_SERVICE_ACCOUNT is required when FIRESTORE_ENABLED=true")
	}
	if c.Firestore.AnalysisPageSize < 1 || c.Firestore.AnalysisPageSize > 100 {
		return fmt.Errorf("FIRESTORE_ANALYSIS_PAGE_SIZE must be between 1 and 100")
	}
	if err := validateHTTPURL(c.Firestore.TokenURL, "FIRESTORE_TOKEN_URL"); err != nil {
		return err
	}
	return validateHTTPURL(c.Firestore.BaseURL, "FIRESTORE_BASE_URL")
}

func (c *Config) validateRecommend() error {
	if c.Recommend.Limit < 1 || c.Recommend.Limit > maxRecommendLimit {
		return fmt.Errorf("RECOMMEND_LIMIT must be between 1 and %d", maxRecommendLimit)
	}
	if c.Recommend.FetchTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_FETCH_TIMEOUT must be positive")
	}
	if c.Recommend.WarmInterval < 0 {
		return fmt.Errorf("RECOMMEND_WARM_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic, disabled")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateHTTPURL checks that rawURL is an absolute http(s) URL with a host.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	return nil
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
