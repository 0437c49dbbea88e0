// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package recommend

import (
	"fmt"
	"time"
)

// DefaultLimit is the maximum number of recipe keys a recommendation returns.
const DefaultLimit = 20

// Config contains configuration for the recommendation engine.
type Config struct {
	// Limit is the maximum number of recipe keys returned.
	Limit int `json:"limit"`

	// FetchTimeout bounds the recipe index read. Zero means no extra bound
	// beyond the caller's context.
	FetchTimeout time.Duration `json:"fetch_timeout"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Limit:        DefaultLimit,
		FetchTimeout: 5 * time.Second,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must be non-negative, got %v", c.FetchTimeout)
	}
	return nil
}
