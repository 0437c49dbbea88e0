// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cocktailmaestro/internal/catalog"
	"github.com/tomtom215/cocktailmaestro/internal/metrics"
)

// IndexReloader re-reads an index from the object store into its cache.
// Satisfied by *catalog.RecipeIndex.
type IndexReloader interface {
	Reload(ctx context.Context) (int, error)
}

// IndexWarmerConfig controls the background refresh loop.
type IndexWarmerConfig struct {
	// Interval between refreshes. Must be positive.
	Interval time.Duration

	// Timeout bounds a single refresh. Defaults to Interval.
	Timeout time.Duration

	// WarmOnStart refreshes once before the first tick.
	WarmOnStart bool
}

// IndexWarmerService keeps the recipe index cache hot so recommendation
// requests rarely pay for a store read and JSON decode.
type IndexWarmerService struct {
	index  IndexReloader
	config IndexWarmerConfig
	logger zerolog.Logger
	name   string
}

// NewIndexWarmerService creates a warmer for index.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewIndexWarmerService(index IndexReloader, cfg IndexWarmerConfig, logger zerolog.Logger) *IndexWarmerService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	return &IndexWarmerService{
		index:  index,
		config: cfg,
		logger: logger.With().Str("service", "index-warmer").Logger(),
		name:   "index-warmer",
	}
}

// Serve implements suture.Service. Refresh failures are logged and counted
// but never end the loop.
func (s *IndexWarmerService) Serve(ctx context.Context) error {
	s.logger.Debug().Dur("interval", s.config.Interval).Msg("index warmer starting")

	if s.config.WarmOnStart {
		s.warm(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.warm(ctx)
		}
	}
}

// warm performs one refresh and reports the outcome as "ok", "missing"
// or "error".
func (s *IndexWarmerService) warm(ctx context.Context) {
	warmCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	n, err := s.index.Reload(warmCtx)
	switch {
	case err == nil:
		metrics.IndexWarmTotal.WithLabelValues("ok").Inc()
		s.logger.Debug().Int("recipes", n).Dur("duration", time.Since(start)).Msg("recipe index refreshed")
	case errors.Is(err, catalog.ErrIndexNotFound):
		metrics.IndexWarmTotal.WithLabelValues("missing").Inc()
		s.logger.Debug().Msg("recipe index not created yet")
	case ctx.Err() != nil:
		// Shutting down.
	default:
		metrics.IndexWarmTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("recipe index refresh failed")
	}
}

// String implements fmt.Stringer for suture's event log.
func (s *IndexWarmerService) String() string {
	return s.name
}
