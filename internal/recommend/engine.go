// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cocktailmaestro/internal/catalog"
	"github.com/tomtom215/cocktailmaestro/internal/metrics"
	"github.com/tomtom215/cocktailmaestro/internal/models"
)

// Recommendation sources, used as the metrics "source" label.
const (
	SourceRequest   = "request"
	SourceFirestore = "firestore"
)

// Engine fetches the recipe index and ranks it for a user's tag statistics.
// It is safe for concurrent use.
type Engine struct {
	config   Config
	scorer   *Scorer
	provider IndexProvider
	logger   zerolog.Logger
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, graph *SimilarityGraph, provider IndexProvider, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, errors.New("recipe index provider is required")
	}
	if graph == nil {
		graph = DefaultSimilarityGraph()
	}

	return &Engine{
		config:   cfg,
		scorer:   NewScorer(graph, cfg.Limit),
		provider: provider,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Recommend ranks recipes for tag statistics supplied in a request body.
// It fails with ErrInvalidInput when raw is not a JSON object and with
// ErrIndexNotFound when the recipe index does not exist.
func (e *Engine) Recommend(ctx context.Context, raw json.RawMessage) ([]string, error) {
	start := time.Now()

	stats, err := DecodeTagStats(raw)
	if err != nil {
		metrics.RecordRecommendation(SourceRequest, "invalid_input", time.Since(start), -1)
		return nil, err
	}

	return e.recommend(ctx, SourceRequest, stats, start)
}

// RecommendStats ranks recipes for already decoded tag statistics.
// source labels the request in metrics and logs.
func (e *Engine) RecommendStats(ctx context.Context, source string, stats TagStatsInput) ([]string, error) {
	return e.recommend(ctx, source, stats, time.Now())
}

func (e *Engine) recommend(ctx context.Context, source string, stats TagStatsInput, start time.Time) ([]string, error) {
	weights := AggregateTagWeights(stats)
	metrics.RecommendTagWeights.Observe(float64(len(weights)))

	logger := e.logger.With().Str("source", source).Int("tags", len(weights)).Logger()

	if len(weights) == 0 {
		logger.Debug().Msg("no positive tag weights, returning empty recommendation")
		metrics.RecordRecommendation(source, "success", time.Since(start), 0)
		return []string{}, nil
	}

	recipes, err := e.fetchIndex(ctx)
	if err != nil {
		result := "error"
		if errors.Is(err, ErrIndexNotFound) {
			result = "not_found"
		}
		metrics.RecordRecommendation(source, result, time.Since(start), -1)
		return nil, err
	}

	ranked := e.scorer.Rank(weights, recipes)
	ids := IDs(ranked)

	metrics.RecordRecommendation(source, "success", time.Since(start), len(ids))
	logger.Debug().
		Int("recipes", len(recipes)).
		Int("returned", len(ids)).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")

	return ids, nil
}

func (e *Engine) fetchIndex(ctx context.Context) ([]models.Recipe, error) {
	if e.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.FetchTimeout)
		defer cancel()
	}

	recipes, err := e.provider.Recipes(ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrIndexNotFound) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("fetch recipe index: %w", err)
	}
	return recipes, nil
}
