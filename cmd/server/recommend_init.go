// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package main

import (
	"fmt"

	"github.com/tomtom215/cocktailmaestro/internal/config"
	"github.com/tomtom215/cocktailmaestro/internal/logging"
	"github.com/tomtom215/cocktailmaestro/internal/recommend"
)

// buildEngineConfig maps configuration onto the engine's defaults.
func buildEngineConfig(cfg *config.Config) recommend.Config {
	engineCfg := recommend.DefaultConfig()
	if cfg.Recommend.Limit > 0 {
		engineCfg.Limit = cfg.Recommend.Limit
	}
	if cfg.Recommend.FetchTimeout > 0 {
		engineCfg.FetchTimeout = cfg.Recommend.FetchTimeout
	}
	return engineCfg
}

// initEngine creates the recommendation engine. A configured similarity
// graph file replaces the built-in table and must load cleanly.
func initEngine(cfg *config.Config, provider recommend.IndexProvider) (*recommend.Engine, error) {
	logger := logging.WithComponent("recommend")

	var graph *recommend.SimilarityGraph
	if path := cfg.Recommend.SimilarityGraphPath; path != "" {
		loaded, err := recommend.LoadSimilarityGraph(path)
		if err != nil {
			return nil, fmt.Errorf("load similarity graph: %w", err)
		}
		graph = loaded
		logger.Info().Str("path", path).Int("tags", graph.Len()).Msg("Loaded similarity graph")
	}

	engineCfg := buildEngineConfig(cfg)
	engine, err := recommend.NewEngine(engineCfg, graph, provider, logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("init recommendation engine: %w", err)
	}

	logger.Info().
		Int("limit", engineCfg.Limit).
		Dur("fetch_timeout", engineCfg.FetchTimeout).
		Msg("Recommendation engine initialized")
	return engine, nil
}
