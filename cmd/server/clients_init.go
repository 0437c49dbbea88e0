// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package main

import (
	"fmt"

	"github.com/tomtom215/cocktailmaestro/internal/api"
	"github.com/tomtom215/cocktailmaestro/internal/config"
	"github.com/tomtom215/cocktailmaestro/internal/firestore"
	"github.com/tomtom215/cocktailmaestro/internal/logging"
	"github.com/tomtom215/cocktailmaestro/internal/scriptclient"
)

// initImageStore returns the image script client behind a circuit breaker,
// or nil when no endpoint is configured. Upload and edit then answer 503.
func initImageStore(cfg *config.Config) scriptclient.ImageStore {
	client := scriptclient.NewClient(&cfg.Script, cfg.ScriptAPIKey())
	if !client.Configured() {
		logging.Warn().Msg("Image script endpoint not configured (GAS_ENDPOINT); uploads are disabled")
		return nil
	}
	logging.Info().
		Dur("timeout", cfg.Script.Timeout).
		Float64("requests_per_second", cfg.Script.RequestsPerSecond).
		Msg("Image script client enabled")
	return scriptclient.NewCircuitBreakerClient(client)
}

// initTagStats returns the Firestore analysis reader, or nil when the
// integration is disabled.
func initTagStats(cfg *config.Config) (api.TagStatsSource, error) {
	if !cfg.Firestore.Enabled {
		logging.Info().Msg("Firestore integration disabled; GET /recommend/{uid} answers 503")
		return nil, nil
	}
	client, err := firestore.NewClient(&cfg.Firestore)
	if err != nil {
		return nil, fmt.Errorf("init firestore client: %w", err)
	}
	logging.Info().
		Str("project_id", cfg.Firestore.ProjectID).
		Int("page_size", cfg.Firestore.AnalysisPageSize).
		Msg("Firestore integration enabled")
	return client, nil
}
