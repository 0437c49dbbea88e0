// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package api

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cocktailmaestro/internal/catalog"
	"github.com/tomtom215/cocktailmaestro/internal/recommend"
	"github.com/tomtom215/cocktailmaestro/internal/scriptclient"
)

// TagStatsSource fetches the raw tag statistics of a user's newest analyses.
// *firestore.Client implements it.
type TagStatsSource interface {
	LatestTagStats(ctx context.Context, uid string) ([]json.RawMessage, error)
}

// BreakerState is implemented by image stores that sit behind a circuit breaker.
type BreakerState interface {
	State() string
}

// Dependencies are the collaborators a Handler serves requests with.
//
// Images and TagStats are optional. Without Images, upload and image edits
// answer 503 and delete leaves the image in place with a warning. Without
// TagStats, GET /recommend/{uid} answers 503.
type Dependencies struct {
	Recipes   *catalog.RecipeIndex
	Materials *catalog.MaterialIndex
	Engine    *recommend.Engine
	Images    scriptclient.ImageStore
	TagStats  TagStatsSource

	// APIKey is the shared key mutating endpoints require.
	APIKey string

	// Version is reported by the health endpoint.
	Version string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_recipes.go: upload, search, edit and delete
//   - handlers_materials.go: material register and search
//   - handlers_recommend.go: recommendations
//   - handlers_health.go: health
type Handler struct {
	recipes   *catalog.RecipeIndex
	materials *catalog.MaterialIndex
	engine    *recommend.Engine
	images    scriptclient.ImageStore
	tagStats  TagStatsSource
	apiKey    string
	version   string
	startTime time.Time
}

// NewHandler creates an API handler. Recipes, Materials and Engine are required.
func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Recipes == nil || deps.Materials == nil || deps.Engine == nil {
		return nil, errors.New("api: recipes, materials and engine are required")
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	return &Handler{
		recipes:   deps.Recipes,
		materials: deps.Materials,
		engine:    deps.Engine,
		images:    deps.Images,
		tagStats:  deps.TagStats,
		apiKey:    deps.APIKey,
		version:   version,
		startTime: time.Now(),
	}, nil
}
