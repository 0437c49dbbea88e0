// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cocktailmaestro/internal/catalog"
)

// healthCheckTimeout bounds the index read performed by the health check.
const healthCheckTimeout = 2 * time.Second

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status        string  `json:"status"` // healthy, degraded
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`

	// RecipeIndex is "ok", "missing" (never written) or "error".
	RecipeIndex string `json:"recipe_index"`
	Recipes     int    `json:"recipes"`

	ImageScript      string `json:"image_script"` // configured, not_configured
	ImageScriptState string `json:"image_script_breaker,omitempty"`
	FirestoreEnabled bool   `json:"firestore_enabled"`
}

// Health handles GET /health.
//
// A missing recipe index is healthy: it is created by the first upload.
// Any other index read failure reports "degraded" with status 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	health := HealthStatus{
		Status:           "healthy",
		Version:          h.version,
		UptimeSeconds:    time.Since(h.startTime).Seconds(),
		RecipeIndex:      "ok",
		ImageScript:      "not_configured",
		FirestoreEnabled: h.tagStats != nil,
	}

	recipes, err := h.recipes.Recipes(ctx)
	switch {
	case err == nil:
		health.Recipes = len(recipes)
	case errors.Is(err, catalog.ErrIndexNotFound):
		health.RecipeIndex = "missing"
	default:
		health.RecipeIndex = "error"
		health.Status = "degraded"
	}

	if h.images != nil {
		health.ImageScript = "configured"
		if b, ok := h.images.(BreakerState); ok {
			health.ImageScriptState = b.State()
		}
	}

	if health.Status != "healthy" {
		meta := &APIMeta{}
		rw.fillMeta(meta)
		rw.writeJSON(http.StatusServiceUnavailable, APIResponse{
			Success: false,
			Data:    health,
			Error: &APIError{
				Code:      ErrCodeServiceUnavailable,
				Message:   "recipe index unavailable",
				RequestID: meta.RequestID,
			},
			Meta: meta,
		})
		return
	}

	rw.Success(health)
}
