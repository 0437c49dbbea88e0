// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cocktailmaestro/internal/logging"
	"github.com/tomtom215/cocktailmaestro/internal/recommend"
)

// Recommend handles POST /recommend.
// The body is {"tagStats": {...}} in either the flat or the typed value
// encoding; the response lists at most the configured number of recipe keys,
// best first.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	ids, err := h.engine.Recommend(r.Context(), req.TagStats)
	if err != nil {
		writeServiceError(rw, "", err)
		return
	}

	rw.SuccessList(RecommendResponse{Recommendations: ids}, len(ids))
}

// RecommendForUser handles GET /recommend/{uid}.
//
// The tag statistics of the user's newest analyses are merged before
// scoring. An analysis whose statistics cannot be decoded is skipped.
func (h *Handler) RecommendForUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.tagStats == nil {
		writeServiceError(rw, "", ErrFirestoreDisabled)
		return
	}

	ctx := r.Context()
	uid := chi.URLParam(r, "uid")

	raws, err := h.tagStats.LatestTagStats(ctx, uid)
	if err != nil {
		writeServiceError(rw, serviceFirestore, err)
		return
	}

	inputs := make([]recommend.TagStatsInput, 0, len(raws))
	for i, raw := range raws {
		stats, err := recommend.DecodeTagStats(raw)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int("analysis", i).Msg("Skipping undecodable tag statistics")
			continue
		}
		inputs = append(inputs, stats)
	}

	ids, err := h.engine.RecommendStats(ctx, recommend.SourceFirestore, recommend.MergeTagStats(inputs...))
	if err != nil {
		writeServiceError(rw, "", err)
		return
	}

	rw.SuccessList(RecommendResponse{Recommendations: ids}, len(ids))
}
