// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package api

import (
	"net/http"

	"github.com/tomtom215/cocktailmaestro/internal/catalog"
)

// RegisterMaterial handles POST /material/register.
// Registering an ID that already exists succeeds without changing the index.
func (h *Handler) RegisterMaterial(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req MaterialRegisterRequest
	if !h.decodeAndAuthorize(rw, w, r, &req, func() string { return req.APIKey }) {
		return
	}

	created, err := h.materials.Register(r.Context(), req.material())
	if err != nil {
		writeServiceError(rw, "", err)
		return
	}

	if !created {
		rw.Success(MessageResponse{Message: "Material already registered"})
		return
	}
	rw.Success(MessageResponse{Message: "Material registered successfully"})
}

// SearchMaterials handles GET /material/search?q=&categoryMain=&categorySub=.
func (h *Handler) SearchMaterials(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := r.URL.Query()
	q := catalog.ParseMaterialQuery(query.Get("q"), query.Get("categoryMain"), query.Get("categorySub"))

	results, err := h.materials.Search(r.Context(), q)
	if err != nil {
		writeServiceError(rw, "", err)
		return
	}

	rw.SuccessList(results, len(results))
}
