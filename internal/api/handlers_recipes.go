// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/cocktailmaestro/internal/logging"
	"github.com/tomtom215/cocktailmaestro/internal/scriptclient"
)

// Upload handles POST /upload.
//
// The image goes to the image script first; the recipe is appended to the
// index with the returned file ID. If the index write fails the uploaded
// image is deleted again.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req UploadRequest
	if !h.decodeAndAuthorize(rw, w, r, &req, func() string { return req.APIKey }) {
		return
	}
	if h.images == nil {
		writeServiceError(rw, "", scriptclient.ErrNotConfigured)
		return
	}

	ctx := r.Context()
	uploaded, err := h.images.Upload(ctx, req.ImageBase64, req.FileName)
	if err != nil {
		writeServiceError(rw, serviceImageScript, err)
		return
	}

	recipe, err := h.recipes.Add(ctx, req.RecipeInfo, uploaded.FileID)
	if err != nil {
		h.discardImage(ctx, uploaded.FileID)
		writeServiceError(rw, "", err)
		return
	}

	rw.Success(UploadResponse{
		Message:  "Upload successful",
		FileID:   uploaded.FileID,
		RecipeID: recipe.Key,
		ImageURL: uploaded.URL,
	})
}

// Search handles GET /search?q=.
// Every whitespace-separated keyword must occur in the recipe name or one of
// its ingredients. Results keep index order.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	results, err := h.recipes.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(rw, "", err)
		return
	}

	rw.SuccessList(results, len(results))
}

// Delete handles POST /delete.
//
// The recipe is removed from the index before its image is deleted. A failed
// image deletion does not undo the removal; it is reported as a warning.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req DeleteRequest
	if !h.decodeAndAuthorize(rw, w, r, &req, func() string { return req.APIKey }) {
		return
	}

	ctx := r.Context()
	removed, err := h.recipes.Delete(ctx, req.RecipeID)
	if err != nil {
		writeServiceError(rw, "", err)
		return
	}

	resp := DeleteResponse{
		Message:  "Delete successful",
		RecipeID: removed.Key,
	}

	switch {
	case removed.FileID == "":
	case h.images == nil:
		resp.Warning = "image not deleted: image script not configured"
	default:
		gasResult, err := h.images.Delete(ctx, removed.FileID)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Str("recipe_id", removed.Key).
				Str("file_id", removed.FileID).
				Msg("Recipe removed but image deletion failed")
			resp.Warning = "image not deleted: " + err.Error()
		} else {
			resp.GasResult = gasResult
		}
	}

	rw.Success(resp)
}

// Edit handles POST /edit.
//
// Name and ingredients are always replaced; tags and glass when supplied.
// With a new image, the image is uploaded first, the index is updated to
// point at it and only then the previous image is deleted, so a failure
// never leaves the recipe without an image.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req EditRequest
	if !h.decodeAndAuthorize(rw, w, r, &req, func() string { return req.APIKey }) {
		return
	}

	ctx := r.Context()
	current, err := h.recipes.Get(ctx, req.RecipeID)
	if err != nil {
		writeServiceError(rw, "", err)
		return
	}

	var newFileID string
	if req.replacesImage() {
		if h.images == nil {
			writeServiceError(rw, "", scriptclient.ErrNotConfigured)
			return
		}
		uploaded, err := h.images.Upload(ctx, req.ImageBase64, req.FileName)
		if err != nil {
			writeServiceError(rw, serviceImageScript, err)
			return
		}
		newFileID = uploaded.FileID
	}

	updated, err := h.recipes.Update(ctx, req.RecipeID, req.RecipeInfo, newFileID)
	if err != nil {
		if newFileID != "" {
			h.discardImage(ctx, newFileID)
		}
		writeServiceError(rw, "", err)
		return
	}

	resp := EditResponse{
		Message:  "Edit successful",
		RecipeID: updated.Key,
		FileID:   updated.FileID,
	}

	if newFileID != "" && current.FileID != "" && current.FileID != newFileID {
		if _, err := h.images.Delete(ctx, current.FileID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Str("recipe_id", updated.Key).
				Str("file_id", current.FileID).
				Msg("Recipe updated but previous image deletion failed")
			resp.Warning = "previous image not deleted: " + err.Error()
		}
	}

	rw.Success(resp)
}

// discardImage deletes an image that no recipe references. Failures are logged only.
func (h *Handler) discardImage(ctx context.Context, fileID string) {
	if _, err := h.images.Delete(context.WithoutCancel(ctx), fileID); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("file_id", fileID).Msg("Failed to delete orphaned image")
	}
}
