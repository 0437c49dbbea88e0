// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator, registers the custom tags the
// request types need and translates failures into the API's
// VALIDATION_FAILED shape.
//
// # Quick Start
//
//	type UploadRequest struct {
//	    FileName   string            `json:"fileName" validate:"required,filename"`
//	    RecipeInfo models.RecipeInfo `json:"recipeInfo" validate:"required"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Field Names
//
// Errors name fields by their json tag and full path below the request
// struct, e.g. "recipeInfo.tags[2]", so messages match the payload the
// client sent.
//
// # Custom Tags
//
//   - tag: recipe tag; non-blank, no control characters
//   - filename: bare file name; no directory separators, not "." or ".."
//
// # Thread Safety
//
// The validator caches struct metadata and is safe for concurrent use.
package validation
