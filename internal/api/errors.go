// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cocktailmaestro/internal/catalog"
	"github.com/tomtom215/cocktailmaestro/internal/firestore"
	"github.com/tomtom215/cocktailmaestro/internal/recommend"
	"github.com/tomtom215/cocktailmaestro/internal/scriptclient"
)

// Common API errors
var (
	// ErrFirestoreDisabled indicates Firestore-backed recommendations are not configured
	ErrFirestoreDisabled = errors.New("firestore integration is not enabled")
)

// Service names used in EXTERNAL_SERVICE_FAILED responses.
const (
	serviceImageScript = "image-script"
	serviceFirestore   = "firestore"
)

// writeServiceError maps an error from the catalog, engine or an external
// client to a status code and writes it. A non-empty service marks err as
// coming from that upstream dependency; unclassified errors then become 502s
// instead of 500s.
func writeServiceError(rw *ResponseWriter, service string, err error) {
	switch {
	case errors.Is(err, catalog.ErrIndexNotFound):
		rw.NotFound("Index file not found")
	case errors.Is(err, catalog.ErrRecipeNotFound):
		rw.NotFound("Recipe not found")
	case errors.Is(err, recommend.ErrInvalidInput):
		rw.BadRequest(err.Error())
	case errors.Is(err, firestore.ErrInvalidUID):
		rw.BadRequest("Invalid user ID")
	case errors.Is(err, ErrFirestoreDisabled):
		rw.ServiceUnavailable("Firestore recommendations are not enabled")
	case errors.Is(err, scriptclient.ErrNotConfigured):
		rw.ServiceUnavailable("Image script endpoint is not configured")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		rw.ServiceUnavailable("Image script temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out")
	case service != "":
		rw.ExternalServiceError(service, err)
	default:
		rw.InternalError("Internal Server Error", err)
	}
}
