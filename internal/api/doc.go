// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

/*
Package api provides the HTTP layer of Cocktail Maestro.

Routing uses go-chi/chi with the middleware stack built in chi_middleware.go:
request IDs with logging context, RealIP, panic recovery, CORS (go-chi/cors),
per-IP rate limiting (go-chi/httprate) and Prometheus request metrics.

# Endpoints

	GET  /health                     liveness and dependency status
	GET  /metrics                    Prometheus exposition
	POST /upload                     upload image, append recipe
	GET  /search?q=                  keyword search over recipes
	POST /delete                     remove recipe, delete image
	POST /edit                       update recipe, optionally replace image
	POST /material/register          idempotent material registration
	GET  /material/search            keyword and category search over materials
	POST /recommend                  rank recipes for posted tag statistics
	GET  /recommend/{uid}            rank recipes for a user's stored analyses

# Authentication

Mutating endpoints require the shared API key, either as the "apiKey" field
of the JSON body or in the X-API-Key header. Keys are compared in constant
time.

# Responses

Every JSON response uses the envelope in response.go:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "Recipe not found"}, "meta": {...}}
*/
package api
