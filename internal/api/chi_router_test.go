// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/cocktailmaestro/internal/config"
	"github.com/tomtom215/cocktailmaestro/internal/middleware"
)

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	router := env.router(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/search", http.StatusNotFound}, // index missing
		{http.MethodGet, "/material/search", http.StatusNotFound},
		{http.MethodPost, "/upload", http.StatusBadRequest},
		{http.MethodPost, "/delete", http.StatusBadRequest},
		{http.MethodPost, "/edit", http.StatusBadRequest},
		{http.MethodPost, "/material/register", http.StatusBadRequest},
		{http.MethodPost, "/recommend", http.StatusBadRequest},
		{http.MethodGet, "/recommend/u1", http.StatusServiceUnavailable},
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodGet, "/upload", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		rec := doRequest(t, router, tt.method, tt.path, "")
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d (body %s)", tt.method, tt.path, rec.Code, tt.want, rec.Body.String())
		}
	}
}

func TestRouter_UnknownRouteUsesEnvelope(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := doRequest(t, env.router(t), http.MethodGet, "/does-not-exist", "")
	resp := expectError(t, rec, http.StatusNotFound, ErrCodeNotFound)
	if resp.Error.RequestID == "" {
		t.Error("error envelope carries no request ID")
	}
}

func TestRouter_RequestID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	router := env.router(t)

	rec := doRequest(t, router, http.MethodGet, "/health", "", middleware.RequestIDHeader, "req-123")
	if got := rec.Header().Get(middleware.RequestIDHeader); got != "req-123" {
		t.Errorf("echoed request ID = %q", got)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Meta == nil || resp.Meta.RequestID != "req-123" {
		t.Errorf("meta = %+v", resp.Meta)
	}

	rec = doRequest(t, router, http.MethodGet, "/health", "")
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("no request ID generated")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://app.example"}
	cfg.RateLimitDisabled = true
	router := NewRouter(env.handler(t), NewChiMiddleware(cfg)).SetupChi()

	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-API-Key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(strings.ToLower(got), "x-api-key") {
		t.Errorf("Allow-Headers = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got Allow-Origin = %q", got)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	router := NewRouter(env.handler(t), NewChiMiddleware(cfg)).SetupChi()

	for i := 0; i < 2; i++ {
		if rec := doRequest(t, router, http.MethodGet, "/search", ""); rec.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d throttled early", i+1)
		}
	}
	rec := doRequest(t, router, http.MethodGet, "/search", "")
	expectError(t, rec, http.StatusTooManyRequests, ErrCodeTooManyRequests)

	// Health is never throttled.
	if rec := doRequest(t, router, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestRouter_RecommendRateLimitIsStricter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 5 // recommend budget: 1
	router := NewRouter(env.handler(t), NewChiMiddleware(cfg)).SetupChi()

	body := `{"tagStats": {}}`
	if rec := doRequest(t, router, http.MethodPost, "/recommend", body); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	rec := doRequest(t, router, http.MethodPost, "/recommend", body)
	expectError(t, rec, http.StatusTooManyRequests, ErrCodeTooManyRequests)
}

func TestNewChiMiddlewareConfig(t *testing.T) {
	t.Parallel()

	cfg := NewChiMiddlewareConfig(&config.SecurityConfig{
		CORSOrigins:       []string{"*"},
		RateLimitReqs:     42,
		RateLimitWindow:   30 * time.Second,
		RateLimitDisabled: true,
	})
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.RateLimitRequests != 42 || cfg.RateLimitWindow != 30*time.Second || !cfg.RateLimitDisabled {
		t.Errorf("config = %+v", cfg)
	}

	defaults := NewChiMiddlewareConfig(&config.SecurityConfig{})
	if defaults.RateLimitRequests != 100 || defaults.RateLimitWindow != time.Minute {
		t.Errorf("defaults not kept: %+v", defaults)
	}
}
