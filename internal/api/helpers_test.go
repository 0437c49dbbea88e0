// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cocktailmaestro/internal/catalog"
	"github.com/tomtom215/cocktailmaestro/internal/logging"
	"github.com/tomtom215/cocktailmaestro/internal/models"
	"github.com/tomtom215/cocktailmaestro/internal/objectstore"
	"github.com/tomtom215/cocktailmaestro/internal/recommend"
	"github.com/tomtom215/cocktailmaestro/internal/scriptclient"
)

const (
	testAPIKey      = "test-secret"
	testRecipeKey   = "index.json"
	testMaterialKey = "materials_index.json"
)

// fakeImages is an in-memory scriptclient.ImageStore.
type fakeImages struct {
	mu        sync.Mutex
	next      int
	uploads   []string // file names
	deletes   []string // file IDs
	uploadErr error
	deleteErr error
	state     string
}

func (f *fakeImages) Upload(_ context.Context, _, fileName string) (*scriptclient.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.next++
	f.uploads = append(f.uploads, fileName)
	id := fmt.Sprintf("file-%d", f.next)
	return &scriptclient.UploadResult{URL: "https://images.example/" + id, FileID: id}, nil
}

func (f *fakeImages) Delete(_ context.Context, fileID string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deletes = append(f.deletes, fileID)
	return json.RawMessage(`{"status":"deleted","fileId":"` + fileID + `"}`), nil
}

func (f *fakeImages) calls() (uploads, deletes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...), append([]string(nil), f.deletes...)
}

// breakerImages adds a breaker state to fakeImages.
type breakerImages struct {
	*fakeImages
}

func (b breakerImages) State() string { return b.state }

// fakeTagStats is an in-memory TagStatsSource.
type fakeTagStats struct {
	raws   []json.RawMessage
	err    error
	gotUID string
}

func (f *fakeTagStats) LatestTagStats(_ context.Context, uid string) ([]json.RawMessage, error) {
	f.gotUID = uid
	return f.raws, f.err
}

// failingStore fails every read and write.
type failingStore struct{}

var errDisk = errors.New("disk unavailable")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errDisk }
func (failingStore) Put(context.Context, string, []byte) error   { return errDisk }
func (failingStore) Delete(context.Context, string) error        { return errDisk }
func (failingStore) Close() error                                { return nil }

// testEnv is a handler over an in-memory store.
type testEnv struct {
	store  objectstore.Store
	images *fakeImages
	deps   Dependencies
}

type envOption func(*testEnv)

func withStore(store objectstore.Store) envOption {
	return func(e *testEnv) { e.store = store }
}

func withoutImages() envOption {
	return func(e *testEnv) { e.images = nil }
}

func withTagStats(src TagStatsSource) envOption {
	return func(e *testEnv) { e.deps.TagStats = src }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	env := &testEnv{
		store:  objectstore.NewMemoryStore(),
		images: &fakeImages{},
	}
	for _, opt := range opts {
		opt(env)
	}

	recipes := catalog.NewRecipeIndex(env.store, testRecipeKey, nil)
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), nil, recipes, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	env.deps.Recipes = recipes
	env.deps.Materials = catalog.NewMaterialIndex(env.store, testMaterialKey, nil)
	env.deps.Engine = engine
	env.deps.APIKey = testAPIKey
	env.deps.Version = "test"
	if env.images != nil {
		env.deps.Images = env.images
	}
	return env
}

func (e *testEnv) handler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(e.deps)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h
}

// router returns the full chi router with rate limiting disabled.
func (e *testEnv) router(t *testing.T) http.Handler {
	t.Helper()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(e.handler(t), NewChiMiddleware(cfg)).SetupChi()
}

func (e *testEnv) seedRecipes(t *testing.T, recipes ...models.Recipe) {
	t.Helper()
	data, err := json.Marshal(recipes)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.store.Put(context.Background(), testRecipeKey, data); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) storedRecipes(t *testing.T) []models.Recipe {
	t.Helper()
	recipes, err := e.deps.Recipes.Recipes(context.Background())
	if err != nil {
		t.Fatalf("Recipes() error = %v", err)
	}
	return recipes
}

// envelope mirrors APIResponse with the payload left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) envelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("response not successful: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q (message %q)", env.Error.Code, code, env.Error.Message)
	}
	return env
}

// mustJSON marshals v for request bodies.
func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
