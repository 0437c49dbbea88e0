// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package catalog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/cocktailmaestro/internal/cache"
	"github.com/tomtom215/cocktailmaestro/internal/metrics"
	"github.com/tomtom215/cocktailmaestro/internal/models"
	"github.com/tomtom215/cocktailmaestro/internal/objectstore"
)

const testRecipeKey = "index.json"

// seedRecipes writes recipes directly into the store as the index blob.
func seedRecipes(t *testing.T, store objectstore.Store, recipes []models.Recipe) {
	t.Helper()
	data, err := json.Marshal(recipes)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	if err := store.Put(context.Background(), testRecipeKey, data); err != nil {
		t.Fatalf("seed put: %v", err)
	}
}

func sampleRecipes() []models.Recipe {
	return []models.Recipe{
		{Key: "r1", Name: "Mojito", Ingredients: []string{"White Rum", "Mint", "Lime"}, Tags: []string{"爽やか"}, FileID: "f1"},
		{Key: "r2", Name: "Daiquiri", Ingredients: []string{"White Rum", "Lime", "Sugar"}, Tags: []string{"甘い"}, FileID: "f2"},
		{Key: "r3", Name: "Negroni", Ingredients: []string{"Gin", "Campari", "Sweet Vermouth"}, FileID: "f3"},
	}
}

func TestRecipeIndex_MissingIndex(t *testing.T) {
	t.Parallel()

	idx := NewRecipeIndex(objectstore.NewMemoryStore(), testRecipeKey, nil)
	ctx := context.Background()

	if _, err := idx.Recipes(ctx); !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("Recipes() error = %v, want ErrIndexNotFound", err)
	}
	if _, err := idx.Search(ctx, "rum"); !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("Search() error = %v, want ErrIndexNotFound", err)
	}
	if _, err := idx.Delete(ctx, "r1"); !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("Delete() error = %v, want ErrIndexNotFound", err)
	}
	if _, err := idx.Update(ctx, "r1", models.RecipeInfo{Name: "x"}, ""); !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("Update() error = %v, want ErrIndexNotFound", err)
	}
}

func TestRecipeIndex_AddCreatesIndex(t *testing.T) {
	t.Parallel()

	store := objectstore.NewMemoryStore()
	idx := NewRecipeIndex(store, testRecipeKey, nil)
	ctx := context.Background()

	info := models.RecipeInfo{
		Name:        "Gin Tonic",
		Ingredients: []models.Ingredient{{Name: "Gin"}, {Name: "Tonic Water"}},
		Tags:        []string{"爽やか", "辛口"},
		Glass:       "Highball",
	}
	recipe, err := idx.Add(ctx, info, "file-1")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if len(recipe.Key) != 36 {
		t.Errorf("Key = %q, want UUID", recipe.Key)
	}
	if !reflect.DeepEqual(recipe.Ingredients, []string{"Gin", "Tonic Water"}) {
		t.Errorf("Ingredients = %v", recipe.Ingredients)
	}

	raw, err := store.Get(ctx, testRecipeKey)
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	if !strings.Contains(string(raw), "\n  {") {
		t.Errorf("index should be written indented, got %s", raw)
	}
	if !strings.Contains(string(raw), `"fileId": "file-1"`) {
		t.Errorf("index missing fileId, got %s", raw)
	}

	all, err := idx.Recipes(ctx)
	if err != nil {
		t.Fatalf("Recipes() error = %v", err)
	}
	if len(all) != 1 || all[0].Key != recipe.Key {
		t.Errorf("Recipes() = %+v", all)
	}
}

func TestRecipeIndex_AddAppendsInOrder(t *testing.T) {
	t.Parallel()

	store := objectstore.NewMemoryStore()
	seedRecipes(t, store, sampleRecipes())
	idx := NewRecipeIndex(store, testRecipeKey, nil)
	ctx := context.Background()

	added, err := idx.Add(ctx, models.RecipeInfo{Name: "Martini"}, "f4")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	all, _ := idx.Recipes(ctx)
	if len(all) != 4 || all[3].Key != added.Key || all[0].Key != "r1" {
		t.Errorf("Recipes() order wrong: %+v", all)
	}
}

func TestRecipeIndex_Update(t *testing.T) {
	t.Parallel()

	store := objectstore.NewMemoryStore()
	seedRecipes(t, store, sampleRecipes())
	idx := NewRecipeIndex(store, testRecipeKey, nil)
	ctx := context.Background()

	t.Run("keeps tags and file when not supplied", func(t *testing.T) {
		updated, err := idx.Update(ctx, "r1", models.RecipeInfo{
			Name:        "Virgin Mojito",
			Ingredients: []models.Ingredient{{Name: "Mint"}, {Name: "Soda"}},
		}, "")
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Name != "Virgin Mojito" || updated.FileID != "f1" {
			t.Errorf("updated = %+v", updated)
		}
		if !reflect.DeepEqual(updated.Tags, []string{"爽やか"}) {
			t.Errorf("Tags = %v, want preserved", updated.Tags)
		}
	})

	t.Run("replaces tags glass and file", func(t *testing.T) {
		updated, err := idx.Update(ctx, "r2", models.RecipeInfo{
			Name:  "Frozen Daiquiri",
			Tags:  []string{"甘党向け"},
			Glass: "Cocktail",
		}, "f2-new")
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.FileID != "f2-new" || updated.Glass != "Cocktail" {
			t.Errorf("updated = %+v", updated)
		}

		got, err := idx.Get(ctx, "r2")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !reflect.DeepEqual(got.Tags, []string{"甘党向け"}) {
			t.Errorf("persisted Tags = %v", got.Tags)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := idx.Update(ctx, "nope", models.RecipeInfo{Name: "x"}, "")
		if !errors.Is(err, ErrRecipeNotFound) {
			t.Errorf("Update() error = %v, want ErrRecipeNotFound", err)
		}
	})
}

func TestRecipeIndex_Delete(t *testing.T) {
	t.Parallel()

	store := objectstore.NewMemoryStore()
	seedRecipes(t, store, sampleRecipes())
	idx := NewRecipeIndex(store, testRecipeKey, nil)
	ctx := context.Background()

	removed, err := idx.Delete(ctx, "r2")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if removed.FileID != "f2" {
		t.Errorf("removed = %+v", removed)
	}

	all, _ := idx.Recipes(ctx)
	if len(all) != 2 || all[0].Key != "r1" || all[1].Key != "r3" {
		t.Errorf("Recipes() after delete = %+v", all)
	}

	if _, err := idx.Delete(ctx, "r2"); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("second Delete() error = %v, want ErrRecipeNotFound", err)
	}
	if _, err := idx.Get(ctx, "r2"); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("Get() error = %v, want ErrRecipeNotFound", err)
	}
}

func TestRecipeIndex_Search(t *testing.T) {
	t.Parallel()

	store := objectstore.NewMemoryStore()
	seedRecipes(t, store, sampleRecipes())
	idx := NewRecipeIndex(store, testRecipeKey, nil)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns all", "", []string{"r1", "r2", "r3"}},
		{"single keyword on ingredient", "rum", []string{"r1", "r2"}},
		{"case insensitive name", "NEGRONI", []string{"r3"}},
		{"and across name and ingredient", "mojito lime", []string{"r1"}},
		{"and with no common match", "mint sugar", []string{}},
		{"ideographic space separates", "rum　sugar", []string{"r2"}},
		{"substring of ingredient", "verm", []string{"r3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := idx.Search(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			keys := make([]string, 0, len(got))
			for _, r := range got {
				keys = append(keys, r.Key)
			}
			if !reflect.DeepEqual(keys, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, keys, tt.want)
			}
		})
	}
}

func TestRecipeIndex_CorruptIndex(t *testing.T) {
	t.Parallel()

	store := objectstore.NewMemoryStore()
	_ = store.Put(context.Background(), testRecipeKey, []byte(`{"not":"an array"}`))
	idx := NewRecipeIndex(store, testRecipeKey, nil)

	_, err := idx.Recipes(context.Background())
	if err == nil || errors.Is(err, ErrIndexNotFound) {
		t.Errorf("Recipes() error = %v, want decode error", err)
	}
}

func TestRecipeIndex_CacheInvalidatedOnWrite(t *testing.T) {
	t.Parallel()

	store := objectstore.NewMemoryStore()
	seedRecipes(t, store, sampleRecipes())
	c := cache.New("test_recipe_index", time.Minute)
	defer c.Close()
	idx := NewRecipeIndex(store, testRecipeKey, c)
	ctx := context.Background()

	if _, err := idx.Recipes(ctx); err != nil {
		t.Fatalf("Recipes() error = %v", err)
	}
	if _, err := idx.Recipes(ctx); err != nil {
		t.Fatalf("Recipes() error = %v", err)
	}
	if hits := c.GetStats().Hits; hits != 1 {
		t.Errorf("cache hits = %d, want 1", hits)
	}

	if _, err := idx.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	all, _ := idx.Recipes(ctx)
	if len(all) != 2 {
		t.Errorf("Recipes() after delete returned %d entries, want 2 (stale cache?)", len(all))
	}

	// Mutating the returned slice must not leak into the cache
	all[0] = models.Recipe{Key: "mutated"}
	again, _ := idx.Recipes(ctx)
	if again[0].Key == "mutated" {
		t.Error("cached index was mutated through returned slice")
	}
}

func TestRecipeIndex_Reload(t *testing.T) {
	t.Parallel()

	store := objectstore.NewMemoryStore()
	seedRecipes(t, store, sampleRecipes())
	c := cache.New("test_recipe_reload", time.Minute)
	defer c.Close()
	idx := NewRecipeIndex(store, testRecipeKey, c)

	n, err := idx.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Reload() = %d, want 3", n)
	}
	if _, ok := c.Get(testRecipeKey); !ok {
		t.Error("Reload() should populate the cache")
	}
}

func TestRecipeIndex_ConcurrentAddsKeepEveryRecipe(t *testing.T) {
	t.Parallel()

	idx := NewRecipeIndex(objectstore.NewMemoryStore(), testRecipeKey, nil)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := idx.Add(ctx, models.RecipeInfo{Name: fmt.Sprintf("Recipe %d", n)}, ""); err != nil {
				t.Errorf("Add() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	all, err := idx.Recipes(ctx)
	if err != nil {
		t.Fatalf("Recipes() error = %v", err)
	}
	if len(all) != writers {
		t.Errorf("Recipes() = %d entries, want %d", len(all), writers)
	}
}

// pausingStore blocks the first Get made after pause() until resume(),
// holding the blob it has already read.
type pausingStore struct {
	objectstore.Store
	armed   atomic.Bool
	paused  chan struct{}
	release chan struct{}
}

func newPausingStore(inner objectstore.Store) *pausingStore {
	return &pausingStore{
		Store:   inner,
		paused:  make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *pausingStore) pause()  { s.armed.Store(true) }
func (s *pausingStore) resume() { close(s.release) }

func (s *pausingStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.Store.Get(ctx, key)
	if s.armed.CompareAndSwap(true, false) {
		close(s.paused)
		<-s.release
	}
	return data, err
}

func persistedNames(t *testing.T, store objectstore.Store) []string {
	t.Helper()
	raw, err := store.Get(context.Background(), testRecipeKey)
	if err != nil {
		t.Fatalf("store Get: %v", err)
	}
	var recipes []models.Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		t.Fatalf("decode persisted index: %v", err)
	}
	names := make([]string, 0, len(recipes))
	for _, r := range recipes {
		names = append(names, r.Name)
	}
	return names
}

func TestRecipeIndex_ReloadDuringAddKeepsEveryRecipe(t *testing.T) {
	t.Parallel()

	inner := objectstore.NewMemoryStore()
	seedRecipes(t, inner, []models.Recipe{{Key: "s1", Name: "seed"}})
	store := newPausingStore(inner)
	c := cache.New("test_recipe_reload_race", time.Minute)
	defer c.Close()
	idx := NewRecipeIndex(store, testRecipeKey, c)
	ctx := context.Background()

	// Reload reads the seed blob, then stalls before caching it
	store.pause()
	reloaded := make(chan error, 1)
	go func() {
		_, err := idx.Reload(ctx)
		reloaded <- err
	}()
	<-store.paused

	if _, err := idx.Add(ctx, models.RecipeInfo{Name: "A"}, ""); err != nil {
		t.Fatalf("Add(A) error = %v", err)
	}

	store.resume()
	if err := <-reloaded; err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	// The stalled reload must not have cached the pre-Add blob
	all, err := idx.Recipes(ctx)
	if err != nil {
		t.Fatalf("Recipes() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Recipes() after Add(A) = %d entries, want 2 (stale cache)", len(all))
	}

	if _, err := idx.Add(ctx, models.RecipeInfo{Name: "B"}, ""); err != nil {
		t.Fatalf("Add(B) error = %v", err)
	}

	want := []string{"seed", "A", "B"}
	if got := persistedNames(t, inner); !reflect.DeepEqual(got, want) {
		t.Errorf("persisted names = %v, want %v", got, want)
	}
}

func TestRecipeIndex_WritersIgnoreStaleCache(t *testing.T) {
	t.Parallel()

	store := objectstore.NewMemoryStore()
	seedRecipes(t, store, sampleRecipes())
	c := cache.New("test_recipe_stale_cache", time.Minute)
	defer c.Close()
	idx := NewRecipeIndex(store, testRecipeKey, c)
	ctx := context.Background()

	// Plant an outdated index in the cache
	c.Set(testRecipeKey, sampleRecipes()[:1])

	if _, err := idx.Add(ctx, models.RecipeInfo{Name: "Gimlet"}, ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	want := []string{"Mojito", "Daiquiri", "Negroni", "Gimlet"}
	if got := persistedNames(t, store); !reflect.DeepEqual(got, want) {
		t.Errorf("persisted names = %v, want %v", got, want)
	}
}

func TestRecipeIndex_MalformedEntries(t *testing.T) {
	// Not parallel: asserts on a shared counter.

	store := objectstore.NewMemoryStore()
	raw := `[
		{"key":"r1","name":"Sweet","tags":["甘い"]},
		{"key":"bad","name":"Scalar Tags","tags":"甘い"},
		{"key":"r3","name":"Numeric Tags","tags":[1]},
		{"key":5},
		"not a recipe",
		{"key":"r6","name":"Legacy","ingredients":["Gin"]}
	]`
	if err := store.Put(context.Background(), testRecipeKey, []byte(raw)); err != nil {
		t.Fatalf("seed put: %v", err)
	}
	idx := NewRecipeIndex(store, testRecipeKey, nil)

	skipped := metrics.IndexEntriesSkipped.WithLabelValues("recipes")
	before := testutil.ToFloat64(skipped)

	all, err := idx.Recipes(context.Background())
	if err != nil {
		t.Fatalf("Recipes() error = %v", err)
	}

	tests := []struct {
		key  string
		name string
		tags []string
	}{
		{"r1", "Sweet", []string{"甘い"}},
		{"bad", "Scalar Tags", nil},
		{"r3", "Numeric Tags", nil},
		{"r6", "Legacy", nil},
	}
	if len(all) != len(tests) {
		t.Fatalf("Recipes() = %d entries (%+v), want %d", len(all), all, len(tests))
	}
	for i, tt := range tests {
		if all[i].Key != tt.key || all[i].Name != tt.name || !reflect.DeepEqual(all[i].Tags, tt.tags) {
			t.Errorf("entry %d = %+v, want key=%s name=%s tags=%v", i, all[i], tt.key, tt.name, tt.tags)
		}
	}

	if got := testutil.ToFloat64(skipped) - before; got != 2 {
		t.Errorf("skipped entries = %v, want 2", got)
	}
}
