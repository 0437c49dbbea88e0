// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

// Package catalog manages the recipe and material indexes.
//
// Each index is a JSON array stored as one blob in the object store and
// rewritten wholesale on every change. Writers to the same index are
// serialized so concurrent edits cannot drop each other's updates; readers
// are served from an optional TTL cache that every write invalidates.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cocktailmaestro/internal/cache"
	"github.com/tomtom215/cocktailmaestro/internal/logging"
	"github.com/tomtom215/cocktailmaestro/internal/metrics"
	"github.com/tomtom215/cocktailmaestro/internal/objectstore"
)

var (
	// ErrIndexNotFound is returned when the index blob does not exist yet.
	ErrIndexNotFound = errors.New("index file not found")

	// ErrRecipeNotFound is returned when no recipe has the requested key.
	ErrRecipeNotFound = errors.New("recipe not found")
)

// blobIndex is a JSON array of T kept under one object store key.
type blobIndex[T any] struct {
	store  objectstore.Store
	key    string
	name   string // metrics label: "recipes" or "materials"
	cache  *cache.Cache
	logger zerolog.Logger

	// decodeEntry decodes one array element. A nil func uses json.Unmarshal.
	decodeEntry func(raw []byte) (T, error)

	// writeMu serializes read-modify-write cycles.
	writeMu sync.Mutex

	// cacheMu guards gen and every cache write. gen counts completed saves;
	// reload only caches what it read if no save finished in between.
	cacheMu sync.Mutex
	gen     uint64
}

func newBlobIndex[T any](store objectstore.Store, key, name string, c *cache.Cache) *blobIndex[T] {
	return &blobIndex[T]{
		store:  store,
		key:    key,
		name:   name,
		cache:  c,
		logger: logging.WithComponent("catalog").With().Str("index", key).Logger(),
	}
}

// load returns the decoded index. The returned slice is a copy and may be
// modified by the caller; its elements share backing arrays with the cache
// and must be treated as read-only.
func (ix *blobIndex[T]) load(ctx context.Context) ([]T, error) {
	if ix.cache != nil {
		if cached, ok := ix.cache.Get(ix.key); ok {
			if items, ok := cached.([]T); ok {
				return slices.Clone(items), nil
			}
		}
	}
	return ix.reload(ctx)
}

// reload reads the blob from the store, bypassing and then refreshing the cache.
func (ix *blobIndex[T]) reload(ctx context.Context) ([]T, error) {
	ix.cacheMu.Lock()
	gen := ix.gen
	ix.cacheMu.Unlock()

	items, err := ix.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if ix.cache != nil {
		ix.cacheMu.Lock()
		if ix.gen == gen {
			ix.cache.Set(ix.key, items)
		}
		ix.cacheMu.Unlock()
	}
	return slices.Clone(items), nil
}

// fetch reads and decodes the blob without touching the cache.
func (ix *blobIndex[T]) fetch(ctx context.Context) ([]T, error) {
	raw, err := ix.store.Get(ctx, ix.key)
	if errors.Is(err, objectstore.ErrNotFound) {
		return nil, ErrIndexNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ix.key, err)
	}

	items, err := ix.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ix.key, err)
	}

	metrics.IndexEntries.WithLabelValues(ix.name).Set(float64(len(items)))
	return items, nil
}

// loadForWrite reads the index straight from the store for a
// read-modify-write cycle. Callers must hold writeMu. A missing index is
// treated as empty when missingOK is set.
func (ix *blobIndex[T]) loadForWrite(ctx context.Context, missingOK bool) ([]T, error) {
	items, err := ix.fetch(ctx)
	if missingOK && errors.Is(err, ErrIndexNotFound) {
		return []T{}, nil
	}
	return items, err
}

// save writes the whole index and invalidates the cache. Callers must hold writeMu.
func (ix *blobIndex[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", ix.key, err)
	}

	err = ix.store.Put(ctx, ix.key, data)

	// Bump even on failure: a failed Put may still have landed.
	ix.cacheMu.Lock()
	ix.gen++
	if ix.cache != nil {
		ix.cache.Delete(ix.key)
	}
	ix.cacheMu.Unlock()

	if err != nil {
		return fmt.Errorf("write %s: %w", ix.key, err)
	}

	metrics.IndexEntries.WithLabelValues(ix.name).Set(float64(len(items)))
	ix.logger.Debug().Int("entries", len(items)).Msg("Index written")
	return nil
}

// decode parses a JSON array entry by entry. A JSON null decodes as an
// empty index. Entries that fail to decode are skipped and counted; a
// blob that is not an array is an error.
func (ix *blobIndex[T]) decode(raw []byte) ([]T, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	decodeEntry := ix.decodeEntry
	if decodeEntry == nil {
		decodeEntry = func(b []byte) (T, error) {
			var item T
			err := json.Unmarshal(b, &item)
			return item, err
		}
	}

	items := make([]T, 0, len(entries))
	for i, entry := range entries {
		item, err := decodeEntry(entry)
		if err != nil {
			metrics.IndexEntriesSkipped.WithLabelValues(ix.name).Inc()
			ix.logger.Warn().Err(err).Int("position", i).Msg("Skipping malformed index entry")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
