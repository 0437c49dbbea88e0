// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package main

import (
	"github.com/tomtom215/cocktailmaestro/internal/cache"
	"github.com/tomtom215/cocktailmaestro/internal/catalog"
	"github.com/tomtom215/cocktailmaestro/internal/config"
	"github.com/tomtom215/cocktailmaestro/internal/logging"
	"github.com/tomtom215/cocktailmaestro/internal/objectstore"
)

// StorageComponents holds the object store and the indexes built on it.
type StorageComponents struct {
	Store     objectstore.Store
	Cache     *cache.Cache
	Recipes   *catalog.RecipeIndex
	Materials *catalog.MaterialIndex
}

// initStorage opens Badger and builds both catalog indexes over it.
// The indexes share one cache; a zero CacheTTL disables it.
func initStorage(cfg *config.Config) (*StorageComponents, error) {
	store, err := objectstore.OpenBadger(objectstore.BadgerOptions{
		Path:     cfg.Storage.Path,
		InMemory: cfg.Storage.InMemory,
	})
	if err != nil {
		return nil, err
	}

	var indexCache *cache.Cache
	if cfg.Storage.CacheTTL > 0 {
		indexCache = cache.New("index", cfg.Storage.CacheTTL)
	}

	logging.Info().
		Str("recipe_index", cfg.Storage.RecipeIndexKey).
		Str("material_index", cfg.Storage.MaterialIndexKey).
		Dur("cache_ttl", cfg.Storage.CacheTTL).
		Msg("Catalog initialized")

	return &StorageComponents{
		Store:     store,
		Cache:     indexCache,
		Recipes:   catalog.NewRecipeIndex(store, cfg.Storage.RecipeIndexKey, indexCache),
		Materials: catalog.NewMaterialIndex(store, cfg.Storage.MaterialIndexKey, indexCache),
	}, nil
}

// Close stops the cache janitor and closes the store.
func (s *StorageComponents) Close() {
	if s.Cache != nil {
		s.Cache.Close()
	}
	if err := s.Store.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing object store")
	}
}
