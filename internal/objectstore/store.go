// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

// Package objectstore stores named JSON blobs.
//
// The recipe and material indexes are each kept as a single blob that is
// read and rewritten wholesale. BadgerStore persists blobs on disk (or in
// memory for tests); MemoryStore is a map-backed store.
package objectstore

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/cocktailmaestro/internal/metrics"
)

// ErrNotFound is returned when no blob exists under the requested key.
var ErrNotFound = errors.New("object not found")

// Store reads and writes whole blobs by key.
type Store interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous blob.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the blob under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// observe records the duration and outcome of a store call.
// A missing key is a normal outcome, not a failure.
func observe(operation string, start time.Time, err error) {
	metrics.RecordStoreOperation(operation, time.Since(start), err != nil && !errors.Is(err, ErrNotFound))
}
