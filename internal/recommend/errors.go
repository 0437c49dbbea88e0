// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/cocktailmaestro/internal/catalog"
)

var (
	// ErrInvalidInput is returned when the tag statistics are not a JSON object.
	ErrInvalidInput = errors.New("tag statistics must be a JSON object")

	// ErrIndexNotFound is returned when the recipe index is unavailable.
	// It matches catalog.ErrIndexNotFound under errors.Is.
	ErrIndexNotFound = fmt.Errorf("recipe index unavailable: %w", catalog.ErrIndexNotFound)
)
