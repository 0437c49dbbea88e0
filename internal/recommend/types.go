// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package recommend

import (
	"context"
	"sort"

	"github.com/tomtom215/cocktailmaestro/internal/models"
)

// TagWeights maps a tag to the user's accumulated rating weight for it.
// Tags that accumulate no positive weight are omitted.
type TagWeights map[string]float64

// SortedTags returns the tags in lexical order. Scoring walks tags in this
// order so floating point sums do not depend on map iteration order.
func (w TagWeights) SortedTags() []string {
	tags := make([]string, 0, len(w))
	for tag := range w {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// ScoredRecipe is a recipe key with its relevance score.
type ScoredRecipe struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`

	// Position is the recipe's index in the recipe index; it breaks score ties.
	Position int `json:"-"`
}

// IndexProvider supplies the recipe index in stored order.
// Implementations return an error matching catalog.ErrIndexNotFound when the
// index does not exist.
type IndexProvider interface {
	Recipes(ctx context.Context) ([]models.Recipe, error)
}
