// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package catalog

import (
	"context"
	"strings"

	"github.com/tomtom215/cocktailmaestro/internal/cache"
	"github.com/tomtom215/cocktailmaestro/internal/models"
	"github.com/tomtom215/cocktailmaestro/internal/objectstore"
)

// MaterialIndex manages the material index blob.
type MaterialIndex struct {
	ix *blobIndex[models.Material]
}

// NewMaterialIndex creates a MaterialIndex over the blob stored under key.
// c may be nil to disable caching.
func NewMaterialIndex(store objectstore.Store, key string, c *cache.Cache) *MaterialIndex {
	return &MaterialIndex{ix: newBlobIndex[models.Material](store, key, "materials", c)}
}

// Materials returns every material in index order.
func (m *MaterialIndex) Materials(ctx context.Context) ([]models.Material, error) {
	return m.ix.load(ctx)
}

// Register appends material unless one with the same ID already exists.
// It reports whether the material was newly added. A missing index is
// created on first use.
func (m *MaterialIndex) Register(ctx context.Context, material models.Material) (bool, error) {
	m.ix.writeMu.Lock()
	defer m.ix.writeMu.Unlock()

	materials, err := m.ix.loadForWrite(ctx, true)
	if err != nil {
		return false, err
	}

	for i := range materials {
		if materials[i].ID == material.ID {
			return false, nil
		}
	}

	materials = append(materials, material)
	if err := m.ix.save(ctx, materials); err != nil {
		return false, err
	}

	m.ix.logger.Info().Str("material_id", material.ID).Str("name", material.Name).Msg("Material registered")
	return true, nil
}

// Search filters materials by q. An empty query returns every material.
func (m *MaterialIndex) Search(ctx context.Context, q models.MaterialQuery) ([]models.Material, error) {
	materials, err := m.ix.load(ctx)
	if err != nil {
		return nil, err
	}

	keywords := make([]string, 0, len(q.Keywords))
	for _, kw := range q.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, strings.ToLower(kw))
		}
	}

	result := make([]models.Material, 0, len(materials))
	for _, material := range materials {
		if materialMatches(material, keywords, q.CategoryMain, q.CategorySub) {
			result = append(result, material)
		}
	}
	return result, nil
}

// ParseMaterialQuery builds a MaterialQuery from the raw query parameters.
func ParseMaterialQuery(q, categoryMain, categorySub string) models.MaterialQuery {
	return models.MaterialQuery{
		Keywords:     splitKeywords(q),
		CategoryMain: categoryMain,
		CategorySub:  categorySub,
	}
}

// materialMatches checks each keyword against the fields individually, so a
// keyword never matches across a field boundary.
func materialMatches(material models.Material, keywords []string, categoryMain, categorySub string) bool {
	if categoryMain != "" && !strings.EqualFold(material.CategoryMain, categoryMain) {
		return false
	}
	if categorySub != "" && !strings.EqualFold(material.CategorySub, categorySub) {
		return false
	}

	name := strings.ToLower(material.Name)
	main := strings.ToLower(material.CategoryMain)
	sub := strings.ToLower(material.CategorySub)
	for _, kw := range keywords {
		if !strings.Contains(name, kw) && !strings.Contains(main, kw) && !strings.Contains(sub, kw) {
			return false
		}
	}
	return true
}
