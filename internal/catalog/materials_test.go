// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/cocktailmaestro/internal/models"
	"github.com/tomtom215/cocktailmaestro/internal/objectstore"
)

const testMaterialKey = "materials_index.json"

func seededMaterialIndex(t *testing.T) *MaterialIndex {
	t.Helper()

	idx := NewMaterialIndex(objectstore.NewMemoryStore(), testMaterialKey, nil)
	for _, m := range []models.Material{
		{ID: "m1", Name: "Bombay Sapphire", CategoryMain: "Spirits", CategorySub: "Gin"},
		{ID: "m2", Name: "Bacardi Superior", CategoryMain: "Spirits", CategorySub: "Rum"},
		{ID: "m3", Name: "Fresh Lime", CategoryMain: "Fruit", CategorySub: "Citrus"},
		{ID: "m4", Name: "Gin Syrup", CategoryMain: "Syrup", CategorySub: "Sweetener"},
	} {
		if _, err := idx.Register(context.Background(), m); err != nil {
			t.Fatalf("Register(%s) error = %v", m.ID, err)
		}
	}
	return idx
}

func TestMaterialIndex_MissingIndex(t *testing.T) {
	t.Parallel()

	idx := NewMaterialIndex(objectstore.NewMemoryStore(), testMaterialKey, nil)
	_, err := idx.Search(context.Background(), models.MaterialQuery{})
	if !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("Search() error = %v, want ErrIndexNotFound", err)
	}
}

func TestMaterialIndex_RegisterIsIdempotent(t *testing.T) {
	t.Parallel()

	idx := NewMaterialIndex(objectstore.NewMemoryStore(), testMaterialKey, nil)
	ctx := context.Background()
	m := models.Material{ID: "m1", Name: "Campari", CategoryMain: "Liqueur", CategorySub: "Bitter"}

	created, err := idx.Register(ctx, m)
	if err != nil || !created {
		t.Fatalf("first Register() = %v, %v; want true, nil", created, err)
	}

	m.Name = "Renamed"
	created, err = idx.Register(ctx, m)
	if err != nil || created {
		t.Fatalf("second Register() = %v, %v; want false, nil", created, err)
	}

	all, _ := idx.Materials(ctx)
	if len(all) != 1 || all[0].Name != "Campari" {
		t.Errorf("Materials() = %+v, want original entry only", all)
	}
}

func TestMaterialIndex_Search(t *testing.T) {
	t.Parallel()

	idx := seededMaterialIndex(t)

	tests := []struct {
		name  string
		query models.MaterialQuery
		want  []string
	}{
		{"empty returns all", ParseMaterialQuery("", "", ""), []string{"m1", "m2", "m3", "m4"}},
		{"keyword on name or category", ParseMaterialQuery("gin", "", ""), []string{"m1", "m4"}},
		{"keywords are AND", ParseMaterialQuery("gin spirits", "", ""), []string{"m1"}},
		{"category main exact ignoring case", ParseMaterialQuery("", "spirits", ""), []string{"m1", "m2"}},
		{"category main is not substring", ParseMaterialQuery("", "spirit", ""), []string{}},
		{"category sub filter", ParseMaterialQuery("", "", "CITRUS"), []string{"m3"}},
		{"keyword plus category", ParseMaterialQuery("gin", "Syrup", ""), []string{"m4"}},
		{"keyword does not span fields", ParseMaterialQuery("sapphire spirits gin", "", ""), []string{"m1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := idx.Search(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			ids := make([]string, 0, len(got))
			for _, m := range got {
				ids = append(ids, m.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("Search(%+v) = %v, want %v", tt.query, ids, tt.want)
			}
		})
	}
}

func TestMaterialMatches_CrossFieldKeyword(t *testing.T) {
	t.Parallel()

	m := models.Material{Name: "Lime", CategoryMain: "Fruit"}
	// "lime fruit" as one keyword would only match a joined haystack
	if materialMatches(m, []string{"lime fruit"}, "", "") {
		t.Error("keyword spanning two fields should not match")
	}
}
