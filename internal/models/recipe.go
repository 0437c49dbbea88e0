// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

// Package models defines the records stored in the recipe and material indexes.
package models

// Recipe is one entry of the recipe index (index.json).
//
// Only Key and Tags are read by the recommendation scorer. Older index
// entries may lack tags and glass; they decode to empty values.
type Recipe struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Tags        []string `json:"tags,omitempty"`
	Glass       string   `json:"glass,omitempty"`
	FileID      string   `json:"fileId,omitempty"`
}

// Ingredient is a recipe ingredient as submitted by clients.
// Only the name is kept in the index.
type Ingredient struct {
	Name   string `json:"name" validate:"required,max=200"`
	Amount string `json:"amount,omitempty" validate:"max=100"`
	Unit   string `json:"unit,omitempty" validate:"max=50"`
}

// RecipeInfo is the client-supplied description of a recipe on upload and edit.
type RecipeInfo struct {
	Name        string       `json:"name" validate:"required,max=200"`
	Ingredients []Ingredient `json:"ingredients" validate:"max=100,dive"`
	Tags        []string     `json:"tags,omitempty" validate:"max=50,dive,tag,max=100"`
	Glass       string       `json:"glass,omitempty" validate:"max=100"`
}

// IngredientNames returns the ingredient names in submission order.
// A nil or empty ingredient list yields an empty, non-nil slice.
func (ri *RecipeInfo) IngredientNames() []string {
	names := make([]string, 0, len(ri.Ingredients))
	for _, ing := range ri.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}
