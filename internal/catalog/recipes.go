// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/cocktailmaestro/internal/cache"
	"github.com/tomtom215/cocktailmaestro/internal/models"
	"github.com/tomtom215/cocktailmaestro/internal/objectstore"
)

// RecipeIndex manages the recipe index blob.
type RecipeIndex struct {
	ix *blobIndex[models.Recipe]
}

// NewRecipeIndex creates a RecipeIndex over the blob stored under key.
// c may be nil to disable caching.
func NewRecipeIndex(store objectstore.Store, key string, c *cache.Cache) *RecipeIndex {
	ix := newBlobIndex[models.Recipe](store, key, "recipes", c)
	ix.decodeEntry = decodeRecipe
	return &RecipeIndex{ix: ix}
}

// Recipes returns every recipe in index order.
// It fails with ErrIndexNotFound when the index has never been written.
func (r *RecipeIndex) Recipes(ctx context.Context) ([]models.Recipe, error) {
	return r.ix.load(ctx)
}

// Reload re-reads the index from the store and refreshes the cache.
// It returns the number of recipes loaded.
func (r *RecipeIndex) Reload(ctx context.Context) (int, error) {
	recipes, err := r.ix.reload(ctx)
	if err != nil {
		return 0, err
	}
	return len(recipes), nil
}

// Get returns the recipe with the given key.
func (r *RecipeIndex) Get(ctx context.Context, key string) (models.Recipe, error) {
	recipes, err := r.ix.load(ctx)
	if err != nil {
		return models.Recipe{}, err
	}
	if i := findRecipe(recipes, key); i >= 0 {
		return recipes[i], nil
	}
	return models.Recipe{}, ErrRecipeNotFound
}

// Add appends a new recipe with a fresh UUID key. A missing index is
// created on first use.
func (r *RecipeIndex) Add(ctx context.Context, info models.RecipeInfo, fileID string) (models.Recipe, error) {
	r.ix.writeMu.Lock()
	defer r.ix.writeMu.Unlock()

	recipes, err := r.ix.loadForWrite(ctx, true)
	if err != nil {
		return models.Recipe{}, err
	}

	recipe := models.Recipe{
		Key:         uuid.New().String(),
		Name:        info.Name,
		Ingredients: info.IngredientNames(),
		Tags:        info.Tags,
		Glass:       info.Glass,
		FileID:      fileID,
	}
	recipes = append(recipes, recipe)

	if err := r.ix.save(ctx, recipes); err != nil {
		return models.Recipe{}, err
	}

	r.ix.logger.Info().Str("recipe_id", recipe.Key).Str("name", recipe.Name).Msg("Recipe added")
	return recipe, nil
}

// Update replaces the name and ingredients of the recipe with the given key.
// Tags and glass are replaced only when info carries them, and fileID only
// when non-empty; every other stored field is kept.
func (r *RecipeIndex) Update(ctx context.Context, key string, info models.RecipeInfo, fileID string) (models.Recipe, error) {
	r.ix.writeMu.Lock()
	defer r.ix.writeMu.Unlock()

	recipes, err := r.ix.loadForWrite(ctx, false)
	if err != nil {
		return models.Recipe{}, err
	}

	i := findRecipe(recipes, key)
	if i < 0 {
		return models.Recipe{}, ErrRecipeNotFound
	}

	updated := recipes[i]
	updated.Name = info.Name
	updated.Ingredients = info.IngredientNames()
	if info.Tags != nil {
		updated.Tags = info.Tags
	}
	if info.Glass != "" {
		updated.Glass = info.Glass
	}
	if fileID != "" {
		updated.FileID = fileID
	}
	recipes[i] = updated

	if err := r.ix.save(ctx, recipes); err != nil {
		return models.Recipe{}, err
	}

	r.ix.logger.Info().Str("recipe_id", key).Msg("Recipe updated")
	return updated, nil
}

// Delete removes the recipe with the given key and returns it.
func (r *RecipeIndex) Delete(ctx context.Context, key string) (models.Recipe, error) {
	r.ix.writeMu.Lock()
	defer r.ix.writeMu.Unlock()

	recipes, err := r.ix.loadForWrite(ctx, false)
	if err != nil {
		return models.Recipe{}, err
	}

	i := findRecipe(recipes, key)
	if i < 0 {
		return models.Recipe{}, ErrRecipeNotFound
	}
	removed := recipes[i]

	remaining := make([]models.Recipe, 0, len(recipes)-1)
	remaining = append(remaining, recipes[:i]...)
	remaining = append(remaining, recipes[i+1:]...)

	if err := r.ix.save(ctx, remaining); err != nil {
		return models.Recipe{}, err
	}

	r.ix.logger.Info().Str("recipe_id", key).Msg("Recipe deleted")
	return removed, nil
}

// Search returns recipes matching every whitespace-separated keyword in
// query. A keyword matches when it is a case-insensitive substring of the
// recipe name and ingredient names joined by spaces. An empty query
// returns every recipe. Results keep index order; there is no ranking.
func (r *RecipeIndex) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	recipes, err := r.ix.load(ctx)
	if err != nil {
		return nil, err
	}

	keywords := splitKeywords(query)
	result := make([]models.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if matchesAll(recipeHaystack(recipe), keywords) {
			result = append(result, recipe)
		}
	}
	return result, nil
}

func findRecipe(recipes []models.Recipe, key string) int {
	for i := range recipes {
		if recipes[i].Key == key {
			return i
		}
	}
	return -1
}

func recipeHaystack(recipe models.Recipe) string {
	parts := make([]string, 0, len(recipe.Ingredients)+1)
	parts = append(parts, strings.ToLower(recipe.Name))
	for _, ing := range recipe.Ingredients {
		parts = append(parts, strings.ToLower(ing))
	}
	return strings.Join(parts, " ")
}

// splitKeywords splits on any Unicode whitespace (including the ideographic
// space) and lower-cases each keyword.
func splitKeywords(query string) []string {
	fields := strings.Fields(query)
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}

func matchesAll(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(haystack, kw) {
			return false
		}
	}
	return true
}

// decodeRecipe decodes one recipe index entry. An entry whose tags are not
// a list of strings is kept with no tags so it scores zero instead of
// failing the whole index.
func decodeRecipe(raw []byte) (models.Recipe, error) {
	var recipe models.Recipe
	if err := json.Unmarshal(raw, &recipe); err == nil {
		return recipe, nil
	}

	var entry struct {
		Key         string          `json:"key"`
		Name        string          `json:"name"`
		Ingredients []string        `json:"ingredients"`
		Tags        json.RawMessage `json:"tags"`
		Glass       string          `json:"glass"`
		FileID      string          `json:"fileId"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return models.Recipe{}, fmt.Errorf("recipe entry: %w", err)
	}
	recipe = models.Recipe{
		Key:         entry.Key,
		Name:        entry.Name,
		Ingredients: entry.Ingredients,
		Glass:       entry.Glass,
		FileID:      entry.FileID,
	}
	var tags []string
	if err := json.Unmarshal(entry.Tags, &tags); err == nil {
		recipe.Tags = tags
	}
	return recipe, nil
}
