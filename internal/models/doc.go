// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

/*
Package models defines the records kept in the catalog indexes.

  - Recipe: one entry of the recipe index (index.json). Key is a UUID
    assigned on upload; FileID points at the image held by the script store.
  - RecipeInfo and Ingredient: the recipe fields a client submits on
    upload and edit.
  - Material and MaterialQuery: the material index and its filter.

JSON field names match the stored blobs, so indexes written by earlier
deployments decode unchanged.
*/
package models
