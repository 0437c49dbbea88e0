// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package models

// Material is one entry of the material index (materials_index.json).
// ID is assigned by the client (the Firestore document ID) and is unique.
type Material struct {
	ID           string `json:"id" validate:"required,max=200"`
	Name         string `json:"name" validate:"required,max=200"`
	CategoryMain string `json:"categoryMain" validate:"max=100"`
	CategorySub  string `json:"categorySub" validate:"max=100"`
}

// MaterialQuery filters the material index.
//
// Keywords must each appear (case-insensitively) in the name or one of the
// categories. CategoryMain and CategorySub, when set, must match exactly
// ignoring case.
type MaterialQuery struct {
	Keywords     []string
	CategoryMain string
	CategorySub  string
}
