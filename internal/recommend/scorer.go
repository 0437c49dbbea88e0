// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package recommend

import (
	"sort"

	"github.com/tomtom215/cocktailmaestro/internal/models"
)

// Scorer ranks recipes against tag weights using a similarity graph.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	graph *SimilarityGraph
	limit int
}

// NewScorer creates a scorer. A nil graph scores exact matches only.
// A limit below 1 falls back to DefaultLimit.
func NewScorer(graph *SimilarityGraph, limit int) *Scorer {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Scorer{graph: graph, limit: limit}
}

// Limit returns the maximum number of results Rank returns.
func (s *Scorer) Limit() int {
	return s.limit
}

// Score returns one ScoredRecipe per recipe, in index order.
//
// Each user tag credits every recipe tag: the full weight on an exact match,
// weight times the graph coefficient otherwise. Repeated recipe tags are
// credited once per occurrence.
func (s *Scorer) Score(weights TagWeights, recipes []models.Recipe) []ScoredRecipe {
	userTags := weights.SortedTags()
	scored := make([]ScoredRecipe, len(recipes))

	for i := range recipes {
		var score float64
		for _, userTag := range userTags {
			weight := weights[userTag]
			for _, recipeTag := range recipes[i].Tags {
				if userTag == recipeTag {
					score += weight
					continue
				}
				score += weight * s.graph.Similarity(userTag, recipeTag)
			}
		}
		scored[i] = ScoredRecipe{ID: recipes[i].Key, Score: score, Position: i}
	}

	return scored
}

// Rank scores the recipes and returns those with a positive score, highest
// first. Equal scores keep index order. At most Limit results are returned.
func (s *Scorer) Rank(weights TagWeights, recipes []models.Recipe) []ScoredRecipe {
	if len(weights) == 0 || len(recipes) == 0 {
		return []ScoredRecipe{}
	}

	all := s.Score(weights, recipes)
	ranked := make([]ScoredRecipe, 0, len(all))
	for _, sr := range all {
		if sr.Score > 0 {
			ranked = append(ranked, sr)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > s.limit {
		ranked = ranked[:s.limit]
	}
	return ranked
}

// IDs returns the recipe keys of a ranked list.
func IDs(ranked []ScoredRecipe) []string {
	ids := make([]string, len(ranked))
	for i := range ranked {
		ids[i] = ranked[i].ID
	}
	return ids
}
