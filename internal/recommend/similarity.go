// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package recommend

import (
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-json"
)

// SimilarityGraph is a directed, weighted graph over tag names.
//
// An edge source → target with coefficient w means a rating on source
// credits recipes tagged target by w times the rating weight. Coefficients
// lie in (0, 1]. The graph is copied on construction and exposes no way to
// modify it, so a *SimilarityGraph may be shared freely.
type SimilarityGraph struct {
	edges map[string]map[string]float64
	count int
}

// NewSimilarityGraph builds a graph from source → target → coefficient.
// The input is deep-copied. Self edges are rejected because an exact match
// always earns full credit.
func NewSimilarityGraph(edges map[string]map[string]float64) (*SimilarityGraph, error) {
	g := &SimilarityGraph{edges: make(map[string]map[string]float64, len(edges))}

	for source, targets := range edges {
		if source == "" {
			return nil, fmt.Errorf("similarity graph: empty source tag")
		}
		if len(targets) == 0 {
			continue
		}
		copied := make(map[string]float64, len(targets))
		for target, w := range targets {
			if target == "" {
				return nil, fmt.Errorf("similarity graph: empty target tag for %q", source)
			}
			if target == source {
				return nil, fmt.Errorf("similarity graph: self edge on %q", source)
			}
			if math.IsNaN(w) || w <= 0 || w > 1 {
				return nil, fmt.Errorf("similarity graph: coefficient %q -> %q must be in (0, 1], got %v", source, target, w)
			}
			copied[target] = w
		}
		g.edges[source] = copied
		g.count += len(copied)
	}

	return g, nil
}

// Similarity returns the coefficient of source → target, or 0 when either
// the source tag or the edge is absent. It does not consult target → source.
func (g *SimilarityGraph) Similarity(source, target string) float64 {
	if g == nil {
		return 0
	}
	return g.edges[source][target]
}

// Len returns the number of edges.
func (g *SimilarityGraph) Len() int {
	if g == nil {
		return 0
	}
	return g.count
}

// Edges returns a deep copy of the edge table.
func (g *SimilarityGraph) Edges() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(g.edges))
	for source, targets := range g.edges {
		copied := make(map[string]float64, len(targets))
		for target, w := range targets {
			copied[target] = w
		}
		out[source] = copied
	}
	return out
}

// LoadSimilarityGraph reads a graph from a JSON file of the form
// {"source": {"target": 0.8, ...}, ...}.
func LoadSimilarityGraph(path string) (*SimilarityGraph, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read similarity graph: %w", err)
	}

	var edges map[string]map[string]float64
	if err := json.Unmarshal(data, &edges); err != nil {
		return nil, fmt.Errorf("decode similarity graph %s: %w", path, err)
	}

	return NewSimilarityGraph(edges)
}

// DefaultSimilarityGraph returns the built-in tag similarity table.
func DefaultSimilarityGraph() *SimilarityGraph {
	g, err := NewSimilarityGraph(defaultSimilarityEdges())
	if err != nil {
		// The built-in table is covered by tests; failing here is a programming error.
		panic(err)
	}
	return g
}

// defaultSimilarityEdges is the built-in table. Reverse edges are listed
// separately and are often weaker or missing: liking sweet drinks says more
// about "for sweet tooths" recipes than the other way around.
func defaultSimilarityEdges() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"甘い": {
			"甘党向け":   0.9,
			"フルーティー": 0.6,
			"クリーミー":  0.5,
			"デザート":   0.6,
			"飲みやすい":  0.4,
		},
		"甘党向け": {
			"甘い":    0.7,
			"デザート":  0.7,
			"クリーミー": 0.4,
		},
		"フルーティー": {
			"トロピカル": 0.8,
			"爽やか":   0.5,
			"甘い":    0.4,
			"飲みやすい": 0.4,
		},
		"トロピカル": {
			"フルーティー": 0.7,
			"甘い":     0.3,
		},
		"爽やか": {
			"さっぱり":  0.9,
			"柑橘":    0.6,
			"ハーブ":   0.4,
			"飲みやすい": 0.3,
		},
		"さっぱり": {
			"爽やか": 0.8,
			"柑橘":  0.5,
			"辛口":  0.3,
		},
		"柑橘": {
			"爽やか":  0.6,
			"酸っぱい": 0.6,
			"さっぱり": 0.4,
		},
		"酸っぱい": {
			"柑橘":   0.5,
			"さっぱり": 0.3,
		},
		"ビター": {
			"大人向け": 0.7,
			"ハーブ":  0.4,
			"辛口":   0.3,
		},
		"大人向け": {
			"ビター":  0.5,
			"度数高め": 0.6,
			"辛口":   0.5,
		},
		"辛口": {
			"度数高め": 0.5,
			"大人向け": 0.4,
			"さっぱり": 0.3,
		},
		"度数高め": {
			"大人向け": 0.5,
			"辛口":   0.4,
		},
		"度数低め": {
			"飲みやすい": 0.8,
			"初心者向け": 0.6,
		},
		"飲みやすい": {
			"初心者向け": 0.7,
			"度数低め":  0.5,
			"甘い":    0.3,
		},
		"初心者向け": {
			"飲みやすい": 0.8,
			"度数低め":  0.5,
		},
		"クリーミー": {
			"デザート": 0.6,
			"甘い":   0.4,
		},
		"デザート": {
			"甘党向け":  0.6,
			"クリーミー": 0.5,
			"甘い":    0.5,
		},
		"ハーブ": {
			"爽やか": 0.4,
		},
		"スパイシー": {
			"辛口":   0.4,
			"大人向け": 0.3,
		},
	}
}
