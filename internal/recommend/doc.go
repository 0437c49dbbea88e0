// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

// Package recommend ranks recipes against a user's tag rating history.
//
// # Pipeline
//
// A recommendation request flows through three steps:
//
//  1. DecodeTagStats parses the per-tag rating statistics. Numeric fields may
//     be plain JSON numbers or Firestore typed values ({"integerValue": "3"},
//     {"doubleValue": 12.5}); parseNumber is the only place that tells them
//     apart.
//  2. AggregateTagWeights sums ratingSum per tag into TagWeights.
//  3. Scorer credits every recipe for each user tag: full weight for an exact
//     tag match, weight times the SimilarityGraph coefficient otherwise. Only
//     recipes scoring above zero are kept, ordered by descending score with
//     ties in index order, truncated to the configured limit.
//
// # Similarity Graph
//
// The graph is directed. An edge 甘い → 甘党向け lets a rating on 甘い credit
// recipes tagged 甘党向け; it says nothing about the reverse direction, which
// has its own (possibly absent) edge. The graph is never symmetrized and
// cannot be modified after construction.
//
// # Usage
//
//	graph := recommend.DefaultSimilarityGraph()
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), graph, recipeIndex, logger)
//	if err != nil {
//	    return err
//	}
//	keys, err := engine.Recommend(ctx, rawTagStats)
//	switch {
//	case errors.Is(err, recommend.ErrInvalidInput):
//	    // 400
//	case errors.Is(err, recommend.ErrIndexNotFound):
//	    // 404
//	}
//
// # Thread Safety
//
// Scoring is a pure function of its inputs. Engine, Scorer and
// SimilarityGraph hold no mutable state and are safe for concurrent use.
package recommend
