// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index builds the searchable read model over the report corpus.
package index

import (
	"sort"
	"strings"
)

// =============================================================================
// RETRIEVAL
// =============================================================================

// Retrieval thresholds. Single-word queries must clear a higher bar
// because a lone term matches broadly; the floor threshold is the
// widening retry used when the first pass comes back empty.
const (
	singleWordMinScore = 0.5
	multiWordMinScore  = 0.2
	floorMinScore      = 0.1
)

// DefaultLimit is the result cap applied when the caller passes a
// non-positive limit.
const DefaultLimit = 3

// Result pairs an indexed item with its score for one query.
type Result struct {
	Item  *Item
	Score float64
}

// Retrieve ranks indexed items against the query and returns up to limit
// results, best first. Ties keep index order (stable sort). An empty or
// whitespace-only query returns nil without scoring anything.
//
// If the primary threshold yields nothing, a single widening pass reruns
// the scan at the floor threshold.
func (ix *Index) Retrieve(query string, limit int) []Result {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	minScore := multiWordMinScore
	if len(strings.Fields(trimmed)) == 1 {
		minScore = singleWordMinScore
	}

	results := ix.scan(query, minScore, limit)
	if len(results) == 0 && minScore > floorMinScore {
		results = ix.scan(query, floorMinScore, limit)
	}
	return results
}

func (ix *Index) scan(query string, minScore float64, limit int) []Result {
	var results []Result
	for i := range ix.items {
		item := &ix.items[i]
		if s := Score(query, item); s >= minScore {
			results = append(results, Result{Item: item, Score: s})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
