// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index builds the searchable read model over the report corpus
// and ranks items against free-text queries.
//
// The index is flat: one entry per assignment, one per (group, technology)
// pair, one per pattern, and a single summary entry. It is built once from
// report.Data and never mutated.
//
// Scoring is a tuned lexical heuristic (term overlap with a whole-word
// guard), not a calibrated relevance model. The constants are load-bearing:
// changing any of them changes which queries answer at all.
package index
