// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index builds the searchable read model over the report corpus.
package index

import (
	"strings"

	"github.com/jeranaias/reportchat/internal/report"
)

// =============================================================================
// INDEXED ITEMS
// =============================================================================

// Kind discriminates the source record behind an indexed item.
type Kind string

const (
	KindAssignment Kind = "assignment"
	KindTechnology Kind = "technology"
	KindPattern    Kind = "pattern"
	KindSummary    Kind = "summary"
)

// TechRef identifies one technology within its group.
type TechRef struct {
	Group string
	Tech  string
}

// Item is one searchable unit. Exactly one of the payload pointers is
// non-nil, matching Kind. Content is the concatenated searchable text;
// Title is set only for assignments (it feeds the title bonus in scoring,
// and patterns deliberately do not receive it).
type Item struct {
	Kind    Kind
	ID      int    // assignment id, 0 otherwise
	Title   string // assignment title, "" otherwise
	Content string

	Assignment *report.Assignment
	Technology *TechRef
	Pattern    *report.Pattern
	Summary    *report.Summary
}

// =============================================================================
// INDEX CONSTRUCTION
// =============================================================================

// Index is the immutable ordered collection of searchable items.
type Index struct {
	items []Item
}

// Build constructs the index from the corpus. Pure and deterministic:
// items appear in corpus order (assignments, then technologies in group
// order, then patterns, then the summary).
func Build(data *report.Data) *Index {
	items := make([]Item, 0, len(data.Assignments)+len(data.Patterns)+8)

	for i := range data.Assignments {
		a := &data.Assignments[i]
		items = append(items, Item{
			Kind:       KindAssignment,
			ID:         a.ID,
			Title:      a.Title,
			Content:    a.Title + " " + a.Logic + " " + a.Learning + " " + strings.Join(a.Concepts, " "),
			Assignment: a,
		})
	}

	for _, g := range data.Technologies {
		for _, tech := range g.Items {
			items = append(items, Item{
				Kind:       KindTechnology,
				Content:    g.Group + " " + tech,
				Technology: &TechRef{Group: g.Group, Tech: tech},
			})
		}
	}

	for i := range data.Patterns {
		p := &data.Patterns[i]
		items = append(items, Item{
			Kind:    KindPattern,
			Content: p.Name + " " + p.Description + " " + p.Snippet,
			Pattern: p,
		})
	}

	items = append(items, Item{
		Kind:    KindSummary,
		Content: data.Summary.Introduction,
		Summary: &data.Summary,
	})

	return &Index{items: items}
}

// Len returns the number of indexed items.
func (ix *Index) Len() int { return len(ix.items) }

// Items returns the underlying item slice. Callers must treat it as
// read-only.
func (ix *Index) Items() []Item { return ix.items }
