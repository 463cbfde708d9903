// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index builds the searchable read model over the report corpus.
package index

import (
	"regexp"
	"strings"
	"sync"
)

// =============================================================================
// LEXICAL SCORING
// =============================================================================

// termSplit breaks queries on anything outside lowercase alphanumerics
// and '+' (so "es6+" and "c++" survive as single terms).
var termSplit = regexp.MustCompile(`[^a-z0-9+]+`)

// Tokenize lowercases the query and splits it into search terms,
// discarding empty fragments.
func Tokenize(query string) []string {
	parts := termSplit.Split(strings.ToLower(query), -1)
	terms := parts[:0]
	for _, p := range parts {
		if p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}

// Score rates one item against a query. Zero means no match.
//
// Terms shorter than two characters are ignored. A term matches when it
// occurs as a substring of the item's lowercased content; a whole-word
// occurrence additionally counts as an exact match. Queries longer than
// two terms with no exact match at all score zero, which keeps weak
// substring-only hits from answering long questions.
//
// The result is (matched/total) * (1 + matched/longTerms), where
// longTerms counts query terms of length >= 2. The constants and the
// guard are tuned together; see the package comment.
func Score(query string, item *Item) float64 {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return 0
	}

	content := strings.ToLower(item.Content)

	var matched, exact, long int
	for _, term := range terms {
		if len(term) < 2 {
			continue
		}
		long++

		if !strings.Contains(content, term) {
			continue
		}
		matched++

		if matchesWord(content, term) {
			exact++
		}
	}

	if matched == 0 {
		return 0
	}
	if len(terms) > 2 && exact < 1 {
		return 0
	}

	base := float64(matched) / float64(len(terms))
	ratio := float64(matched) / float64(long)
	return base * (1 + ratio)
}

// matchesWord reports whether term occurs in content as a whole word.
// Explicit boundary classes instead of \b so that terms carrying '+'
// (a non-word rune) still get sensible whole-word semantics.
func matchesWord(content, term string) bool {
	return wordPattern(term).MatchString(content)
}

// wordPatterns caches compiled whole-word patterns per term. A single
// query re-tests its terms against every indexed item, so this is hit
// hard per scan.
var (
	wordPatternsMu sync.Mutex
	wordPatterns   = map[string]*regexp.Regexp{}
)

func wordPattern(term string) *regexp.Regexp {
	wordPatternsMu.Lock()
	defer wordPatternsMu.Unlock()

	if re, ok := wordPatterns[term]; ok {
		return re
	}
	re := regexp.MustCompile(`(^|[^a-z0-9_])` + regexp.QuoteMeta(term) + `($|[^a-z0-9_])`)
	wordPatterns[term] = re
	return re
}
