// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package classify detects conversational inputs that should short-circuit
// retrieval: greetings and small talk get canned replies instead of a
// corpus search.
//
// Both predicates are substring checks over fixed phrase lists. They are
// deliberately loose ("hi" inside "this" counts); the cost of a false
// positive is a friendly reply instead of a search miss.
package classify

import "strings"

// =============================================================================
// PHRASE SETS
// =============================================================================

var greetings = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
	"howdy", "greetings", "sup", "yo", "hiya", "aloha", "bonjour", "hola",
}

var smallTalk = []string{
	"how are you", "what's up", "how do you do", "nice to meet",
	"thank", "thanks", "bye", "goodbye", "see you", "how's it going",
	"what are you", "who are you",
}

// =============================================================================
// PREDICATES
// =============================================================================

// IsGreeting reports whether the input reads as a greeting. Inputs shorter
// than three characters always count: there is nothing retrievable in them.
func IsGreeting(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	if len(lower) < 3 {
		return true
	}
	return containsAny(lower, greetings)
}

// IsConversational reports whether the input is small talk rather than a
// question about the corpus. Checked after IsGreeting; the order matters
// because several greetings also read as small talk.
func IsConversational(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	return containsAny(lower, smallTalk)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
