// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package compose builds the assistant's answer text from retrieval
// results and canned templates.
//
// Answers are lightweight markdown: headings, bold, inline code and
// bullet lists. The TUI renders them with glamour; the HTML exporter
// runs them through this package's converter.
package compose

import (
	"fmt"
	"strings"

	"github.com/jeranaias/reportchat/internal/index"
	"github.com/jeranaias/reportchat/internal/util"
)

// Digest truncation lengths per item kind, in runes.
const (
	digestAssignmentLen = 50
	digestPatternLen    = 60
	digestFallbackLen   = 80
)

// =============================================================================
// CANNED RESPONSES
// =============================================================================

// Greeting is the onboarding reply for greeting inputs.
func Greeting() string {
	return "👋 **Hello! Welcome to your Internship Assistant!**\n\n" +
		"I'm here to help you navigate your internship materials. Here's what I can do:\n\n" +
		"📋 **Assignments:** Get details about specific assignments\n" +
		"   • Try: `/asg 12` or `assignment 29`\n\n" +
		"🛠️ **Technologies:** Learn about tools and frameworks\n" +
		"   • Try: `/tech react` or `javascript technologies`\n\n" +
		"🎯 **Design Patterns:** Explore coding patterns\n" +
		"   • Try: `/pattern singleton` or `design patterns`\n\n" +
		"📊 **Summary:** Overview of your internship\n" +
		"   • Try: `/summary`\n\n" +
		"💬 **Just ask me anything about your internship!**"
}

// Conversational is the reply for small-talk inputs.
func Conversational() string {
	return "🤖 **I'm doing great, thanks for asking!**\n\n" +
		"I'm your dedicated internship assistant, ready to help you with:\n\n" +
		"• Assignment explanations and concepts\n" +
		"• Technology details and usage\n" +
		"• Design pattern implementations\n" +
		"• Project summaries and insights\n\n" +
		"What specific topic would you like to explore from your internship?"
}

// NoMatch is the reply when retrieval comes back empty.
func NoMatch(query string) string {
	return fmt.Sprintf("I couldn't find specific matches for %q in your internship materials. Try:\n\n"+
		"• /asg <id> for assignment details (e.g., /asg 12)\n"+
		"• /tech <term> for technology info (e.g., /tech react)\n"+
		"• /pattern <term> for design patterns\n"+
		"• /summary for an overview", query)
}

// NoConfidentMatch is the local fallback when a remote stream finishes
// without producing any tokens.
func NoConfidentMatch() string {
	return `No confident match. Try rephrasing or narrow the topic (e.g. ask: "assignment 12 logic" or /help).`
}

// BackendError is the reply when the non-streaming remote request fails.
func BackendError() string {
	return "Backend error. Using local knowledge base."
}

// =============================================================================
// ANSWER COMPOSITION
// =============================================================================

// Answer renders retrieval results into the assistant's reply. A single
// result gets a full type-specific template; several results get a
// numbered digest with a tip to drill in via slash commands.
func Answer(query string, results []index.Result) string {
	switch len(results) {
	case 0:
		return NoMatch(query)
	case 1:
		return detail(results[0].Item)
	default:
		return digest(query, results)
	}
}

func detail(item *index.Item) string {
	switch item.Kind {
	case index.KindAssignment:
		a := item.Assignment
		return fmt.Sprintf("📋 **Assignment %d: %s**\n\n"+
			"🔍 **Logic:** %s\n\n"+
			"📚 **Learning:** %s\n\n"+
			"🏷️ **Key Concepts:** %s\n\n"+
			"💡 **What you'll learn:** This assignment focuses on %s.",
			a.ID, a.Title, a.Logic, a.Learning,
			strings.Join(a.Concepts, ", "), strings.ToLower(a.Logic))

	case index.KindTechnology:
		tr := item.Technology
		return fmt.Sprintf("🛠️ **Technology: %s**\n\n"+
			"📂 **Category:** %s\n\n"+
			"🔧 **Used in:** %s technologies for building robust applications.",
			tr.Tech, tr.Group, tr.Group)

	case index.KindPattern:
		p := item.Pattern
		benefit := "solving common design problems"
		if strings.Contains(strings.ToLower(p.Description), "design") {
			benefit = "better code organization"
		}
		return fmt.Sprintf("🎯 **Design Pattern: %s**\n\n"+
			"📖 **Description:** %s\n\n"+
			"💻 **Example Implementation:**\n%s\n\n"+
			"✨ **Benefits:** %s pattern helps with %s.",
			p.Name, p.Description, p.Snippet, p.Name, benefit)

	case index.KindSummary:
		return fmt.Sprintf("📊 **Internship Summary**\n\n%s\n\n"+
			"🎯 **Key Focus Areas:** Assignments, technologies, and design patterns covered in this internship.",
			item.Content)

	default:
		return fmt.Sprintf("📝 **Information Found:**\n\n%s", item.Content)
	}
}

func digest(query string, results []index.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 I found %d relevant items for %q:\n\n", len(results), query)

	for i, r := range results {
		item := r.Item
		switch item.Kind {
		case index.KindAssignment:
			fmt.Fprintf(&b, "%d. 📋 **Assignment %d:** %s - %s...\n",
				i+1, item.ID, item.Title,
				util.TruncateRunesNoEllipsis(item.Assignment.Logic, digestAssignmentLen))
		case index.KindTechnology:
			fmt.Fprintf(&b, "%d. 🛠️ **%s** (%s)\n",
				i+1, item.Technology.Tech, item.Technology.Group)
		case index.KindPattern:
			fmt.Fprintf(&b, "%d. 🎯 **%s** - %s...\n",
				i+1, item.Pattern.Name,
				util.TruncateRunesNoEllipsis(item.Pattern.Description, digestPatternLen))
		default:
			fmt.Fprintf(&b, "%d. 📝 %s...\n",
				i+1, util.TruncateRunesNoEllipsis(item.Content, digestFallbackLen))
		}
	}

	b.WriteString("\n💡 **Tip:** Use specific commands like /asg <id>, /tech <term>, or /pattern <term> for detailed information!")
	return b.String()
}
