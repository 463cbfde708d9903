// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package compose builds the assistant's answer text.
package compose

import (
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// LINE-ORIENTED MARKDOWN -> HTML
// =============================================================================

// The converter is deliberately minimal: it understands exactly the
// markdown subset the answer templates emit. Lists are buffered and
// flushed as one <ul> on the first non-list line; blank lines become
// <br/>; everything else is escaped and wrapped in <p> after inline
// substitution.

var (
	listItemRE = regexp.MustCompile(`^\s*[-*+]\s+`)
	headingRE  = regexp.MustCompile(`^#{1,6}\s+`)
	boldRE     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRE   = regexp.MustCompile(`\*(.+?)\*`)
	codeRE     = regexp.MustCompile("`([^`]+)`")
)

// escapeHTML escapes the three HTML-significant characters.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// inline applies bold, italic and code substitution to an
// already-escaped line.
func inline(s string) string {
	s = boldRE.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRE.ReplaceAllString(s, "<em>$1</em>")
	s = codeRE.ReplaceAllString(s, "<code>$1</code>")
	return s
}

// RenderHTML converts answer markdown to HTML markup, one line at a time.
func RenderHTML(md string) string {
	var out []string
	var listBuf []string

	flushList := func() {
		if len(listBuf) == 0 {
			return
		}
		var b strings.Builder
		b.WriteString("<ul>")
		for _, li := range listBuf {
			b.WriteString("<li>" + li + "</li>")
		}
		b.WriteString("</ul>")
		out = append(out, b.String())
		listBuf = nil
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, " \t")

		if listItemRE.MatchString(line) {
			item := listItemRE.ReplaceAllString(line, "")
			item = escapeHTML(item)
			item = boldRE.ReplaceAllString(item, "<strong>$1</strong>")
			item = codeRE.ReplaceAllString(item, "<code>$1</code>")
			listBuf = append(listBuf, item)
			continue
		}
		flushList()

		if headingRE.MatchString(line) {
			level := len(line) - len(strings.TrimLeft(line, "#"))
			text := escapeHTML(headingRE.ReplaceAllString(line, ""))
			out = append(out, fmt.Sprintf(`<h%d class="md-heading h%d">%s</h%d>`, level, level, text, level))
			continue
		}

		if line == "" {
			out = append(out, "<br/>")
			continue
		}

		out = append(out, "<p>"+inline(escapeHTML(line))+"</p>")
	}
	flushList()

	return strings.Join(out, "\n")
}
