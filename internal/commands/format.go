// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/reportchat/internal/report"
)

// helpText lists the commands surfaced to users.
const helpText = "Available commands:\n" +
	"/help - show commands\n" +
	"/clear - clear chat\n" +
	"/summary - internship high level summary\n" +
	"/tech <term> - search technologies\n" +
	"/pattern <term> - search patterns\n" +
	"/asg <id or term> - search assignments by id or term"

// formatTech lists "group: item" lines for every technology whose name
// contains the term.
func formatTech(data *report.Data, term string) string {
	q := strings.ToLower(term)
	var hits []string
	for _, group := range data.Technologies {
		for _, item := range group.Items {
			if strings.Contains(strings.ToLower(item), q) {
				hits = append(hits, group.Group+": "+item)
			}
		}
	}
	if len(hits) == 0 {
		return "No technology matches."
	}
	return strings.Join(hits, "\n")
}

// formatPattern renders every pattern whose name or description
// contains the term, snippet included.
func formatPattern(data *report.Data, term string) string {
	q := strings.ToLower(term)
	var hits []string
	for _, p := range data.Patterns {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			hits = append(hits, fmt.Sprintf("%s: %s\n%s", p.Name, p.Description, p.Snippet))
		}
	}
	if len(hits) == 0 {
		return "No pattern matches."
	}
	return strings.Join(hits, "\n\n")
}

// formatAssignment resolves a numeric id first, then falls back to a
// substring search over titles, concepts, and logic.
func formatAssignment(data *report.Data, term string) string {
	var hits []report.Assignment

	if id, err := strconv.Atoi(term); err == nil {
		for _, a := range data.Assignments {
			if a.ID == id {
				hits = append(hits, a)
				break
			}
		}
	}

	if len(hits) == 0 {
		q := strings.ToLower(term)
		for _, a := range data.Assignments {
			if assignmentMatches(a, q) {
				hits = append(hits, a)
			}
		}
	}

	if len(hits) == 0 {
		return "No assignment matches."
	}

	blocks := make([]string, 0, len(hits))
	for _, a := range hits {
		blocks = append(blocks, fmt.Sprintf(
			"ASG_%d %s\nConcepts: %s\nLogic: %s\nLearning: %s",
			a.ID, a.Title, strings.Join(a.Concepts, ", "), a.Logic, a.Learning,
		))
	}
	return strings.Join(blocks, "\n\n")
}

func assignmentMatches(a report.Assignment, q string) bool {
	if strings.Contains(strings.ToLower(a.Title), q) {
		return true
	}
	for _, c := range a.Concepts {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(a.Logic), q)
}
