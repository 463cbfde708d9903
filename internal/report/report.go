// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report holds the internship report corpus.
package report

import "strconv"

// =============================================================================
// TYPES
// =============================================================================

// Data is the full report corpus. It is treated as immutable after load:
// consumers index it, format it, search it, but never mutate it.
type Data struct {
	Summary      Summary           `toml:"summary"`
	Assignments  []Assignment      `toml:"assignment"`
	Technologies []TechnologyGroup `toml:"technology"`
	Patterns     []Pattern         `toml:"pattern"`
}

// Summary is the high-level internship overview.
type Summary struct {
	Period           string      `toml:"period"`
	Company          string      `toml:"company"`
	Role             string      `toml:"role"`
	TotalAssignments int         `toml:"total_assignments"`
	Introduction     string      `toml:"introduction"`
	GoalsAchieved    []string    `toml:"goals_achieved"`
	Themes           []string    `toml:"themes"`
	Competencies     []string    `toml:"competencies"`
	Challenges       []Challenge `toml:"challenges"`
	NextSteps        []string    `toml:"next_steps"`
}

// Challenge pairs a difficulty encountered with how it was resolved.
type Challenge struct {
	Challenge  string `toml:"challenge"`
	Resolution string `toml:"resolution"`
}

// Assignment is one entry of the assignment log.
type Assignment struct {
	ID       int      `toml:"id"`
	Title    string   `toml:"title"`
	File     string   `toml:"file"`
	Concepts []string `toml:"concepts"`
	Logic    string   `toml:"logic"`
	Code     string   `toml:"code"`
	Learning string   `toml:"learning"`
}

// TechnologyGroup is one named group of technologies. Groups keep their
// declaration order so listings are stable run to run.
type TechnologyGroup struct {
	Group string   `toml:"group"`
	Items []string `toml:"items"`
}

// Pattern is one catalogued implementation pattern with a code snippet.
type Pattern struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Snippet     string `toml:"snippet"`
}

// =============================================================================
// ACCESSORS
// =============================================================================

// AssignmentByID returns the assignment with the given numeric id, or nil.
// The id may be given as a string; non-numeric strings return nil.
func (d *Data) AssignmentByID(id string) *Assignment {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil
	}
	for i := range d.Assignments {
		if d.Assignments[i].ID == n {
			return &d.Assignments[i]
		}
	}
	return nil
}
