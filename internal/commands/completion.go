// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "strings"

// Completion represents a completion suggestion for a partially typed
// command.
type Completion struct {
	// Value to insert
	Value string

	// Description shown alongside
	Description string
}

// Complete returns suggestions for a partial command, e.g. "/te" ->
// "/tech". Hidden commands are excluded. Returns nil when the input is
// not in command position.
func (r *Registry) Complete(input string) []Completion {
	partial := GetPartialCommand(input)
	if partial == "" {
		return nil
	}

	var out []Completion
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		if strings.HasPrefix(cmd.Name, partial) {
			out = append(out, Completion{Value: cmd.Name, Description: cmd.Description})
		}
	}
	return out
}
