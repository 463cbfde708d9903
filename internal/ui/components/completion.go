// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/reportchat/internal/commands"
	"github.com/jeranaias/reportchat/internal/ui/styles"
)

// =============================================================================
// COMPLETION POPUP
// =============================================================================

// CompletionPopup renders a slash-command completion list above the input.
// Tab cycles through candidates; the selected entry is highlighted.
type CompletionPopup struct {
	theme    *styles.Theme
	items    []commands.Completion
	selected int
	visible  bool
}

// NewCompletionPopup creates an empty, hidden completion popup.
func NewCompletionPopup(theme *styles.Theme) CompletionPopup {
	return CompletionPopup{theme: theme}
}

// SetItems replaces the candidate list and resets the selection.
// An empty list hides the popup.
func (c *CompletionPopup) SetItems(items []commands.Completion) {
	c.items = items
	c.selected = 0
	c.visible = len(items) > 0
}

// Hide clears the popup.
func (c *CompletionPopup) Hide() {
	c.items = nil
	c.selected = 0
	c.visible = false
}

// Visible reports whether the popup has candidates to show.
func (c *CompletionPopup) Visible() bool {
	return c.visible
}

// Next advances the selection, wrapping around.
func (c *CompletionPopup) Next() {
	if len(c.items) == 0 {
		return
	}
	c.selected = (c.selected + 1) % len(c.items)
}

// Prev moves the selection backwards, wrapping around.
func (c *CompletionPopup) Prev() {
	if len(c.items) == 0 {
		return
	}
	c.selected = (c.selected - 1 + len(c.items)) % len(c.items)
}

// Selected returns the currently highlighted candidate value, or "".
func (c *CompletionPopup) Selected() string {
	if !c.visible || c.selected >= len(c.items) {
		return ""
	}
	return c.items[c.selected].Value
}

// View renders the popup.
func (c *CompletionPopup) View() string {
	if !c.visible {
		return ""
	}

	var lines []string
	for i, item := range c.items {
		label := item.Value
		desc := ""
		if item.Description != "" {
			desc = "  " + c.theme.CompletionDesc.Render(item.Description)
		}
		if i == c.selected {
			lines = append(lines, c.theme.CompletionSelected.Render(label)+desc)
		} else {
			lines = append(lines, c.theme.CompletionItem.Render(label)+desc)
		}
	}

	return c.theme.CompletionPopup.Render(strings.Join(lines, "\n"))
}
