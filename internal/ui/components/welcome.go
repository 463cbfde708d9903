// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/reportchat/internal/ui/styles"
)

// =============================================================================
// WELCOME BANNER
// =============================================================================

// Welcome is the startup banner shown before the first message is sent.
type Welcome struct {
	theme    *styles.Theme
	title    string
	subtitle string
	width    int
}

// NewWelcome creates a welcome banner.
func NewWelcome(theme *styles.Theme, title, subtitle string) Welcome {
	return Welcome{
		theme:    theme,
		title:    title,
		subtitle: subtitle,
	}
}

// SetWidth sets the render width for centering.
func (w *Welcome) SetWidth(width int) {
	w.width = width
}

// View renders the banner.
func (w Welcome) View() string {
	var sb strings.Builder
	sb.WriteString(w.theme.WelcomeLogo.Render(w.title))
	sb.WriteString("\n")
	sb.WriteString(w.theme.WelcomeInfo.Render(w.subtitle))
	sb.WriteString("\n\n")
	sb.WriteString(w.theme.WelcomeInfo.Render("Ask about the internship report, or try:"))
	sb.WriteString("\n")

	tips := []struct{ key, desc string }{
		{"/help", "list commands"},
		{"/summary", "internship overview"},
		{"/asg 12", "look up an assignment"},
		{"/tech react", "search the tech stack"},
	}
	for _, tip := range tips {
		sb.WriteString("  ")
		sb.WriteString(w.theme.WelcomeKey.Render(tip.key))
		sb.WriteString(w.theme.WelcomeInfo.Render("  " + tip.desc))
		sb.WriteString("\n")
	}

	box := w.theme.WelcomeBox.Render(sb.String())
	if w.width > 0 {
		return lipgloss.PlaceHorizontal(w.width, lipgloss.Center, box)
	}
	return box
}
