// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/reportchat/internal/ui/styles"
	"github.com/jeranaias/reportchat/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the bottom bar showing answer mode, identity, and key hints.
type StatusBar struct {
	theme *styles.Theme
	width int

	// State
	backendConnected bool
	userName         string
	statusMsg        string
	messageCount     int
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// SetWidth sets the render width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetBackendConnected records whether a remote backend is serving answers.
func (s *StatusBar) SetBackendConnected(connected bool) {
	s.backendConnected = connected
}

// SetUserName sets the identity shown in the bar.
func (s *StatusBar) SetUserName(name string) {
	s.userName = name
}

// SetStatusMessage sets a transient message (e.g. export confirmation).
func (s *StatusBar) SetStatusMessage(msg string) {
	s.statusMsg = msg
}

// SetMessageCount sets the number of messages in the conversation.
func (s *StatusBar) SetMessageCount(n int) {
	s.messageCount = n
}

// View renders the status bar.
func (s StatusBar) View() string {
	var mode string
	if s.backendConnected {
		mode = s.theme.ModeBackend.Render("backend")
	} else {
		mode = s.theme.ModeLocal.Render("local")
	}

	var parts []string
	parts = append(parts, mode)

	if s.userName != "" {
		parts = append(parts, s.theme.StatusMessage.Render(s.userName))
	}

	if s.messageCount > 0 {
		parts = append(parts, s.theme.ShortcutDesc.Render(formatCount(s.messageCount)))
	}

	if s.statusMsg != "" {
		parts = append(parts, s.theme.StatusMessage.Render(s.statusMsg))
	}

	left := strings.Join(parts, "  ")

	hints := strings.Join([]string{
		s.theme.ShortcutKey.Render("Enter") + s.theme.ShortcutDesc.Render(" send"),
		s.theme.ShortcutKey.Render("Esc") + s.theme.ShortcutDesc.Render(" cancel"),
		s.theme.ShortcutKey.Render("C-e") + s.theme.ShortcutDesc.Render(" export"),
		s.theme.ShortcutKey.Render("C-q") + s.theme.ShortcutDesc.Render(" quit"),
	}, "  ")

	// Fit both sides; drop hints first when the terminal is narrow.
	if s.width > 0 {
		leftWidth := lipgloss.Width(left)
		hintsWidth := lipgloss.Width(hints)
		gap := s.width - leftWidth - hintsWidth - 2
		if gap > 0 {
			return s.theme.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + hints)
		}
		return s.theme.StatusBar.Width(s.width).Render(util.TruncateWidth(left, s.width-2))
	}

	return s.theme.StatusBar.Render(left + "  " + hints)
}

// formatCount renders a message-count label.
func formatCount(n int) string {
	if n == 1 {
		return "1 msg"
	}
	return strconv.Itoa(n) + " msgs"
}
