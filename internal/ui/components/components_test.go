// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/reportchat/internal/commands"
	"github.com/jeranaias/reportchat/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestSpinnerLifecycle(t *testing.T) {
	s := NewSpinner()
	if s.IsActive() {
		t.Error("new spinner should be inactive")
	}
	if s.View() != "" {
		t.Error("inactive spinner should render nothing")
	}

	cmd := s.Start()
	if cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !s.IsActive() {
		t.Error("spinner should be active after Start")
	}
	if s.View() == "" {
		t.Error("active spinner should render content")
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "<1s"},
		{3 * time.Second, "3s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// =============================================================================
// COMPLETION POPUP TESTS
// =============================================================================

func TestCompletionPopupSelection(t *testing.T) {
	popup := NewCompletionPopup(testTheme())
	if popup.Visible() {
		t.Error("empty popup should be hidden")
	}
	if popup.Selected() != "" {
		t.Error("empty popup should have no selection")
	}

	popup.SetItems([]commands.Completion{
		{Value: "/help", Description: "Show available commands"},
		{Value: "/history", Description: ""},
	})
	if !popup.Visible() {
		t.Error("popup with items should be visible")
	}
	if popup.Selected() != "/help" {
		t.Errorf("initial selection = %q, want /help", popup.Selected())
	}

	popup.Next()
	if popup.Selected() != "/history" {
		t.Errorf("after Next selection = %q, want /history", popup.Selected())
	}

	popup.Next() // wraps
	if popup.Selected() != "/help" {
		t.Errorf("Next should wrap, got %q", popup.Selected())
	}

	popup.Prev() // wraps backwards
	if popup.Selected() != "/history" {
		t.Errorf("Prev should wrap, got %q", popup.Selected())
	}

	popup.Hide()
	if popup.Visible() {
		t.Error("popup should be hidden after Hide")
	}
}

func TestCompletionPopupView(t *testing.T) {
	popup := NewCompletionPopup(testTheme())
	popup.SetItems([]commands.Completion{
		{Value: "/summary", Description: "Internship summary"},
	})

	view := popup.View()
	if !strings.Contains(view, "/summary") {
		t.Error("view should contain the command value")
	}
	if !strings.Contains(view, "Internship summary") {
		t.Error("view should contain the description")
	}
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusBarModes(t *testing.T) {
	bar := NewStatusBar(testTheme())

	bar.SetBackendConnected(false)
	if !strings.Contains(bar.View(), "local") {
		t.Error("status bar should show local mode")
	}

	bar.SetBackendConnected(true)
	if !strings.Contains(bar.View(), "backend") {
		t.Error("status bar should show backend mode")
	}
}

func TestStatusBarContent(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetUserName("Ada")
	bar.SetMessageCount(3)
	bar.SetStatusMessage("exported to chat.md")

	view := bar.View()
	for _, want := range []string{"Ada", "3 msgs", "exported to chat.md"} {
		if !strings.Contains(view, want) {
			t.Errorf("status bar missing %q", want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := formatCount(1); got != "1 msg" {
		t.Errorf("formatCount(1) = %q", got)
	}
	if got := formatCount(12); got != "12 msgs" {
		t.Errorf("formatCount(12) = %q", got)
	}
}

// =============================================================================
// WELCOME TESTS
// =============================================================================

func TestWelcomeView(t *testing.T) {
	w := NewWelcome(testTheme(), "reportchat", "React internship report assistant")
	view := w.View()
	for _, want := range []string{"reportchat", "/help", "/summary"} {
		if !strings.Contains(view, want) {
			t.Errorf("welcome banner missing %q", want)
		}
	}
}
