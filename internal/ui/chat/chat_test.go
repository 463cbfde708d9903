// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/reportchat/internal/engine"
	"github.com/jeranaias/reportchat/internal/model"
	"github.com/jeranaias/reportchat/internal/report"
	"github.com/jeranaias/reportchat/internal/session"
	"github.com/jeranaias/reportchat/internal/ui/styles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	eng := engine.New(report.Default(), engine.NewLog(nil, "chat-history-test"), engine.Config{})
	return NewModel(Options{
		Theme:       styles.NewTheme("dark"),
		Title:       "reportchat",
		Engine:      eng,
		Identity:    session.Identity{UserID: "u1", Name: "Ada", Email: "ada@example.com"},
		HasIdentity: true,
	})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelStates(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, StateChat, m.state)

	gated := NewModel(Options{Theme: styles.NewTheme("dark")})
	assert.Equal(t, StateIdentity, gated.state)
}

func TestIdentityGateValidation(t *testing.T) {
	m := NewModel(Options{Theme: styles.NewTheme("dark")})

	// Jump to the email field and submit with both fields empty.
	next, _ := m.handleIdentityKey(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	next, cmd := m.handleIdentityKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "name is required", m.gateErr)

	m.nameInput.SetValue("Ada")
	next, cmd = m.handleIdentityKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "a valid email is required", m.gateErr)

	m.emailInput.SetValue("not-an-email")
	next, _ = m.handleIdentityKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Equal(t, "a valid email is required", m.gateErr)
}

func TestIdentityGateEstablish(t *testing.T) {
	eng := engine.New(report.Default(), engine.NewLog(nil, "chat-history-gate"), engine.Config{})
	m := NewModel(Options{
		Theme: styles.NewTheme("dark"),
		Establish: func(name, email string) (*engine.Engine, session.Identity, error) {
			return eng, session.Identity{UserID: "x", Name: name, Email: email}, nil
		},
	})

	m.nameInput.SetValue("Ada")
	m.emailInput.SetValue("ada@example.com")
	m.gateFocus = 1

	next, cmd := m.handleIdentityKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	result, ok := msg.(identityResultMsg)
	require.True(t, ok)
	require.NoError(t, result.err)

	next, _ = m.Update(result)
	m = next.(Model)
	assert.Equal(t, StateChat, m.state)
	assert.Equal(t, "Ada", m.identity.Name)
}

func TestSubmitSendsToEngine(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/help")

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	messages := m.eng.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, "/help", messages[0].Content)
	assert.Equal(t, model.RoleAssistant, messages[1].Role)
	assert.Contains(t, messages[1].Content, "Available commands:")
	assert.Empty(t, m.input.Value())
}

func TestSubmitIgnoresEmptyInput(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Empty(t, m.eng.Messages())
}

func TestCompletionPopupFlow(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.handleKey(keyRunes("/"))
	m = next.(Model)
	assert.True(t, m.completion.Visible())

	next, _ = m.handleKey(keyRunes("h"))
	m = next.(Model)
	require.True(t, m.completion.Visible())
	assert.Equal(t, "/help", m.completion.Selected())

	// Enter accepts the highlighted candidate into the input.
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.False(t, m.completion.Visible())
	assert.Equal(t, "/help ", m.input.Value())

	// Plain text never opens the popup.
	m.input.Reset()
	next, _ = m.handleKey(keyRunes("h"))
	m = next.(Model)
	assert.False(t, m.completion.Visible())
}

func TestEditLastPullsUserMessage(t *testing.T) {
	m := newTestModel(t)
	m.eng.Send("/help")

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(Model)
	assert.True(t, m.editing)
	assert.Equal(t, "/help", m.input.Value())

	// Esc exits edit mode without sending.
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.False(t, m.editing)
	assert.Empty(t, m.input.Value())
}

func TestWaitingForReply(t *testing.T) {
	assert.False(t, waitingForReply(nil))
	assert.False(t, waitingForReply([]model.Message{
		{Role: model.RoleAssistant, Content: "done", Pending: false},
	}))
	assert.True(t, waitingForReply([]model.Message{
		{Role: model.RoleUser, Content: "q"},
		{Role: model.RoleAssistant, Content: "", Pending: true},
	}))
	assert.False(t, waitingForReply([]model.Message{
		{Role: model.RoleUser, Content: "q"},
		{Role: model.RoleAssistant, Content: "partial", Pending: true},
	}))
}

func TestSettledMessages(t *testing.T) {
	in := []model.Message{
		{ID: 1, Role: model.RoleUser, Content: "q"},
		{ID: 2, Role: model.RoleAssistant, Content: "a"},
		{ID: 3, Role: model.RoleAssistant, Content: "part", Pending: true},
	}
	out := settledMessages(in)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[1].ID)
}

func TestViewContainsConversation(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)

	m.eng.Send("/help")
	cmd := m.refresh()
	_ = cmd

	view := m.View()
	assert.True(t, strings.Contains(view, "/help") || strings.Contains(view, "Available commands:"),
		"view should include the conversation")
}
