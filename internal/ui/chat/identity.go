// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// IDENTITY GATE
// =============================================================================

// handleIdentityKey processes key input on the first-run identity gate.
func (m Model) handleIdentityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		m.gateFocus = 1 - m.gateFocus
		if m.gateFocus == 0 {
			m.nameInput.Focus()
			m.emailInput.Blur()
		} else {
			m.nameInput.Blur()
			m.emailInput.Focus()
		}
		return m, nil

	case "enter":
		if m.gateFocus == 0 {
			// Enter on the name field advances to email.
			m.gateFocus = 1
			m.nameInput.Blur()
			m.emailInput.Focus()
			return m, nil
		}
		return m.submitIdentity()
	}

	var cmd tea.Cmd
	if m.gateFocus == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.emailInput, cmd = m.emailInput.Update(msg)
	}
	return m, cmd
}

// submitIdentity validates the gate inputs and establishes the identity.
func (m Model) submitIdentity() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.nameInput.Value())
	email := strings.TrimSpace(m.emailInput.Value())

	if name == "" {
		m.gateErr = "name is required"
		return m, nil
	}
	if email == "" || !strings.Contains(email, "@") {
		m.gateErr = "a valid email is required"
		return m, nil
	}
	if m.opts.Establish == nil {
		m.gateErr = "identity setup is not available"
		return m, nil
	}

	m.gateErr = ""
	establish := m.opts.Establish
	return m, func() tea.Msg {
		eng, id, err := establish(name, email)
		if err != nil {
			return identityResultMsg{err: err}
		}
		if eng == nil {
			return identityResultMsg{err: errors.New("identity setup returned no engine")}
		}
		return identityResultMsg{eng: eng, id: id}
	}
}
