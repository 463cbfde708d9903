// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/reportchat/internal/model"
)

// statusDuration is how long transient status messages stay visible.
const statusDuration = 4 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		if m.state == StateIdentity {
			return m.handleIdentityKey(msg)
		}
		return m.handleKey(msg)

	case EngineUpdatedMsg:
		cmd := m.refresh()
		return m, tea.Batch(cmd, m.waitForUpdate())

	case identityResultMsg:
		return m.handleIdentityResult(msg)

	case exportResultMsg:
		if msg.err != nil {
			return m.setStatus("export failed: " + msg.err.Error())
		}
		return m.setStatus("exported to " + msg.path)

	case statusExpireMsg:
		if msg.seq == m.statusSeq {
			m.statusBar.SetStatusMessage("")
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleResize recalculates layout on terminal size changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	headerHeight := 3
	footerHeight := 4
	m.viewport.Width = msg.Width
	m.viewport.Height = msg.Height - headerHeight - footerHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}

	m.input.Width = msg.Width - 6
	m.statusBar.SetWidth(msg.Width)
	m.welcome.SetWidth(msg.Width)
	m.rebuildRenderer()
	m.ready = true

	if m.state == StateChat {
		return m, m.refresh()
	}
	return m, nil
}

// handleKey processes key input on the chat screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.eng != nil {
			m.eng.Abort()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keys.Cancel):
		if m.completion.Visible() {
			m.completion.Hide()
			return m, nil
		}
		if m.editing {
			m.editing = false
			m.input.Reset()
			return m, nil
		}
		if m.eng != nil {
			m.eng.Abort()
		}
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		return m.handleComplete(), nil

	case key.Matches(msg, m.keys.Retry):
		if m.eng != nil {
			m.eng.RetryLast()
		}
		return m, m.spinner.Start()

	case key.Matches(msg, m.keys.Edit):
		return m.handleEditLast()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncCompletion()
	return m, cmd
}

// handleSubmit sends the input to the engine, or accepts the highlighted
// completion when the popup is open.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	if m.completion.Visible() {
		if sel := m.completion.Selected(); sel != "" {
			m.input.SetValue(sel + " ")
			m.input.CursorEnd()
		}
		m.completion.Hide()
		return m, nil
	}

	value := strings.TrimSpace(m.input.Value())
	if value == "" || m.eng == nil {
		return m, nil
	}

	if m.editing {
		m.editing = false
		m.eng.EditLastUser(value)
	} else {
		m.eng.Send(value)
	}
	m.input.Reset()
	return m, tea.Batch(m.spinner.Start(), textinput.Blink)
}

// handleComplete opens or cycles the slash-command completion popup.
func (m Model) handleComplete() Model {
	if m.completion.Visible() {
		m.completion.Next()
		return m
	}
	m.syncCompletion()
	return m
}

// syncCompletion refreshes the popup candidates from the input value.
func (m *Model) syncCompletion() {
	if m.eng == nil {
		return
	}
	value := m.input.Value()
	if !strings.HasPrefix(value, "/") || strings.Contains(value, " ") {
		m.completion.Hide()
		return
	}
	items := m.eng.Registry().Complete(value)
	// A single candidate equal to the input needs no popup.
	if len(items) == 1 && items[0].Value == strings.TrimSpace(value) {
		m.completion.Hide()
		return
	}
	m.completion.SetItems(items)
}

// handleEditLast pulls the last user message into the input for rewording.
func (m Model) handleEditLast() (tea.Model, tea.Cmd) {
	if m.eng == nil {
		return m, nil
	}
	last, ok := m.eng.Log().LastUser()
	if !ok {
		return m.setStatus("nothing to edit")
	}
	m.editing = true
	m.input.SetValue(last.Content)
	m.input.CursorEnd()
	return m, textinput.Blink
}

// setStatus shows a transient status message in the status bar.
func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.statusBar.SetStatusMessage(text)
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusExpireMsg{seq: seq}
	})
}

// refresh re-renders the conversation from the engine snapshot. The
// returned command, if any, drives the pending-reply spinner.
func (m *Model) refresh() tea.Cmd {
	if m.eng == nil {
		return nil
	}

	messages := m.eng.Messages()
	m.statusBar.SetMessageCount(len(messages))

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderConversation(messages))
	if atBottom || m.eng.Streaming() {
		m.viewport.GotoBottom()
	}

	// The spinner covers the gap between sending and the first visible
	// output; once the pending turn has content, the text speaks for
	// itself.
	if waitingForReply(messages) {
		if !m.spinner.IsActive() {
			return m.spinner.Start()
		}
	} else {
		m.spinner.Stop()
	}
	return nil
}

// waitingForReply reports whether a pending assistant turn exists with
// no revealed content yet.
func waitingForReply(messages []model.Message) bool {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Pending {
			return messages[i].Content == ""
		}
	}
	return false
}

// handleIdentityResult finishes the first-run identity gate.
func (m Model) handleIdentityResult(msg identityResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.gateErr = msg.err.Error()
		return m, nil
	}

	m.adoptEngine(msg.eng, msg.id)
	m.state = StateChat
	m.input.Focus()
	cmd := m.refresh()

	return m, tea.Batch(cmd, m.waitForUpdate(), textinput.Blink)
}
