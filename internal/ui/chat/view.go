// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/reportchat/internal/model"
)

// View renders the current screen.
func (m Model) View() string {
	if m.state == StateIdentity {
		return m.viewIdentity()
	}
	return m.viewChat()
}

// =============================================================================
// CHAT SCREEN
// =============================================================================

func (m Model) viewChat() string {
	var sb strings.Builder

	// Header
	title := m.theme.HeaderTitle.Render(m.opts.Title)
	if m.opts.Subtitle != "" {
		title += "  " + m.theme.HeaderSubtitle.Render(m.opts.Subtitle)
	}
	header := title
	if m.width > 0 {
		header = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title)
	}
	sb.WriteString(header)
	sb.WriteString("\n")

	// Conversation
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	// Spinner while waiting for the first token
	if m.spinner.IsActive() {
		sb.WriteString(m.spinner.View())
		sb.WriteString("\n")
	}

	// Completion popup sits directly above the input
	if m.completion.Visible() {
		sb.WriteString(m.completion.View())
		sb.WriteString("\n")
	}

	// Input
	prompt := m.input.View()
	if m.editing {
		prompt = m.theme.StatusMessage.Render("(editing) ") + prompt
	}
	sb.WriteString(m.theme.InputContainer.Render(prompt))
	sb.WriteString("\n")

	// Status bar
	sb.WriteString(m.statusBar.View())

	return sb.String()
}

// renderConversation renders all messages for the viewport.
func (m *Model) renderConversation(messages []model.Message) string {
	if len(messages) == 0 {
		return m.welcome.View()
	}

	bubbleWidth := m.width - 10
	if bubbleWidth < 20 {
		bubbleWidth = 60
	}

	var parts []string
	for i := range messages {
		parts = append(parts, m.renderMessage(&messages[i], bubbleWidth))
	}

	if sources := m.renderSources(); sources != "" {
		parts = append(parts, sources)
	}

	return strings.Join(parts, "\n")
}

// renderMessage renders a single conversation turn.
func (m *Model) renderMessage(msg *model.Message, maxWidth int) string {
	label := m.theme.RoleLabel.Render(msg.Role.DisplayName())
	if !msg.Timestamp.IsZero() {
		label += " " + m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	switch msg.Role {
	case model.RoleUser:
		bubble := m.theme.UserBubble.MaxWidth(maxWidth).Render(msg.Content)
		block := label + "\n" + bubble
		if m.width > 0 {
			return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block)
		}
		return block

	default:
		content := strings.TrimRight(m.renderMarkdown(msg.Content), "\n")
		if content == "" && msg.Pending {
			content = m.theme.InputPlaceholder.Render("...")
		}
		bubble := m.theme.AssistantBubble.MaxWidth(maxWidth).Render(content)
		return label + "\n" + bubble
	}
}

// renderSources renders backend source attribution under the last answer.
func (m *Model) renderSources() string {
	if m.eng == nil {
		return ""
	}
	sources, confidence := m.eng.Sources()
	if len(sources) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, m.theme.SourceLine.Render(
		fmt.Sprintf("sources (confidence %.2f):", confidence)))
	for _, src := range sources {
		lines = append(lines, m.theme.SourceLine.Render("- "+src.Question)+
			" "+m.theme.SourceScore.Render(fmt.Sprintf("%.2f", src.Score)))
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// IDENTITY GATE SCREEN
// =============================================================================

func (m Model) viewIdentity() string {
	var sb strings.Builder

	sb.WriteString(m.theme.IdentityTitle.Render("Welcome to " + m.opts.Title))
	sb.WriteString("\n\n")
	sb.WriteString(m.theme.IdentityLabel.Render("Name"))
	sb.WriteString("\n")
	sb.WriteString(m.nameInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(m.theme.IdentityLabel.Render("Email"))
	sb.WriteString("\n")
	sb.WriteString(m.emailInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(m.theme.IdentityHint.Render("Tab to switch fields, Enter to continue"))

	if m.gateErr != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.theme.ErrorTitle.Render(m.gateErr))
	}

	box := m.theme.IdentityBox.Render(sb.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
