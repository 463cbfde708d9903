// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/reportchat/internal/export"
	"github.com/jeranaias/reportchat/internal/model"
)

// exportCmd writes the current conversation to a file in the configured
// format and reports the result through an exportResultMsg.
func (m Model) exportCmd() tea.Cmd {
	if m.eng == nil {
		return nil
	}

	messages := m.eng.Messages()
	identity := m.identity
	title := m.opts.Title
	dir := m.opts.ExportDir
	format := m.opts.ExportFormat
	dark := m.theme.IsDark

	return func() tea.Msg {
		settled := settledMessages(messages)
		if len(settled) == 0 {
			return exportResultMsg{err: errors.New("nothing to export yet")}
		}

		opts := export.DefaultOptions()
		if dir != "" {
			opts.OutputDir = dir
		}
		if dark {
			opts.Theme = "dark"
		} else {
			opts.Theme = "light"
		}

		exporter, err := export.ForFormat(format, opts)
		if err != nil {
			return exportResultMsg{err: err}
		}

		tr := &export.Transcript{
			Title:     title,
			UserName:  identity.Name,
			UserEmail: identity.Email,
			Messages:  settled,
		}

		path, err := export.ToFile(tr, exporter, opts)
		if err != nil {
			return exportResultMsg{err: err}
		}
		return exportResultMsg{path: path}
	}
}

// settledMessages filters out the in-flight pending turn; exports cover
// completed turns only.
func settledMessages(messages []model.Message) []model.Message {
	out := make([]model.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Pending {
			continue
		}
		out = append(out, msg)
	}
	return out
}
