// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea chat view for reportchat.

The model wraps an engine.Engine. The engine runs answer delivery on its
own goroutines and signals visible state changes through an update
callback; the view converts those signals into Bubble Tea messages via a
buffered channel, so rendering always happens on the Update loop.

# Key Types

  - Model: the Bubble Tea model (identity gate + chat screen)
  - Options: wiring from main (engine, identity, theme, export dir)
  - KeyMap: keyboard bindings

# Usage

	m := chat.NewModel(chat.Options{
		Theme:  theme,
		Engine: eng,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()

On first run, when no identity exists yet, the model shows a name/email
gate and calls Options.Establish to create the identity and engine.
*/
package chat
