// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the reportchat TUI.

# Key Types

  - Spinner: animated loading indicator shown while a reply is pending
  - CompletionPopup: slash-command completion list rendered above the input
  - StatusBar: bottom bar showing mode, identity, and key hints
  - Welcome: startup banner shown before the first message

# Usage

	sp := components.NewSpinner()
	cmd := sp.Start()

	popup := components.NewCompletionPopup(theme)
	popup.SetItems(reg.Complete("/he"))
	view := popup.View()
*/
package components
