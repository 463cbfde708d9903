// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat.
//
// Commands are interpreted before classification and retrieval: an
// input starting with "/" that matches a registered command produces
// its reply directly. Unknown "/" inputs fall through to the normal
// question pipeline.
//
// # Key Types
//
//   - Registry: registered commands with alias lookup
//   - Context: dependency injection for handlers
//   - Parser: splits input into command name and argument
//
// # Usage
//
//	reg := commands.NewRegistry()
//	reply, handled := reg.Execute(ctx, "/asg 12")
package commands
