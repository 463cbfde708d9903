// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain-terminal surfaces of reportchat: a
// line-oriented REPL for terminals where the full-screen TUI is
// unwanted, a one-shot ask mode for scripting, and a transcript export
// command.
//
// # Key Types
//
//   - Args: parsed command line (command word plus global flags)
//   - REPL: liner-backed interactive loop over an engine
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdChat:
//	    repl, _ := cli.NewREPL(eng, ident)
//	    defer repl.Close()
//	    repl.Run()
//	case cli.CmdAsk:
//	    cli.RunAsk(eng, args.Query)
//	}
//
// Output is markdown-rendered only when stdout is a terminal, so piped
// output stays clean.
package cli
