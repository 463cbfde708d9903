// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"

	"github.com/jeranaias/reportchat/internal/model"
	"github.com/jeranaias/reportchat/internal/report"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/tech <term>")
	Usage string

	// Handler produces the reply for this command
	Handler func(ctx *Context, arg string) string

	// Hidden commands don't appear in completion
	Hidden bool
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context provides access to chat state for command handlers.
// It follows the dependency injection pattern, allowing handlers to
// reach the conversation without direct coupling to the engine.
type Context struct {
	// Data is the loaded report corpus
	Data *report.Data

	// History returns a snapshot of the current conversation
	History func() []model.Message

	// Clear wipes the current conversation
	Clear func()
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []string
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	if _, exists := r.commands[cmd.Name]; !exists {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands in registration order.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, r.commands[name])
	}
	return cmds
}

// Execute parses input and runs the matching command. The second
// return is false when the input is not a command or names an unknown
// one; callers then treat the input as a normal question.
func (r *Registry) Execute(ctx *Context, input string) (string, bool) {
	result := Parse(input)
	if !result.IsCommand {
		return "", false
	}
	cmd := r.Get(result.Name)
	if cmd == nil {
		return "", false
	}
	return cmd.Handler(ctx, result.Arg), true
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

// exportLimit caps the JSON dump emitted by /export.
const exportLimit = 4000

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Description: "Show commands",
		Handler: func(ctx *Context, arg string) string {
			return helpText
		},
	})

	r.Register(&Command{
		Name:        "/clear",
		Description: "Clear chat",
		Handler: func(ctx *Context, arg string) string {
			if ctx.Clear != nil {
				ctx.Clear()
			}
			return "Chat cleared."
		},
	})

	r.Register(&Command{
		Name:        "/reset",
		Description: "Reset chat",
		Hidden:      true,
		Handler: func(ctx *Context, arg string) string {
			if ctx.Clear != nil {
				ctx.Clear()
			}
			return "Chat reset."
		},
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Dump conversation as JSON",
		Hidden:      true,
		Handler:     handleExport,
	})

	r.Register(&Command{
		Name:        "/summary",
		Description: "Internship high level summary",
		Handler: func(ctx *Context, arg string) string {
			return ctx.Data.Summary.Introduction
		},
	})

	r.Register(&Command{
		Name:        "/tech",
		Description: "Search technologies",
		Usage:       "/tech <term>",
		Handler: func(ctx *Context, arg string) string {
			if arg == "" {
				return "Usage: /tech <term>"
			}
			return formatTech(ctx.Data, arg)
		},
	})

	r.Register(&Command{
		Name:        "/pattern",
		Description: "Search patterns",
		Usage:       "/pattern <term>",
		Handler: func(ctx *Context, arg string) string {
			if arg == "" {
				return "Usage: /pattern <term>"
			}
			return formatPattern(ctx.Data, arg)
		},
	})

	r.Register(&Command{
		Name:        "/asg",
		Description: "Search assignments by id or term",
		Usage:       "/asg <id|term>",
		Handler: func(ctx *Context, arg string) string {
			if arg == "" {
				return "Usage: /asg <id|term>"
			}
			return formatAssignment(ctx.Data, arg)
		},
	})
}

func handleExport(ctx *Context, arg string) string {
	var msgs []model.Message
	if ctx.History != nil {
		msgs = ctx.History()
	}
	raw, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return "Export failed."
	}
	dump := string(raw)
	if runes := []rune(dump); len(runes) > exportLimit {
		dump = string(runes[:exportLimit])
	}
	return "Copy below JSON:\n" + dump
}
