// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Command line parsing for the reportchat binary.

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI    Command = iota // full-screen chat (default)
	CmdChat                  // plain line-oriented REPL
	CmdAsk                   // one-shot question, answer to stdout
	CmdExport                // write the stored transcript to a file
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Plain      bool   // force the plain REPL instead of the TUI
	Debug      bool   // verbose logging
	Local      bool   // never probe for a backend
	Backend    string // pin a single backend URL, skipping the probe list
	DataPath   string // report corpus JSON override
	ConfigPath string // config file override
	Name       string // identity name (skips the interactive gate)
	Email      string // identity email

	// Export flags
	Format string // md, json, or html
	OutDir string // export output directory

	// Command-specific
	Query string // question text for ask

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `reportchat - chat with an internship report from your terminal

Usage:
  reportchat                   Start the TUI (default)
  reportchat chat              Plain line-oriented REPL
  reportchat ask "question"    Ask once and print the answer
  reportchat export            Write the stored transcript to a file
  reportchat version           Show version information
  reportchat help              Show this help

Global flags:
  --plain            Use the plain REPL instead of the TUI
  --local            Skip the backend probe, answer locally only
  --backend URL      Use this backend URL instead of probing
  --data PATH        Load the report corpus from PATH
  --config PATH      Load configuration from PATH
  --name NAME        Identity name (skips the first-run prompt)
  --email ADDR       Identity email
  --debug            Verbose logging

Export flags:
  --format FORMAT    md, json, or html (default md)
  --out DIR          Output directory (default current directory)

Inside a chat, type /help for the slash commands.`

// Parse reads os.Args and returns the command plus its flags.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses a raw argument slice. Split out for tests.
func ParseArgs(raw []string) (Command, Args) {
	var args Args
	var positional []string

	i := 0
	for i < len(raw) {
		arg := raw[i]
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			i++
			continue
		}

		name := strings.TrimLeft(arg, "-")
		value := ""
		hasValue := false
		if eq := strings.Index(name, "="); eq >= 0 {
			value = name[eq+1:]
			name = name[:eq]
			hasValue = true
		}

		// consume consumes the flag's value from the next arg when it
		// was not given as --flag=value.
		consume := func() string {
			if hasValue {
				return value
			}
			if i+1 < len(raw) {
				i++
				return raw[i]
			}
			return ""
		}

		switch name {
		case "plain":
			args.Plain = true
		case "debug", "v":
			args.Debug = true
		case "local":
			args.Local = true
		case "backend":
			args.Backend = consume()
		case "data":
			args.DataPath = consume()
		case "config":
			args.ConfigPath = consume()
		case "name":
			args.Name = consume()
		case "email":
			args.Email = consume()
		case "format", "f":
			args.Format = consume()
		case "out", "o":
			args.OutDir = consume()
		case "help", "h":
			return CmdHelp, args
		case "version":
			return CmdVersion, args
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n", arg)
			return CmdHelp, args
		}
		i++
	}

	args.Raw = positional
	if len(positional) == 0 {
		if args.Plain {
			return CmdChat, args
		}
		return CmdTUI, args
	}

	switch positional[0] {
	case "chat":
		return CmdChat, args
	case "ask":
		args.Query = strings.Join(positional[1:], " ")
		return CmdAsk, args
	case "export":
		return CmdExport, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		// Treat an unrecognized word as a question for ask mode.
		args.Query = strings.Join(positional, " ")
		return CmdAsk, args
	}
}

// HandleHelp prints usage to stdout.
func HandleHelp() {
	fmt.Println(usageText)
}

// HandleVersion prints build information.
func HandleVersion() {
	fmt.Printf("reportchat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
