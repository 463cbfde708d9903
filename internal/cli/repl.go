// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Plain line-oriented chat loop.
//
// The REPL drives the same engine as the TUI but reads input with
// liner and prints finished answers instead of live-updating a
// viewport. Answers that stream in (local reveal or backend SSE) are
// waited out and printed whole.

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/reportchat/internal/config"
	"github.com/jeranaias/reportchat/internal/engine"
	"github.com/jeranaias/reportchat/internal/model"
	"github.com/jeranaias/reportchat/internal/session"
)

// replyTimeout bounds how long the REPL waits for a single answer.
const replyTimeout = 2 * time.Minute

// REPL is a line-oriented chat session over an engine.
type REPL struct {
	eng         *engine.Engine
	identity    session.Identity
	line        *liner.State
	historyFile string
	updates     chan struct{}
	out         io.Writer
}

// NewREPL creates a REPL bound to the engine. It takes over the
// engine's update callback; Close restores nothing, so create the REPL
// last.
func NewREPL(eng *engine.Engine, identity session.Identity) (*REPL, error) {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := ""
	if dir, err := config.Dir(); err == nil {
		historyFile = filepath.Join(dir, "repl_history")
	} else {
		historyFile = filepath.Join(os.TempDir(), "reportchat_history")
	}

	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	r := &REPL{
		eng:         eng,
		identity:    identity,
		line:        line,
		historyFile: historyFile,
		updates:     make(chan struct{}, 8),
		out:         os.Stdout,
	}
	eng.SetOnUpdate(func() {
		select {
		case r.updates <- struct{}{}:
		default:
		}
	})
	return r, nil
}

// Close saves input history and releases the terminal.
func (r *REPL) Close() error {
	if r.historyFile != "" {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = r.line.WriteHistory(f)
			f.Close()
		}
	}
	return r.line.Close()
}

// Run reads lines until EOF or an exit command.
func (r *REPL) Run() error {
	r.printWelcome()

	for {
		input, err := r.line.Prompt(promptStyle.Render("you> "))
		if err == liner.ErrPromptAborted {
			fmt.Fprintln(r.out, warningStyle.Render("(cancelled; Ctrl+D or /quit to exit)"))
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)

		if input == "/quit" || input == "/exit" {
			return nil
		}

		r.eng.Send(input)
		reply, ok := r.awaitReply()
		if !ok {
			fmt.Fprintln(r.out, errorStyle.Render("no answer arrived; try again"))
			continue
		}
		r.printReply(reply)
	}
}

// awaitReply blocks until the engine settles with a non-user message at
// the end of the log.
func (r *REPL) awaitReply() (model.Message, bool) {
	timeout := time.NewTimer(replyTimeout)
	defer timeout.Stop()

	for {
		if msg, ok := r.settledReply(); ok {
			return msg, true
		}
		select {
		case <-r.updates:
		case <-time.After(50 * time.Millisecond):
		case <-timeout.C:
			return model.Message{}, false
		}
	}
}

// settledReply returns the last message when it is a finished reply.
func (r *REPL) settledReply() (model.Message, bool) {
	if r.eng.Streaming() || r.eng.Log().HasPending() {
		return model.Message{}, false
	}
	msgs := r.eng.Messages()
	if len(msgs) == 0 {
		return model.Message{}, false
	}
	last := msgs[len(msgs)-1]
	if last.Role == model.RoleUser || last.Pending {
		return model.Message{}, false
	}
	return last, true
}

func (r *REPL) printReply(msg model.Message) {
	if r.out == os.Stdout {
		displayResponse(msg.Content)
	} else {
		fmt.Fprintln(r.out, msg.Content)
	}

	if msg.Role != model.RoleAssistant {
		return
	}
	sources, confidence := r.eng.Sources()
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(r.out, sourceStyle.Render(fmt.Sprintf("sources (confidence %.2f):", confidence)))
	for _, s := range sources {
		fmt.Fprintln(r.out, sourceStyle.Render("  - "+s.Question))
	}
}

func (r *REPL) printWelcome() {
	name := r.identity.Name
	if name == "" {
		name = "there"
	}
	fmt.Fprintln(r.out, welcomeStyle.Render("reportchat"))
	fmt.Fprintf(r.out, "%s\n\n", infoStyle.Render(
		fmt.Sprintf("Hi %s. Ask about the internship report, /help for commands, Ctrl+D to exit.", name)))
}
