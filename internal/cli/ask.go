// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question mode for scripting.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/reportchat/internal/engine"
	"github.com/jeranaias/reportchat/internal/model"
)

// RunAsk sends a single question through the engine and prints the
// answer to stdout. Sources go to stderr so piped output stays clean.
func RunAsk(eng *engine.Engine, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("ask requires a question, e.g. reportchat ask \"what did you build\"")
	}

	updates := make(chan struct{}, 8)
	eng.SetOnUpdate(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	eng.Send(query)

	timeout := time.NewTimer(replyTimeout)
	defer timeout.Stop()

	for {
		if msg, ok := lastSettled(eng); ok {
			displayResponse(msg.Content)
			printSourcesStderr(eng, msg)
			return nil
		}
		select {
		case <-updates:
		case <-time.After(50 * time.Millisecond):
		case <-timeout.C:
			return errors.New("timed out waiting for an answer")
		}
	}
}

// lastSettled mirrors the REPL's settled-reply check for a bare engine.
func lastSettled(eng *engine.Engine) (model.Message, bool) {
	if eng.Streaming() || eng.Log().HasPending() {
		return model.Message{}, false
	}
	msgs := eng.Messages()
	if len(msgs) == 0 {
		return model.Message{}, false
	}
	last := msgs[len(msgs)-1]
	if last.Role == model.RoleUser || last.Pending {
		return model.Message{}, false
	}
	return last, true
}

func printSourcesStderr(eng *engine.Engine, msg model.Message) {
	if msg.Role != model.RoleAssistant {
		return
	}
	sources, confidence := eng.Sources()
	if len(sources) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "sources (confidence %.2f):\n", confidence)
	for _, s := range sources {
		fmt.Fprintf(os.Stderr, "  - %s\n", s.Question)
	}
}
