// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine implements the chat engine.
package engine

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// SEGMENT SPLITTING
// =============================================================================

var whitespaceRun = regexp.MustCompile(`\s+`)

// SplitSegments splits text into alternating word and whitespace
// segments, preserving the whitespace runs, so that joining a prefix of
// the result reproduces the original text exactly up to that point.
func SplitSegments(text string) []string {
	if text == "" {
		return nil
	}

	var segs []string
	last := 0
	for _, loc := range whitespaceRun.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segs = append(segs, text[last:loc[0]])
		}
		segs = append(segs, text[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, text[last:])
	}
	return segs
}

// =============================================================================
// CANCELLABLE TASK HANDLE
// =============================================================================

// Task is the cancellation handle for one streaming operation, local or
// remote. It must be used as a pointer: the mutex guards access from
// both the starting goroutine and whatever later cancels it.
type Task struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newTask() (*Task, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	return &Task{cancel: cancel, done: make(chan struct{})}, ctx
}

// Cancel stops the operation. Safe to call repeatedly or after the
// operation has finished on its own.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Done returns a channel closed when the operation has fully stopped.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the operation has fully stopped.
func (t *Task) Wait() {
	<-t.done
}

func (t *Task) finish() {
	t.Cancel()
	close(t.done)
}

// =============================================================================
// TYPING SIMULATION
// =============================================================================

// streamReveal reveals answer into a fresh pending assistant message,
// one segment per tick. Cancellation stops at the current prefix and
// clears the pending flag; the revealed text stays.
func (e *Engine) streamReveal(ctx context.Context, task *Task, answer string) {
	defer task.finish()

	msg := e.log.StartStreamingAssistant()
	e.setStreaming(true)
	defer e.setStreaming(false)
	e.notify()

	segments := SplitSegments(answer)

	ticker := time.NewTicker(e.cfg.RevealInterval)
	defer ticker.Stop()

	for idx := 0; ; {
		select {
		case <-ctx.Done():
			e.log.FinalizeStreamingAssistant()
			e.notify()
			return

		case <-ticker.C:
			if idx >= len(segments) {
				e.log.FinalizeStreamingAssistant()
				e.notify()
				return
			}
			idx++
			prefix := strings.TrimSpace(strings.Join(segments[:idx], ""))
			e.log.UpdateContent(msg.ID, prefix)
			e.notify()
		}
	}
}
