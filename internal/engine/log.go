// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine implements the chat engine.
package engine

import (
	"sync"
	"time"

	"github.com/jeranaias/reportchat/internal/logger"
	"github.com/jeranaias/reportchat/internal/model"
)

// =============================================================================
// PERSISTENCE BOUNDARY
// =============================================================================

// Persister is the slice of the storage layer the log needs. The history
// key is supplied by the caller, derived from the active identity; the
// log itself has no notion of who the user is.
type Persister interface {
	LoadHistory(key string) ([]model.Message, error)
	SaveHistory(key string, msgs []model.Message) error
	ClearHistory(key string) error
}

// =============================================================================
// MESSAGE LOG
// =============================================================================

// Log is the ordered message log for one identity. It owns id assignment
// and enforces the single-pending-message invariant. Every mutation
// re-persists the full list under the log's history key; persistence
// failures are logged and swallowed, the in-memory list stays
// authoritative.
type Log struct {
	mu     sync.Mutex
	key    string
	store  Persister // nil means memory-only
	msgs   []model.Message
	nextID int
}

// NewLog creates a log for the given history key, hydrating from the
// store when one is provided.
func NewLog(store Persister, key string) *Log {
	l := &Log{key: key, store: store, nextID: 1}

	if store != nil {
		msgs, err := store.LoadHistory(key)
		if err != nil {
			logger.Warn("history hydration failed", "key", key, "error", err)
		}
		for _, m := range msgs {
			// A pending flag in stored history means the process died
			// mid-stream; whatever prefix was revealed is the content.
			m.Pending = false
			l.msgs = append(l.msgs, m)
			if m.ID >= l.nextID {
				l.nextID = m.ID + 1
			}
		}
	}

	return l
}

// Messages returns a snapshot copy of the log.
func (l *Log) Messages() []model.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

// AppendUser appends a user turn.
func (l *Log) AppendUser(content string) model.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(model.RoleUser, content, false)
}

// AddAssistant appends a completed assistant turn. With replacePending,
// an existing pending assistant message is completed in place with the
// given content instead.
func (l *Log) AddAssistant(content string, replacePending bool) model.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	if replacePending {
		if i := l.pendingIndexLocked(); i != -1 {
			l.msgs[i].Content = content
			l.msgs[i].Pending = false
			m := l.msgs[i]
			l.persistLocked()
			return m
		}
	}
	return l.appendLocked(model.RoleAssistant, content, false)
}

// StartStreamingAssistant appends an empty pending assistant message.
// Any previously pending message is finalized first, preserving the
// at-most-one-pending invariant.
func (l *Log) StartStreamingAssistant() model.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.pendingIndexLocked(); i != -1 {
		l.msgs[i].Pending = false
	}
	return l.appendLocked(model.RoleAssistant, "", true)
}

// UpdateLastAssistant sets (or with appendTo, extends) the content of the
// most recent assistant message, pending or not. Returns false without
// changing anything when no assistant message exists.
func (l *Log) UpdateLastAssistant(content string, appendTo bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.lastAssistantIndexLocked()
	if i == -1 {
		return false
	}
	if appendTo {
		l.msgs[i].Content += content
	} else {
		l.msgs[i].Content = content
	}
	l.persistLocked()
	return true
}

// UpdateContent rewrites the content of the message with the given id.
// Used by the typing simulation, which targets its own pending message
// by id so a concurrent delete cannot redirect the update.
func (l *Log) UpdateContent(id int, content string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.msgs {
		if l.msgs[i].ID == id {
			l.msgs[i].Content = content
			l.persistLocked()
			return true
		}
	}
	return false
}

// FinalizeStreamingAssistant clears the pending flag on the most recent
// assistant message. No-op when no assistant message exists.
func (l *Log) FinalizeStreamingAssistant() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.lastAssistantIndexLocked()
	if i == -1 {
		return false
	}
	l.msgs[i].Pending = false
	l.persistLocked()
	return true
}

// Delete removes one message by id.
func (l *Log) Delete(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.msgs {
		if l.msgs[i].ID == id {
			l.msgs = append(l.msgs[:i], l.msgs[i+1:]...)
			l.persistLocked()
			return true
		}
	}
	return false
}

// Clear empties the log and its persisted entry.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.msgs = nil
	if l.store != nil {
		if err := l.store.ClearHistory(l.key); err != nil {
			logger.Warn("history clear failed", "key", l.key, "error", err)
		}
	}
}

// LastUser returns the most recent user message.
func (l *Log) LastUser() (model.Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(l.msgs) - 1; i >= 0; i-- {
		if l.msgs[i].Role == model.RoleUser {
			return l.msgs[i], true
		}
	}
	return model.Message{}, false
}

// RemoveLastUser removes and returns the most recent user message.
func (l *Log) RemoveLastUser() (model.Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(l.msgs) - 1; i >= 0; i-- {
		if l.msgs[i].Role == model.RoleUser {
			m := l.msgs[i]
			l.msgs = append(l.msgs[:i], l.msgs[i+1:]...)
			l.persistLocked()
			return m, true
		}
	}
	return model.Message{}, false
}

// HasPending reports whether a pending assistant message exists.
func (l *Log) HasPending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pendingIndexLocked() != -1
}

// =============================================================================
// INTERNALS
// =============================================================================

func (l *Log) appendLocked(role model.Role, content string, pending bool) model.Message {
	m := model.Message{
		ID:        l.nextID,
		Role:      role,
		Content:   content,
		Pending:   pending,
		Timestamp: time.Now(),
	}
	l.nextID++
	l.msgs = append(l.msgs, m)
	l.persistLocked()
	return m
}

func (l *Log) pendingIndexLocked() int {
	for i := range l.msgs {
		if l.msgs[i].Pending && l.msgs[i].Role == model.RoleAssistant {
			return i
		}
	}
	return -1
}

func (l *Log) lastAssistantIndexLocked() int {
	for i := len(l.msgs) - 1; i >= 0; i-- {
		if l.msgs[i].Role == model.RoleAssistant {
			return i
		}
	}
	return -1
}

func (l *Log) persistLocked() {
	if l.store == nil {
		return
	}
	if err := l.store.SaveHistory(l.key, l.msgs); err != nil {
		logger.Warn("history persist failed", "key", l.key, "error", err)
	}
}
