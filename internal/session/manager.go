// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the local chat identity.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNoIdentity is returned when an operation requires an identity and
// none has been established yet.
var ErrNoIdentity = errors.New("no identity established")

// =============================================================================
// IDENTITY
// =============================================================================

// Identity is a locally generated pseudo-user. UserID keys chat history
// and remote sessions; Name and Email are cosmetic.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Theme  string `json:"theme,omitempty"`
}

// New creates an identity with a fresh random user id.
func New(name, email string) Identity {
	return Identity{
		UserID: uuid.NewString(),
		Name:   strings.TrimSpace(name),
		Email:  strings.TrimSpace(email),
	}
}

// HistoryKey derives the storage key for this identity's message log.
// Pure function of the identity value.
func (i Identity) HistoryKey() string {
	if i.UserID == "" {
		return "chat-history-default"
	}
	return "chat-history-" + i.UserID
}

// =============================================================================
// MANAGER
// =============================================================================

// Store persists the identity record between runs.
type Store interface {
	LoadIdentity() (*Identity, error)
	SaveIdentity(Identity) error
}

// Manager owns the current identity. It is handed explicitly to the
// engine and storage layers; nothing reads identity from ambient state.
type Manager struct {
	mu      sync.Mutex
	store   Store
	current *Identity
}

// NewManager creates a manager backed by the given store. A load failure
// is treated as "no identity yet"; the store stays usable for saves.
func NewManager(store Store) *Manager {
	m := &Manager{store: store}
	if id, err := store.LoadIdentity(); err == nil && id != nil && id.UserID != "" {
		m.current = id
	}
	return m
}

// Current returns the active identity, if one exists.
func (m *Manager) Current() (Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Identity{}, false
	}
	return *m.current, true
}

// Ensure returns the active identity, creating and persisting a new one
// from the given name and email if none exists yet.
func (m *Manager) Ensure(name, email string) Identity {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return *m.current
	}

	id := New(name, email)
	m.current = &id
	// Persistence failures are swallowed; the in-memory identity is
	// authoritative for this session.
	_ = m.store.SaveIdentity(id)
	return id
}

// Reconcile adopts a server-assigned user id for the current identity.
// No-op when the id is empty or unchanged.
func (m *Manager) Reconcile(serverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoIdentity
	}
	if serverID == "" || serverID == m.current.UserID {
		return nil
	}

	m.current.UserID = serverID
	return m.store.SaveIdentity(*m.current)
}

// SetTheme records the theme preference on the identity.
func (m *Manager) SetTheme(theme string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoIdentity
	}
	m.current.Theme = theme
	return m.store.SaveIdentity(*m.current)
}
