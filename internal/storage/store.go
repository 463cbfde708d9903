// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat state between runs.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/reportchat/internal/model"
	"github.com/jeranaias/reportchat/internal/session"
)

// HistoryCap is the maximum number of messages restored per history key.
// Writes are not truncated; the cap applies on load so an over-long log
// self-heals on the next save.
const HistoryCap = 200

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: store is closed")

const schema = `
CREATE TABLE IF NOT EXISTS identity (
	id      INTEGER PRIMARY KEY CHECK (id = 1),
	user_id TEXT NOT NULL,
	name    TEXT NOT NULL DEFAULT '',
	email   TEXT NOT NULL DEFAULT '',
	theme   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS messages (
	history_key TEXT    NOT NULL,
	seq         INTEGER NOT NULL,
	msg_id      INTEGER NOT NULL,
	role        TEXT    NOT NULL,
	content     TEXT    NOT NULL,
	pending     INTEGER NOT NULL DEFAULT 0,
	ts_nanos    INTEGER NOT NULL,
	PRIMARY KEY (history_key, seq)
);

CREATE INDEX IF NOT EXISTS idx_messages_key ON messages(history_key);
`

// =============================================================================
// STORE
// =============================================================================

// Store is the SQLite-backed persistence layer.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	path := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer; the engine serializes persistence anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// =============================================================================
// IDENTITY
// =============================================================================

// LoadIdentity returns the stored identity, or (nil, nil) when none has
// been saved yet.
func (s *Store) LoadIdentity() (*session.Identity, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	var id session.Identity
	err := s.db.QueryRow(
		`SELECT user_id, name, email, theme FROM identity WHERE id = 1`,
	).Scan(&id.UserID, &id.Name, &id.Email, &id.Theme)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}
	return &id, nil
}

// SaveIdentity upserts the single identity record.
func (s *Store) SaveIdentity(id session.Identity) error {
	if s.db == nil {
		return ErrClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO identity (id, user_id, name, email, theme)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name    = excluded.name,
			email   = excluded.email,
			theme   = excluded.theme
	`, id.UserID, id.Name, id.Email, id.Theme)
	if err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}
	return nil
}

// =============================================================================
// MESSAGE HISTORY
// =============================================================================

// LoadHistory returns the message log for a history key, oldest first,
// capped to the most recent HistoryCap entries.
func (s *Store) LoadHistory(key string) ([]model.Message, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.Query(`
		SELECT msg_id, role, content, pending, ts_nanos
		FROM messages
		WHERE history_key = ?
		ORDER BY seq DESC
		LIMIT ?
	`, key, HistoryCap)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		var pending int
		var nanos int64
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &pending, &nanos); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Pending = pending != 0
		m.Timestamp = time.Unix(0, nanos)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	// The query walks newest-first to apply the cap; flip back.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// SaveHistory replaces the full message log for a history key in one
// transaction.
func (s *Store) SaveHistory(key string, msgs []model.Message) error {
	if s.db == nil {
		return ErrClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE history_key = ?`, key); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO messages (history_key, seq, msg_id, role, content, pending, ts_nanos)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for seq, m := range msgs {
		pending := 0
		if m.Pending {
			pending = 1
		}
		if _, err := stmt.Exec(key, seq, m.ID, string(m.Role), m.Content, pending, m.Timestamp.UnixNano()); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}

	return tx.Commit()
}

// ClearHistory removes the message log for a history key.
func (s *Store) ClearHistory(key string) error {
	if s.db == nil {
		return ErrClosed
	}
	_, err := s.db.Exec(`DELETE FROM messages WHERE history_key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
