// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat state between runs.
//
// A single SQLite database (history.db) holds the identity record and one
// message log per history key. Logs are written whole on every engine
// mutation and capped to the most recent 200 entries on load.
//
// # Key Types
//
//   - Store: SQLite-backed store for identity and message history
//
// # Usage
//
//	store, err := storage.Open(dir)
//	msgs, err := store.LoadHistory(identity.HistoryKey())
//	err = store.SaveHistory(identity.HistoryKey(), msgs)
//
// Storage failures are never fatal to the chat session: callers log and
// continue with in-memory state.
package storage
