// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine implements the chat engine: the ordered message log,
// the typing simulation that reveals local answers token by token, and
// the orchestration that routes each input through commands, the
// conversational classifier, local retrieval or the remote bridge.
//
// # Control flow
//
// Send routes input in this order: slash command, greeting, small talk,
// then either the remote bridge (when a backend was detected) or local
// retrieval plus composition. Locally composed answers are revealed
// through a cancellable typing simulation; remote answers arrive either
// whole or as a token stream feeding the same pending message.
//
// # Concurrency
//
// At most one streaming operation (local reveal or remote stream) is
// active at a time; starting a new Send cancels the previous one through
// its task handle. The message log serializes all mutation and persists
// after every change.
package engine
