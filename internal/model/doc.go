// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the core chat domain types.
//
// # Key Types
//
//   - Message: one chat turn with role, content, pending flag and timestamp
//   - Role: message role enumeration (user, assistant; system is reserved)
//   - Source: ranked source metadata attached to remote answers
//
// Messages are value types; the engine's message log owns identity
// assignment and all mutation rules.
package model
