// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the local chat identity.
//
// An identity is a locally generated pseudo-user: a random id plus a
// display name, email and theme preference. It partitions chat history
// (one message log per user id) and is offered to the remote service,
// which may hand back its own id for the same person; Reconcile adopts
// that id. None of this is an access-control mechanism, it only keys
// storage and remote sessions.
package session
