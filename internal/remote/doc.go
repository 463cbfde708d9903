// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package remote implements the bridge to the report chatbot backend.
//
// The backend is a small HTTP service exposing a health endpoint, a
// one-shot chat endpoint, and a Server-Sent-Events streaming endpoint.
// The bridge probes a list of candidate base URLs and talks to the
// first one that answers; when none do, the caller falls back to the
// local knowledge base.
//
// # Key Types
//
//   - Client: HTTP client bound to a probed base URL
//   - Reply: tagged union decoded from the /chat response body
//   - Event: typed frame from the /chat/stream SSE feed
//
// # Usage
//
//	client, err := remote.Probe(ctx, remote.DefaultCandidates, 2*time.Second)
//	if err != nil {
//		// backend unavailable, stay local
//	}
//	reply, err := client.Chat(ctx, "what is jwt", 3, userID)
package remote
