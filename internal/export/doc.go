// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides conversation export functionality.
// Supports exporting transcripts to Markdown, JSON, and standalone
// HTML with syntax-highlighted code blocks.
//
// # Key Types
//
//   - Transcript: a conversation plus identity metadata
//   - Exporter: format-specific export implementation
//   - Options: output directory, metadata, theme
//
// # Usage
//
//	exporter, err := export.ForFormat("md", opts)
//	path, err := export.ToFile(transcript, exporter, opts)
package export
