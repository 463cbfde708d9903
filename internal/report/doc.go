// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report holds the internship report corpus: the summary, the
// assignment log, the technology inventory and the pattern catalog that
// the chat engine answers questions about.
//
// The corpus is static data, embedded as TOML and loaded once at startup.
// A file override (--data) can point at an external TOML document, which
// may be watched for changes and hot-reloaded.
package report
