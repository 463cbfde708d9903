// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report holds the internship report corpus.
package report

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed data.toml
var embeddedCorpus []byte

// =============================================================================
// LOADING
// =============================================================================

// Default returns the corpus embedded in the binary.
// The embedded document is validated at build time by the package tests,
// so a decode failure here is a programming error.
func Default() *Data {
	var d Data
	if err := toml.Unmarshal(embeddedCorpus, &d); err != nil {
		panic(fmt.Sprintf("report: embedded corpus is invalid: %v", err))
	}
	return &d
}

// Load reads a corpus from a TOML file. An empty path returns the
// embedded default.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var d Data
	if err := toml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}

// Validate checks structural requirements on a loaded corpus.
func (d *Data) Validate() error {
	seen := make(map[int]bool, len(d.Assignments))
	for _, a := range d.Assignments {
		if a.ID <= 0 {
			return fmt.Errorf("assignment %q has invalid id %d", a.Title, a.ID)
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate assignment id %d", a.ID)
		}
		seen[a.ID] = true
	}

	for _, g := range d.Technologies {
		if g.Group == "" {
			return fmt.Errorf("technology group with empty name")
		}
	}

	for _, p := range d.Patterns {
		if p.Name == "" {
			return fmt.Errorf("pattern with empty name")
		}
	}

	return nil
}
