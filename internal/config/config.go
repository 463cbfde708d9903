// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/reportchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete reportchat configuration.
type Config struct {
	// Data is the path to an external corpus file; empty uses the
	// embedded corpus.
	Data string `toml:"data"`

	// Backend configuration
	Backend BackendConfig `toml:"backend"`

	// Stream configuration (local typing simulation)
	Stream StreamConfig `toml:"stream"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// BackendConfig contains remote answer backend configuration.
type BackendConfig struct {
	// Enabled controls whether the backend is probed at startup.
	Enabled bool `toml:"enabled"`
	// URL pins a single base URL, skipping candidate probing.
	URL string `toml:"url"`
	// Candidates are the base URLs probed in order when URL is empty.
	Candidates []string `toml:"candidates"`
	// ProbeTimeoutSecs bounds a single health probe.
	ProbeTimeoutSecs int `toml:"probe_timeout_secs"`
	// TopK is how many retrieval results to request per question.
	TopK int `toml:"top_k"`
	// UseStream selects SSE streaming over one-shot requests.
	UseStream bool `toml:"use_stream"`
}

// StreamConfig contains typing simulation configuration.
type StreamConfig struct {
	// IntervalMS is the tick between revealed segments, in
	// milliseconds. Clamped to 25-35.
	IntervalMS int `toml:"interval_ms"`
}

// StorageConfig contains persistence configuration.
type StorageConfig struct {
	// Dir is the directory holding the history database. Empty uses
	// the config directory.
	Dir string `toml:"dir"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowSources displays backend retrieval sources under answers
	ShowSources bool `toml:"show_sources"`
	// CompactMode uses a more compact layout
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Stream interval bounds, in milliseconds.
const (
	MinStreamIntervalMS = 25
	MaxStreamIntervalMS = 35
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Enabled: true,
			Candidates: []string{
				"http://localhost:8001",
				"http://127.0.0.1:8001",
				"http://localhost:8000",
				"http://127.0.0.1:8000",
			},
			ProbeTimeoutSecs: 2,
			TopK:             3,
			UseStream:        true,
		},

		Stream: StreamConfig{
			IntervalMS: MaxStreamIntervalMS,
		},

		UI: UIConfig{
			Theme:       "auto",
			ShowSources: false,
			CompactMode: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the reportchat configuration directory path.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine config directory: %w", err)
	}
	return filepath.Join(base, "reportchat"), nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file, falling back
// to defaults when none exists. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := decodeTOML(cfg, path); err != nil {
				loadErr = fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := decodeTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file atomically.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# reportchat configuration file")
	fmt.Fprintln(&buf, "")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies REPORTCHAT_* environment variables on top
// of the loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("REPORTCHAT_DATA"); v != "" {
		c.Data = v
	}
	if v := os.Getenv("REPORTCHAT_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("REPORTCHAT_BACKEND_DISABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Backend.Enabled = !b
		}
	}
	if v := os.Getenv("REPORTCHAT_STREAM_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Stream.IntervalMS = n
		}
	}
	if v := os.Getenv("REPORTCHAT_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("REPORTCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

// SetDefaults fills in missing values and clamps those with a fixed
// valid range.
func (c *Config) SetDefaults() {
	defaults := Default()

	if len(c.Backend.Candidates) == 0 {
		c.Backend.Candidates = defaults.Backend.Candidates
	}
	if c.Backend.ProbeTimeoutSecs <= 0 {
		c.Backend.ProbeTimeoutSecs = defaults.Backend.ProbeTimeoutSecs
	}
	if c.Backend.TopK <= 0 {
		c.Backend.TopK = defaults.Backend.TopK
	}

	if c.Stream.IntervalMS == 0 {
		c.Stream.IntervalMS = defaults.Stream.IntervalMS
	}
	if c.Stream.IntervalMS < MinStreamIntervalMS {
		c.Stream.IntervalMS = MinStreamIntervalMS
	}
	if c.Stream.IntervalMS > MaxStreamIntervalMS {
		c.Stream.IntervalMS = MaxStreamIntervalMS
	}

	if c.Storage.Dir == "" {
		if dir, err := Dir(); err == nil {
			c.Storage.Dir = dir
		}
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("invalid theme %q (want dark, light, or auto)", c.UI.Theme)
	}

	if c.Backend.URL != "" {
		if _, err := url.ParseRequestURI(c.Backend.URL); err != nil {
			return fmt.Errorf("invalid backend url %q: %w", c.Backend.URL, err)
		}
	}
	for _, candidate := range c.Backend.Candidates {
		if _, err := url.ParseRequestURI(candidate); err != nil {
			return fmt.Errorf("invalid backend candidate %q: %w", candidate, err)
		}
	}

	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// ProbeTimeout returns the health probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Backend.ProbeTimeoutSecs) * time.Second
}

// StreamInterval returns the typing simulation tick as a duration.
func (c *Config) StreamInterval() time.Duration {
	return time.Duration(c.Stream.IntervalMS) * time.Millisecond
}

// ProbeCandidates returns the effective candidate list: the pinned URL
// alone when set, the configured candidates otherwise.
func (c *Config) ProbeCandidates() []string {
	if c.Backend.URL != "" {
		return []string{c.Backend.URL}
	}
	return c.Backend.Candidates
}
