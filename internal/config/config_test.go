// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Backend.Enabled)
	assert.Len(t, cfg.Backend.Candidates, 4)
	assert.Equal(t, "http://localhost:8001", cfg.Backend.Candidates[0])
	assert.Equal(t, 3, cfg.Backend.TopK)
	assert.True(t, cfg.Backend.UseStream)
	assert.Equal(t, MaxStreamIntervalMS, cfg.Stream.IntervalMS)
	assert.Equal(t, "auto", cfg.UI.Theme)

	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
data = "/tmp/corpus.toml"

[backend]
enabled = false
url = "http://localhost:9999"
top_k = 5

[stream]
interval_ms = 28

[storage]
dir = "/tmp/reportchat"

[ui]
theme = "dark"
show_sources = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/corpus.toml", cfg.Data)
	assert.False(t, cfg.Backend.Enabled)
	assert.Equal(t, "http://localhost:9999", cfg.Backend.URL)
	assert.Equal(t, 5, cfg.Backend.TopK)
	assert.Equal(t, 28, cfg.Stream.IntervalMS)
	assert.Equal(t, "/tmp/reportchat", cfg.Storage.Dir)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.True(t, cfg.UI.ShowSources)

	// Unspecified values keep defaults.
	assert.Len(t, cfg.Backend.Candidates, 4)
	assert.Equal(t, 2, cfg.Backend.ProbeTimeoutSecs)
}

func TestLoadFromPathMissing(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestSetDefaultsClampsInterval(t *testing.T) {
	cfg := &Config{Stream: StreamConfig{IntervalMS: 5}}
	cfg.SetDefaults()
	assert.Equal(t, MinStreamIntervalMS, cfg.Stream.IntervalMS)

	cfg = &Config{Stream: StreamConfig{IntervalMS: 500}}
	cfg.SetDefaults()
	assert.Equal(t, MaxStreamIntervalMS, cfg.Stream.IntervalMS)

	cfg = &Config{}
	cfg.SetDefaults()
	assert.Equal(t, MaxStreamIntervalMS, cfg.Stream.IntervalMS)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	cfg.UI.Theme = "neon"
	assert.Error(t, cfg.Validate())
	cfg.UI.Theme = "light"
	require.NoError(t, cfg.Validate())

	cfg.Backend.URL = "not a url"
	assert.Error(t, cfg.Validate())
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("REPORTCHAT_BACKEND_URL", "http://localhost:7777")
	t.Setenv("REPORTCHAT_BACKEND_DISABLED", "true")
	t.Setenv("REPORTCHAT_STREAM_INTERVAL_MS", "26")
	t.Setenv("REPORTCHAT_THEME", "light")
	t.Setenv("REPORTCHAT_DATA", "/tmp/data.toml")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()

	assert.Equal(t, "http://localhost:7777", cfg.Backend.URL)
	assert.False(t, cfg.Backend.Enabled)
	assert.Equal(t, 26, cfg.Stream.IntervalMS)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "/tmp/data.toml", cfg.Data)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.UI.Theme = "dark"
	cfg.Backend.TopK = 7
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.UI.Theme)
	assert.Equal(t, 7, loaded.Backend.TopK)
}

func TestDerivedValues(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout())
	assert.Equal(t, 35*time.Millisecond, cfg.StreamInterval())

	assert.Len(t, cfg.ProbeCandidates(), 4)
	cfg.Backend.URL = "http://localhost:9999"
	assert.Equal(t, []string{"http://localhost:9999"}, cfg.ProbeCandidates())
}
