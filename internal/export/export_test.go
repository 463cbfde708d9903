// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/reportchat/internal/model"
)

func sampleTranscript() *Transcript {
	ts := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	return &Transcript{
		Title:     "Internship Q&A",
		UserName:  "Ada",
		UserEmail: "ada@example.com",
		Messages: []model.Message{
			{ID: 1, Role: model.RoleUser, Content: "what is dependency injection?", Timestamp: ts},
			{ID: 2, Role: model.RoleAssistant, Content: "**Dependency injection** passes collaborators in.\n\n```go\nfunc New(s Store) *Svc { return &Svc{s} }\n```", Timestamp: ts.Add(2 * time.Second)},
		},
	}
}

func TestForFormat(t *testing.T) {
	opts := DefaultOptions()

	md, err := ForFormat("md", opts)
	require.NoError(t, err)
	assert.Equal(t, ".md", md.FileExtension())

	mdAlias, err := ForFormat("markdown", opts)
	require.NoError(t, err)
	assert.Equal(t, ".md", mdAlias.FileExtension())

	js, err := ForFormat("json", opts)
	require.NoError(t, err)
	assert.Equal(t, "application/json", js.MimeType())

	ht, err := ForFormat("html", opts)
	require.NoError(t, err)
	assert.Equal(t, ".html", ht.FileExtension())

	_, err = ForFormat("pdf", opts)
	assert.Error(t, err)
}

func TestMarkdownExport(t *testing.T) {
	e := NewMarkdownExporter(DefaultOptions())
	data, err := e.Export(sampleTranscript())
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "title: Internship Q&A")
	assert.Contains(t, out, "user: Ada")
	assert.Contains(t, out, "# Internship Q&A")
	assert.Contains(t, out, "### You")
	assert.Contains(t, out, "### Assistant")
	assert.Contains(t, out, "what is dependency injection?")
	assert.Contains(t, out, "```go")
}

func TestMarkdownExportWithoutMetadata(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	e := NewMarkdownExporter(opts)
	data, err := e.Export(sampleTranscript())
	require.NoError(t, err)

	out := string(data)
	assert.NotContains(t, out, "---")
	assert.NotContains(t, out, "<sub>")
}

func TestMarkdownExportEmpty(t *testing.T) {
	e := NewMarkdownExporter(nil)
	_, err := e.Export(&Transcript{})
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestJSONExportRoundTrip(t *testing.T) {
	e := NewJSONExporter(DefaultOptions())
	data, err := e.Export(sampleTranscript())
	require.NoError(t, err)

	var decoded struct {
		Title    string          `json:"title"`
		UserName string          `json:"user_name"`
		Messages []model.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Internship Q&A", decoded.Title)
	assert.Equal(t, "Ada", decoded.UserName)
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, model.RoleAssistant, decoded.Messages[1].Role)
}

func TestJSONExportOmitsIdentityWithoutMetadata(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = false

	e := NewJSONExporter(opts)
	data, err := e.Export(sampleTranscript())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ada@example.com")
}

func TestHTMLExport(t *testing.T) {
	e := NewHTMLExporter(DefaultOptions())
	data, err := e.Export(sampleTranscript())
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>Internship Q&amp;A</title>")
	assert.Contains(t, out, "class=\"msg user\"")
	assert.Contains(t, out, "class=\"msg assistant\"")
	// Prose goes through the markdown renderer.
	assert.Contains(t, out, "<strong>Dependency injection</strong>")
	// Fenced code is highlighted into inline-styled spans, not left raw.
	assert.NotContains(t, out, "```go")
	assert.Contains(t, out, "func")
}

func TestHTMLExportLightTheme(t *testing.T) {
	opts := DefaultOptions()
	opts.Theme = "light"

	e := NewHTMLExporter(opts)
	data, err := e.Export(sampleTranscript())
	require.NoError(t, err)
	assert.Contains(t, string(data), "background: #ffffff")
}

func TestHTMLExportUnclosedFence(t *testing.T) {
	tr := &Transcript{
		Messages: []model.Message{
			{ID: 1, Role: model.RoleAssistant, Content: "```python\nprint('hi')", Timestamp: time.Now()},
		},
	}
	e := NewHTMLExporter(DefaultOptions())
	data, err := e.Export(tr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "print")
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	exporter := NewMarkdownExporter(opts)
	path, err := ToFile(sampleTranscript(), exporter, opts)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "chat_Internship_Q&A_"), base)
	assert.True(t, strings.HasSuffix(base, ".md"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "dependency injection")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple", "simple"},
		{"with spaces", "with_spaces"},
		{"a/b\\c:d", "a-b-c-d"},
		{"quotes\"and<angles>", "quotes-and-angles-"},
		{"", "chat"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
