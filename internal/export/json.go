// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/reportchat/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts to JSON format.
type JSONExporter struct {
	opts *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{opts: opts}
}

// jsonTranscript is the serialized shape of an export.
type jsonTranscript struct {
	Title      string          `json:"title"`
	UserName   string          `json:"user_name,omitempty"`
	UserEmail  string          `json:"user_email,omitempty"`
	Created    *time.Time      `json:"created,omitempty"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []model.Message `json:"messages"`
}

// Export converts a transcript to indented JSON.
func (e *JSONExporter) Export(tr *Transcript) ([]byte, error) {
	if len(tr.Messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	out := jsonTranscript{
		Title:      tr.title(),
		ExportedAt: time.Now(),
		Messages:   tr.Messages,
	}
	if e.opts.IncludeMetadata {
		out.UserName = tr.UserName
		out.UserEmail = tr.UserEmail
		if created := tr.CreatedAt(); !created.IsZero() {
			out.Created = &created
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal transcript: %w", err)
	}
	return data, nil
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the JSON MIME type.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

var _ Exporter = (*JSONExporter)(nil)
