// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_EmbeddedCorpusParses(t *testing.T) {
	d := Default()

	require.NotNil(t, d)
	assert.NotEmpty(t, d.Summary.Introduction)
	assert.Equal(t, "IMI Games", d.Summary.Company)
	assert.Len(t, d.Assignments, 63)
	assert.Len(t, d.Patterns, 10)
	require.NotEmpty(t, d.Technologies)
}

func TestDefault_TechnologyGroupOrder(t *testing.T) {
	d := Default()

	// Group order is declaration order; listings depend on it.
	assert.Equal(t, "language", d.Technologies[0].Group)
	assert.Equal(t, "framework", d.Technologies[1].Group)
	assert.Contains(t, d.Technologies[1].Items, "React (functional components & hooks)")
}

func TestAssignmentByID(t *testing.T) {
	d := Default()

	a := d.AssignmentByID("12")
	require.NotNil(t, a)
	assert.Equal(t, "Session vs Persistent Auth", a.Title)

	assert.Nil(t, d.AssignmentByID("999"))
	assert.Nil(t, d.AssignmentByID("twelve"))
	assert.Nil(t, d.AssignmentByID(""))
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	assert.Len(t, d.Assignments, 63)
}

func TestLoad_ExternalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.toml")
	doc := `
[summary]
introduction = "A short test corpus."

[[assignment]]
id = 1
title = "Only Assignment"
concepts = ["testing"]
logic = "Minimal."
learning = "Minimal."

[[technology]]
group = "language"
items = ["Go"]

[[pattern]]
name = "Test Pattern"
description = "A pattern."
snippet = "x := 1"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "A short test corpus.", d.Summary.Introduction)
	assert.Len(t, d.Assignments, 1)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate_DuplicateID(t *testing.T) {
	d := &Data{
		Assignments: []Assignment{
			{ID: 1, Title: "a"},
			{ID: 1, Title: "b"},
		},
	}
	assert.Error(t, d.Validate())
}

func TestValidate_InvalidID(t *testing.T) {
	d := &Data{Assignments: []Assignment{{ID: 0, Title: "a"}}}
	assert.Error(t, d.Validate())
}
