// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/reportchat/internal/model"
	"github.com/jeranaias/reportchat/internal/session"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleLog(n int) []model.Message {
	msgs := make([]model.Message, n)
	base := time.Now().Add(-time.Hour)
	for i := range msgs {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msgs[i] = model.Message{
			ID:        i + 1,
			Role:      role,
			Content:   fmt.Sprintf("message %d", i+1),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
	}
	return msgs
}

// =============================================================================
// IDENTITY
// =============================================================================

func TestIdentity_RoundTrip(t *testing.T) {
	s := testStore(t)

	id, err := s.LoadIdentity()
	require.NoError(t, err)
	assert.Nil(t, id, "fresh store has no identity")

	in := session.Identity{UserID: "u1", Name: "Ada", Email: "ada@example.com", Theme: "dark"}
	require.NoError(t, s.SaveIdentity(in))

	out, err := s.LoadIdentity()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}

func TestIdentity_Upsert(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.SaveIdentity(session.Identity{UserID: "a"}))
	require.NoError(t, s.SaveIdentity(session.Identity{UserID: "b", Theme: "light"}))

	out, err := s.LoadIdentity()
	require.NoError(t, err)
	assert.Equal(t, "b", out.UserID)
	assert.Equal(t, "light", out.Theme)
}

// =============================================================================
// HISTORY
// =============================================================================

func TestHistory_RoundTrip(t *testing.T) {
	s := testStore(t)
	in := sampleLog(10)

	require.NoError(t, s.SaveHistory("chat-history-u1", in))

	out, err := s.LoadHistory("chat-history-u1")
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Role, out[i].Role)
		assert.Equal(t, in[i].Content, out[i].Content)
		assert.Equal(t, in[i].Pending, out[i].Pending)
		assert.True(t, in[i].Timestamp.Equal(out[i].Timestamp))
	}
}

func TestHistory_CapOnLoad(t *testing.T) {
	s := testStore(t)
	in := sampleLog(HistoryCap + 50)

	require.NoError(t, s.SaveHistory("k", in))

	out, err := s.LoadHistory("k")
	require.NoError(t, err)
	require.Len(t, out, HistoryCap)

	// The most recent entries survive, oldest first.
	assert.Equal(t, in[50].ID, out[0].ID)
	assert.Equal(t, in[len(in)-1].ID, out[len(out)-1].ID)
}

func TestHistory_KeysArePartitioned(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.SaveHistory("chat-history-a", sampleLog(3)))
	require.NoError(t, s.SaveHistory("chat-history-b", sampleLog(5)))

	a, err := s.LoadHistory("chat-history-a")
	require.NoError(t, err)
	b, err := s.LoadHistory("chat-history-b")
	require.NoError(t, err)

	assert.Len(t, a, 3)
	assert.Len(t, b, 5)
}

func TestHistory_SaveReplaces(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.SaveHistory("k", sampleLog(8)))
	require.NoError(t, s.SaveHistory("k", sampleLog(2)))

	out, err := s.LoadHistory("k")
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestHistory_Clear(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.SaveHistory("k", sampleLog(4)))
	require.NoError(t, s.ClearHistory("k"))

	out, err := s.LoadHistory("k")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHistory_EmptyKey(t *testing.T) {
	s := testStore(t)
	out, err := s.LoadHistory("never-written")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStore_Closed(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Close())

	_, err := s.LoadHistory("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.SaveHistory("k", nil), ErrClosed)
	assert.ErrorIs(t, s.SaveIdentity(session.Identity{}), ErrClosed)
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.SaveHistory("k", sampleLog(3)))
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	out, err := s2.LoadHistory("k")
	require.NoError(t, err)
	assert.Len(t, out, 3)
}
