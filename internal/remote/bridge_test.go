// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbePicksFirstHealthy(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer dead.Close()

	alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer alive.Close()

	client, err := Probe(context.Background(), []string{"http://127.0.0.1:1", dead.URL, alive.URL}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, alive.URL, client.Base())
}

func TestProbeNoneHealthy(t *testing.T) {
	_, err := Probe(context.Background(), []string{"http://127.0.0.1:1"}, 500*time.Millisecond)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestChatMarkdownReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		var payload chatPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "what is jwt", payload.Question)
		assert.Equal(t, 3, payload.TopK)
		assert.Equal(t, "u-1", payload.UserID)

		json.NewEncoder(w).Encode(map[string]any{
			"answer":   "JWT is a signed token.",
			"markdown": "**Answer:** JWT is a signed token.",
			"results": []map[string]any{
				{"question": "What is JWT?", "score": 0.91},
				{"question": "How does auth work?", "score": 0.42},
			},
		})
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL).Chat(context.Background(), "what is jwt", 3, "u-1")
	require.NoError(t, err)
	assert.Equal(t, ReplyMarkdown, reply.Kind)
	assert.Equal(t, "**Answer:** JWT is a signed token.", reply.Text)
	require.Len(t, reply.Sources, 2)
	assert.Equal(t, "What is JWT?", reply.Sources[0].Question)
	assert.InDelta(t, 0.91, reply.Confidence, 1e-9)
}

func TestChatAnswerAndMessageReplies(t *testing.T) {
	bodies := []map[string]any{
		{"answer": "plain answer"},
		{"message": "No confident match. Please rephrase or try a more specific question.", "results": []any{}},
	}
	var call int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(bodies[call])
		call++
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	reply, err := client.Chat(context.Background(), "q", 3, "")
	require.NoError(t, err)
	assert.Equal(t, ReplyAnswer, reply.Kind)
	assert.Equal(t, "plain answer", reply.Text)
	assert.Empty(t, reply.Sources)

	reply, err = client.Chat(context.Background(), "q", 3, "")
	require.NoError(t, err)
	assert.Equal(t, ReplyMessage, reply.Kind)
	assert.Contains(t, reply.Text, "No confident match")
}

func TestChatEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Chat(context.Background(), "q", 3, "")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestChatStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Chat(context.Background(), "q", 3, "")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
}

func TestSessionInit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/session/init", r.URL.Path)
		var payload sessionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Ada", payload.Name)
		assert.Equal(t, "ada@example.com", payload.Email)
		json.NewEncoder(w).Encode(map[string]string{"user_id": "abc123", "name": "Ada"})
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL).SessionInit(context.Background(), "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
}
