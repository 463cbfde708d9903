// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/reportchat/internal/engine"
	"github.com/jeranaias/reportchat/internal/model"
	"github.com/jeranaias/reportchat/internal/report"
	"github.com/jeranaias/reportchat/internal/session"
	"github.com/jeranaias/reportchat/internal/storage"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		cmd  Command
		want func(t *testing.T, args Args)
	}{
		{
			name: "no args defaults to TUI",
			raw:  nil,
			cmd:  CmdTUI,
		},
		{
			name: "plain flag selects the REPL",
			raw:  []string{"--plain"},
			cmd:  CmdChat,
		},
		{
			name: "chat command",
			raw:  []string{"chat", "--local"},
			cmd:  CmdChat,
			want: func(t *testing.T, args Args) {
				assert.True(t, args.Local)
			},
		},
		{
			name: "ask joins the question words",
			raw:  []string{"ask", "what", "did", "you", "build"},
			cmd:  CmdAsk,
			want: func(t *testing.T, args Args) {
				assert.Equal(t, "what did you build", args.Query)
			},
		},
		{
			name: "bare words become an ask",
			raw:  []string{"which", "stack"},
			cmd:  CmdAsk,
			want: func(t *testing.T, args Args) {
				assert.Equal(t, "which stack", args.Query)
			},
		},
		{
			name: "export with format and out dir",
			raw:  []string{"export", "--format=html", "--out", "/tmp/x"},
			cmd:  CmdExport,
			want: func(t *testing.T, args Args) {
				assert.Equal(t, "html", args.Format)
				assert.Equal(t, "/tmp/x", args.OutDir)
			},
		},
		{
			name: "backend pin and identity flags",
			raw:  []string{"--backend", "http://localhost:9000", "--name", "Ada", "--email", "ada@example.com"},
			cmd:  CmdTUI,
			want: func(t *testing.T, args Args) {
				assert.Equal(t, "http://localhost:9000", args.Backend)
				assert.Equal(t, "Ada", args.Name)
				assert.Equal(t, "ada@example.com", args.Email)
			},
		},
		{
			name: "version word",
			raw:  []string{"version"},
			cmd:  CmdVersion,
		},
		{
			name: "help flag",
			raw:  []string{"--help"},
			cmd:  CmdHelp,
		},
		{
			name: "unknown flag falls back to help",
			raw:  []string{"--frobnicate"},
			cmd:  CmdHelp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.raw)
			assert.Equal(t, tt.cmd, cmd)
			if tt.want != nil {
				tt.want(t, args)
			}
		})
	}
}

func newTestEngine() *engine.Engine {
	return engine.New(report.Default(), engine.NewLog(nil, "cli-test"), engine.Config{})
}

func TestLastSettledCommandReply(t *testing.T) {
	eng := newTestEngine()

	_, ok := lastSettled(eng)
	assert.False(t, ok, "empty log has no settled reply")

	eng.Send("/help")
	msg, ok := lastSettled(eng)
	require.True(t, ok)
	assert.Equal(t, model.RoleAssistant, msg.Role)
	assert.Contains(t, msg.Content, "Available commands:")
}

func TestLastSettledWaitsOutStreaming(t *testing.T) {
	eng := newTestEngine()
	eng.Send("what technologies were used")

	deadline := time.Now().Add(5 * time.Second)
	for {
		if msg, ok := lastSettled(eng); ok {
			assert.Equal(t, model.RoleAssistant, msg.Role)
			assert.NotEmpty(t, msg.Content)
			return
		}
		require.True(t, time.Now().Before(deadline), "answer never settled")
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunAskRejectsEmptyQuery(t *testing.T) {
	err := RunAsk(newTestEngine(), "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a question")
}

func TestRunExport(t *testing.T) {
	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	identity := session.Identity{UserID: "u1", Name: "Ada", Email: "ada@example.com"}
	now := time.Now()
	history := []model.Message{
		{ID: 1, Role: model.RoleUser, Content: "what was the hardest part", Timestamp: now},
		{ID: 2, Role: model.RoleAssistant, Content: "State management across widgets.", Timestamp: now},
	}
	require.NoError(t, store.SaveHistory(identity.HistoryKey(), history))

	outDir := t.TempDir()
	err = RunExport(store, identity, Args{Format: "md", OutDir: outDir})
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".md"))

	data, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "State management across widgets.")
}

func TestRunExportEmptyHistory(t *testing.T) {
	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	identity := session.Identity{UserID: "nobody"}
	err = RunExport(store, identity, Args{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conversation stored")
}
