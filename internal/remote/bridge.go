// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/reportchat/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// DefaultCandidates are the base URLs probed when no explicit backend
// address is configured. Order matters: the first healthy one wins.
var DefaultCandidates = []string{
	"http://localhost:8001",
	"http://127.0.0.1:8001",
	"http://localhost:8000",
	"http://127.0.0.1:8000",
}

const (
	// DefaultProbeTimeout bounds a single /health request during probing.
	DefaultProbeTimeout = 2 * time.Second

	// DefaultChatTimeout bounds a one-shot /chat request.
	DefaultChatTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed /chat response body size.
	MaxResponseSize = 4 * 1024 * 1024
)

// Error variables for common bridge failures.
var (
	// ErrUnavailable indicates no candidate backend answered the health probe.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrEmptyReply indicates the backend answered /chat with none of the
	// recognized payload fields.
	ErrEmptyReply = errors.New("backend reply carried no content")
)

// StatusError represents a non-OK HTTP status from the backend.
type StatusError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// =============================================================================
// REPLY UNION
// =============================================================================

// ReplyKind discriminates the shape of a /chat response.
type ReplyKind int

const (
	// ReplyMarkdown is a markdown-formatted answer with retrieval results.
	ReplyMarkdown ReplyKind = iota
	// ReplyAnswer is a plain-text answer without formatting.
	ReplyAnswer
	// ReplyMessage is an informational notice, typically a no-match message.
	ReplyMessage
)

// Reply is the decoded /chat response. Exactly one textual variant is
// populated; Kind names which. Sources and Confidence are only
// meaningful for ReplyMarkdown.
type Reply struct {
	Kind       ReplyKind
	Text       string
	Sources    []model.Source
	Confidence float64
}

// wireReply mirrors the raw JSON body. The backend may populate any
// combination of fields; precedence is markdown, then answer, then
// message.
type wireReply struct {
	Markdown string         `json:"markdown"`
	Answer   string         `json:"answer"`
	Message  string         `json:"message"`
	Results  []model.Source `json:"results"`
}

// resolve collapses the wire shape into the tagged union.
func (w *wireReply) resolve() (*Reply, error) {
	switch {
	case w.Markdown != "":
		r := &Reply{Kind: ReplyMarkdown, Text: w.Markdown, Sources: w.Results}
		if len(w.Results) > 0 {
			r.Confidence = w.Results[0].Score
		}
		return r, nil
	case w.Answer != "":
		return &Reply{Kind: ReplyAnswer, Text: w.Answer}, nil
	case w.Message != "":
		return &Reply{Kind: ReplyMessage, Text: w.Message}, nil
	}
	return nil, ErrEmptyReply
}

// =============================================================================
// CLIENT
// =============================================================================

// chatPayload is the request body for /chat and /chat/stream.
type chatPayload struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
	UserID   string `json:"user_id,omitempty"`
}

// Client talks to one probed backend base URL.
type Client struct {
	base    string
	http    *http.Client
	stream  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client for the given base URL without probing it.
func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: DefaultChatTimeout},
		// Streaming requests have no overall timeout, cancellation is
		// context-controlled.
		stream:  &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(4), 8),
	}
}

// Base returns the base URL this client is bound to.
func (c *Client) Base() string {
	return c.base
}

// Probe tries each candidate base URL in order and returns a client
// bound to the first one whose /health endpoint answers 200 within
// timeout. Returns ErrUnavailable when none do.
func Probe(ctx context.Context, candidates []string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	probe := &http.Client{Timeout: timeout}
	for _, base := range candidates {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
		if err != nil {
			continue
		}
		resp, err := probe.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return NewClient(base), nil
		}
	}
	return nil, ErrUnavailable
}

// Chat sends a one-shot question and decodes the tagged reply.
func (c *Client) Chat(ctx context.Context, question string, topK int, userID string) (*Reply, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(chatPayload{Question: question, TopK: topK, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}

	var wire wireReply
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode reply: %w", err)
	}
	return wire.resolve()
}

// =============================================================================
// SESSION
// =============================================================================

// sessionPayload is the request body for /session/init.
type sessionPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// sessionReply is the response body for /session/init.
type sessionReply struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// SessionInit registers the identity with the backend and returns the
// server-assigned user id, which may differ from the local one.
func (c *Client) SessionInit(ctx context.Context, name, email string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(sessionPayload{Name: name, Email: email})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/session/init", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}

	var reply sessionReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", fmt.Errorf("failed to decode reply: %w", err)
	}
	return reply.UserID, nil
}
