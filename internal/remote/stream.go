// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package remote

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jeranaias/reportchat/internal/model"
)

// =============================================================================
// STREAM EVENTS
// =============================================================================

// EventType discriminates frames on the /chat/stream SSE feed.
type EventType int

const (
	// EventMeta carries retrieval sources and confidence, sent before tokens.
	EventMeta EventType = iota
	// EventToken carries the answer text revealed so far.
	EventToken
	// EventDone signals the end of the stream, optionally with a fallback
	// message when no tokens were sent.
	EventDone
	// EventError reports a transport failure mid-stream.
	EventError
)

// Event is a typed frame decoded from the SSE feed.
//
// Token events carry the accumulated answer prefix in Text, not the
// individual delta: consumers can write Text over the pending message
// as-is. Done events may carry Message when the backend found no match.
type Event struct {
	Type       EventType
	Sources    []model.Source
	Confidence float64
	Text       string
	Message    string
	Err        error
}

// wireEvent mirrors the raw JSON payload of a single SSE frame.
type wireEvent struct {
	Event      string         `json:"event"`
	Sources    []model.Source `json:"sources"`
	Confidence float64        `json:"confidence"`
	Text       string         `json:"text"`
	Message    string         `json:"message"`
}

// =============================================================================
// SSE READER
// =============================================================================

// sseReader parses Server-Sent Events frames from a stream.
type sseReader struct {
	reader *bufio.Reader
}

func newSSEReader(r io.Reader) *sseReader {
	return &sseReader{reader: bufio.NewReader(r)}
}

// readData reads lines until an empty line terminates the frame and
// returns the joined data payload. Returns io.EOF when the stream ends.
func (s *sseReader) readData() ([]byte, error) {
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				if len(dataLines) > 0 {
					return bytes.Join(dataLines, []byte("\n")), nil
				}
				return nil, io.EOF
			}
			return nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Empty line signals end of frame.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		if bytes.HasPrefix(line, []byte("data:")) {
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
		// Ignore other fields (event:, id:, retry:, comments).
	}
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// Stream opens the /chat/stream SSE feed for a question and returns a
// channel of typed events. The channel is closed after a done frame,
// on stream end, or when ctx is cancelled. Malformed frames are
// dropped; transport failures surface as a final EventError.
func (c *Client) Stream(ctx context.Context, question string, topK int, userID string) (<-chan Event, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(chatPayload{Question: question, TopK: topK, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/chat/stream", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer resp.Body.Close()

		var answer strings.Builder
		reader := newSSEReader(resp.Body)

		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			data, err := reader.readData()
			if err != nil {
				if err == io.EOF || ctx.Err() != nil {
					return
				}
				emit(Event{Type: EventError, Err: fmt.Errorf("read error: %w", err)})
				return
			}

			var wire wireEvent
			if err := json.Unmarshal(data, &wire); err != nil {
				// Skip malformed frames.
				continue
			}

			switch wire.Event {
			case "meta":
				if !emit(Event{Type: EventMeta, Sources: wire.Sources, Confidence: wire.Confidence}) {
					return
				}
			case "token":
				answer.WriteString(wire.Text)
				if !emit(Event{Type: EventToken, Text: answer.String()}) {
					return
				}
			case "done":
				emit(Event{Type: EventDone, Message: wire.Message, Text: answer.String()})
				return
			}
		}
	}()

	return events, nil
}
