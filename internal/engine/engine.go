// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/reportchat/internal/classify"
	"github.com/jeranaias/reportchat/internal/commands"
	"github.com/jeranaias/reportchat/internal/compose"
	"github.com/jeranaias/reportchat/internal/index"
	"github.com/jeranaias/reportchat/internal/logger"
	"github.com/jeranaias/reportchat/internal/model"
	"github.com/jeranaias/reportchat/internal/remote"
	"github.com/jeranaias/reportchat/internal/report"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Reveal interval bounds for the local typing simulation.
const (
	MinRevealInterval     = 25 * time.Millisecond
	MaxRevealInterval     = 35 * time.Millisecond
	DefaultRevealInterval = 35 * time.Millisecond
)

const (
	// DefaultLocalLimit is how many results local answers draw on.
	DefaultLocalLimit = 2

	// DefaultTopK is how many results are requested from the backend.
	DefaultTopK = 3
)

// Config tunes engine behavior. The zero value is usable; Normalize
// fills in defaults and clamps the reveal interval.
type Config struct {
	// RevealInterval is the tick between revealed segments.
	RevealInterval time.Duration

	// LocalLimit caps retrieval results for locally composed answers.
	LocalLimit int

	// TopK caps retrieval results requested from the backend.
	TopK int

	// UseStream selects SSE streaming over one-shot requests when a
	// backend is attached.
	UseStream bool
}

// Normalize returns a copy with defaults applied and the reveal
// interval clamped to its supported range.
func (c Config) Normalize() Config {
	if c.RevealInterval == 0 {
		c.RevealInterval = DefaultRevealInterval
	}
	if c.RevealInterval < MinRevealInterval {
		c.RevealInterval = MinRevealInterval
	}
	if c.RevealInterval > MaxRevealInterval {
		c.RevealInterval = MaxRevealInterval
	}
	if c.LocalLimit <= 0 {
		c.LocalLimit = DefaultLocalLimit
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	return c
}

// =============================================================================
// BRIDGE BOUNDARY
// =============================================================================

// Bridge is the slice of the remote client the engine uses.
type Bridge interface {
	Chat(ctx context.Context, question string, topK int, userID string) (*remote.Reply, error)
	Stream(ctx context.Context, question string, topK int, userID string) (<-chan remote.Event, error)
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine routes user input through commands, classification, retrieval,
// and answer delivery. At most one answer is in flight at a time: a new
// Send cancels and waits out the previous delivery before starting.
type Engine struct {
	mu         sync.Mutex
	cfg        Config
	data       *report.Data
	idx        *index.Index
	log        *Log
	registry   *commands.Registry
	bridge     Bridge
	userID     string
	onUpdate   func()
	active     *Task
	streaming  bool
	sources    []model.Source
	confidence float64
}

// New creates an engine over the given corpus and message log.
func New(data *report.Data, log *Log, cfg Config) *Engine {
	return &Engine{
		cfg:      cfg.Normalize(),
		data:     data,
		idx:      index.Build(data),
		log:      log,
		registry: commands.NewRegistry(),
	}
}

// SetBridge attaches (or with nil, detaches) a backend bridge. The
// userID tags backend requests for per-user history.
func (e *Engine) SetBridge(b Bridge, userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bridge = b
	e.userID = userID
}

// SetOnUpdate registers a callback invoked after every visible state
// change. Must be set before the first Send; the callback runs on the
// delivery goroutine and must not call back into the engine.
func (e *Engine) SetOnUpdate(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = fn
}

// SetUseStream toggles SSE streaming for backend requests.
func (e *Engine) SetUseStream(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.UseStream = on
}

// SwapData replaces the corpus and rebuilds the search index. Used by
// corpus hot reload.
func (e *Engine) SwapData(data *report.Data) {
	idx := index.Build(data)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data = data
	e.idx = idx
}

// Log exposes the underlying message log.
func (e *Engine) Log() *Log {
	return e.log
}

// Registry exposes the slash-command registry, e.g. for completion.
func (e *Engine) Registry() *commands.Registry {
	return e.registry
}

// Messages returns a snapshot of the conversation.
func (e *Engine) Messages() []model.Message {
	return e.log.Messages()
}

// Streaming reports whether an answer is currently being delivered.
func (e *Engine) Streaming() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streaming
}

// Sources returns the retrieval sources and confidence reported by the
// backend for the most recent answer.
func (e *Engine) Sources() ([]model.Source, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Source, len(e.sources))
	copy(out, e.sources)
	return out, e.confidence
}

// =============================================================================
// SEND PIPELINE
// =============================================================================

// Send routes one user input. Empty input is ignored. Any in-flight
// delivery is cancelled first, keeping whatever prefix it revealed.
func (e *Engine) Send(content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return
	}

	e.cancelActive()

	e.log.AppendUser(trimmed)
	e.notify()

	// Slash commands are interpreted locally even when a backend is
	// attached; unknown commands fall through to the question path.
	if reply, handled := e.registry.Execute(e.commandContext(), trimmed); handled {
		e.log.AddAssistant(reply, false)
		e.notify()
		return
	}

	e.mu.Lock()
	bridge := e.bridge
	userID := e.userID
	useStream := e.cfg.UseStream
	e.mu.Unlock()

	if bridge != nil {
		if useStream {
			e.startTask(func(ctx context.Context, task *Task) {
				e.runRemoteStream(ctx, task, bridge, trimmed, userID)
			})
		} else {
			e.startTask(func(ctx context.Context, task *Task) {
				e.runRemoteChat(ctx, task, bridge, trimmed, userID)
			})
		}
		return
	}

	e.sendLocal(trimmed)
}

// sendLocal answers from the embedded knowledge base.
func (e *Engine) sendLocal(trimmed string) {
	if classify.IsGreeting(trimmed) {
		e.log.AddAssistant(compose.Greeting(), false)
		e.notify()
		return
	}
	if classify.IsConversational(trimmed) {
		e.log.AddAssistant(compose.Conversational(), false)
		e.notify()
		return
	}

	e.mu.Lock()
	idx := e.idx
	limit := e.cfg.LocalLimit
	e.mu.Unlock()

	results := idx.Retrieve(trimmed, limit)
	if len(results) == 0 {
		// No-match guidance is delivered instantly, not streamed.
		e.log.AddAssistant(compose.NoMatch(trimmed), false)
		e.notify()
		return
	}

	answer := compose.Answer(trimmed, results)
	e.startTask(func(ctx context.Context, task *Task) {
		e.streamReveal(ctx, task, answer)
	})
}

// RetryLast re-sends the most recent user message, marked as a
// rephrase. No-op when no user message exists.
func (e *Engine) RetryLast() {
	if last, ok := e.log.LastUser(); ok {
		e.Send(last.Content + " (rephrase)")
	}
}

// EditLastUser removes the most recent user message and sends the
// replacement through the full pipeline.
func (e *Engine) EditLastUser(newContent string) {
	e.cancelActive()
	e.log.RemoveLastUser()
	e.notify()
	e.Send(newContent)
}

// Abort cancels any in-flight delivery, keeping the revealed prefix.
func (e *Engine) Abort() {
	e.cancelActive()
}

// Clear cancels any in-flight delivery and wipes the conversation.
func (e *Engine) Clear() {
	e.cancelActive()
	e.log.Clear()
	e.setSources(nil, 0)
	e.notify()
}

// Delete removes one message by id.
func (e *Engine) Delete(id int) bool {
	ok := e.log.Delete(id)
	if ok {
		e.notify()
	}
	return ok
}

// =============================================================================
// REMOTE DELIVERY
// =============================================================================

// runRemoteStream consumes the backend SSE feed into a pending
// assistant message. Token events carry the accumulated prefix, so each
// one overwrites the message content.
func (e *Engine) runRemoteStream(ctx context.Context, task *Task, bridge Bridge, question, userID string) {
	defer task.finish()

	e.mu.Lock()
	topK := e.cfg.TopK
	e.mu.Unlock()

	events, err := bridge.Stream(ctx, question, topK, userID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn("backend stream failed", "error", err)
		e.log.AddAssistant(compose.BackendError(), false)
		e.notify()
		return
	}

	// The pending message exists only once the stream is open; a
	// setup failure leaves no assistant turn behind.
	msg := e.log.StartStreamingAssistant()
	e.setStreaming(true)
	defer e.setStreaming(false)
	e.notify()

	hadTokens := false
	for ev := range events {
		switch ev.Type {
		case remote.EventMeta:
			e.setSources(ev.Sources, ev.Confidence)
			e.notify()
		case remote.EventToken:
			hadTokens = true
			e.log.UpdateContent(msg.ID, ev.Text)
			e.notify()
		case remote.EventDone:
			if !hadTokens {
				fallback := ev.Message
				if fallback == "" {
					fallback = compose.NoConfidentMatch()
				}
				e.log.UpdateContent(msg.ID, fallback)
			}
		case remote.EventError:
			logger.Warn("backend stream error", "error", ev.Err)
			if !hadTokens {
				e.log.UpdateContent(msg.ID, compose.BackendError())
			}
		}
	}

	e.log.FinalizeStreamingAssistant()
	e.notify()
}

// runRemoteChat performs a one-shot backend request.
func (e *Engine) runRemoteChat(ctx context.Context, task *Task, bridge Bridge, question, userID string) {
	defer task.finish()

	e.mu.Lock()
	topK := e.cfg.TopK
	e.mu.Unlock()

	reply, err := bridge.Chat(ctx, question, topK, userID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn("backend chat failed", "error", err)
		e.log.AddAssistant(compose.BackendError(), false)
		e.notify()
		return
	}

	if reply.Kind == remote.ReplyMarkdown {
		e.setSources(reply.Sources, reply.Confidence)
	}
	e.log.AddAssistant(reply.Text, false)
	e.notify()
}

// =============================================================================
// INTERNALS
// =============================================================================

func (e *Engine) commandContext() *commands.Context {
	e.mu.Lock()
	data := e.data
	e.mu.Unlock()
	return &commands.Context{
		Data:    data,
		History: e.log.Messages,
		Clear:   e.log.Clear,
	}
}

// startTask registers a new delivery task and runs it on its own
// goroutine.
func (e *Engine) startTask(run func(ctx context.Context, task *Task)) {
	task, ctx := newTask()
	e.mu.Lock()
	e.active = task
	e.mu.Unlock()
	go run(ctx, task)
}

// cancelActive cancels the in-flight delivery, if any, and waits for
// its goroutine to fully stop so log updates cannot interleave.
func (e *Engine) cancelActive() {
	e.mu.Lock()
	task := e.active
	e.active = nil
	e.mu.Unlock()

	if task != nil {
		task.Cancel()
		task.Wait()
	}
}

func (e *Engine) setStreaming(on bool) {
	e.mu.Lock()
	e.streaming = on
	e.mu.Unlock()
}

func (e *Engine) setSources(sources []model.Source, confidence float64) {
	e.mu.Lock()
	e.sources = sources
	e.confidence = confidence
	e.mu.Unlock()
}

func (e *Engine) notify() {
	e.mu.Lock()
	fn := e.onUpdate
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}
