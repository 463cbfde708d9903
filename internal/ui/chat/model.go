// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/reportchat/internal/engine"
	"github.com/jeranaias/reportchat/internal/session"
	"github.com/jeranaias/reportchat/internal/ui/components"
	"github.com/jeranaias/reportchat/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State represents the current screen of the chat UI.
type State int

const (
	StateIdentity State = iota // Collecting name/email on first run
	StateChat                  // Normal conversation screen
)

// =============================================================================
// MESSAGES
// =============================================================================

// EngineUpdatedMsg signals that the engine's visible state changed.
type EngineUpdatedMsg struct{}

// identityResultMsg carries the outcome of identity establishment.
type identityResultMsg struct {
	eng *engine.Engine
	id  session.Identity
	err error
}

// exportResultMsg carries the outcome of a conversation export.
type exportResultMsg struct {
	path string
	err  error
}

// statusExpireMsg clears a transient status message.
type statusExpireMsg struct {
	seq int
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the chat model to the rest of the application.
type Options struct {
	Theme    *styles.Theme
	Title    string
	Subtitle string

	// BackendConnected selects the mode indicator in the status bar.
	BackendConnected bool

	// Export settings.
	ExportDir    string
	ExportFormat string

	// Engine and Identity are set when an identity already exists.
	Engine      *engine.Engine
	Identity    session.Identity
	HasIdentity bool

	// Establish creates the identity and engine on first run. Required
	// when HasIdentity is false.
	Establish func(name, email string) (*engine.Engine, session.Identity, error)
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat UI.
type Model struct {
	opts  Options
	state State
	theme *styles.Theme
	keys  KeyMap

	// Dimensions
	width  int
	height int
	ready  bool

	// Engine wiring
	eng      *engine.Engine
	identity session.Identity
	updates  chan struct{}

	// Chat screen components
	viewport   viewport.Model
	input      textinput.Model
	spinner    components.Spinner
	statusBar  components.StatusBar
	welcome    components.Welcome
	completion components.CompletionPopup

	// Markdown rendering
	renderer *glamour.TermRenderer

	// Editing state: true while the input holds the last user message
	// for rewording.
	editing bool

	// Transient status handling
	statusSeq int

	// Identity gate inputs
	nameInput  textinput.Model
	emailInput textinput.Model
	gateFocus  int
	gateErr    string
}

// NewModel creates the chat model.
func NewModel(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	if opts.Title == "" {
		opts.Title = "reportchat"
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = "md"
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the internship report..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	nameInput := textinput.New()
	nameInput.Prompt = ""
	nameInput.Placeholder = "Your name"
	nameInput.CharLimit = 120
	nameInput.Focus()

	emailInput := textinput.New()
	emailInput.Prompt = ""
	emailInput.Placeholder = "you@example.com"
	emailInput.CharLimit = 254

	m := Model{
		opts:       opts,
		theme:      theme,
		keys:       DefaultKeyMap(),
		updates:    make(chan struct{}, 8),
		viewport:   vp,
		input:      ti,
		spinner:    components.NewSpinner(),
		statusBar:  components.NewStatusBar(theme),
		welcome:    components.NewWelcome(theme, opts.Title, opts.Subtitle),
		completion: components.NewCompletionPopup(theme),
		nameInput:  nameInput,
		emailInput: emailInput,
	}

	m.statusBar.SetBackendConnected(opts.BackendConnected)

	if opts.HasIdentity && opts.Engine != nil {
		m.state = StateChat
		m.adoptEngine(opts.Engine, opts.Identity)
	} else {
		m.state = StateIdentity
	}

	return m
}

// adoptEngine wires an engine into the model and hooks its update
// callback into the Bubble Tea loop.
func (m *Model) adoptEngine(eng *engine.Engine, id session.Identity) {
	m.eng = eng
	m.identity = id
	m.statusBar.SetUserName(id.Name)

	updates := m.updates
	eng.SetOnUpdate(func() {
		// Coalesce bursts; a pending signal is enough to trigger a
		// full redraw from the engine snapshot.
		select {
		case updates <- struct{}{}:
		default:
		}
	})
}

// waitForUpdate blocks until the engine signals a state change.
func (m Model) waitForUpdate() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		<-updates
		return EngineUpdatedMsg{}
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.state == StateChat {
		cmds = append(cmds, m.waitForUpdate())
	}
	return tea.Batch(cmds...)
}

// rebuildRenderer recreates the glamour renderer for the current width.
func (m *Model) rebuildRenderer() {
	wrap := m.width - 8
	if wrap < 20 {
		wrap = 20
	}
	styleName := "light"
	if m.theme.IsDark {
		styleName = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styleName),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = renderer
}

// renderMarkdown renders assistant markdown for the terminal, falling
// back to the raw text when the renderer is unavailable.
func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
