// reportchat - chat with an internship report from your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/reportchat/internal/cli"
	"github.com/jeranaias/reportchat/internal/config"
	"github.com/jeranaias/reportchat/internal/engine"
	"github.com/jeranaias/reportchat/internal/logger"
	"github.com/jeranaias/reportchat/internal/remote"
	"github.com/jeranaias/reportchat/internal/report"
	"github.com/jeranaias/reportchat/internal/session"
	"github.com/jeranaias/reportchat/internal/storage"
	"github.com/jeranaias/reportchat/internal/ui/chat"
	"github.com/jeranaias/reportchat/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdHelp:
		cli.HandleHelp()
		return
	case cli.CmdVersion:
		cli.HandleVersion()
		return
	}

	app, err := bootstrap(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.close()

	switch cmd {
	case cli.CmdAsk:
		err = runAsk(app, args)
	case cli.CmdChat:
		err = runREPL(app, args)
	case cli.CmdExport:
		err = runExport(app, args)
	default:
		err = runTUI(app, args)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

// app holds the ingredients every command shares.
type app struct {
	cfg      *config.Config
	store    *storage.Store
	data     *report.Data
	dataPath string // non-empty when the corpus came from a file
	sessions *session.Manager
}

func bootstrap(args cli.Args) (*app, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		// A broken config file falls back to defaults; say so once.
		if cfg == nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	if err := config.EnsureDir(); err != nil {
		return nil, fmt.Errorf("prepare config directory: %w", err)
	}
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(filepath.Join(dir, "reportchat.log"), args.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	storageDir := cfg.Storage.Dir
	if storageDir == "" {
		storageDir = dir
	}
	store, err := storage.Open(storageDir)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	dataPath := args.DataPath
	if dataPath == "" {
		dataPath = cfg.Data
	}
	data := report.Default()
	if dataPath != "" {
		data, err = report.Load(dataPath)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("load corpus %s: %w", dataPath, err)
		}
	}

	return &app{
		cfg:      cfg,
		store:    store,
		data:     data,
		dataPath: dataPath,
		sessions: session.NewManager(store),
	}, nil
}

func (a *app) close() {
	a.store.Close()
	logger.Sync()
}

// newEngine builds an engine over the identity's persisted history.
func (a *app) newEngine(identity session.Identity) *engine.Engine {
	log := engine.NewLog(a.store, identity.HistoryKey())
	return engine.New(a.data, log, engine.Config{
		RevealInterval: a.cfg.StreamInterval(),
		TopK:           a.cfg.Backend.TopK,
		UseStream:      a.cfg.Backend.UseStream,
	})
}

// attachBackend probes for a reachable backend and wires it to the
// engine. Returns true when a backend answered the health check.
func (a *app) attachBackend(args cli.Args, eng *engine.Engine, identity session.Identity) bool {
	if args.Local || !a.cfg.Backend.Enabled {
		return false
	}
	if args.Backend != "" {
		a.cfg.Backend.URL = args.Backend
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := remote.Probe(ctx, a.cfg.ProbeCandidates(), a.cfg.ProbeTimeout())
	if err != nil {
		logger.Info("no backend reachable, answering locally", "error", err)
		return false
	}
	logger.Info("backend attached", "base", client.Base())

	// Let the server assign or confirm the user id before tagging
	// requests with it.
	if serverID, err := client.SessionInit(ctx, identity.Name, identity.Email); err == nil {
		if err := a.sessions.Reconcile(serverID); err == nil {
			if current, ok := a.sessions.Current(); ok {
				identity = current
			}
		}
	}

	eng.SetBridge(client, identity.UserID)
	return true
}

// watchCorpus hot-reloads a file-backed corpus into the engine. Returns
// nil when the corpus is embedded.
func (a *app) watchCorpus(eng *engine.Engine) *report.Watcher {
	if a.dataPath == "" {
		return nil
	}
	w, err := report.NewWatcher(a.dataPath, 500*time.Millisecond, func(d *report.Data) {
		eng.SwapData(d)
	})
	if err != nil {
		logger.Warn("corpus watch unavailable", "error", err)
		return nil
	}
	if err := w.Watch(); err != nil {
		logger.Warn("corpus watch unavailable", "error", err)
		w.Close()
		return nil
	}
	return w
}

// identityFor resolves the identity for non-TUI commands, which have no
// interactive gate. Flags can seed a fresh identity.
func (a *app) identityFor(args cli.Args) (session.Identity, error) {
	if id, ok := a.sessions.Current(); ok {
		return id, nil
	}
	if args.Name != "" {
		return a.sessions.Ensure(args.Name, args.Email), nil
	}
	return session.Identity{}, fmt.Errorf("no identity yet; run the TUI once or pass --name (and --email)")
}

// =============================================================================
// COMMAND RUNNERS
// =============================================================================

func runAsk(a *app, args cli.Args) error {
	identity, err := a.identityFor(args)
	if err != nil {
		return err
	}
	eng := a.newEngine(identity)
	a.attachBackend(args, eng, identity)
	return cli.RunAsk(eng, args.Query)
}

func runREPL(a *app, args cli.Args) error {
	identity, err := a.identityFor(args)
	if err != nil {
		return err
	}
	eng := a.newEngine(identity)
	a.attachBackend(args, eng, identity)
	if w := a.watchCorpus(eng); w != nil {
		defer w.Close()
	}

	repl, err := cli.NewREPL(eng, identity)
	if err != nil {
		return err
	}
	defer repl.Close()
	return repl.Run()
}

func runExport(a *app, args cli.Args) error {
	identity, err := a.identityFor(args)
	if err != nil {
		return err
	}
	return cli.RunExport(a.store, identity, args)
}

func runTUI(a *app, args cli.Args) error {
	theme := styles.NewTheme(a.cfg.UI.Theme)

	opts := chat.Options{
		Theme:        theme,
		Title:        "reportchat",
		Subtitle:     "internship report Q&A",
		ExportDir:    args.OutDir,
		ExportFormat: args.Format,
	}

	var watcher *report.Watcher
	adopt := func(identity session.Identity) *engine.Engine {
		eng := a.newEngine(identity)
		opts.BackendConnected = a.attachBackend(args, eng, identity)
		watcher = a.watchCorpus(eng)
		return eng
	}

	if identity, ok := a.sessions.Current(); ok {
		opts.Engine = adopt(identity)
		opts.Identity = identity
		opts.HasIdentity = true
	} else if args.Name != "" {
		identity := a.sessions.Ensure(args.Name, args.Email)
		opts.Engine = adopt(identity)
		opts.Identity = identity
		opts.HasIdentity = true
	} else {
		// First run: the TUI collects name and email, then calls back
		// here to build the engine.
		opts.Establish = func(name, email string) (*engine.Engine, session.Identity, error) {
			identity := a.sessions.Ensure(name, email)
			return adopt(identity), identity, nil
		}
	}
	defer func() {
		if watcher != nil {
			watcher.Close()
		}
	}()

	p := tea.NewProgram(
		chat.NewModel(opts),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
