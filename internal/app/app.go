// Package app wires the editor's independently-built packages (reducer,
// term, config, input/{mode,keymap}, lsp, historyfile) into one runnable
// process: it owns the terminal, the effect-dispatch worker, the config
// file watcher, and the per-document history log, none of which the
// reducer package is allowed to know about directly.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zcode-editor/zcode/internal/buffer"
	"github.com/zcode-editor/zcode/internal/config"
	"github.com/zcode-editor/zcode/internal/input/key"
	"github.com/zcode-editor/zcode/internal/input/keymap"
	"github.com/zcode-editor/zcode/internal/input/mode"
	"github.com/zcode-editor/zcode/internal/reducer"
	"github.com/zcode-editor/zcode/internal/term"
	"github.com/zcode-editor/zcode/internal/zlog"
)

// ErrQuit is returned by Run when the editor exited normally (the user
// quit), as opposed to a setup or I/O failure.
var ErrQuit = errors.New("app: quit")

// shutdownTimeout bounds how long Shutdown waits for running language
// servers to respond to the LSP "shutdown" request before moving on.
const shutdownTimeout = 2 * time.Second

// Options configures a new Application, set from command-line flags.
type Options struct {
	ConfigPath    string
	WorkspacePath string
	Debug         bool
	LogLevel      string
	ReadOnly      bool
	Files         []string
}

// inboundCapacity bounds the channel async effect results are fed back
// through, per spec.md §5's back-pressure figure: a language server that
// answers faster than the UI thread drains replies blocks on Request
// rather than growing memory without limit.
const inboundCapacity = 1024

// Application owns every long-lived piece of a running editor process.
type Application struct {
	opts Options
	log  *zlog.Logger

	term *term.Terminal

	cfg *config.Manager

	state  *reducer.State
	modes  *mode.Manager
	keys   *keymap.Registry
	loop   *reducer.Loop
	worker *worker
	lsp    *sessionPool
	hist   *historySync

	inbound chan reducer.Action
}

// New constructs an Application from opts but does not yet touch the
// terminal; call Run to start the editor.
func New(opts Options) (*Application, error) {
	level := parseLevel(opts.LogLevel)
	log := zlog.New(zlog.Config{Level: level, Output: os.Stderr, Component: "zcode"})

	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		p, err := config.Path()
		if err != nil {
			return nil, fmt.Errorf("app: resolve config path: %w", err)
		}
		cfgPath = p
	}
	cfgMgr, err := config.NewManager(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("app: create config manager: %w", err)
	}
	cfgMgr.Start()

	modes := mode.NewManager()
	modes.Register(mode.NewNormalMode())
	modes.Register(mode.NewCompletionMode())
	modes.Register(mode.NewDialogMode())
	modes.Register(mode.NewCommandPaletteMode())
	if err := modes.SetInitialMode(mode.ModeNormal); err != nil {
		return nil, fmt.Errorf("app: set initial mode: %w", err)
	}

	keys := keymap.NewRegistry()
	if err := keymap.LoadDefaults(keys); err != nil {
		return nil, fmt.Errorf("app: load default keymaps: %w", err)
	}
	if err := applyUserKeybindings(keys, cfgMgr.Current()); err != nil {
		log.WithField("error", err.Error()).Warn("ignoring invalid user keybindings")
	}

	histDir, err := historyDir()
	if err != nil {
		return nil, fmt.Errorf("app: resolve history dir: %w", err)
	}

	a := &Application{
		opts:    opts,
		log:     log,
		cfg:     cfgMgr,
		modes:   modes,
		keys:    keys,
		hist:    newHistorySync(histDir),
		inbound: make(chan reducer.Action, inboundCapacity),
	}
	a.lsp = newSessionPool(cfgMgr, log, a.onDiagnostics)

	cfgMgr.Notifier().Subscribe(a.onConfigChange)

	return a, nil
}

// onDiagnostics routes a textDocument/publishDiagnostics notification
// into the reducer as a low-priority inbound action. Diagnostics are
// background traffic per spec.md §4.7's priority-channel split, and
// Document state may only be touched from the UI thread, so this crosses
// the same async boundary as a worker reply rather than mutating state
// directly from the LSP session's read-loop goroutine.
func (a *Application) onDiagnostics(path string, count int) {
	a.submitInbound(reducer.Action{
		Name:     reducer.ActionDiagnostics,
		Args:     map[string]any{"path": path, "count": count},
		Priority: reducer.PriorityLow,
	})
}

// onConfigChange re-derives the keymap registry whenever the config file
// changes on disk, so a user edit takes effect without a restart.
func (a *Application) onConfigChange(change config.Change) {
	if change.Type != config.ChangeReload || change.Config == nil {
		return
	}
	if err := applyUserKeybindings(a.keys, change.Config); err != nil {
		a.log.WithField("error", err.Error()).Warn("ignoring invalid user keybindings after reload")
	}
}

func applyUserKeybindings(keys *keymap.Registry, cfg *config.Config) error {
	if cfg == nil || len(cfg.Keybindings) == 0 {
		return nil
	}
	km := keymap.NewKeymap("user").WithSource("user").WithPriority(100)
	for _, kb := range cfg.Keybindings {
		if _, err := key.ParseSequence(kb.Key); err != nil {
			return fmt.Errorf("keybinding %q: %w", kb.Key, err)
		}
		km.Add(kb.Key, kb.Command)
	}
	keys.Unregister("user")
	return keys.Register(km)
}

// Run opens the terminal, loads any files named on the command line, and
// drives the reducer loop until the user quits or the terminal fails.
func (a *Application) Run() error {
	t, err := term.New()
	if err != nil {
		return fmt.Errorf("app: create terminal: %w", err)
	}
	if err := t.Init(); err != nil {
		return fmt.Errorf("app: init terminal: %w", err)
	}
	a.term = t

	width, height := t.Size()
	a.state = reducer.NewState(width, height)
	a.state.WorkspaceRoot = a.opts.WorkspacePath
	a.state.ReadOnly = a.opts.ReadOnly

	for _, path := range a.opts.Files {
		a.openFileAtStartup(path)
	}

	a.worker = newWorker(a.state, a.lsp, a.submitInbound, a.hist.forget)

	renderer := newTextRenderer(t)
	a.loop = reducer.NewLoop(a.state, a.modes, a.keys, t, renderer, a.inbound)
	a.loop.Dispatch = a.worker.Dispatch

	for a.tick() {
	}
	return ErrQuit
}

// tick runs one Loop.Tick and syncs the on-disk history log afterward;
// history-syncing lives outside Loop because it is app-level bookkeeping
// the reducer package itself has no business knowing about.
func (a *Application) tick() bool {
	more := a.loop.Tick()
	a.hist.afterTick(a.state)
	return more
}

// inboundDropGrace is the window spec.md §5 gives a low-priority inbound
// send before it is dropped rather than delivered.
const inboundDropGrace = 50 * time.Millisecond

// submitInbound implements spec.md §5's two-tier back-pressure policy for
// the async inbound channel: high-priority traffic (request replies)
// blocks until the loop drains it, while low-priority traffic (log
// lines, progress, background LSP replies) is given a short grace period
// and then dropped so a slow consumer can't stall workers indefinitely.
func (a *Application) submitInbound(action reducer.Action) {
	if action.Priority == reducer.PriorityLow {
		select {
		case a.inbound <- action:
		case <-time.After(inboundDropGrace):
			a.log.Warn("dropping low-priority inbound action: channel full")
		}
		return
	}
	a.inbound <- action
}

func (a *Application) openFileAtStartup(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if !os.IsNotExist(err) {
			a.log.WithField("error", err.Error()).Warn("failed to read file")
			return
		}
		data = nil
	}
	buf := buffer.NewBufferFromString(string(data), buffer.WithPath(abs), buffer.WithDetectedLineEnding(string(data)))
	buf.MarkSaved()
	a.state.AddDocument(reducer.NewDocument(buf))
}

// Shutdown releases the terminal, config watcher, and any running
// language servers. Safe to call more than once and before Run if setup
// failed partway.
func (a *Application) Shutdown() {
	if a.term != nil {
		a.term.Shutdown()
		a.term = nil
	}
	a.cfg.Stop()
	if a.lsp != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		a.lsp.shutdownAll(ctx)
		cancel()
	}
	if a.hist != nil {
		a.hist.closeAll()
	}
}

func parseLevel(s string) zlog.Level {
	switch s {
	case "debug":
		return zlog.LevelDebug
	case "warn":
		return zlog.LevelWarn
	case "error":
		return zlog.LevelError
	default:
		return zlog.LevelInfo
	}
}
