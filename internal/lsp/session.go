package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zcode-editor/zcode/internal/rpc"
	"github.com/zcode-editor/zcode/internal/zlog"
)

// State is the lifecycle state of a Session.
type State int32

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateCrashed
	StateRestarting
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateCrashed:
		return "crashed"
	case StateRestarting:
		return "restarting"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// BackoffConfig bounds the exponential backoff applied between respawn
// attempts after a crash.
type BackoffConfig struct {
	Initial time.Duration
	Max     time.Duration
}

// DefaultBackoffConfig matches spec.md §4.7: start at 500ms, cap at 30s,
// doubling each attempt.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{Initial: 500 * time.Millisecond, Max: 30 * time.Second}
}

func (b BackoffConfig) delay(attempt int) time.Duration {
	if attempt <= 1 {
		return b.Initial
	}
	d := b.Initial
	for i := 1; i < attempt && d < b.Max; i++ {
		d *= 2
	}
	if d > b.Max {
		d = b.Max
	}
	return d
}

// Config configures a Session.
type Config struct {
	LanguageID string
	RootPath   string
	Command    string
	Args       []string

	// Spawner defaults to a real OS subprocess spawner; tests supply a
	// fake.
	Spawner Spawner
	Log     *zlog.Logger
	Backoff BackoffConfig

	// OnDiagnostics is invoked synchronously from the read loop for
	// each textDocument/publishDiagnostics notification.
	OnDiagnostics func(uri string, diagnostics json.RawMessage)

	// OnServerRequest handles a server-initiated request (e.g.
	// workspace/applyEdit, window/showMessageRequest). If nil, or if it
	// returns an error, the session replies MethodNotFound / the
	// returned error.
	OnServerRequest func(method string, params json.RawMessage) (result any, err error)
}

// pendingCall tracks one outstanding request awaiting a response.
type pendingCall struct {
	replyCh chan reply
	timer   *time.Timer
}

type reply struct {
	result json.RawMessage
	err    error
}

type queued struct {
	msg      rpc.Message
	priority priority
}

// Session supervises one language server for a (language, root path)
// pair, per spec.md §4.7.
type Session struct {
	cfg Config
	log *zlog.Logger

	state atomic.Int32

	mu     sync.Mutex
	proc   Process
	writer *rpc.Writer

	capMu            sync.RWMutex
	capabilities     Capability
	positionEncoding string

	nextID  atomic.Int64
	pendMu  sync.Mutex
	pending map[int64]*pendingCall

	highQ chan queued
	lowQ  chan queued

	logMessages chan json.RawMessage

	docs docTracker

	restartCount int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewSession creates a Session. Call Start to spawn the server.
func NewSession(cfg Config) *Session {
	if cfg.Spawner == nil {
		cfg.Spawner = execSpawner{}
	}
	if cfg.Log == nil {
		cfg.Log = zlog.NullLogger
	}
	if cfg.Backoff == (BackoffConfig{}) {
		cfg.Backoff = DefaultBackoffConfig()
	}
	s := &Session{
		cfg:              cfg,
		log:              cfg.Log.WithField("languageId", cfg.LanguageID),
		pending:          make(map[int64]*pendingCall),
		highQ:            make(chan queued, 64),
		lowQ:             make(chan queued, 256),
		logMessages:      make(chan json.RawMessage, 64),
		positionEncoding: defaultPositionEncoding,
	}
	s.docs.init()
	s.state.Store(int32(StateIdle))
	return s
}

// State returns the session's current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Capabilities returns the capability bitmask negotiated at initialize.
func (s *Session) Capabilities() Capability {
	s.capMu.RLock()
	defer s.capMu.RUnlock()
	return s.capabilities
}

// LogMessages returns the channel server log/progress notifications are
// delivered on; reading it is optional and it is bounded, so a slow or
// absent consumer never blocks the read loop.
func (s *Session) LogMessages() <-chan json.RawMessage { return s.logMessages }

// Start spawns the server, performs the initialize/initialized
// handshake, and begins the read/write/monitor loops.
func (s *Session) Start(parent context.Context) error {
	if State(s.state.Load()) != StateIdle {
		return ErrAlreadyStarted
	}
	s.ctx, s.cancel = context.WithCancel(parent)
	s.state.Store(int32(StateStarting))

	if err := s.spawnAndHandshake(s.ctx); err != nil {
		s.state.Store(int32(StateStopped))
		s.cancel()
		return err
	}

	s.state.Store(int32(StateRunning))
	go s.writeLoop()
	go s.monitor()
	return nil
}

// spawnAndHandshake starts the process and blocks for the
// initialize/initialized exchange.
func (s *Session) spawnAndHandshake(ctx context.Context) error {
	proc, err := s.cfg.Spawner.Spawn(ctx, s.cfg.Command, s.cfg.Args, s.cfg.RootPath)
	if err != nil {
		return fmt.Errorf("lsp: spawn %s: %w", s.cfg.LanguageID, err)
	}

	reader := rpc.NewReader(proc.Stdout(), s.log)
	s.mu.Lock()
	s.proc = proc
	s.writer = rpc.NewWriter(proc.Stdin())
	s.mu.Unlock()

	go s.readLoop(reader)

	initID := s.nextID.Add(1)
	initMsg, err := rpc.NewRequest(initID, "initialize", initializeParams(s.cfg.RootPath))
	if err != nil {
		return err
	}
	replyCh := make(chan reply, 1)
	s.registerPending(initID, replyCh, 10*time.Second)
	if err := s.writer.Write(initMsg); err != nil {
		_ = proc.Kill()
		return fmt.Errorf("lsp: send initialize: %w", err)
	}

	r := <-replyCh
	if r.err != nil {
		_ = proc.Kill()
		return fmt.Errorf("lsp: initialize: %w", r.err)
	}
	caps, encoding := parseServerCapabilities(r.result)
	s.capMu.Lock()
	s.capabilities = caps
	s.positionEncoding = encoding
	s.capMu.Unlock()

	initializedMsg, err := rpc.NewNotification("initialized", map[string]any{})
	if err != nil {
		return err
	}
	return s.writer.Write(initializedMsg)
}

func initializeParams(rootPath string) map[string]any {
	uri := FilePathToURI(rootPath)
	return map[string]any{
		"processId":    nil,
		"rootUri":      uri,
		"rootPath":     rootPath,
		"capabilities": clientCapabilities(),
		"workspaceFolders": []map[string]any{
			{"uri": uri, "name": rootPath},
		},
	}
}

// monitor waits for the server process to exit and, unless the session
// was deliberately stopped, runs the crash/backoff/resync loop.
func (s *Session) monitor() {
	for {
		s.mu.Lock()
		proc := s.proc
		s.mu.Unlock()
		if proc == nil {
			return
		}

		waitErr := make(chan error, 1)
		go func() { waitErr <- proc.Wait() }()

		select {
		case <-s.ctx.Done():
			return
		case err := <-waitErr:
			if !s.handleCrash(err) {
				return
			}
		}
	}
}

// handleCrash fails pending requests and retries spawning a replacement
// server with exponential backoff, for as long as the session isn't
// being stopped; spec.md §4.7 bounds only the backoff delay, not the
// attempt count, so this loops internally rather than bouncing back
// through monitor's proc.Wait() — a respawn attempt whose process
// failed to even start must not hand a stale, already-waited *Process
// back to monitor. It returns false once the session has been stopped.
func (s *Session) handleCrash(exitErr error) bool {
	if State(s.state.Load()) == StateShuttingDown || State(s.state.Load()) == StateStopped {
		return false
	}

	s.log.Warn("lsp: server exited: %v", exitErr)
	s.state.Store(int32(StateCrashed))
	s.failAllPending(ErrDisconnected)

	for {
		s.mu.Lock()
		s.restartCount++
		attempt := s.restartCount
		s.mu.Unlock()

		delay := s.cfg.Backoff.delay(attempt)
		s.state.Store(int32(StateRestarting))

		select {
		case <-s.ctx.Done():
			return false
		case <-time.After(delay):
		}

		if State(s.state.Load()) == StateStopped {
			return false
		}

		if err := s.spawnAndHandshake(s.ctx); err != nil {
			s.log.Warn("lsp: respawn attempt %d failed: %v", attempt, err)
			continue
		}

		s.resyncDocuments()
		s.state.Store(int32(StateRunning))
		s.log.Info("lsp: server recovered after %d attempt(s)", attempt)
		return true
	}
}

func (s *Session) resyncDocuments() {
	for _, d := range s.docs.snapshot() {
		msg, err := rpc.NewNotification("textDocument/didOpen", didOpenParams(d.path, d.languageID, d.content, d.version))
		if err != nil {
			continue
		}
		s.docs.reset(d.path)
		s.enqueue(msg, priorityHigh)
	}
}

// Shutdown sends the shutdown/exit sequence, waits up to 2s for the
// process to exit on its own, and kills it otherwise. All pending
// requests resolve with ErrDisconnected.
func (s *Session) Shutdown(ctx context.Context) error {
	state := State(s.state.Load())
	if state == StateStopped || state == StateIdle {
		return nil
	}
	s.state.Store(int32(StateShuttingDown))

	s.mu.Lock()
	proc := s.proc
	writer := s.writer
	s.mu.Unlock()

	if writer != nil {
		id := s.nextID.Add(1)
		shutdownMsg, _ := rpc.NewRequest(id, "shutdown", nil)
		replyCh := make(chan reply, 1)
		s.registerPending(id, replyCh, 2*time.Second)
		_ = writer.Write(shutdownMsg)
		<-replyCh
		exitMsg, _ := rpc.NewNotification("exit", nil)
		_ = writer.Write(exitMsg)
	}

	s.cancel()
	s.failAllPending(ErrDisconnected)

	if proc != nil {
		done := make(chan struct{})
		go func() { proc.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			_ = proc.Kill()
		}
	}

	s.state.Store(int32(StateStopped))
	return nil
}
