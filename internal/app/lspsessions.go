package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/zcode-editor/zcode/internal/config"
	"github.com/zcode-editor/zcode/internal/lsp"
	"github.com/zcode-editor/zcode/internal/zlog"
)

// sessionKey identifies one running language server: the spec ties a
// server's lifetime to a (language, workspace root) pair rather than to
// any single open document, so two buffers under the same root and
// language id share a session.
type sessionKey struct {
	language string
	root     string
}

// sessionPool lazily spawns and reuses lsp.Session instances from the
// servers configured for each language id. Session itself already owns
// its crash/backoff/respawn handling (internal/lsp/session.go's
// monitor/handleCrash), so this pool only needs to own the keyed lookup
// and starting of new sessions, not any supervision of its own.
type sessionPool struct {
	mu       sync.Mutex
	sessions map[sessionKey]*lsp.Session
	cfg      *config.Manager
	log      *zlog.Logger

	// onDiagnostics receives a (path, count) pair for every
	// textDocument/publishDiagnostics notification any session in this
	// pool delivers; nil is a valid value (diagnostics are simply
	// dropped, matching lsp.Session's own OnDiagnostics-nil guard).
	onDiagnostics func(path string, count int)

	// lifetime bounds every session this pool starts. It is deliberately
	// independent of any single request's context: a session must keep
	// running after the request that happened to spawn it completes (and
	// that request's own context gets canceled), ending only when the
	// pool itself is shut down.
	lifetime context.Context
	cancel   context.CancelFunc
}

func newSessionPool(cfg *config.Manager, log *zlog.Logger, onDiagnostics func(path string, count int)) *sessionPool {
	ctx, cancel := context.WithCancel(context.Background())
	return &sessionPool{
		sessions:      make(map[sessionKey]*lsp.Session),
		cfg:           cfg,
		log:           log,
		onDiagnostics: onDiagnostics,
		lifetime:      ctx,
		cancel:        cancel,
	}
}

// get returns the running session for (language, root), spawning one
// from the configured server command if none exists yet. Returns
// (nil, false) when the config has no server registered for language.
// The ctx passed in only bounds this call's own spawn-and-handshake wait;
// the spawned session's own lifetime is the pool's, not the caller's.
func (p *sessionPool) get(ctx context.Context, language, root string) (*lsp.Session, bool, error) {
	key := sessionKey{language: language, root: root}

	p.mu.Lock()
	if s, ok := p.sessions[key]; ok {
		p.mu.Unlock()
		return s, true, nil
	}
	p.mu.Unlock()

	server, ok := p.cfg.Current().LSP.Servers[language]
	if !ok {
		return nil, false, nil
	}

	s := lsp.NewSession(lsp.Config{
		LanguageID:    language,
		RootPath:      root,
		Command:       server.Command,
		Args:          server.Args,
		Log:           p.log,
		OnDiagnostics: p.handleDiagnostics,
	})
	if err := s.Start(p.lifetime); err != nil {
		return nil, true, fmt.Errorf("app: start lsp session for %s: %w", language, err)
	}

	p.mu.Lock()
	p.sessions[key] = s
	p.mu.Unlock()
	return s, true, nil
}

// handleDiagnostics adapts lsp.Config's raw (uri, json) callback shape to
// the pool's own (path, count) one, called from whichever session's read
// loop goroutine received the notification. It never touches reducer
// state directly — that belongs to the UI thread alone — so it only
// forwards to p.onDiagnostics, which app.Application wires to
// submitInbound.
func (p *sessionPool) handleDiagnostics(uri string, diagnostics json.RawMessage) {
	if p.onDiagnostics == nil {
		return
	}
	var items []json.RawMessage
	if err := json.Unmarshal(diagnostics, &items); err != nil {
		return
	}
	p.onDiagnostics(lsp.URIToFilePath(uri), len(items))
}

// shutdownAll asks every running session to shut down, used on editor
// exit. Errors are logged, not returned, since a slow or wedged server
// should never block the rest of the shutdown sequence.
func (p *sessionPool) shutdownAll(ctx context.Context) {
	p.mu.Lock()
	sessions := make([]*lsp.Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	p.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(s *lsp.Session) {
			defer wg.Done()
			if err := s.Shutdown(ctx); err != nil {
				p.log.WithField("error", err.Error()).Warn("lsp session shutdown failed")
			}
		}(s)
	}
	wg.Wait()
	p.cancel()
}
