package lsp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zcode-editor/zcode/internal/rpc"
)

type priority uint8

const (
	priorityLow priority = iota
	priorityHigh
)

// methodProfile describes the capability gate, outbound queue, and
// default timeout for a request method, per spec.md §4.7's priority
// and timeout tables. Methods absent from this table (server-initiated
// notifications we only send once, or editor-specific extensions) fall
// back to priorityHigh with a 10s timeout and no capability gate.
type methodProfile struct {
	capability Capability
	priority   priority
	timeout    time.Duration // 0 means no deadline
}

var methodProfiles = map[string]methodProfile{
	"textDocument/hover":             {CapHover, priorityHigh, 5 * time.Second},
	"textDocument/completion":        {CapCompletion, priorityHigh, 10 * time.Second},
	"textDocument/definition":        {CapDefinition, priorityHigh, 5 * time.Second},
	"textDocument/references":        {CapReferences, priorityHigh, 5 * time.Second},
	"textDocument/rename":            {CapRename, priorityHigh, 10 * time.Second},
	"textDocument/codeAction":        {CapCodeAction, priorityHigh, 5 * time.Second},
	"textDocument/formatting":        {CapFormat, priorityHigh, 30 * time.Second},
	"textDocument/rangeFormatting":   {CapRangeFormat, priorityHigh, 30 * time.Second},
	"textDocument/signatureHelp":     {CapSignatureHelp, priorityHigh, 5 * time.Second},
	"textDocument/documentSymbol":    {CapDocumentSymbol, priorityHigh, 5 * time.Second},
	"workspace/symbol":               {CapWorkspaceSymbol, priorityLow, 0},
	"textDocument/semanticTokens/full": {CapSemanticTokens, priorityLow, 5 * time.Second},
	"textDocument/inlayHint":         {CapInlayHint, priorityLow, 5 * time.Second},
	"textDocument/foldingRange":      {CapFoldingRange, priorityLow, 5 * time.Second},
	"textDocument/diagnostic":        {CapDiagnosticsPull, priorityLow, 5 * time.Second},
}

func profileFor(method string) methodProfile {
	if p, ok := methodProfiles[method]; ok {
		return p
	}
	return methodProfile{priority: priorityHigh, timeout: 10 * time.Second}
}

// Request sends a capability-gated request and blocks for its reply,
// ctx cancellation, or the method's default timeout, whichever comes
// first. A timeout sends $/cancelRequest for the id and returns
// ErrTimeout.
func (s *Session) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if State(s.state.Load()) != StateRunning {
		return nil, ErrNotRunning
	}

	profile := profileFor(method)
	if profile.capability != 0 && !s.Capabilities().Has(profile.capability) {
		return nil, ErrUnsupported
	}

	id := s.nextID.Add(1)
	msg, err := rpc.NewRequest(id, method, params)
	if err != nil {
		return nil, err
	}

	replyCh := make(chan reply, 1)
	s.registerPending(id, replyCh, profile.timeout)
	s.enqueue(msg, profile.priority)

	select {
	case r := <-replyCh:
		return r.result, r.err
	case <-ctx.Done():
		s.cancelPending(id)
		return nil, ctx.Err()
	}
}

// Notify sends a fire-and-forget notification.
func (s *Session) Notify(method string, params any) error {
	if State(s.state.Load()) != StateRunning {
		return ErrNotRunning
	}
	msg, err := rpc.NewNotification(method, params)
	if err != nil {
		return err
	}
	s.enqueue(msg, profileFor(method).priority)
	return nil
}

func (s *Session) enqueue(msg rpc.Message, p priority) {
	q := queued{msg: msg, priority: p}
	if p == priorityHigh {
		s.highQ <- q
	} else {
		s.lowQ <- q
	}
}

func (s *Session) registerPending(id int64, replyCh chan reply, timeout time.Duration) {
	call := &pendingCall{replyCh: replyCh}
	if timeout > 0 {
		call.timer = time.AfterFunc(timeout, func() { s.timeoutPending(id) })
	}
	s.pendMu.Lock()
	s.pending[id] = call
	s.pendMu.Unlock()
}

func (s *Session) timeoutPending(id int64) {
	s.pendMu.Lock()
	call, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.pendMu.Unlock()
	if !ok {
		return
	}
	cancelMsg, err := rpc.NewNotification("$/cancelRequest", map[string]any{"id": id})
	if err == nil {
		s.enqueue(cancelMsg, priorityHigh)
	}
	call.replyCh <- reply{err: ErrTimeout}
}

// cancelPending is used when the caller's context is cancelled before a
// timeout or reply arrives.
func (s *Session) cancelPending(id int64) {
	s.pendMu.Lock()
	call, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.pendMu.Unlock()
	if !ok {
		return
	}
	if call.timer != nil {
		call.timer.Stop()
	}
	cancelMsg, err := rpc.NewNotification("$/cancelRequest", map[string]any{"id": id})
	if err == nil {
		s.enqueue(cancelMsg, priorityHigh)
	}
}

func (s *Session) failAllPending(err error) {
	s.pendMu.Lock()
	pending := s.pending
	s.pending = make(map[int64]*pendingCall)
	s.pendMu.Unlock()

	for _, call := range pending {
		if call.timer != nil {
			call.timer.Stop()
		}
		call.replyCh <- reply{err: err}
	}
}
