package lsp

import (
	"encoding/json"

	"github.com/zcode-editor/zcode/internal/rpc"
)

// writeLoop drains the high-priority queue to empty before taking a
// single item from the low-priority queue, per spec.md §4.7's "writer
// pulls from high until empty, then low". Go's select has no built-in
// priority, so ties are broken by re-checking the non-blocking high
// case on every iteration rather than by a hard guarantee.
func (s *Session) writeLoop() {
	for {
		var q queued
		select {
		case q = <-s.highQ:
		default:
			select {
			case q = <-s.highQ:
			case q = <-s.lowQ:
			case <-s.ctx.Done():
				return
			}
		}

		writer := s.currentWriter()
		if writer == nil {
			continue
		}
		if err := writer.Write(q.msg); err != nil {
			s.log.Warn("lsp: write failed: %v", err)
		}
	}
}

func (s *Session) currentWriter() *rpc.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer
}

// readLoop parses incoming messages from one server generation's reader
// until the stream ends (server crash or shutdown), routing each to the
// response/notification/server-request handler. It is always launched
// with the reader current at spawn time, fixed for its lifetime: after
// a respawn a new goroutine is started against the new reader rather
// than this one switching readers mid-loop, so two generations can
// never read the same connection concurrently.
func (s *Session) readLoop(reader *rpc.Reader) {
	for {
		msg, err := reader.Next()
		if err != nil {
			return
		}

		switch {
		case msg.IsResponse():
			s.handleResponse(msg)
		case msg.IsRequest():
			s.handleServerRequest(msg)
		case msg.IsNotification():
			s.handleNotification(msg)
		}
	}
}

func (s *Session) handleResponse(msg rpc.Message) {
	if msg.ID == nil {
		return
	}
	s.pendMu.Lock()
	call, ok := s.pending[*msg.ID]
	if ok {
		delete(s.pending, *msg.ID)
	}
	s.pendMu.Unlock()
	if !ok {
		return
	}
	if call.timer != nil {
		call.timer.Stop()
	}
	if msg.Error != nil {
		call.replyCh <- reply{err: &ServerError{Code: msg.Error.Code, Message: msg.Error.Message}}
		return
	}
	call.replyCh <- reply{result: msg.Result}
}

func (s *Session) handleNotification(msg rpc.Message) {
	switch msg.Method {
	case "textDocument/publishDiagnostics":
		if s.cfg.OnDiagnostics == nil {
			return
		}
		var params struct {
			URI         string          `json:"uri"`
			Diagnostics json.RawMessage `json:"diagnostics"`
		}
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return
		}
		s.cfg.OnDiagnostics(params.URI, params.Diagnostics)
	case "window/logMessage", "window/showMessage", "$/progress":
		select {
		case s.logMessages <- msg.Params:
		default:
			// Backlog full; drop rather than block the read loop.
		}
	}
}

func (s *Session) handleServerRequest(msg rpc.Message) {
	writer := s.currentWriter()
	if writer == nil || msg.ID == nil {
		return
	}

	if s.cfg.OnServerRequest == nil {
		resp := rpc.NewErrorResponse(*msg.ID, rpc.ErrCodeMethodNotFound, "method not handled: "+msg.Method)
		_ = writer.Write(resp)
		return
	}

	result, err := s.cfg.OnServerRequest(msg.Method, msg.Params)
	if err != nil {
		resp := rpc.NewErrorResponse(*msg.ID, rpc.ErrCodeInternalError, err.Error())
		_ = writer.Write(resp)
		return
	}
	resp, buildErr := rpc.NewResponse(*msg.ID, result)
	if buildErr != nil {
		resp = rpc.NewErrorResponse(*msg.ID, rpc.ErrCodeInternalError, buildErr.Error())
	}
	_ = writer.Write(resp)
}
