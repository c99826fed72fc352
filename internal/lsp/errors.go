package lsp

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned by a capability-gated request when the
	// server never advertised the corresponding capability bit; the
	// request never reaches the wire.
	ErrUnsupported = errors.New("lsp: method not supported by server")

	// ErrTimeout is returned when a request's deadline elapses before a
	// reply arrives. A $/cancelRequest notification has already been
	// sent for the request's id.
	ErrTimeout = errors.New("lsp: request timed out")

	// ErrDisconnected is returned to every pending waiter when the
	// server session transitions to crashed or stopped.
	ErrDisconnected = errors.New("lsp: server disconnected")

	// ErrNotRunning is returned by operations that require a running
	// session (Request, OpenDocument, ChangeDocument) before Start has
	// completed the initialize handshake.
	ErrNotRunning = errors.New("lsp: session not running")

	// ErrAlreadyStarted is returned by Start on a session that has
	// already been started.
	ErrAlreadyStarted = errors.New("lsp: session already started")

	// ErrDocumentNotOpen is returned by ChangeDocument/CloseDocument for
	// a path that was never passed to OpenDocument.
	ErrDocumentNotOpen = errors.New("lsp: document not open")
)

// ServerError wraps a JSON-RPC error object returned by the server in
// response to a request.
type ServerError struct {
	Code    int64
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("lsp: server error %d: %s", e.Code, e.Message)
}
