// Package lsp supervises one language server process per (language,
// workspace root) pair (spec.md §4.7): spawning the server, performing
// the initialize/initialized handshake, keeping documents synchronized
// with debounced didChange notifications, routing requests through
// high/low priority outbound queues, and restarting a crashed server
// with exponential backoff while re-syncing its open documents.
//
// A Session exposes a single capability-gated entry point,
// Session.Request, matching every public LSP operation (hover,
// completion, definition, rename, ...) to the uniform contract
// request(method, params) -> future<reply>; a method whose capability
// bit the server never advertised returns ErrUnsupported without
// reaching the wire. Framing is delegated entirely to internal/rpc;
// this package only knows JSON-RPC methods and LSP semantics.
package lsp
