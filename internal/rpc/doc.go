// Package rpc implements the JSON-RPC 2.0 wire framing LSP servers speak
// (spec.md §4.6): each direction carries zero or more "Key: value\r\n"
// headers terminated by a blank line, of which only Content-Length is
// meaningful, followed by exactly that many bytes of a UTF-8 JSON
// message body.
//
// Reader produces a lazy sequence of parsed messages over a connection;
// a malformed header or body is logged once and skipped by resyncing to
// the next plausible Content-Length header rather than killing the
// stream. Writer serializes a message with a correct Content-Length.
// Message-level request/response routing (pending-id maps, priority
// queues, debounce) lives one layer up, in internal/lsp — this package
// only knows about frames and raw JSON bodies.
package rpc
