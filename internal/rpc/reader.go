package rpc

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/zcode-editor/zcode/internal/zlog"
)

// headerBufferSize matches the teacher transport's read buffer; language
// servers can emit large workspace/symbol and completion bodies.
const headerBufferSize = 64 * 1024

// Reader parses a stream of Content-Length framed JSON-RPC messages. It
// is not safe for concurrent use by multiple goroutines.
type Reader struct {
	br  *bufio.Reader
	log *zlog.Logger
}

// NewReader wraps r. If log is nil, malformed-message diagnostics are
// discarded.
func NewReader(r io.Reader, log *zlog.Logger) *Reader {
	if log == nil {
		log = zlog.NullLogger
	}
	return &Reader{br: bufio.NewReaderSize(r, headerBufferSize), log: log}
}

// Next reads and returns the next message. It returns io.EOF once the
// underlying stream is exhausted, including mid-frame: a truncated
// header block or body is treated as stream end rather than a
// recoverable error, since there is no reliable resync point inside a
// partially delivered body.
func (r *Reader) Next() (Message, error) {
	for {
		length, ok, err := r.nextContentLength()
		if err != nil {
			return Message{}, io.EOF
		}
		if !ok {
			r.log.Warn("rpc: header block had no valid Content-Length, skipping")
			continue
		}

		body := make([]byte, length)
		if _, err := io.ReadFull(r.br, body); err != nil {
			r.log.Warn("rpc: failed reading %d-byte body: %v", length, err)
			return Message{}, io.EOF
		}

		var msg Message
		if err := json.Unmarshal(body, &msg); err != nil {
			r.log.Warn("rpc: malformed JSON body (%d bytes): %v", length, err)
			continue
		}
		return msg, nil
	}
}

// nextContentLength consumes one "Key: value\r\n"-terminated header
// block and reports the Content-Length it carried. ok is false when the
// block ended (blank line reached) without a valid Content-Length
// header, in which case the caller skips it and this method is called
// again, naturally scanning forward to the next plausible header block.
func (r *Reader) nextContentLength() (length int, ok bool, err error) {
	length = -1
	for {
		line, err := r.br.ReadString('\n')
		if err != nil {
			return 0, false, io.EOF
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return length, ok, nil
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(line[:idx])
		if !strings.EqualFold(name, "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(line[idx+1:]))
		if err != nil || n < 0 {
			continue
		}
		length = n
		ok = true
	}
}
