// Package historyfile is an append-only, newline-delimited JSON log of
// buffer edits, written purely for crash recovery. It is never
// authoritative over the source file on disk: Truncate and Remove
// discard a log once it is no longer needed, and Recover only returns
// the logged records; nothing in this package applies them to a buffer.
package historyfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/zcode-editor/zcode/internal/history"
	"github.com/zcode-editor/zcode/internal/rope"
)

// Record is one logged edit: the op that was applied, the op's
// sequence number (matching internal/history.DAG's monotonically
// assigned OpID so recovery and the in-memory undo log agree on
// ordering), and the cursor position after applying it.
type Record struct {
	Seq        history.OpID `json:"seq"`
	Op         history.Op   `json:"op"`
	CursorAfter rope.Point  `json:"cursor_after"`
}

// headPrefix marks the trailing line that records the last durably
// applied op, so recovery doesn't need to replay a log whose tail may
// be an incomplete record from a crash mid-write.
const headPrefix = "HEAD="

// Log is an append-only on-disk edit journal for one open buffer.
type Log struct {
	path string
	file *os.File
	w    *bufio.Writer
}

// Create opens (creating if necessary) the log file at path, ready for
// Append. Any existing contents are preserved: Create does not
// truncate, so a crash-recovery read via Recover still sees them.
func Create(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("historyfile: open %s: %w", path, err)
	}
	return &Log{path: path, file: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one record as a single JSON-encoded line and updates
// the trailing HEAD marker. Each call flushes and syncs, trading
// append throughput for the durability crash recovery depends on.
func (l *Log) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("historyfile: marshal record: %w", err)
	}
	if _, err := l.w.Write(data); err != nil {
		return fmt.Errorf("historyfile: write record: %w", err)
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(l.w, "%s%d\n", headPrefix, rec.Seq); err != nil {
		return fmt.Errorf("historyfile: write head marker: %w", err)
	}
	if err := l.w.Flush(); err != nil {
		return fmt.Errorf("historyfile: flush: %w", err)
	}
	return l.file.Sync()
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	if err := l.w.Flush(); err != nil {
		return err
	}
	return l.file.Close()
}

// Truncate discards the log's contents, leaving the log open for
// further Append calls.
func (l *Log) Truncate() error {
	if err := l.file.Truncate(0); err != nil {
		return fmt.Errorf("historyfile: truncate: %w", err)
	}
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("historyfile: seek: %w", err)
	}
	l.w = bufio.NewWriter(l.file)
	return nil
}

// Remove deletes the log file entirely, ignoring a not-exist error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("historyfile: remove %s: %w", path, err)
	}
	return nil
}

// Recover reads every well-formed record up to and including the one
// named by the last HEAD marker. Records after the last HEAD marker
// (a crash mid-write left them dangling) are dropped, and scanning stops
// at the first line that fails to parse as JSON, dropping everything
// after it, since a torn write is exactly the failure this format exists
// to survive.
func Recover(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("historyfile: open %s: %w", path, err)
	}
	defer f.Close()

	var pending []Record
	var committed []Record
	var lastHead history.OpID
	haveHead := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if head, ok := parseHead(line); ok {
			lastHead = head
			haveHead = true
			committed = pending
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			// A torn write produces a truncated final line; stop here
			// rather than erroring the whole recovery out.
			break
		}
		pending = append(pending, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("historyfile: scan %s: %w", path, err)
	}
	if !haveHead {
		return nil, nil
	}

	out := make([]Record, 0, len(committed))
	for _, rec := range committed {
		out = append(out, rec)
		if rec.Seq == lastHead {
			break
		}
	}
	return out, nil
}

func parseHead(line string) (history.OpID, bool) {
	if len(line) <= len(headPrefix) || line[:len(headPrefix)] != headPrefix {
		return 0, false
	}
	var id uint64
	if _, err := fmt.Sscanf(line[len(headPrefix):], "%d", &id); err != nil {
		return 0, false
	}
	return history.OpID(id), true
}
