// Package buffer provides the thread-safe text buffer that backs a single
// open file (or scratch document) in the editor: a rope of content, a path,
// a language tag, a monotonic edit version, a dirty flag, and a reference
// to the buffer's own edit-history DAG.
//
// The package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Efficient text operations through the underlying rope
//   - Coordinate conversion between byte offsets, line/column, and the
//     UTF-16 columns LSP speaks
//   - Read-only snapshots for concurrent access from worker tasks
//   - Line ending normalization (CRLF/CR to LF on load, optional restore
//     on save)
//   - Undo/redo wired directly to the buffer's history.DAG
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ") // "Hello, Beautiful World!"
//	buf.Undo()                  // "Hello, World!"
//
//	snap := buf.Snapshot()
//	go func() {
//	    text := snap.Text()
//	    // Process text...
//	}()
package buffer
