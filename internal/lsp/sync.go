package lsp

import (
	"sync"
	"time"

	"github.com/zcode-editor/zcode/internal/rpc"
)

// changeDebounce matches spec.md §4.7: intermediate edits within this
// window coalesce into a single didChange.
const changeDebounce = 30 * time.Millisecond

type trackedDoc struct {
	path       string
	languageID string
	content    string
	version    uint64

	pending bool
	timer   *time.Timer
}

// docTracker holds per-path document state for LSP synchronization and
// crash-recovery resync. Safe for concurrent use.
type docTracker struct {
	mu   sync.Mutex
	docs map[string]*trackedDoc
}

func (t *docTracker) init() { t.docs = make(map[string]*trackedDoc) }

func (t *docTracker) get(path string) (*trackedDoc, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.docs[path]
	return d, ok
}

func (t *docTracker) open(path, languageID, content string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.docs[path]; exists {
		return false
	}
	t.docs[path] = &trackedDoc{path: path, languageID: languageID, content: content}
	return true
}

func (t *docTracker) remove(path string) *trackedDoc {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.docs[path]
	if !ok {
		return nil
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	delete(t.docs, path)
	return d
}

// reset clears a document's pending-change flag after a resync resend
// (used during crash recovery, where the document is re-opened at its
// current tracked version rather than incrementally changed). The
// version itself is left untouched: spec.md's crash-recovery scenario
// requires the respawned server see the buffer's real current version,
// not version 0.
func (t *docTracker) reset(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d, ok := t.docs[path]; ok {
		d.pending = false
	}
}

func (t *docTracker) snapshot() []trackedDoc {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]trackedDoc, 0, len(t.docs))
	for _, d := range t.docs {
		out = append(out, *d)
	}
	return out
}

// OpenDocument registers path with the server via textDocument/didOpen
// at version 0. It is a no-op if the path is already open.
func (s *Session) OpenDocument(path, languageID, content string) error {
	if State(s.state.Load()) != StateRunning {
		return ErrNotRunning
	}
	if !s.docs.open(path, languageID, content) {
		return nil
	}
	msg, err := rpc.NewNotification("textDocument/didOpen", didOpenParams(path, languageID, content, 0))
	if err != nil {
		return err
	}
	s.enqueue(msg, priorityHigh)
	return nil
}

// ChangeDocument records a new full buffer content for path, bumps its
// edit version, and schedules a debounced textDocument/didChange. Back
// to back calls within the debounce window coalesce into one
// notification carrying only the latest content and version.
func (s *Session) ChangeDocument(path, content string) error {
	if State(s.state.Load()) != StateRunning {
		return ErrNotRunning
	}
	doc, ok := s.docs.get(path)
	if !ok {
		return ErrDocumentNotOpen
	}

	s.docs.mu.Lock()
	doc.content = content
	doc.version++
	doc.pending = true
	if doc.timer == nil {
		doc.timer = time.AfterFunc(changeDebounce, func() { s.flushChange(path) })
	} else {
		doc.timer.Reset(changeDebounce)
	}
	s.docs.mu.Unlock()
	return nil
}

func (s *Session) flushChange(path string) {
	s.docs.mu.Lock()
	doc, ok := s.docs.docs[path]
	if !ok || !doc.pending {
		s.docs.mu.Unlock()
		return
	}
	content, version := doc.content, doc.version
	doc.pending = false
	doc.timer = nil
	s.docs.mu.Unlock()

	if State(s.state.Load()) != StateRunning {
		return
	}
	msg, err := rpc.NewNotification("textDocument/didChange", didChangeParams(path, version, content))
	if err != nil {
		return
	}
	s.enqueue(msg, priorityHigh)
}

// CloseDocument sends textDocument/didClose and stops tracking path.
func (s *Session) CloseDocument(path string) error {
	doc := s.docs.remove(path)
	if doc == nil {
		return ErrDocumentNotOpen
	}
	if State(s.state.Load()) != StateRunning {
		return nil
	}
	msg, err := rpc.NewNotification("textDocument/didClose", didCloseParams(path))
	if err != nil {
		return err
	}
	s.enqueue(msg, priorityHigh)
	return nil
}

func didOpenParams(path, languageID, content string, version uint64) map[string]any {
	return map[string]any{
		"textDocument": map[string]any{
			"uri":        FilePathToURI(path),
			"languageId": languageID,
			"version":    version,
			"text":       content,
		},
	}
}

func didChangeParams(path string, version uint64, content string) map[string]any {
	return map[string]any{
		"textDocument": map[string]any{
			"uri":     FilePathToURI(path),
			"version": version,
		},
		"contentChanges": []map[string]any{
			{"text": content},
		},
	}
}

func didCloseParams(path string) map[string]any {
	return map[string]any{
		"textDocument": map[string]any{"uri": FilePathToURI(path)},
	}
}
