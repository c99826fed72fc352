package app

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/zcode-editor/zcode/internal/history"
	"github.com/zcode-editor/zcode/internal/historyfile"
	"github.com/zcode-editor/zcode/internal/reducer"
)

// historySync mirrors every op a buffer's history.DAG records into an
// on-disk historyfile.Log, so a crash can recover unsaved edits. It never
// reads these logs back into a live buffer itself, and it is purely
// additive bookkeeping alongside the reducer, not part of Reduce's own
// state.
type historySync struct {
	dir    string
	logs   map[string]*historyfile.Log
	maxSeq map[string]history.OpID
}

func newHistorySync(dir string) *historySync {
	return &historySync{
		dir:    dir,
		logs:   make(map[string]*historyfile.Log),
		maxSeq: make(map[string]history.OpID),
	}
}

// afterTick walks every open document and appends any op recorded in its
// history.DAG since the last call, lazily opening that document's log on
// first use.
func (h *historySync) afterTick(s *reducer.State) {
	for _, doc := range s.Documents {
		path := doc.Buffer.Path()
		if path == "" {
			continue
		}
		dag := doc.Buffer.History()
		head := dag.Head()
		last := h.maxSeq[path]
		if head <= last {
			continue
		}
		log, err := h.logFor(path)
		if err != nil {
			continue
		}
		for id := last + 1; id <= head; id++ {
			op, ok := dag.Describe(id)
			if !ok {
				continue
			}
			cursor := doc.Buffer.OffsetToPoint(doc.Sel.Caret)
			_ = log.Append(historyfile.Record{Seq: id, Op: op, CursorAfter: cursor})
		}
		h.maxSeq[path] = head
	}
}

// forget closes and removes path's log, called once its buffer has been
// saved (nothing left to recover).
func (h *historySync) forget(path string) {
	if log, ok := h.logs[path]; ok {
		_ = log.Close()
		delete(h.logs, path)
	}
	delete(h.maxSeq, path)
	_ = historyfile.Remove(h.logPath(path))
}

func (h *historySync) logFor(path string) (*historyfile.Log, error) {
	if log, ok := h.logs[path]; ok {
		return log, nil
	}
	log, err := historyfile.Create(h.logPath(path))
	if err != nil {
		return nil, err
	}
	h.logs[path] = log
	return log, nil
}

func (h *historySync) logPath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return filepath.Join(h.dir, hex.EncodeToString(sum[:])+".log")
}

func (h *historySync) closeAll() {
	for _, log := range h.logs {
		_ = log.Close()
	}
}

func historyDir() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(cache, "zcode", "history")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
