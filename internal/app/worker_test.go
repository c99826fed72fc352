package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zcode-editor/zcode/internal/buffer"
	"github.com/zcode-editor/zcode/internal/config"
	"github.com/zcode-editor/zcode/internal/editapply"
	"github.com/zcode-editor/zcode/internal/reducer"
	"github.com/zcode-editor/zcode/internal/zlog"
)

func newTestSessionPool(t *testing.T) *sessionPool {
	t.Helper()
	cfg, err := config.NewManager(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("config.NewManager: %v", err)
	}
	return newSessionPool(cfg, zlog.NullLogger, nil)
}

func TestWorkerSaveFileWritesContentAndSubmitsFileSaved(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	submitted := make(chan reducer.Action, 1)
	w := newWorker(reducer.NewState(80, 24), newTestSessionPool(t), func(a reducer.Action) {
		submitted <- a
	}, nil)

	w.Dispatch([]reducer.Effect{reducer.SaveFile{Path: path, Content: "hello"}})

	select {
	case a := <-submitted:
		if a.Name != reducer.ActionFileSaved {
			t.Fatalf("action = %q, want %q", a.Name, reducer.ActionFileSaved)
		}
		if a.Args["path"] != path {
			t.Errorf("path = %v, want %v", a.Args["path"], path)
		}
		if a.Args["error"] != nil {
			t.Errorf("error = %v, want nil", a.Args["error"])
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for ActionFileSaved")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("file content = %q, want %q", data, "hello")
	}
}

func TestWorkerSaveFileCallsOnSavedOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	var savedPath string
	done := make(chan struct{})
	w := newWorker(reducer.NewState(80, 24), newTestSessionPool(t), func(reducer.Action) {
		close(done)
	}, func(p string) {
		savedPath = p
	})

	w.Dispatch([]reducer.Effect{reducer.SaveFile{Path: path, Content: "x"}})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
	if savedPath != path {
		t.Errorf("onSaved path = %q, want %q", savedPath, path)
	}
}

func TestWorkerOpenFileReadsAndSubmitsOpenFileAction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("contents"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	submitted := make(chan reducer.Action, 1)
	w := newWorker(reducer.NewState(80, 24), newTestSessionPool(t), func(a reducer.Action) {
		submitted <- a
	}, nil)

	w.Dispatch([]reducer.Effect{reducer.OpenFile{Path: path}})

	select {
	case a := <-submitted:
		if a.Name != reducer.ActionOpenFile {
			t.Fatalf("action = %q, want %q", a.Name, reducer.ActionOpenFile)
		}
		if a.Args["content"] != "contents" {
			t.Errorf("content = %v, want %q", a.Args["content"], "contents")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for ActionOpenFile")
	}
}

func TestWorkerOpenFileMissingFileSubmitsNothing(t *testing.T) {
	dir := t.TempDir()
	submitted := make(chan reducer.Action, 1)
	w := newWorker(reducer.NewState(80, 24), newTestSessionPool(t), func(a reducer.Action) {
		submitted <- a
	}, nil)

	w.Dispatch([]reducer.Effect{reducer.OpenFile{Path: filepath.Join(dir, "absent.txt")}})

	select {
	case a := <-submitted:
		t.Fatalf("unexpected action submitted: %+v", a)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWorkerApplyWorkspaceEditRunsSynchronouslyInDispatch(t *testing.T) {
	state := reducer.NewState(80, 24)
	buf := buffer.NewBufferFromString("hello", buffer.WithPath("/virtual/a.txt"))
	state.AddDocument(reducer.NewDocument(buf))

	w := newWorker(state, newTestSessionPool(t), func(reducer.Action) {}, nil)

	edit := editapply.WorkspaceEdit{
		BufferEdits: []editapply.BufferEdit{
			{
				Path: "/virtual/a.txt",
				Edits: []editapply.TextEdit{
					{
						Range:   editapply.Range{Start: editapply.Position{Line: 0, Column: 0}, End: editapply.Position{Line: 0, Column: 5}},
						NewText: "goodbye",
						Unit:    editapply.UnitUTF8Bytes,
					},
				},
			},
		},
	}

	// Dispatch is documented to run ApplyWorkspaceEditEffect inline, on
	// the caller's goroutine, rather than spawning one: the buffer is
	// already mutated by the time Dispatch returns, with no wait needed.
	w.Dispatch([]reducer.Effect{reducer.ApplyWorkspaceEditEffect{Edit: edit}})

	if got := buf.Text(); got != "goodbye" {
		t.Fatalf("buffer text = %q, want %q", got, "goodbye")
	}
}

func TestWorkerCancelLspUnknownRequestIsNoOp(t *testing.T) {
	w := newWorker(reducer.NewState(80, 24), newTestSessionPool(t), func(reducer.Action) {}, nil)
	w.Dispatch([]reducer.Effect{reducer.CancelLsp{RequestID: 42}})
	// No tracked request for id 42 yet: cancelLsp must be a no-op, not a
	// panic, when the id is unknown (already completed or never issued).
}
