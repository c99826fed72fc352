package reducer

import (
	"testing"

	"github.com/zcode-editor/zcode/internal/buffer"
	"github.com/zcode-editor/zcode/internal/selection"
)

func newTestState(text string) (*State, *Document) {
	s := NewState(80, 24)
	doc := NewDocument(buffer.NewBufferFromString(text))
	s.AddDocument(doc)
	s.Dirty = false
	return s, doc
}

func TestReduceInsertText(t *testing.T) {
	s, doc := newTestState("hello")
	doc.Sel = selection.SetCaret(5)

	Reduce(s, Action{Name: ActionInsertText, Args: map[string]any{"text": " world"}})

	if got := doc.Buffer.Text(); got != "hello world" {
		t.Errorf("Text() = %q, want %q", got, "hello world")
	}
	if doc.Sel.Caret != 11 {
		t.Errorf("caret = %d, want 11", doc.Sel.Caret)
	}
	if !s.Dirty {
		t.Error("Dirty = false, want true after insert")
	}
}

func TestReduceInsertTextReplacesSelection(t *testing.T) {
	s, doc := newTestState("hello world")
	doc.Sel = selection.SetSelection(0, 5)

	Reduce(s, Action{Name: ActionInsertText, Args: map[string]any{"text": "goodbye"}})

	if got := doc.Buffer.Text(); got != "goodbye world" {
		t.Errorf("Text() = %q, want %q", got, "goodbye world")
	}
	if !doc.Sel.IsEmpty() {
		t.Error("selection should collapse to caret after insert")
	}
}

func TestReduceDeleteLeftAtStartIsNoop(t *testing.T) {
	s, doc := newTestState("hello")
	doc.Sel = selection.SetCaret(0)

	Reduce(s, Action{Name: ActionDeleteLeft})

	if got := doc.Buffer.Text(); got != "hello" {
		t.Errorf("Text() = %q, want unchanged %q", got, "hello")
	}
}

func TestReduceDeleteLeftRemovesOneGrapheme(t *testing.T) {
	s, doc := newTestState("hello")
	doc.Sel = selection.SetCaret(5)

	Reduce(s, Action{Name: ActionDeleteLeft})

	if got := doc.Buffer.Text(); got != "hell" {
		t.Errorf("Text() = %q, want %q", got, "hell")
	}
	if doc.Sel.Caret != 4 {
		t.Errorf("caret = %d, want 4", doc.Sel.Caret)
	}
}

func TestReduceDeleteRightRemovesOneGrapheme(t *testing.T) {
	s, doc := newTestState("hello")
	doc.Sel = selection.SetCaret(0)

	Reduce(s, Action{Name: ActionDeleteRight})

	if got := doc.Buffer.Text(); got != "ello" {
		t.Errorf("Text() = %q, want %q", got, "ello")
	}
}

func TestReduceMoveCursorRight(t *testing.T) {
	s, doc := newTestState("hello")
	doc.Sel = selection.SetCaret(0)

	Reduce(s, Action{Name: ActionMoveCursor, Args: map[string]any{
		"direction": DirRight, "by": ByGrapheme,
	}})

	if doc.Sel.Caret != 1 {
		t.Errorf("caret = %d, want 1", doc.Sel.Caret)
	}
	if doc.Sel.Anchor != 1 {
		t.Errorf("MoveCursor should collapse selection, anchor = %d, want 1", doc.Sel.Anchor)
	}
}

func TestReduceExtendSelectionKeepsAnchor(t *testing.T) {
	s, doc := newTestState("hello world")
	doc.Sel = selection.SetCaret(0)

	Reduce(s, Action{Name: ActionExtendSelection, Args: map[string]any{
		"direction": DirRight, "by": ByWord,
	}})

	if doc.Sel.Anchor != 0 {
		t.Errorf("anchor = %d, want 0 (unchanged)", doc.Sel.Anchor)
	}
	if doc.Sel.Caret == 0 {
		t.Error("caret should have moved")
	}
}

func TestReduceUndoRedo(t *testing.T) {
	s, doc := newTestState("hello")
	doc.Sel = selection.SetCaret(5)
	Reduce(s, Action{Name: ActionInsertText, Args: map[string]any{"text": "!"}})
	if got := doc.Buffer.Text(); got != "hello!" {
		t.Fatalf("setup: Text() = %q, want %q", got, "hello!")
	}

	Reduce(s, Action{Name: ActionUndo})
	if got := doc.Buffer.Text(); got != "hello" {
		t.Errorf("after undo: Text() = %q, want %q", got, "hello")
	}

	Reduce(s, Action{Name: ActionRedo})
	if got := doc.Buffer.Text(); got != "hello!" {
		t.Errorf("after redo: Text() = %q, want %q", got, "hello!")
	}
}

func TestReduceSaveReturnsSaveFileEffect(t *testing.T) {
	s, doc := newTestState("hello")
	doc.Buffer.SetPath("/tmp/example.txt")

	effects := Reduce(s, Action{Name: ActionSave})

	if len(effects) != 1 {
		t.Fatalf("len(effects) = %d, want 1", len(effects))
	}
	save, ok := effects[0].(SaveFile)
	if !ok {
		t.Fatalf("effect type = %T, want SaveFile", effects[0])
	}
	if save.Path != "/tmp/example.txt" {
		t.Errorf("Path = %q, want /tmp/example.txt", save.Path)
	}
}

func TestReduceCloseTabRemovesActiveDocument(t *testing.T) {
	s, first := newTestState("one")
	second := NewDocument(buffer.NewBufferFromString("two"))
	s.AddDocument(second)

	if len(s.Documents) != 2 {
		t.Fatalf("setup: len(Documents) = %d, want 2", len(s.Documents))
	}

	Reduce(s, Action{Name: ActionCloseTab})

	if len(s.Documents) != 1 {
		t.Fatalf("len(Documents) = %d, want 1", len(s.Documents))
	}
	if s.Documents[0] != first {
		t.Error("expected the remaining document to be the first one (the active second one was closed)")
	}
}

func TestReduceQuitSetsQuit(t *testing.T) {
	s, _ := newTestState("x")
	Reduce(s, Action{Name: ActionQuit})
	if !s.Quit {
		t.Error("Quit = false, want true")
	}
}

func TestReduceInvokeLspSupersedesPriorRequest(t *testing.T) {
	s, doc := newTestState("x")
	doc.Buffer.SetPath("/tmp/a.go")
	doc.Buffer.SetLanguageID("go")

	first := Reduce(s, Action{Name: ActionInvokeLsp, Args: map[string]any{
		"method": "textDocument/completion", "purpose": "completion",
	}})
	if len(first) != 1 {
		t.Fatalf("first invoke: len(effects) = %d, want 1", len(first))
	}
	firstInvoke := first[0].(InvokeLsp)

	second := Reduce(s, Action{Name: ActionInvokeLsp, Args: map[string]any{
		"method": "textDocument/completion", "purpose": "completion",
	}})
	if len(second) != 2 {
		t.Fatalf("second invoke: len(effects) = %d, want 2 (cancel + invoke)", len(second))
	}
	cancel, ok := second[0].(CancelLsp)
	if !ok {
		t.Fatalf("second[0] type = %T, want CancelLsp", second[0])
	}
	if cancel.RequestID != firstInvoke.RequestID {
		t.Errorf("cancelled id = %d, want %d", cancel.RequestID, firstInvoke.RequestID)
	}

	// The stale first request's reply must now be dropped.
	before := s.Dirty
	Reduce(s, Action{Name: ActionLspReply, Args: map[string]any{
		"requestId": firstInvoke.RequestID, "purpose": "completion",
	}})
	if s.Dirty != before {
		t.Error("stale LspReply should not have changed state")
	}
}

func TestReduceLspReplyAcceptsCurrentRequest(t *testing.T) {
	s, doc := newTestState("x")
	doc.Buffer.SetPath("/tmp/a.go")
	doc.Buffer.SetLanguageID("go")

	effects := Reduce(s, Action{Name: ActionInvokeLsp, Args: map[string]any{
		"method": "textDocument/completion", "purpose": "completion",
	}})
	invoke := effects[0].(InvokeLsp)

	Reduce(s, Action{Name: ActionLspReply, Args: map[string]any{
		"requestId": invoke.RequestID, "purpose": "completion",
	}})

	if s.isCurrentRequest("completion", invoke.RequestID) {
		t.Error("request should be cleared after its reply is accepted")
	}
}

func TestReduceResizeViewport(t *testing.T) {
	s, _ := newTestState("x")
	Reduce(s, Action{Name: ActionResizeViewport, Args: map[string]any{"width": 120, "height": 40}})
	if s.ViewportWidth != 120 || s.ViewportHeight != 40 {
		t.Errorf("viewport = %dx%d, want 120x40", s.ViewportWidth, s.ViewportHeight)
	}
}

func TestReduceScrollClampsToLineCount(t *testing.T) {
	s, doc := newTestState("a\nb\nc")
	Reduce(s, Action{Name: ActionScroll, Args: map[string]any{"axis": AxisVertical, "delta": -100}})
	if doc.ViewTop >= doc.Buffer.LineCount() {
		t.Errorf("ViewTop = %d, want < LineCount %d", doc.ViewTop, doc.Buffer.LineCount())
	}
}

func TestReduceUnknownActionIsNoop(t *testing.T) {
	s, doc := newTestState("hello")
	before := doc.Buffer.Text()

	effects := Reduce(s, Action{Name: "nonsense.action"})

	if effects != nil {
		t.Errorf("effects = %v, want nil", effects)
	}
	if doc.Buffer.Text() != before {
		t.Error("unknown action should not mutate the buffer")
	}
}

func TestReduceSaveSuppressedWhenReadOnly(t *testing.T) {
	s, doc := newTestState("hello")
	doc.Buffer.SetPath("/tmp/example.txt")
	s.ReadOnly = true

	effects := Reduce(s, Action{Name: ActionSave})

	if effects != nil {
		t.Errorf("effects = %v, want nil in read-only mode", effects)
	}
}

func TestReduceInvokeLspUsesWorkspaceRootWhenSet(t *testing.T) {
	s, doc := newTestState("x")
	doc.Buffer.SetPath("/tmp/proj/a.go")
	doc.Buffer.SetLanguageID("go")
	s.WorkspaceRoot = "/tmp/proj"

	effects := Reduce(s, Action{Name: ActionInvokeLsp, Args: map[string]any{
		"method": "textDocument/completion", "purpose": "completion",
	}})
	invoke := effects[0].(InvokeLsp)
	if invoke.RootPath != "/tmp/proj" {
		t.Errorf("RootPath = %q, want %q", invoke.RootPath, "/tmp/proj")
	}
}

func TestReduceInvokeLspFallsBackToDocumentDirWithNoWorkspaceRoot(t *testing.T) {
	s, doc := newTestState("x")
	doc.Buffer.SetPath("/tmp/proj/a.go")
	doc.Buffer.SetLanguageID("go")

	effects := Reduce(s, Action{Name: ActionInvokeLsp, Args: map[string]any{
		"method": "textDocument/completion", "purpose": "completion",
	}})
	invoke := effects[0].(InvokeLsp)
	if invoke.RootPath != "/tmp/proj" {
		t.Errorf("RootPath = %q, want %q", invoke.RootPath, "/tmp/proj")
	}
}
