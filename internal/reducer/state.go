package reducer

import (
	"errors"
	"path/filepath"

	"github.com/zcode-editor/zcode/internal/buffer"
	"github.com/zcode-editor/zcode/internal/editapply"
	"github.com/zcode-editor/zcode/internal/selection"
)

// ErrNoActiveDocument is returned by operations that require an open
// document when none is active.
var ErrNoActiveDocument = errors.New("reducer: no active document")

// Document pairs one open buffer with its current selection. Multi-cursor
// is out of scope (matching internal/selection's single-Selection model),
// so a document has exactly one caret/selection.
type Document struct {
	Buffer *buffer.Buffer
	Sel    selection.Selection

	// ViewTop is the topmost visible buffer line, maintained by MoveCursor
	// handling (ensureCaretVisible) and consulted by the renderer.
	ViewTop uint32

	// DiagnosticCount is the most recently reported
	// textDocument/publishDiagnostics count for this document, driving
	// the status bar's problem indicator (spec.md §7).
	DiagnosticCount int
}

// NewDocument wraps an already-constructed buffer with a caret at 0.
func NewDocument(buf *buffer.Buffer) *Document {
	return &Document{Buffer: buf, Sel: selection.SetCaret(0)}
}

// State is the editor's full reducible state: every open document, which
// one is active, the current input mode name, and the viewport size the
// renderer is drawing into. State is mutated in place by Reduce — "pure"
// here means no I/O and no hidden global state, not copy-on-write value
// semantics.
type State struct {
	Documents []*Document
	Active    int

	Mode string

	ViewportWidth  int
	ViewportHeight int

	// WorkspaceRoot is the directory passed to InvokeLsp/NotifyLsp effects
	// as the language server's project root. It is set once at startup
	// (the app package resolves it from the workspace flag or the first
	// opened file's directory) and is not itself reducible.
	WorkspaceRoot string

	// ReadOnly suppresses SaveFile effects; set once at startup from the
	// editor's -readonly flag and not itself reducible.
	ReadOnly bool

	// Clipboard holds the text from the most recent copy/cut. spec.md §1
	// treats OS clipboard integration as an out-of-scope external
	// collaborator with a narrow contract, so this is an in-process
	// register only: it survives for the life of the process and is
	// never shared with another application.
	Clipboard string

	// Completion holds the active completion popup's suggestions while
	// State.Mode == mode.ModeCompletion.
	Completion Completion

	// Dialog holds the active modal dialog's fields while
	// State.Mode == mode.ModeDialog.
	Dialog Dialog

	// Commands is the full list of palette-searchable commands, built
	// once at startup from the real keymap registry (internal/app wires
	// this via SetCommands so the palette always reflects the actual
	// bound commands rather than a hand-maintained duplicate list).
	Commands []PaletteCommand

	// Palette holds the command palette's query/match state while
	// State.Mode == mode.ModeCommandPalette.
	Palette Palette

	// Dirty is set whenever a reduce call changes anything the renderer
	// cares about; the loop clears it after rendering.
	Dirty bool

	// Quit is set by ActionQuit; the loop checks it after every reduce
	// and exits if true.
	Quit bool

	// nextLspRequestID hands out ids for InvokeLsp effects so a stale
	// LspReply (superseded by a newer request for the same purpose, e.g.
	// retyping during a completion query) can be recognized and dropped.
	nextLspRequestID int64

	// pendingRequests maps an outstanding request id to the purpose it
	// was issued for (e.g. "completion"); LspReply clears the entry it
	// matches and ignores anything that isn't there.
	pendingRequests map[int64]string
}

// NewState creates an empty editor state sized for a cols x rows terminal.
func NewState(cols, rows int) *State {
	return &State{
		Mode:            "normal",
		ViewportWidth:   cols,
		ViewportHeight:  rows,
		pendingRequests: make(map[int64]string),
	}
}

// lspRoot returns the project root to report to doc's language server:
// State.WorkspaceRoot when one was configured, falling back to doc's own
// directory so a single file opened with no workspace still gets a
// usable root rather than an empty string.
func (s *State) lspRoot(doc *Document) string {
	if s.WorkspaceRoot != "" {
		return s.WorkspaceRoot
	}
	return filepath.Dir(doc.Buffer.Path())
}

// ActiveDocument returns the currently focused document, or nil if none
// is open.
func (s *State) ActiveDocument() *Document {
	if s.Active < 0 || s.Active >= len(s.Documents) {
		return nil
	}
	return s.Documents[s.Active]
}

// AddDocument appends doc and focuses it.
func (s *State) AddDocument(doc *Document) {
	s.Documents = append(s.Documents, doc)
	s.Active = len(s.Documents) - 1
	s.Dirty = true
}

// CloseActiveDocument removes the focused document. The new active
// document is the one after it in the list, or the one before it if the
// last was closed; if no documents remain, Active is left at -1.
func (s *State) CloseActiveDocument() {
	if s.Active < 0 || s.Active >= len(s.Documents) {
		return
	}
	s.Documents = append(s.Documents[:s.Active], s.Documents[s.Active+1:]...)
	if s.Active >= len(s.Documents) {
		s.Active = len(s.Documents) - 1
	}
	s.Dirty = true
}

// nextRequestID issues the next id for an outstanding LSP request and
// records its purpose.
func (s *State) nextRequestID(purpose string) int64 {
	s.nextLspRequestID++
	id := s.nextLspRequestID
	s.pendingRequests[id] = purpose
	return id
}

// isCurrentRequest reports whether id is still the most recently issued
// request for purpose — i.e. it hasn't been superseded by a later one.
func (s *State) isCurrentRequest(purpose string, id int64) bool {
	p, ok := s.pendingRequests[id]
	return ok && p == purpose
}

func (s *State) clearRequest(id int64) {
	delete(s.pendingRequests, id)
}

// supersede invalidates any outstanding request for purpose, returning
// its id so the caller can emit a CancelLsp effect for it (0 if none was
// outstanding).
func (s *State) supersede(purpose string) int64 {
	for id, p := range s.pendingRequests {
		if p == purpose {
			delete(s.pendingRequests, id)
			return id
		}
	}
	return 0
}

// --- mode.EditorState ---
//
// State implements mode.EditorState directly so the input/mode package's
// HandleUnmapped can be given reducer state without an import cycle
// (mode depends only on its own Context/EditorState interface).

func (s *State) CursorPosition() (line, col uint32) {
	doc := s.ActiveDocument()
	if doc == nil {
		return 0, 0
	}
	p := doc.Buffer.OffsetToPoint(doc.Sel.Caret)
	return p.Line, uint32(p.Column)
}

func (s *State) HasSelection() bool {
	doc := s.ActiveDocument()
	return doc != nil && !doc.Sel.IsEmpty()
}

func (s *State) CurrentLine() string {
	doc := s.ActiveDocument()
	if doc == nil {
		return ""
	}
	line, _ := s.CursorPosition()
	return doc.Buffer.LineText(line)
}

func (s *State) LineCount() uint32 {
	doc := s.ActiveDocument()
	if doc == nil {
		return 0
	}
	return doc.Buffer.LineCount()
}

func (s *State) FilePath() string {
	doc := s.ActiveDocument()
	if doc == nil {
		return ""
	}
	return doc.Buffer.Path()
}

func (s *State) LanguageID() string {
	doc := s.ActiveDocument()
	if doc == nil {
		return ""
	}
	return doc.Buffer.LanguageID()
}

func (s *State) IsModified() bool {
	doc := s.ActiveDocument()
	return doc != nil && doc.Buffer.IsDirty()
}

// --- editapply.BufferProvider ---
//
// State resolves ApplyWorkspaceEditEffect edits against its own already
// open documents; it never opens files from disk itself (OpenFile is a
// distinct Effect handled by the worker runtime and fed back in as
// ActionOpenFile), so CreateFile/RenameFile/DeleteFile are the only
// filesystem-touching operations a workspace edit exercises and those are
// delegated to an injected FileOps implementation.

// FileOps performs the filesystem-side operations a workspace edit may
// require (creating/renaming/deleting files outside any open buffer).
type FileOps interface {
	CreateFile(path string) error
	RenameFile(oldPath, newPath string) error
	DeleteFile(path string) error
}

// documentProvider adapts State + FileOps to editapply.BufferProvider.
type documentProvider struct {
	state *State
	files FileOps
}

func (p *documentProvider) OpenBuffer(path string) (*buffer.Buffer, error) {
	for _, doc := range p.state.Documents {
		if doc.Buffer.Path() == path {
			return doc.Buffer, nil
		}
	}
	return nil, errNotOpen(path)
}

func (p *documentProvider) CreateFile(path string) error {
	if p.files == nil {
		return nil
	}
	return p.files.CreateFile(path)
}

func (p *documentProvider) RenameFile(oldPath, newPath string) error {
	if p.files == nil {
		return nil
	}
	return p.files.RenameFile(oldPath, newPath)
}

func (p *documentProvider) DeleteFile(path string) error {
	if p.files == nil {
		return nil
	}
	return p.files.DeleteFile(path)
}

// ApplyWorkspaceEdit resolves edit against s's currently open documents
// and applies it. Buffer is internally mutex-guarded, so this is safe
// to call from a worker goroutine handling an ApplyWorkspaceEditEffect
// rather than the UI thread: it only ever mutates already-open Buffer
// values through their own thread-safe methods, never State's own
// Documents slice or Dirty flag, which stay the UI thread's exclusive
// responsibility.
func (s *State) ApplyWorkspaceEdit(files FileOps, edit editapply.WorkspaceEdit) (editapply.Result, error) {
	provider := &documentProvider{state: s, files: files}
	return editapply.Apply(provider, edit)
}

type notOpenError struct{ path string }

func (e notOpenError) Error() string { return "reducer: " + e.path + " is not open" }

func errNotOpen(path string) error { return notOpenError{path: path} }
