package reducer

import (
	"encoding/json"

	"github.com/zcode-editor/zcode/internal/editapply"
)

// Effect describes side-causing work Reduce wants performed. The loop
// hands effects to a worker runtime (unimplemented here: spec.md §5
// places it outside the UI thread) rather than executing them inline, so
// Reduce itself never blocks on disk, network, or subprocess I/O.
type Effect interface {
	effect()
}

// SaveFile writes Path's buffer content to disk.
type SaveFile struct {
	Path    string
	Content string
}

func (SaveFile) effect() {}

// OpenFile reads a file from disk; the worker feeds the loaded content
// back as a follow-up ActionOpenFile carrying a "content" arg, which
// Reduce installs as a new document.
type OpenFile struct {
	Path string
}

func (OpenFile) effect() {}

// InvokeLsp issues method against the language server for the active
// document. RequestID lets a later LspReply action be matched against
// the session that was current when the request was issued — opening a
// new request for the same purpose (e.g. a fresh completion query)
// invalidates any prior one by simply letting its RequestID go stale; a
// late reply for a stale id is discarded by Reduce.
type InvokeLsp struct {
	Language  string
	RootPath  string
	Method    string
	Params    any
	RequestID int64

	// Purpose is the key isCurrentRequest/supersede track this request
	// under; it is usually Method itself but can differ (e.g. several
	// completion requests in a row all share purpose "completion" so a
	// fresh keystroke invalidates the previous one). Echoed back in the
	// ActionLspReply built from this request's result.
	Purpose string
}

func (InvokeLsp) effect() {}

// CancelLsp requests cancellation of a previously issued InvokeLsp whose
// reply is no longer wanted (superseded completion query, closed
// document, etc).
type CancelLsp struct {
	Language  string
	RootPath  string
	RequestID int64
}

func (CancelLsp) effect() {}

// ApplyWorkspaceEditEffect asks the workspace-edit layer to apply edit,
// validating buffer versions per spec.md §4.5/§5 before touching text.
type ApplyWorkspaceEditEffect struct {
	Edit editapply.WorkspaceEdit
}

func (ApplyWorkspaceEditEffect) effect() {}

// NotifyLsp sends a didOpen/didChange/didClose-shaped notification; used
// when a buffer-mutating action needs to keep an already-running
// language server session in sync. Params is the already-assembled
// payload (left as json.RawMessage so this package doesn't import lsp).
type NotifyLsp struct {
	Language string
	RootPath string
	Method   string
	Params   json.RawMessage
}

func (NotifyLsp) effect() {}

// WorkspaceSearch asks the worker to look for query across every file
// under Root (spec.md §6's "global search" binding). Unlike clipboard
// copy/paste — which spec.md §1 explicitly treats as a narrow,
// out-of-scope external collaborator and which Reduce therefore handles
// entirely in memory via State.Clipboard — a workspace-wide file walk is
// genuine I/O and has to cross the same worker boundary as SaveFile and
// OpenFile.
type WorkspaceSearch struct {
	Root  string
	Query string
}

func (WorkspaceSearch) effect() {}
