// Package mode defines the editor's input modes and the state machine that
// switches between them.
package mode

import (
	"github.com/zcode-editor/zcode/internal/input/key"
)

// Mode defines the interface for an editor input mode.
// Each mode determines how key events are interpreted and what cursor
// style is displayed while it is active.
type Mode interface {
	// Name returns the unique mode identifier (e.g., "normal", "completion").
	Name() string

	// DisplayName returns a human-readable name for the status line.
	DisplayName() string

	// CursorStyle returns the cursor style for this mode.
	CursorStyle() CursorStyle

	// Enter is called when entering this mode.
	Enter(ctx *Context) error

	// Exit is called when leaving this mode.
	Exit(ctx *Context) error

	// HandleUnmapped handles key events that have no binding in this mode.
	// Returns an action to execute, or nil if the key should be ignored.
	HandleUnmapped(event key.Event, ctx *Context) *UnmappedResult
}

// UnmappedResult describes what to do with an unmapped key.
type UnmappedResult struct {
	// Action is the action to execute, if any.
	Action *Action

	// Consumed indicates whether the key was handled.
	Consumed bool

	// InsertText is literal text to insert (normal mode, typed characters).
	InsertText string
}

// Action represents a command to be executed by the reducer. Name matches
// one of the action kinds in package reducer; Args carries the action's
// payload in loosely typed form since modes do not import the reducer.
type Action struct {
	Name string
	Args map[string]any
}

// Context provides information during mode transitions and key handling.
type Context struct {
	// PreviousMode is the mode being transitioned from (for Enter).
	PreviousMode string

	// NextMode is the mode being transitioned to (for Exit).
	NextMode string

	// Editor provides read-only access to editor state.
	Editor EditorState

	// Selection information, if any.
	Selection *Selection

	// Extra holds mode-specific context data (e.g. the command-palette
	// query string, or the dialog kind being displayed).
	Extra map[string]any
}

// NewContext creates a new mode context.
func NewContext() *Context {
	return &Context{
		Extra: make(map[string]any),
	}
}

// WithEditor returns a copy of the context with the given editor state.
func (c *Context) WithEditor(editor EditorState) *Context {
	cp := *c
	cp.Editor = editor
	return &cp
}

// CursorStyle defines the visual appearance of the cursor.
type CursorStyle uint8

const (
	// CursorBar is a thin vertical bar cursor (text-editing modes).
	CursorBar CursorStyle = iota

	// CursorBlock is a full-cell block cursor.
	CursorBlock

	// CursorHidden hides the cursor (e.g. while the command palette is open).
	CursorHidden
)

// String returns a human-readable cursor style name.
func (c CursorStyle) String() string {
	switch c {
	case CursorBar:
		return "bar"
	case CursorBlock:
		return "block"
	case CursorHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// EditorState provides read-only access to editor state.
// Implemented by the reducer's application state to give modes context
// without creating an import cycle.
type EditorState interface {
	// CursorPosition returns the current caret position (line, column),
	// both 0-indexed.
	CursorPosition() (line, col uint32)

	// HasSelection returns true if there is an active, non-empty selection.
	HasSelection() bool

	// CurrentLine returns the text of the current line.
	CurrentLine() string

	// LineCount returns the total number of lines in the buffer.
	LineCount() uint32

	// FilePath returns the path of the current file, or empty string.
	FilePath() string

	// LanguageID returns the detected language identifier (e.g. "go").
	LanguageID() string

	// IsModified returns true if the buffer has unsaved changes.
	IsModified() bool
}

// Selection represents a text selection.
type Selection struct {
	Start Position
	End   Position
}

// Position represents a position in the buffer.
type Position struct {
	Line   uint32
	Column uint32
}

// Standard mode names, matching the application state's input-mode field.
const (
	ModeNormal         = "normal"
	ModeCompletion     = "completion"
	ModeDialog         = "dialog"
	ModeCommandPalette = "command-palette"
)
