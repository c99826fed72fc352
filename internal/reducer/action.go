package reducer

// Action names. These match the mode.Action.Name values modes emit from
// HandleUnmapped, so a key event resolved in any mode carries straight
// through to Reduce without translation.
const (
	ActionInsertText          = "editor.insertText"
	ActionDeleteLeft          = "editor.deleteLeft"
	ActionDeleteRight         = "editor.deleteRight"
	ActionMoveCursor          = "editor.moveCursor"
	ActionExtendSelection     = "editor.extendSelection"
	ActionSave                = "editor.save"
	ActionUndo                = "editor.undo"
	ActionRedo                = "editor.redo"
	ActionOpenFile            = "editor.openFile"
	ActionCloseTab            = "editor.closeTab"
	ActionFocusView           = "editor.focusView"
	ActionInvokeLsp           = "editor.invokeLsp"
	ActionApplyWorkspaceEdit  = "editor.applyWorkspaceEdit"
	ActionLspReply            = "editor.lspReply"
	ActionServerCrashed       = "editor.serverCrashed"
	ActionFileSaved           = "editor.fileSaved"
	ActionTick                = "editor.tick"
	ActionDiagnostics         = "editor.diagnostics"

	// Not named explicitly in spec.md's action list but required to route
	// the corresponding input events (step 3) through the same reduce
	// path rather than special-casing them in the loop.
	ActionResizeViewport = "editor.resizeViewport"
	ActionScroll         = "editor.scroll"
	ActionQuit           = "app.quit"

	// Clipboard, tab management, and language-server trigger actions from
	// spec.md §6's keymap table.
	ActionCopy              = "editor.copy"
	ActionCut               = "editor.cut"
	ActionPaste             = "editor.paste"
	ActionSelectAll         = "editor.selectAll"
	ActionNextTab           = "editor.nextTab"
	ActionPreviousTab       = "editor.previousTab"
	ActionTriggerCompletion = "editor.triggerCompletion"

	// ActionWorkspaceSearchResult is the worker's async reply to a
	// WorkspaceSearch effect, feeding matched "path:line: text" entries
	// back into the active findInWorkspace dialog.
	ActionWorkspaceSearchResult = "editor.workspaceSearchResult"

	// Completion-popup actions, active while State.Mode == mode.ModeCompletion.
	ActionCompletionSelectNext     = "completion.selectNext"
	ActionCompletionSelectPrevious = "completion.selectPrevious"
	ActionCompletionAccept         = "completion.accept"
	ActionCompletionDismiss        = "completion.dismiss"

	// Modal-dialog actions (find, replace, global search), active while
	// State.Mode == mode.ModeDialog.
	ActionOpenDialog     = "dialog.open"
	ActionDialogAppend   = "dialog.appendQuery"
	ActionDialogBackspace = "dialog.backspaceQuery"
	ActionDialogConfirm  = "dialog.confirm"
	ActionDialogCancel   = "dialog.cancel"
	ActionDialogFocusNext = "dialog.focusNext"

	// Command-palette actions, active while State.Mode == mode.ModeCommandPalette.
	ActionOpenPalette          = "palette.open"
	ActionPaletteAppend        = "palette.appendQuery"
	ActionPaletteBackspace     = "palette.backspaceQuery"
	ActionPaletteSelectNext    = "palette.selectNext"
	ActionPaletteSelectPrevious = "palette.selectPrevious"
	ActionPaletteAccept        = "palette.accept"
	ActionPaletteClose         = "palette.close"
)

// DialogKind names which modal dialog a dialog.open action opens; it
// controls how reduceDialogConfirm interprets Dialog.Query/Replacement.
const (
	DialogFind            = "find"
	DialogReplace         = "replace"
	DialogFindInWorkspace = "findInWorkspace"
)

// Action is a command dispatched to Reduce. Args is loosely typed so the
// input/mode package (which must not import reducer, to avoid a cycle)
// can build actions without depending on this package's concrete arg
// types; Reduce type-asserts the keys it expects.
type Action struct {
	Name     string
	Args     map[string]any
	Priority Priority
}

// Priority tags an Action submitted to the loop's async inbound channel
// with the back-pressure class spec.md §5 requires: user-initiated
// request replies (PriorityHigh) must be delivered even under sustained
// load, while background traffic (PriorityLow) — log lines, progress,
// semantic-tokens/inlay-hints/folding/diagnostics replies — may be
// dropped once the channel stays full past a short grace window. The
// zero value is PriorityHigh: an action nobody classified is safer
// delivered than silently dropped.
type Priority uint8

const (
	PriorityHigh Priority = iota
	PriorityLow
)

// lowPriorityLspPurposes are the background LSP methods spec.md §4.7
// routes through the low-priority outgoing queue; their replies get the
// same treatment on the way back into the reducer.
var lowPriorityLspPurposes = map[string]bool{
	"textDocument/semanticTokens/full": true,
	"textDocument/semanticTokens/delta": true,
	"textDocument/inlayHint":           true,
	"textDocument/foldingRange":        true,
	"textDocument/diagnostic":          true,
	"workspace/diagnostic":             true,
}

// LspReplyPriority classifies an InvokeLsp purpose/method per spec.md
// §4.7's high/low priority channel split (hover, completion, definition,
// references, rename, code action, format, signature help are
// user-initiated and high priority; semantic tokens, inlay hints,
// folding, and diagnostics pulls are background and low priority).
func LspReplyPriority(purpose string) Priority {
	if lowPriorityLspPurposes[purpose] {
		return PriorityLow
	}
	return PriorityHigh
}

// Direction is a cursor-motion direction for MoveCursor/ExtendSelection.
type Direction uint8

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
	DirLineStart
	DirLineEnd
	DirFileStart
	DirFileEnd
)

// Granularity is the unit a MoveCursor/ExtendSelection step covers.
type Granularity uint8

const (
	ByGrapheme Granularity = iota
	ByWord
	ByLine
	ByPage
)

// Axis identifies which direction a mouse-wheel event scrolls.
type Axis uint8

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

// argDirection/argGranularity/argString/argInt read a typed value out of
// an Action's Args map, returning the zero value if absent or the wrong
// type rather than panicking: a malformed action is a no-op, not a crash.
//
// Both also accept a plain string (e.g. "up", "word") in addition to the
// typed constant: internal/input/keymap cannot import this package (it
// would cycle back through internal/reducer/loop.go), so its default
// bindings carry direction/granularity as strings and rely on this
// translation rather than the typed constants directly.
func argDirection(args map[string]any, key string) Direction {
	switch v := args[key].(type) {
	case Direction:
		return v
	case string:
		return directionFromString(v)
	default:
		return DirRight
	}
}

func directionFromString(s string) Direction {
	switch s {
	case "left":
		return DirLeft
	case "right":
		return DirRight
	case "up":
		return DirUp
	case "down":
		return DirDown
	case "lineStart":
		return DirLineStart
	case "lineEnd":
		return DirLineEnd
	case "fileStart":
		return DirFileStart
	case "fileEnd":
		return DirFileEnd
	default:
		return DirRight
	}
}

func argGranularity(args map[string]any, key string) Granularity {
	switch v := args[key].(type) {
	case Granularity:
		return v
	case string:
		return granularityFromString(v)
	default:
		return ByGrapheme
	}
}

func granularityFromString(s string) Granularity {
	switch s {
	case "grapheme":
		return ByGrapheme
	case "word":
		return ByWord
	case "line":
		return ByLine
	case "page":
		return ByPage
	default:
		return ByGrapheme
	}
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argInt(args map[string]any, key string) int {
	if v, ok := args[key].(int); ok {
		return v
	}
	return 0
}
