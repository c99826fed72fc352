package reducer

import (
	"github.com/zcode-editor/zcode/internal/buffer"
	"github.com/zcode-editor/zcode/internal/editapply"
	"github.com/zcode-editor/zcode/internal/selection"
)

// Reduce applies action to s in place and returns the effects it wants
// performed. Reduce never blocks and never performs I/O itself — every
// side-causing outcome is represented as an Effect for the caller to hand
// to a worker.
func Reduce(s *State, action Action) []Effect {
	switch action.Name {
	case ActionInsertText:
		return reduceInsertText(s, action)
	case ActionDeleteLeft:
		return reduceDeleteLeft(s)
	case ActionDeleteRight:
		return reduceDeleteRight(s)
	case ActionMoveCursor:
		return reduceMoveCursor(s, action)
	case ActionExtendSelection:
		return reduceExtendSelection(s, action)
	case ActionSave:
		return reduceSave(s)
	case ActionUndo:
		return reduceUndo(s)
	case ActionRedo:
		return reduceRedo(s)
	case ActionOpenFile:
		return reduceOpenFile(s, action)
	case ActionCloseTab:
		s.CloseActiveDocument()
		return nil
	case ActionFocusView:
		return reduceFocusView(s, action)
	case ActionInvokeLsp:
		return reduceInvokeLsp(s, action)
	case ActionApplyWorkspaceEdit:
		return reduceApplyWorkspaceEdit(s, action)
	case ActionLspReply:
		return reduceLspReply(s, action)
	case ActionServerCrashed:
		s.Dirty = true
		return nil
	case ActionFileSaved:
		return reduceFileSaved(s, action)
	case ActionDiagnostics:
		return reduceDiagnostics(s, action)
	case ActionResizeViewport:
		return reduceResizeViewport(s, action)
	case ActionScroll:
		return reduceScroll(s, action)
	case ActionQuit:
		s.Quit = true
		return nil
	case ActionTick:
		return nil
	default:
		return nil
	}
}

func reduceInsertText(s *State, action Action) []Effect {
	doc := s.ActiveDocument()
	if doc == nil {
		return nil
	}
	text := argString(action.Args, "text")
	if text == "" {
		return nil
	}
	r := doc.Sel.Range()
	end, err := doc.Buffer.Replace(r.Start, r.End, text)
	if err != nil {
		return nil
	}
	doc.Sel = selection.SetCaret(end)
	s.Dirty = true
	return didChangeEffect(s, doc)
}

func reduceDeleteLeft(s *State) []Effect {
	doc := s.ActiveDocument()
	if doc == nil {
		return nil
	}
	if !doc.Sel.IsEmpty() {
		return deleteRange(s, doc, doc.Sel.Range())
	}
	if doc.Sel.Caret == 0 {
		return nil
	}
	start := graphemeBackward(doc.Buffer, doc.Sel.Caret)
	return deleteRange(s, doc, selection.Range{Start: start, End: doc.Sel.Caret})
}

func reduceDeleteRight(s *State) []Effect {
	doc := s.ActiveDocument()
	if doc == nil {
		return nil
	}
	if !doc.Sel.IsEmpty() {
		return deleteRange(s, doc, doc.Sel.Range())
	}
	if doc.Sel.Caret >= doc.Buffer.Len() {
		return nil
	}
	end := graphemeForward(doc.Buffer, doc.Sel.Caret)
	return deleteRange(s, doc, selection.Range{Start: doc.Sel.Caret, End: end})
}

func deleteRange(s *State, doc *Document, r selection.Range) []Effect {
	if err := doc.Buffer.Delete(r.Start, r.End); err != nil {
		return nil
	}
	doc.Sel = selection.SetCaret(r.Start)
	s.Dirty = true
	return didChangeEffect(s, doc)
}

func reduceMoveCursor(s *State, action Action) []Effect {
	doc := s.ActiveDocument()
	if doc == nil {
		return nil
	}
	dir := argDirection(action.Args, "direction")
	by := argGranularity(action.Args, "by")
	target := motionTarget(doc.Buffer, doc.Sel.Caret, dir, by, s.ViewportHeight)
	doc.Sel = selection.SetCaret(target)
	ensureCaretVisible(s, doc)
	s.Dirty = true
	return nil
}

func reduceExtendSelection(s *State, action Action) []Effect {
	doc := s.ActiveDocument()
	if doc == nil {
		return nil
	}
	dir := argDirection(action.Args, "direction")
	by := argGranularity(action.Args, "by")
	target := motionTarget(doc.Buffer, doc.Sel.Caret, dir, by, s.ViewportHeight)
	doc.Sel = doc.Sel.ExtendTo(target)
	ensureCaretVisible(s, doc)
	s.Dirty = true
	return nil
}

// ensureCaretVisible scrolls ViewTop so the caret's line stays on screen,
// mirroring the teacher's post-dispatch auto-scroll.
func ensureCaretVisible(s *State, doc *Document) {
	line := doc.Buffer.OffsetToPoint(doc.Sel.Caret).Line
	height := uint32(s.ViewportHeight)
	if height == 0 {
		return
	}
	if line < doc.ViewTop {
		doc.ViewTop = line
	} else if line >= doc.ViewTop+height {
		doc.ViewTop = line - height + 1
	}
}

func reduceSave(s *State) []Effect {
	if s.ReadOnly {
		return nil
	}
	doc := s.ActiveDocument()
	if doc == nil {
		return nil
	}
	return []Effect{SaveFile{Path: doc.Buffer.Path(), Content: doc.Buffer.Save()}}
}

func reduceUndo(s *State) []Effect {
	doc := s.ActiveDocument()
	if doc == nil {
		return nil
	}
	pos, ok := doc.Buffer.Undo()
	if !ok {
		return nil
	}
	doc.Sel = selection.SetCaret(doc.Buffer.PointToOffset(pos))
	ensureCaretVisible(s, doc)
	s.Dirty = true
	return didChangeEffect(s, doc)
}

func reduceRedo(s *State) []Effect {
	doc := s.ActiveDocument()
	if doc == nil {
		return nil
	}
	pos, ok := doc.Buffer.Redo()
	if !ok {
		return nil
	}
	doc.Sel = selection.SetCaret(doc.Buffer.PointToOffset(pos))
	ensureCaretVisible(s, doc)
	s.Dirty = true
	return didChangeEffect(s, doc)
}

func reduceOpenFile(s *State, action Action) []Effect {
	path := argString(action.Args, "path")
	if path == "" {
		return nil
	}
	for i, doc := range s.Documents {
		if doc.Buffer.Path() == path {
			s.Active = i
			s.Dirty = true
			return nil
		}
	}

	// A worker that already read the file hands its content back as a
	// follow-up ActionOpenFile; without it this is the first request and
	// the actual disk read is deferred to the OpenFile effect.
	content, hasContent := action.Args["content"].(string)
	if !hasContent {
		return []Effect{OpenFile{Path: path}}
	}

	buf := buffer.NewBufferFromString(content, buffer.WithPath(path), buffer.WithDetectedLineEnding(content))
	if languageID := argString(action.Args, "languageID"); languageID != "" {
		buf.SetLanguageID(languageID)
	}
	buf.MarkSaved()
	s.AddDocument(NewDocument(buf))
	return nil
}

// reduceFileSaved marks the document at path clean once its SaveFile
// effect has completed without error; a failed save leaves the dirty
// flag set so the user still sees it needs attention.
func reduceFileSaved(s *State, action Action) []Effect {
	path := argString(action.Args, "path")
	if errVal, _ := action.Args["error"].(error); errVal != nil {
		return nil
	}
	for _, doc := range s.Documents {
		if doc.Buffer.Path() == path {
			doc.Buffer.MarkSaved()
			s.Dirty = true
			break
		}
	}
	return nil
}

// reduceDiagnostics records the most recent textDocument/publishDiagnostics
// count for the buffer at "path", surfaced by the status bar's problem
// indicator (spec.md §7: "a persistent problem indicator in the status
// bar summarizes counts", not a modal pop-up).
func reduceDiagnostics(s *State, action Action) []Effect {
	path := argString(action.Args, "path")
	count := argInt(action.Args, "count")
	for _, doc := range s.Documents {
		if doc.Buffer.Path() == path {
			doc.DiagnosticCount = count
			s.Dirty = true
			break
		}
	}
	return nil
}

func reduceFocusView(s *State, action Action) []Effect {
	id := argInt(action.Args, "id")
	if id < 0 || id >= len(s.Documents) {
		return nil
	}
	s.Active = id
	s.Dirty = true
	return nil
}

func reduceInvokeLsp(s *State, action Action) []Effect {
	doc := s.ActiveDocument()
	if doc == nil {
		return nil
	}
	method := argString(action.Args, "method")
	purpose := argString(action.Args, "purpose")
	if purpose == "" {
		purpose = method
	}

	root := s.lspRoot(doc)

	var effects []Effect
	if staleID := s.supersede(purpose); staleID != 0 {
		effects = append(effects, CancelLsp{
			Language:  doc.Buffer.LanguageID(),
			RootPath:  root,
			RequestID: staleID,
		})
	}

	id := s.nextRequestID(purpose)
	effects = append(effects, InvokeLsp{
		Language:  doc.Buffer.LanguageID(),
		RootPath:  root,
		Method:    method,
		Params:    action.Args["params"],
		RequestID: id,
		Purpose:   purpose,
	})
	return effects
}

func reduceApplyWorkspaceEdit(s *State, action Action) []Effect {
	edit, ok := action.Args["edit"].(editapply.WorkspaceEdit)
	if !ok {
		return nil
	}
	return []Effect{ApplyWorkspaceEditEffect{Edit: edit}}
}

func reduceLspReply(s *State, action Action) []Effect {
	id, ok := action.Args["requestId"].(int64)
	if !ok {
		return nil
	}
	purpose := argString(action.Args, "purpose")
	if !s.isCurrentRequest(purpose, id) {
		// Superseded or already-cancelled request; its reply is discarded.
		return nil
	}
	s.clearRequest(id)
	s.Dirty = true
	return nil
}

func reduceResizeViewport(s *State, action Action) []Effect {
	w := argInt(action.Args, "width")
	h := argInt(action.Args, "height")
	if w <= 0 || h <= 0 {
		return nil
	}
	s.ViewportWidth = w
	s.ViewportHeight = h
	if doc := s.ActiveDocument(); doc != nil {
		ensureCaretVisible(s, doc)
	}
	s.Dirty = true
	return nil
}

func reduceScroll(s *State, action Action) []Effect {
	doc := s.ActiveDocument()
	if doc == nil {
		return nil
	}
	axis, _ := action.Args["axis"].(Axis)
	delta := argInt(action.Args, "delta")
	if axis != AxisVertical || delta == 0 {
		return nil
	}
	lineCount := int64(doc.Buffer.LineCount())
	newTop := int64(doc.ViewTop) - int64(delta)
	if newTop < 0 {
		newTop = 0
	}
	if newTop >= lineCount {
		newTop = lineCount - 1
	}
	doc.ViewTop = uint32(newTop)
	s.Dirty = true
	return nil
}

// didChangeEffect returns the NotifyLsp effect that keeps a running
// language server in sync after a buffer mutation, or nil if the
// document has no language server association yet (left to the caller:
// Reduce doesn't know which servers are running, only that one might
// need telling).
func didChangeEffect(s *State, doc *Document) []Effect {
	if doc.Buffer.LanguageID() == "" {
		return nil
	}
	return []Effect{NotifyLsp{
		Language: doc.Buffer.LanguageID(),
		RootPath: s.lspRoot(doc),
		Method:   "textDocument/didChange",
	}}
}
