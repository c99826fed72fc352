package app

import (
	"fmt"

	"github.com/zcode-editor/zcode/internal/layout"
	"github.com/zcode-editor/zcode/internal/reducer"
	"github.com/zcode-editor/zcode/internal/renderer/core"
	"github.com/zcode-editor/zcode/internal/term"
	"github.com/zcode-editor/zcode/internal/viewport"
)

// textRenderer draws the active document's visible lines plus a status
// line into a term.Terminal. It has no syntax-highlighting or
// multi-pane layout of its own — those are renderer concerns spec.md
// leaves to future work — so it implements reducer.Renderer with the
// smallest surface that makes the editor usable: text, cursor, status.
type textRenderer struct {
	term   *term.Terminal
	layout *layout.Engine
}

func newTextRenderer(t *term.Terminal) *textRenderer {
	return &textRenderer{term: t, layout: layout.NewEngine(4)}
}

const statusRows = 1

// Render implements reducer.Renderer.
func (r *textRenderer) Render(s *reducer.State) {
	width, height := r.term.Size()
	r.term.Clear()

	textHeight := height - statusRows
	if textHeight < 0 {
		textHeight = 0
	}

	doc := s.ActiveDocument()
	if doc == nil {
		r.drawStatus(width, height, "", false, 0, 0, 0)
		r.term.ShowCursor(0, 0)
		r.term.Show()
		return
	}

	frame := viewport.Frame{
		TopLine: doc.ViewTop,
		Width:   width,
		Height:  textHeight,
		MaxLine: doc.Buffer.LineCount(),
	}

	for row := 0; row < textHeight; row++ {
		line := frame.TopLine + uint32(row)
		if line >= doc.Buffer.LineCount() {
			break
		}
		r.drawLine(row, doc.Buffer.LineText(line), line, width)
	}

	caretPoint := doc.Buffer.OffsetToPoint(doc.Sel.Caret)
	caretVisCol := viewport.VisualColumnOf(r.layout, doc.Buffer.LineText(caretPoint.Line), caretPoint.Line, int(caretPoint.Column))
	cursorRow, cursorCol := frame.BufferToScreen(caretPoint.Line, caretVisCol)

	r.drawStatus(width, height, doc.Buffer.Path(), doc.Buffer.IsDirty(), caretPoint.Line+1, caretVisCol+1, doc.DiagnosticCount)

	if cursorRow >= 0 {
		r.term.ShowCursor(cursorCol, cursorRow)
	} else {
		r.term.HideCursor()
	}
	r.term.Show()
}

// drawLine renders one buffer line (lineNum, for layout purposes such as
// tab stops) at screen row screenRow — which is the viewport-relative
// position, not the buffer line number itself.
func (r *textRenderer) drawLine(screenRow int, text string, lineNum uint32, width int) {
	ll := r.layout.Layout(text, lineNum)
	style := core.DefaultStyle()
	for i, cell := range ll.Cells {
		if i >= width {
			break
		}
		r.term.SetCell(i, screenRow, core.Cell{Rune: cell.Rune, Width: cell.Width, Style: style})
	}
}

func (r *textRenderer) drawStatus(width, height int, path string, dirty bool, line, col uint32, diagnostics int) {
	if height == 0 {
		return
	}
	row := height - 1
	dirtyMark := ""
	if dirty {
		dirtyMark = " [+]"
	}
	if path == "" {
		path = "[No Name]"
	}
	problems := ""
	if diagnostics > 0 {
		problems = fmt.Sprintf("  %d problem", diagnostics)
		if diagnostics != 1 {
			problems += "s"
		}
	}
	text := fmt.Sprintf(" %s%s  %d:%d%s", path, dirtyMark, line, col, problems)

	style := core.DefaultStyle().WithAttributes(core.AttrReverse)
	for i := 0; i < width; i++ {
		cell := core.EmptyCell()
		cell.Style = style
		if i < len(text) {
			cell.Rune = rune(text[i])
			cell.Width = 1
		}
		r.term.SetCell(i, row, cell)
	}
}
