// Package viewport converts between buffer coordinates (line, visual
// column) and screen coordinates (row, col), and computes the scroll
// adjustment needed to keep a position within view. It holds no state
// of its own: reducer.Document.ViewTop is the single authoritative
// vertical scroll position (Document keeps no horizontal scroll offset),
// and the renderer builds a Frame from it fresh each time it draws.
package viewport

import (
	"github.com/zcode-editor/zcode/internal/layout"
)

// Margins is how many lines/columns of context to keep around the caret
// before Reveal scrolls.
type Margins struct {
	Top, Bottom, Left, Right int
}

// DefaultMargins matches the teacher's default scrolloff/sidescrolloff.
func DefaultMargins() Margins {
	return Margins{Top: 3, Bottom: 3, Left: 5, Right: 5}
}

// Frame is a snapshot of what's currently on screen: the top-left
// buffer position and the screen size, plus how many lines the
// document has so edge math can clamp correctly.
type Frame struct {
	TopLine    uint32
	LeftColumn int
	Width      int
	Height     int
	MaxLine    uint32 // 0 means unknown/unbounded
}

// BottomLine is the last visible buffer line.
func (f Frame) BottomLine() uint32 {
	if f.Height <= 0 {
		return f.TopLine
	}
	bottom := f.TopLine + uint32(f.Height) - 1
	if f.MaxLine > 0 && bottom > f.MaxLine-1 {
		bottom = f.MaxLine - 1
	}
	return bottom
}

// IsLineVisible reports whether line is within [TopLine, BottomLine].
func (f Frame) IsLineVisible(line uint32) bool {
	return line >= f.TopLine && line <= f.BottomLine()
}

// IsColumnVisible reports whether visualCol is within the horizontal
// window.
func (f Frame) IsColumnVisible(visualCol int) bool {
	return visualCol >= f.LeftColumn && visualCol < f.LeftColumn+f.Width
}

// LineToScreenRow converts a buffer line to a screen row, or -1 if the
// line isn't currently visible.
func (f Frame) LineToScreenRow(line uint32) int {
	if !f.IsLineVisible(line) {
		return -1
	}
	return int(line - f.TopLine)
}

// ScreenRowToLine converts a screen row back to a buffer line, clamped
// to the document's last known line.
func (f Frame) ScreenRowToLine(row int) uint32 {
	if row < 0 {
		row = 0
	}
	line := f.TopLine + uint32(row)
	if f.MaxLine > 0 && line >= f.MaxLine {
		line = f.MaxLine - 1
	}
	return line
}

// BufferToScreen converts a (line, visual column) pair to a screen (row,
// col), returning (-1, -1) if the position isn't currently on screen.
func (f Frame) BufferToScreen(line uint32, visualCol int) (row, col int) {
	if !f.IsLineVisible(line) || !f.IsColumnVisible(visualCol) {
		return -1, -1
	}
	return int(line - f.TopLine), visualCol - f.LeftColumn
}

// ScreenToBuffer converts a screen (row, col) back to a (line, visual
// column) pair.
func (f Frame) ScreenToBuffer(row, col int) (line uint32, visualCol int) {
	return f.ScreenRowToLine(row), f.LeftColumn + col
}

// PageSize is how many lines a page-up/page-down motion covers: one
// screen height minus a two-line overlap, so a page jump keeps a little
// context from the previous page.
func (f Frame) PageSize() int {
	size := f.Height - 2
	if size < 1 {
		size = 1
	}
	return size
}

// clampLine keeps line within [0, maxLine-1] when maxLine is known.
func clampLine(line, maxLine uint32) uint32 {
	if maxLine > 0 && line >= maxLine {
		return maxLine - 1
	}
	return line
}

// Reveal computes the scroll position needed to bring (line, visualCol)
// within f's margins, returning the new top line / left column and
// whether anything actually needed to move. It does not mutate f; the
// caller assigns the results back wherever it keeps its scroll position.
// reducer's ensureCaretVisible does its own margin-free scroll math and
// does not call Reveal.
func Reveal(f Frame, m Margins, line uint32, visualCol int) (topLine uint32, leftColumn int, moved bool) {
	topLine, leftColumn = f.TopLine, f.LeftColumn

	if line < f.TopLine+uint32(m.Top) {
		if line >= uint32(m.Top) {
			topLine = line - uint32(m.Top)
		} else {
			topLine = 0
		}
		moved = true
	} else if line > f.BottomLine()-uint32(m.Bottom) {
		if f.Height > m.Bottom {
			topLine = line - uint32(f.Height) + uint32(m.Bottom) + 1
		} else {
			topLine = line
		}
		moved = true
	}
	topLine = clampLine(topLine, f.MaxLine)

	screenCol := visualCol - f.LeftColumn
	if screenCol < m.Left {
		leftColumn = visualCol - m.Left
		if leftColumn < 0 {
			leftColumn = 0
		}
		moved = true
	} else if screenCol > f.Width-m.Right {
		leftColumn = visualCol - f.Width + m.Right
		moved = true
	}

	return topLine, leftColumn, moved
}

// VisualColumnOf translates a document's byte column on a line into the
// visual column Reveal/BufferToScreen expect, accounting for tabs and
// wide graphemes via the layout engine.
func VisualColumnOf(engine *layout.Engine, lineText string, lineNum uint32, byteCol int) int {
	ll := engine.Layout(lineText, lineNum)
	for i, c := range ll.Clusters {
		if c.ByteOffset >= byteCol {
			return ll.VisualColumn(i)
		}
	}
	return ll.VisualColumn(len(ll.Clusters))
}
