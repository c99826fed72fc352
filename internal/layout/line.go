package layout

import (
	"github.com/rivo/uniseg"

	"github.com/zcode-editor/zcode/internal/renderer/core"
)

// Cluster records one grapheme cluster's position within a laid-out
// line: where it starts in bytes and in chars (code points), and where
// it starts and how wide it is on screen.
type Cluster struct {
	ByteOffset int // byte offset of the cluster's first byte, relative to the line
	CharOffset int // code-point offset of the cluster's first rune, relative to the line
	Column     int // visual column the cluster starts at
	Width      int // display width: 1, or 2 for wide clusters
}

// LineLayout is the visual layout of a single buffer line.
type LineLayout struct {
	BufferLine uint32 // 0-indexed buffer line number

	Cells    []core.Cell // visual cells, after tab expansion and wide-cluster continuation cells
	Clusters []Cluster   // grapheme clusters in line order
	ColToIdx []int       // visual column -> index into Clusters

	Width   int  // total visual width in columns
	HasTabs bool // line contains a tab
	HasWide bool // line contains a wide grapheme cluster
}

// VisualColumn converts a cluster index to its visual column. An index
// beyond the last cluster extrapolates one column per extra cluster.
func (l *LineLayout) VisualColumn(clusterIdx int) int {
	if len(l.Clusters) == 0 {
		return clusterIdx
	}
	if clusterIdx < len(l.Clusters) {
		return l.Clusters[clusterIdx].Column
	}
	last := l.Clusters[len(l.Clusters)-1]
	return last.Column + last.Width + (clusterIdx - len(l.Clusters))
}

// ClusterAtColumn returns the index of the cluster occupying visual
// column visCol, clamping to the line's bounds.
func (l *LineLayout) ClusterAtColumn(visCol int) int {
	if len(l.ColToIdx) == 0 {
		return 0
	}
	if visCol < 0 {
		visCol = 0
	}
	if visCol >= len(l.ColToIdx) {
		return len(l.Clusters)
	}
	return l.ColToIdx[visCol]
}

// ByteOffsetAtColumn converts a visual column to a byte offset relative
// to the start of the line, snapping to the cluster occupying that
// column. Columns past the end of the line return the line's byte
// length.
func (l *LineLayout) ByteOffsetAtColumn(visCol int) int {
	idx := l.ClusterAtColumn(visCol)
	if idx >= len(l.Clusters) {
		if len(l.Clusters) == 0 {
			return 0
		}
		last := l.Clusters[len(l.Clusters)-1]
		return last.ByteOffset
	}
	return l.Clusters[idx].ByteOffset
}

// IsEmpty reports whether the line has no visible cells.
func (l *LineLayout) IsEmpty() bool {
	return len(l.Cells) == 0
}

// Engine computes LineLayouts for a configured tab width.
type Engine struct {
	tabWidth int
}

// NewEngine creates a layout engine. tabWidth below 1 is treated as 4.
func NewEngine(tabWidth int) *Engine {
	if tabWidth < 1 {
		tabWidth = 4
	}
	return &Engine{tabWidth: tabWidth}
}

// TabWidth returns the configured tab width.
func (e *Engine) TabWidth() int { return e.tabWidth }

// SetTabWidth changes the tab width used by subsequent Layout calls.
func (e *Engine) SetTabWidth(width int) {
	if width < 1 {
		width = 1
	}
	e.tabWidth = width
}

// Layout computes the visual layout of line, a single buffer line's text
// with no trailing newline.
func (e *Engine) Layout(line string, bufferLine uint32) *LineLayout {
	l := &LineLayout{
		BufferLine: bufferLine,
		Cells:      make([]core.Cell, 0, len(line)),
		Clusters:   make([]Cluster, 0, len(line)),
		ColToIdx:   make([]int, 0, len(line)),
	}

	defaultStyle := core.DefaultStyle()
	col := 0
	charOffset := 0
	gr := uniseg.NewGraphemes(line)

	for gr.Next() {
		str := gr.Str()
		byteOffset, _ := gr.Positions()
		runeCount := len([]rune(str))

		if str == "\t" {
			l.HasTabs = true
			width := e.tabWidth - (col % e.tabWidth)
			l.Clusters = append(l.Clusters, Cluster{
				ByteOffset: byteOffset,
				CharOffset: charOffset,
				Column:     col,
				Width:      width,
			})
			for i := 0; i < width; i++ {
				l.Cells = append(l.Cells, core.Cell{Rune: ' ', Width: 1, Style: defaultStyle})
				l.ColToIdx = append(l.ColToIdx, len(l.Clusters)-1)
			}
			col += width
			charOffset += runeCount
			continue
		}

		width := uniseg.StringWidth(str)
		if width == 2 {
			l.HasWide = true
		}

		l.Clusters = append(l.Clusters, Cluster{
			ByteOffset: byteOffset,
			CharOffset: charOffset,
			Column:     col,
			Width:      width,
		})

		firstRune := []rune(str)[0]
		l.Cells = append(l.Cells, core.Cell{Rune: firstRune, Width: width, Style: defaultStyle})
		l.ColToIdx = append(l.ColToIdx, len(l.Clusters)-1)
		for i := 1; i < width; i++ {
			l.Cells = append(l.Cells, core.ContinuationCell())
			l.ColToIdx = append(l.ColToIdx, len(l.Clusters)-1)
		}

		col += width
		charOffset += runeCount
	}

	l.Width = col
	return l
}

// LayoutWithStyle is Layout with a base style applied to every cell.
func (e *Engine) LayoutWithStyle(line string, bufferLine uint32, style core.Style) *LineLayout {
	l := e.Layout(line, bufferLine)
	for i := range l.Cells {
		l.Cells[i].Style = style
	}
	return l
}

// ApplyStyles applies style spans, given in buffer byte columns, to a
// layout's cells. Spans are applied in order, so later spans win.
func (e *Engine) ApplyStyles(l *LineLayout, spans []core.StyleSpan) {
	for _, span := range spans {
		if span.StartCol > span.EndCol {
			continue
		}
		start := clusterColumnForByte(l, int(span.StartCol))
		end := clusterColumnForByte(l, int(span.EndCol))
		if start > len(l.Cells) {
			start = len(l.Cells)
		}
		if end > len(l.Cells) {
			end = len(l.Cells)
		}
		for i := start; i < end; i++ {
			l.Cells[i].Style = l.Cells[i].Style.Merge(span.Style)
		}
	}
}

// clusterColumnForByte returns the visual cell index at which the
// cluster starting at or after byte offset byteCol begins, or the
// line's cell count if byteCol is beyond its last cluster.
func clusterColumnForByte(l *LineLayout, byteCol int) int {
	for _, c := range l.Clusters {
		if c.ByteOffset >= byteCol {
			return c.Column
		}
	}
	return len(l.Cells)
}
