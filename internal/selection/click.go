package selection

import (
	"github.com/rivo/uniseg"

	"github.com/zcode-editor/zcode/internal/buffer"
)

// DoubleClickSelect selects the grapheme cluster under offset: a
// user-perceived character, which may span more than one rune (e.g. an
// emoji with a variation selector, or a combining-mark sequence).
func DoubleClickSelect(b *buffer.Buffer, offset ByteOffset) Selection {
	line := b.OffsetToPoint(offset).Line
	lineStart := b.LineStartOffset(line)
	lineEnd := b.LineEndOffset(line)
	lineText := b.TextRange(lineStart, lineEnd)

	rel := int(offset - lineStart)
	start, end := clusterBounds(lineText, rel)
	return FromRange(Range{Start: lineStart + ByteOffset(start), End: lineStart + ByteOffset(end)})
}

// clusterBounds returns the [start, end) byte bounds, relative to s, of
// the grapheme cluster containing byte offset rel. If rel lands beyond
// the last cluster (e.g. the end of the line), the last cluster is
// returned; an empty s returns (0, 0).
func clusterBounds(s string, rel int) (int, int) {
	if s == "" {
		return 0, 0
	}
	if rel < 0 {
		rel = 0
	}

	gr := uniseg.NewGraphemes(s)
	pos := 0
	for gr.Next() {
		clusterStart, clusterEnd := pos, pos+len(gr.Str())
		if rel < clusterEnd || clusterEnd == len(s) {
			return clusterStart, clusterEnd
		}
		pos = clusterEnd
	}
	return 0, len(s)
}

// TripleClickSelect selects the logical line containing offset, including
// its trailing newline if the buffer has one (the last line of a buffer
// that doesn't end in a newline has none to include).
func TripleClickSelect(b *buffer.Buffer, offset ByteOffset) Selection {
	line := b.OffsetToPoint(offset).Line
	start := b.LineStartOffset(line)
	end := b.LineEndOffset(line)

	if nl, ok := b.ByteAt(end); ok && nl == '\n' {
		end++
	}
	return FromRange(Range{Start: start, End: end})
}
