package reducer

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/zcode-editor/zcode/internal/buffer"
)

// motionTarget computes the byte offset that direction/by moves to from
// offset within buf. It never returns an offset outside [0, buf.Len()].
func motionTarget(buf *buffer.Buffer, offset buffer.ByteOffset, dir Direction, by Granularity, viewportHeight int) buffer.ByteOffset {
	switch dir {
	case DirLineStart:
		p := buf.OffsetToPoint(offset)
		return buf.LineStartOffset(p.Line)
	case DirLineEnd:
		p := buf.OffsetToPoint(offset)
		return buf.LineEndOffset(p.Line)
	case DirFileStart:
		return 0
	case DirFileEnd:
		return buf.Len()
	case DirUp, DirDown:
		return verticalMotion(buf, offset, dir, by, viewportHeight)
	case DirLeft:
		return horizontalMotion(buf, offset, by, false)
	case DirRight:
		return horizontalMotion(buf, offset, by, true)
	default:
		return offset
	}
}

// horizontalMotion steps one grapheme cluster or one word in the given
// direction (forward when fwd is true).
func horizontalMotion(buf *buffer.Buffer, offset buffer.ByteOffset, by Granularity, fwd bool) buffer.ByteOffset {
	switch by {
	case ByWord:
		if fwd {
			return wordForward(buf, offset)
		}
		return wordBackward(buf, offset)
	default: // ByGrapheme, ByLine, ByPage all degrade to a single cluster step horizontally
		if fwd {
			return graphemeForward(buf, offset)
		}
		return graphemeBackward(buf, offset)
	}
}

func graphemeForward(buf *buffer.Buffer, offset buffer.ByteOffset) buffer.ByteOffset {
	if offset >= buf.Len() {
		return buf.Len()
	}
	p := buf.OffsetToPoint(offset)
	lineStart := buf.LineStartOffset(p.Line)
	lineEnd := buf.LineEndOffset(p.Line)
	if offset >= lineEnd {
		// At end of line: step onto the next line's start.
		if p.Line+1 < buf.LineCount() {
			return buf.LineStartOffset(p.Line + 1)
		}
		return buf.Len()
	}
	text := buf.TextRange(lineStart, lineEnd)
	rel := int(offset - lineStart)
	gr := uniseg.NewGraphemes(text)
	pos := 0
	for gr.Next() {
		end := pos + len(gr.Str())
		if pos <= rel && rel < end {
			return lineStart + buffer.ByteOffset(end)
		}
		pos = end
	}
	return lineEnd
}

func graphemeBackward(buf *buffer.Buffer, offset buffer.ByteOffset) buffer.ByteOffset {
	if offset <= 0 {
		return 0
	}
	p := buf.OffsetToPoint(offset)
	lineStart := buf.LineStartOffset(p.Line)
	if offset <= lineStart {
		if p.Line == 0 {
			return 0
		}
		return buf.LineEndOffset(p.Line - 1)
	}
	lineEnd := buf.LineEndOffset(p.Line)
	text := buf.TextRange(lineStart, lineEnd)
	rel := int(offset - lineStart)
	gr := uniseg.NewGraphemes(text)
	pos := 0
	last := 0
	for gr.Next() {
		end := pos + len(gr.Str())
		if end >= rel {
			return lineStart + buffer.ByteOffset(pos)
		}
		last = pos
		pos = end
	}
	return lineStart + buffer.ByteOffset(last)
}

// isWordRune reports whether r participates in a "word" for word-motion
// purposes: letters, digits, and underscore.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func wordForward(buf *buffer.Buffer, offset buffer.ByteOffset) buffer.ByteOffset {
	text := buf.Text()
	i := int(offset)
	n := len(text)
	if i >= n {
		return buf.Len()
	}
	// Skip the current run of word (or non-word, non-space) characters.
	r, size := utf8.DecodeRuneInString(text[i:])
	startsWord := isWordRune(r)
	for i < n {
		r, size = utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) || isWordRune(r) != startsWord {
			break
		}
		i += size
	}
	// Skip whitespace to the start of the next word.
	for i < n {
		r, size = utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return buffer.ByteOffset(i)
}

func wordBackward(buf *buffer.Buffer, offset buffer.ByteOffset) buffer.ByteOffset {
	text := buf.Text()
	i := int(offset)
	if i <= 0 {
		return 0
	}
	// Skip whitespace backward.
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if !unicode.IsSpace(r) {
			break
		}
		i -= size
	}
	if i == 0 {
		return 0
	}
	r, size := utf8.DecodeLastRuneInString(text[:i])
	inWord := isWordRune(r)
	for i > 0 {
		r, size = utf8.DecodeLastRuneInString(text[:i])
		if unicode.IsSpace(r) || isWordRune(r) != inWord {
			break
		}
		i -= size
	}
	return buffer.ByteOffset(i)
}

// verticalMotion moves by one line (By == ByLine or ByGrapheme/ByWord,
// all treated as one visual line) or by a full viewport page (ByPage),
// preserving the column by rune count rather than visual width — exact
// tab/wide-character visual-column tracking belongs to the layout engine
// and is wired in once the viewport owns rendering (see internal/layout).
func verticalMotion(buf *buffer.Buffer, offset buffer.ByteOffset, dir Direction, by Granularity, viewportHeight int) buffer.ByteOffset {
	p := buf.OffsetToPoint(offset)
	lineStart := buf.LineStartOffset(p.Line)
	col := runeColumn(buf.TextRange(lineStart, offset))

	delta := int32(1)
	if by == ByPage {
		delta = int32(viewportHeight)
		if delta <= 0 {
			delta = 1
		}
	}
	if dir == DirUp {
		delta = -delta
	}

	target := int64(p.Line) + int64(delta)
	if target < 0 {
		target = 0
	}
	if lc := int64(buf.LineCount()); target >= lc {
		target = lc - 1
	}

	targetLine := uint32(target)
	targetStart := buf.LineStartOffset(targetLine)
	targetEnd := buf.LineEndOffset(targetLine)
	return clampToColumn(buf, targetStart, targetEnd, col)
}

// runeColumn counts runes in s (used as a column measure for vertical
// motion; see verticalMotion's doc comment on the tab/wide-char caveat).
func runeColumn(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// clampToColumn returns the offset col runes into [lineStart, lineEnd),
// clamped to lineEnd if the target line is shorter.
func clampToColumn(buf *buffer.Buffer, lineStart, lineEnd buffer.ByteOffset, col int) buffer.ByteOffset {
	text := buf.TextRange(lineStart, lineEnd)
	i := 0
	n := 0
	for n < col && i < len(text) {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
		n++
	}
	return lineStart + buffer.ByteOffset(i)
}
