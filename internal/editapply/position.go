package editapply

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/zcode-editor/zcode/internal/buffer"
)

// Unit names the measure a Position's Column is expressed in.
type Unit uint8

const (
	// UnitUTF8Bytes measures Column as a byte offset within the line.
	UnitUTF8Bytes Unit = iota
	// UnitUTF16Units measures Column as a count of UTF-16 code units
	// (surrogate pairs count as 2), the unit LSP servers speak by default.
	UnitUTF16Units
	// UnitGraphemes measures Column as a count of grapheme clusters.
	UnitGraphemes
)

// Position is a (line, column) pair whose column is interpreted according
// to a Unit supplied alongside it.
type Position struct {
	Line   uint32
	Column uint32
}

// Range is a pair of Positions in the same unit, Start inclusive and End
// exclusive.
type Range struct {
	Start Position
	End   Position
}

// toByteRange resolves r to a byte range in b's current content. The
// start endpoint rounds down and the end endpoint rounds up when a
// UTF-16 column falls inside a surrogate pair, per the workspace-edit
// unit-conversion contract.
func toByteRange(b *buffer.Buffer, r Range, unit Unit) (buffer.Range, error) {
	start, err := positionToOffset(b, r.Start, unit, false)
	if err != nil {
		return buffer.Range{}, err
	}
	end, err := positionToOffset(b, r.End, unit, true)
	if err != nil {
		return buffer.Range{}, err
	}
	if end < start {
		return buffer.Range{}, ErrInvalidBoundary
	}
	return buffer.Range{Start: start, End: end}, nil
}

func positionToOffset(b *buffer.Buffer, pos Position, unit Unit, roundUp bool) (buffer.ByteOffset, error) {
	if b.LineCount() == 0 {
		if pos.Line != 0 || pos.Column != 0 {
			return 0, ErrInvalidBoundary
		}
		return 0, nil
	}
	if pos.Line >= b.LineCount() {
		return 0, ErrInvalidBoundary
	}

	lineStart := b.LineStartOffset(pos.Line)
	text := b.LineText(pos.Line)

	switch unit {
	case UnitUTF8Bytes:
		col := int(pos.Column)
		if col < 0 || col > len(text) {
			return 0, ErrInvalidBoundary
		}
		if col < len(text) && !utf8.RuneStart(text[col]) {
			return 0, ErrInvalidBoundary
		}
		return lineStart + buffer.ByteOffset(col), nil
	case UnitUTF16Units:
		return lineStart + buffer.ByteOffset(utf16ColumnToByteOffset(text, pos.Column, roundUp)), nil
	case UnitGraphemes:
		return lineStart + buffer.ByteOffset(graphemeColumnToByteOffset(text, int(pos.Column))), nil
	default:
		return 0, ErrInvalidBoundary
	}
}

// utf16ColumnToByteOffset walks line accumulating UTF-16 code units (1 for
// BMP runes, 2 for runes needing a surrogate pair) and returns the byte
// offset at which the cumulative count reaches target. A target landing
// inside a surrogate pair's two units rounds down (stops before the rune)
// unless roundUp is set (skips past it).
func utf16ColumnToByteOffset(line string, target uint32, roundUp bool) int {
	var col uint32
	var byteOffset int
	for _, r := range line {
		if col >= target {
			break
		}
		units := uint32(1)
		if r >= 0x10000 {
			units = 2
		}
		if col+units > target {
			if roundUp {
				byteOffset += utf8.RuneLen(r)
			}
			return byteOffset
		}
		col += units
		byteOffset += utf8.RuneLen(r)
	}
	return byteOffset
}

// graphemeColumnToByteOffset walks line's grapheme clusters and returns
// the byte offset at which target whole clusters have been consumed.
// target beyond the line's cluster count clamps to len(line).
func graphemeColumnToByteOffset(line string, target int) int {
	if target <= 0 {
		return 0
	}
	count := 0
	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		start, _ := gr.Positions()
		if count == target {
			return start
		}
		count++
	}
	return len(line)
}
