package editapply

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zcode-editor/zcode/internal/buffer"
)

func TestToByteRangeUTF8Bytes(t *testing.T) {
	b := buffer.NewBufferFromString("hello world")
	r, err := toByteRange(b, Range{Start: Position{Line: 0, Column: 6}, End: Position{Line: 0, Column: 11}}, UnitUTF8Bytes)
	require.NoError(t, err)
	require.Equal(t, buffer.ByteOffset(6), r.Start)
	require.Equal(t, buffer.ByteOffset(11), r.End)
}

func TestToByteRangeUTF8BytesRejectsMidRuneBoundary(t *testing.T) {
	b := buffer.NewBufferFromString("a" + "好") // "好" is 3 bytes
	_, err := toByteRange(b, Range{Start: Position{Line: 0, Column: 2}, End: Position{Line: 0, Column: 4}}, UnitUTF8Bytes)
	require.ErrorIs(t, err, ErrInvalidBoundary)
}

func TestToByteRangeUTF16UnitsBMP(t *testing.T) {
	b := buffer.NewBufferFromString("h" + "\u00e9" + "llo") // U+00E9 is 2 bytes, 1 UTF-16 unit
	r, err := toByteRange(b, Range{Start: Position{Line: 0, Column: 0}, End: Position{Line: 0, Column: 2}}, UnitUTF16Units)
	require.NoError(t, err)
	require.Equal(t, "h\u00e9", b.TextRange(r.Start, r.End))
}

func TestToByteRangeUTF16UnitsSurrogatePairRounding(t *testing.T) {
	// U+1F600 (grinning face) is a 4-byte rune, 2 UTF-16 units (a
	// surrogate pair), between two ASCII letters.
	b := buffer.NewBufferFromString("a\U0001F600b")

	// Start column 2 sits inside the surrogate pair: rounds down to
	// before it.
	startRange, err := toByteRange(b, Range{
		Start: Position{Line: 0, Column: 2},
		End:   Position{Line: 0, Column: 3},
	}, UnitUTF16Units)
	require.NoError(t, err)
	require.Equal(t, buffer.ByteOffset(1), startRange.Start) // rounds down, before the emoji

	// End column 2 sits inside the surrogate pair: rounds up to past it.
	endRange, err := toByteRange(b, Range{
		Start: Position{Line: 0, Column: 0},
		End:   Position{Line: 0, Column: 2},
	}, UnitUTF16Units)
	require.NoError(t, err)
	require.Equal(t, buffer.ByteOffset(5), endRange.End) // rounds up, past the emoji (1 + 4 bytes)
}

func TestToByteRangeGraphemesCombiningSequence(t *testing.T) {
	// "e" + combining acute accent is one grapheme cluster.
	word := "caf" + "e\u0301" + "!"
	b := buffer.NewBufferFromString(word)

	r, err := toByteRange(b, Range{Start: Position{Line: 0, Column: 3}, End: Position{Line: 0, Column: 4}}, UnitGraphemes)
	require.NoError(t, err)
	require.Equal(t, "e\u0301", b.TextRange(r.Start, r.End))
}

func TestToByteRangeGraphemesClampsPastEndOfLine(t *testing.T) {
	b := buffer.NewBufferFromString("hi")
	r, err := toByteRange(b, Range{Start: Position{Line: 0, Column: 0}, End: Position{Line: 0, Column: 50}}, UnitGraphemes)
	require.NoError(t, err)
	require.Equal(t, buffer.ByteOffset(2), r.End)
}

func TestToByteRangeRejectsOutOfRangeLine(t *testing.T) {
	b := buffer.NewBufferFromString("one line")
	_, err := toByteRange(b, Range{Start: Position{Line: 3, Column: 0}, End: Position{Line: 3, Column: 1}}, UnitUTF8Bytes)
	require.ErrorIs(t, err, ErrInvalidBoundary)
}

func TestToByteRangeRejectsEndBeforeStart(t *testing.T) {
	b := buffer.NewBufferFromString("hello")
	_, err := toByteRange(b, Range{Start: Position{Line: 0, Column: 4}, End: Position{Line: 0, Column: 1}}, UnitUTF8Bytes)
	require.ErrorIs(t, err, ErrInvalidBoundary)
}
