package rope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromStringAndString(t *testing.T) {
	r := FromString("hello world")
	require.Equal(t, "hello world", r.String())
	require.Equal(t, ByteOffset(11), r.ByteLen())
}

func TestEmptyRope(t *testing.T) {
	r := New()
	require.True(t, r.IsEmpty())
	require.Equal(t, uint32(1), r.LineCount())
	require.Equal(t, "", r.String())
}

func TestInsertAppendAndPrepend(t *testing.T) {
	r := FromString("world")
	r, err := r.Insert(0, "hello ")
	require.NoError(t, err)
	require.Equal(t, "hello world", r.String())

	r, err = r.Insert(r.ByteLen(), "!")
	require.NoError(t, err)
	require.Equal(t, "hello world!", r.String())
}

func TestInsertMiddle(t *testing.T) {
	r := FromString("helloworld")
	r, err := r.Insert(5, " ")
	require.NoError(t, err)
	require.Equal(t, "hello world", r.String())
}

func TestInsertInvalidBoundary(t *testing.T) {
	r := FromString("héllo") // é is two bytes
	_, err := r.Insert(2, "x")
	require.ErrorIs(t, err, ErrInvalidBoundary)
}

func TestDeleteInvalidBoundary(t *testing.T) {
	r := FromString("héllo")
	_, err := r.Delete(2, 3)
	require.ErrorIs(t, err, ErrInvalidBoundary)
}

func TestDeleteNoOpOnEmptyRange(t *testing.T) {
	r := FromString("hello")
	r2, err := r.Delete(2, 2)
	require.NoError(t, err)
	require.Equal(t, r.String(), r2.String())
}

func TestDeleteRange(t *testing.T) {
	r := FromString("hello world")
	r, err := r.Delete(5, 11)
	require.NoError(t, err)
	require.Equal(t, "hello", r.String())
}

func TestReplace(t *testing.T) {
	r := FromString("fn foo(){} foo();")
	r, err := r.Replace(3, 6, "bar")
	require.NoError(t, err)
	require.Equal(t, "fn bar(){} foo();", r.String())
}

func TestCloneIsIndependent(t *testing.T) {
	r := FromString("hello")
	clone := r.Clone()
	r2, err := r.Insert(5, " world")
	require.NoError(t, err)

	require.Equal(t, "hello", clone.String())
	require.Equal(t, "hello world", r2.String())
}

func TestLineCountAndText(t *testing.T) {
	r := FromString("a\nb\nc")
	require.Equal(t, uint32(3), r.LineCount())
	require.Equal(t, "a", r.LineText(0))
	require.Equal(t, "b", r.LineText(1))
	require.Equal(t, "c", r.LineText(2))
}

func TestLineToByteAndByteToLine(t *testing.T) {
	r := FromString("aa\nbb\ncc\n")
	require.Equal(t, ByteOffset(0), r.LineToByte(0))
	require.Equal(t, ByteOffset(3), r.LineToByte(1))
	require.Equal(t, ByteOffset(6), r.LineToByte(2))

	require.Equal(t, uint32(0), r.ByteToLine(0))
	require.Equal(t, uint32(0), r.ByteToLine(2))
	require.Equal(t, uint32(1), r.ByteToLine(3))
	require.Equal(t, uint32(2), r.ByteToLine(7))
}

func TestPositionConversionRoundTrip(t *testing.T) {
	r := FromString("hello\nworld\nfoo bar baz\n")
	for offset := ByteOffset(0); offset < r.ByteLen(); offset++ {
		p := r.OffsetToPoint(offset)
		require.Equal(t, offset, r.PointToOffset(p), "offset %d round-trip via point %+v", offset, p)
	}
}

func TestCharToByteByteToCharRoundTrip(t *testing.T) {
	r := FromString("aéb\U0001F600c") // ascii, 2-byte, 4-byte emoji
	for charIdx := uint64(0); charIdx <= uint64(utf8RuneCount(r.String())); charIdx++ {
		b := r.CharToByte(charIdx)
		require.Equal(t, charIdx, r.ByteToChar(b))
	}
}

func utf8RuneCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func TestSplitAndConcatRoundTrip(t *testing.T) {
	original := "the quick brown fox jumps over the lazy dog"
	r := FromString(original)
	for i := 0; i <= len(original); i++ {
		left, right := r.Split(ByteOffset(i))
		require.Equal(t, original, left.String()+right.String())
	}
}

func TestLargeInsertCreatesMultipleChunks(t *testing.T) {
	big := strings.Repeat("0123456789", 100)
	r := FromString(big)
	require.Equal(t, big, r.String())
	require.Equal(t, ByteOffset(len(big)), r.ByteLen())
}

func TestInsertDeleteRoundTrip(t *testing.T) {
	r := FromString("hello world")
	inserted, err := r.Insert(5, ", cruel")
	require.NoError(t, err)
	require.Equal(t, "hello, cruel world", inserted.String())

	restored, err := inserted.Delete(5, 12)
	require.NoError(t, err)
	require.Equal(t, r.String(), restored.String())
}

func TestEqual(t *testing.T) {
	a := FromString("same text")
	b := FromString("same text")
	c := FromString("different")
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}
