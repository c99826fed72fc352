package selection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransformOffsetBeforeEdit(t *testing.T) {
	edit := Edit{Range: Range{Start: 0, End: 2}, NewText: "xxxx"} // +2 bytes
	require.Equal(t, ByteOffset(12), TransformOffset(10, edit))
}

func TestTransformOffsetAfterEdit(t *testing.T) {
	edit := Edit{Range: Range{Start: 20, End: 22}, NewText: "x"}
	require.Equal(t, ByteOffset(10), TransformOffset(10, edit))
}

func TestTransformOffsetInsideEditSnapsToEnd(t *testing.T) {
	edit := Edit{Range: Range{Start: 5, End: 15}, NewText: "abc"}
	require.Equal(t, ByteOffset(8), TransformOffset(10, edit))
}

func TestTransformOffsetStickyInsertAtOffset(t *testing.T) {
	edit := Edit{Range: Range{Start: 5, End: 5}, NewText: "abc"}
	require.Equal(t, ByteOffset(5), TransformOffsetSticky(5, edit, true))
	require.Equal(t, ByteOffset(8), TransformOffsetSticky(5, edit, false))
}

func TestTransformSelectionBothEndpoints(t *testing.T) {
	s := SetSelection(10, 15)
	edit := Edit{Range: Range{Start: 0, End: 0}, NewText: "12345"} // +5 bytes, before both
	got := Transform(s, edit)
	require.Equal(t, ByteOffset(15), got.Anchor)
	require.Equal(t, ByteOffset(20), got.Caret)
}

func TestTransformMultiAppliesInOrder(t *testing.T) {
	s := SetCaret(10)
	edits := []Edit{
		{Range: Range{Start: 0, End: 0}, NewText: "ab"}, // applied first: +2 before offset 10
		{Range: Range{Start: 2, End: 2}, NewText: "c"},  // applied second, on the already-edited buffer
	}
	got := TransformMulti(s, edits)
	require.Equal(t, ByteOffset(13), got.Caret)
}
