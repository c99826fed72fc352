package selection

import "github.com/zcode-editor/zcode/internal/buffer"

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// TransformOffset recomputes offset after edit has been applied to the
// buffer it lives in.
//
//   - edit entirely before offset: shift by the edit's byte delta.
//   - edit starts at or after offset: unchanged.
//   - edit spans offset: snap to the end of the edit's replacement text.
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	if edit.Range.End <= offset {
		delta := ByteOffset(len(edit.NewText)) - edit.Range.Len()
		return offset + delta
	}
	if edit.Range.Start >= offset {
		return offset
	}
	return edit.Range.Start + ByteOffset(len(edit.NewText))
}

// TransformOffsetSticky is TransformOffset with explicit bias for the case
// where edit is a pure insertion exactly at offset: sticky keeps offset at
// its current position, non-sticky moves it to the end of the inserted
// text. Anchors are typically sticky; carets typically are not.
func TransformOffsetSticky(offset ByteOffset, edit Edit, sticky bool) ByteOffset {
	if edit.Range.End <= offset {
		delta := ByteOffset(len(edit.NewText)) - edit.Range.Len()
		return offset + delta
	}
	if edit.Range.Start == offset && edit.Range.IsEmpty() {
		if sticky {
			return offset
		}
		return offset + ByteOffset(len(edit.NewText))
	}
	if edit.Range.Start >= offset {
		return offset
	}
	return edit.Range.Start + ByteOffset(len(edit.NewText))
}

// Transform updates a selection after edit, moving both endpoints
// independently with no sticky bias.
func Transform(s Selection, edit Edit) Selection {
	return Selection{
		Anchor: TransformOffset(s.Anchor, edit),
		Caret:  TransformOffset(s.Caret, edit),
	}
}

// TransformWithBias is Transform with independent sticky bias for anchor
// and caret, for callers that need to distinguish "insert pushes the
// selection forward" from "insert happens at a fixed anchor".
func TransformWithBias(s Selection, edit Edit, anchorSticky, caretSticky bool) Selection {
	return Selection{
		Anchor: TransformOffsetSticky(s.Anchor, edit, anchorSticky),
		Caret:  TransformOffsetSticky(s.Caret, edit, caretSticky),
	}
}

// TransformMulti applies a sequence of edits in the order they were
// originally applied to the buffer. Edits are walked in that same order,
// so every offset transform sees an edit whose Range is expressed in the
// rope state that preceded it.
func TransformMulti(s Selection, edits []Edit) Selection {
	for _, edit := range edits {
		s = Transform(s, edit)
	}
	return s
}
