package selection

import (
	"fmt"

	"github.com/zcode-editor/zcode/internal/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection is a pair of byte offsets: Anchor, where selection started,
// and Caret, where typing occurs. Selection is an immutable value type.
type Selection struct {
	Anchor ByteOffset
	Caret  ByteOffset
}

// SetCaret returns a cursor (empty selection) at offset.
func SetCaret(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Caret: offset}
}

// SetSelection returns a selection spanning anchor to caret.
func SetSelection(anchor, caret ByteOffset) Selection {
	return Selection{Anchor: anchor, Caret: caret}
}

// FromRange returns a forward selection covering r.
func FromRange(r Range) Selection {
	return Selection{Anchor: r.Start, Caret: r.End}
}

// IsEmpty reports whether the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Caret
}

// Len returns the selection's extent in bytes.
func (s Selection) Len() ByteOffset {
	if s.Anchor <= s.Caret {
		return s.Caret - s.Anchor
	}
	return s.Anchor - s.Caret
}

// Range returns the selection's normalized Range (Start <= End).
func (s Selection) Range() Range {
	if s.Anchor <= s.Caret {
		return Range{Start: s.Anchor, End: s.Caret}
	}
	return Range{Start: s.Caret, End: s.Anchor}
}

// Start returns min(Anchor, Caret).
func (s Selection) Start() ByteOffset {
	if s.Anchor <= s.Caret {
		return s.Anchor
	}
	return s.Caret
}

// End returns max(Anchor, Caret).
func (s Selection) End() ByteOffset {
	if s.Anchor >= s.Caret {
		return s.Anchor
	}
	return s.Caret
}

// IsForward reports whether the selection extends forward (Caret >= Anchor).
func (s Selection) IsForward() bool {
	return s.Caret >= s.Anchor
}

// CollapseToCaret collapses the selection to a cursor at its caret.
func (s Selection) CollapseToCaret() Selection {
	return Selection{Anchor: s.Caret, Caret: s.Caret}
}

// CollapseToStart collapses the selection to a cursor at its start.
func (s Selection) CollapseToStart() Selection {
	start := s.Start()
	return Selection{Anchor: start, Caret: start}
}

// CollapseToEnd collapses the selection to a cursor at its end.
func (s Selection) CollapseToEnd() Selection {
	end := s.End()
	return Selection{Anchor: end, Caret: end}
}

// ExtendTo moves the caret to offset, keeping the anchor fixed.
func (s Selection) ExtendTo(offset ByteOffset) Selection {
	return Selection{Anchor: s.Anchor, Caret: offset}
}

// Flip swaps anchor and caret, reversing the selection's direction.
func (s Selection) Flip() Selection {
	return Selection{Anchor: s.Caret, Caret: s.Anchor}
}

// Normalize returns a forward selection (Anchor <= Caret) covering the
// same range.
func (s Selection) Normalize() Selection {
	if s.Anchor <= s.Caret {
		return s
	}
	return Selection{Anchor: s.Caret, Caret: s.Anchor}
}

// Contains reports whether offset lies within the selection's range.
// Always false for an empty selection.
func (s Selection) Contains(offset ByteOffset) bool {
	start, end := s.Start(), s.End()
	return offset >= start && offset < end
}

// Clamp returns a selection with both endpoints clamped to [0, maxOffset].
func (s Selection) Clamp(maxOffset ByteOffset) Selection {
	anchor, caret := s.Anchor, s.Caret
	if anchor > maxOffset {
		anchor = maxOffset
	}
	if caret > maxOffset {
		caret = maxOffset
	}
	return Selection{Anchor: anchor, Caret: caret}
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Caret(%d)", s.Caret)
	}
	dir := "->"
	if !s.IsForward() {
		dir = "<-"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Caret)
}

// Equals reports whether two selections have the same anchor and caret.
func (s Selection) Equals(other Selection) bool {
	return s.Anchor == other.Anchor && s.Caret == other.Caret
}

// SameRange reports whether two selections cover the same range,
// regardless of direction.
func (s Selection) SameRange(other Selection) bool {
	return s.Start() == other.Start() && s.End() == other.End()
}
