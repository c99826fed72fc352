// Package selection implements the editor's anchor/caret selection model.
//
// A Selection is a pair of byte offsets into a buffer: Anchor, where the
// selection started, and Caret, the current cursor position where typing
// happens. When Anchor == Caret the selection is empty — a plain cursor.
// Selections can extend forward (Caret > Anchor) or backward (Caret <
// Anchor); Normalize collapses that direction into a Range with Start <=
// End.
//
// Transform keeps a Selection valid across an edit to the buffer it
// belongs to, using the same before/after-range bias rules a cursor needs:
// positions after the edit shift by its byte delta, positions inside the
// replaced range snap to the end of its replacement text, positions
// before it are unaffected.
//
// DoubleClickSelect and TripleClickSelect implement the two fixed
// selection gestures spec.md names: selecting the grapheme cluster under
// a click, and selecting a whole logical line including its trailing
// newline.
//
// Multi-cursor/multi-selection is explicitly out of scope; Selection is a
// single immutable value, not a set.
package selection
