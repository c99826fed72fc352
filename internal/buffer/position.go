package buffer

import (
	"fmt"
	"sync/atomic"

	"github.com/zcode-editor/zcode/internal/rope"
)

// ByteOffset is the fundamental position type: a byte index into the
// buffer's content.
type ByteOffset = rope.ByteOffset

// Point is an alias for rope.Point, a 0-indexed (line, byte-column)
// position.
type Point = rope.Point

// PointUTF16 represents a line and column position where the column is
// measured in UTF-16 code units, as the LSP protocol requires.
type PointUTF16 struct {
	Line   uint32
	Column uint32
}

// String returns a human-readable representation of the point.
func (p PointUTF16) String() string {
	return fmt.Sprintf("(%d:%d utf16)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p PointUTF16) Compare(other PointUTF16) int {
	if p.Line != other.Line {
		if p.Line < other.Line {
			return -1
		}
		return 1
	}
	if p.Column != other.Column {
		if p.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}

// IsZero returns true if this is the zero point (0:0).
func (p PointUTF16) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// RevisionID uniquely identifies a buffer revision, independent of the
// monotonic edit Version — it changes on every mutation including ones
// that don't go through the history DAG (e.g. SetLineEnding never bumps
// Version, but snapshots taken before/after it should still compare
// unequal for callers that cache by revision).
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique, process-wide revision id.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
