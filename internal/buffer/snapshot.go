package buffer

import (
	"unicode/utf8"

	"github.com/zcode-editor/zcode/internal/rope"
)

// Snapshot is a read-only view of a Buffer at a point in time. Taking one
// never copies bytes — the underlying rope is immutable and structurally
// shared — so it is safe to hand to a worker task that outlives the edit
// which produced it.
type Snapshot struct {
	content    rope.Rope
	revisionID RevisionID
	version    uint64
	lineEnding LineEnding
	tabWidth   int
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string { return s.content.String() }

// TextRange returns text in the given byte range.
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	return s.content.Slice(start, end)
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset { return s.content.ByteLen() }

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 { return s.content.LineCount() }

// LineText returns the text of line, without its newline.
func (s *Snapshot) LineText(line uint32) string { return s.content.LineText(line) }

// ByteAt returns the byte at offset.
func (s *Snapshot) ByteAt(offset ByteOffset) (byte, bool) { return s.content.ByteAt(offset) }

// RuneAt returns the rune at offset and its byte width.
func (s *Snapshot) RuneAt(offset ByteOffset) (rune, int) {
	ropeLen := s.content.ByteLen()
	if offset >= ropeLen {
		return utf8.RuneError, 0
	}
	end := offset + 4
	if end > ropeLen {
		end = ropeLen
	}
	return utf8.DecodeRuneInString(s.content.Slice(offset, end))
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point { return s.content.OffsetToPoint(offset) }

// PointToOffset converts line/column to a byte offset.
func (s *Snapshot) PointToOffset(p Point) ByteOffset { return s.content.PointToOffset(p) }

// LineStartOffset returns the byte offset of the start of line.
func (s *Snapshot) LineStartOffset(line uint32) ByteOffset { return s.content.LineStart(line) }

// LineEndOffset returns the byte offset just past line's last byte.
func (s *Snapshot) LineEndOffset(line uint32) ByteOffset { return s.content.LineEnd(line) }

// RevisionID returns the revision id captured at snapshot time.
func (s *Snapshot) RevisionID() RevisionID { return s.revisionID }

// Version returns the edit version captured at snapshot time.
func (s *Snapshot) Version() uint64 { return s.version }

// IsEmpty reports whether the snapshot holds no bytes.
func (s *Snapshot) IsEmpty() bool { return s.content.IsEmpty() }

// LineEnding returns the snapshot's line ending style.
func (s *Snapshot) LineEnding() LineEnding { return s.lineEnding }

// TabWidth returns the snapshot's tab width.
func (s *Snapshot) TabWidth() int { return s.tabWidth }
