// Package rope implements an immutable, structurally-shared rope over
// UTF-8 byte sequences: the text model backing every zcode buffer.
//
// Every mutation returns a new Rope; the receiver is left untouched, and
// unaffected subtrees are shared between old and new values. Cloning a
// Rope is therefore an O(1) pointer copy, which is what lets worker tasks
// take read-only snapshots of a buffer's content without locking against
// the UI thread (see internal/buffer).
package rope

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Rope is an ordered, immutable sequence of UTF-8 bytes with O(log n)
// insert, delete, and index-conversion operations.
type Rope struct {
	root *node
}

// New returns an empty rope.
func New() Rope {
	return Rope{root: newLeaf()}
}

// FromString builds a rope from s. s must be valid UTF-8; callers loading
// untrusted content should validate first (see buffer.Load).
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// FromReader drains r and builds a rope from its bytes.
func FromReader(r io.Reader) (Rope, error) {
	var sb strings.Builder
	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Rope{}, err
		}
	}
	return FromString(sb.String()), nil
}

func buildFromChunks(chunks []chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}
	var leaves []*node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leafChunks := make([]chunk, end-i)
		copy(leafChunks, chunks[i:end])
		leaves = append(leaves, newLeafFromChunks(leafChunks))
	}
	return Rope{root: buildFromNodes(leaves)}
}

// Clone returns r unchanged: Rope is already an immutable value, so
// cloning is just copying the struct. The method exists so call sites
// that want to be explicit about taking a snapshot (e.g. before handing a
// rope to a worker task) can say so.
func (r Rope) Clone() Rope { return r }

// ByteLen returns the total byte length.
func (r Rope) ByteLen() ByteOffset {
	if r.root == nil {
		return 0
	}
	return r.root.Len()
}

// LineCount returns the number of lines (newline count + 1).
func (r Rope) LineCount() uint32 {
	if r.root == nil {
		return 1
	}
	return r.root.lineCount()
}

// IsEmpty reports whether the rope holds no bytes.
func (r Rope) IsEmpty() bool { return r.ByteLen() == 0 }

// String returns the full text. Use sparingly on large ropes; prefer
// Slice for bounded reads.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.ByteLen()))
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the byte range [start, end).
func (r Rope) Slice(start, end ByteOffset) string {
	if r.root == nil || start >= end {
		return ""
	}
	return r.root.textInRange(start, end)
}

// ByteAt returns the byte at offset, or (0, false) if offset is out of range.
func (r Rope) ByteAt(offset ByteOffset) (byte, bool) {
	if r.root == nil {
		return 0, false
	}
	return r.root.byteAt(offset)
}

// Insert returns a copy of r with text inserted at offset.
//
// Edge cases (spec.md §4.1): inserting at ByteLen() appends; an offset
// that falls inside a multi-byte UTF-8 sequence of the existing content
// fails with ErrInvalidBoundary.
func (r Rope) Insert(offset ByteOffset, text string) (Rope, error) {
	if len(text) == 0 {
		return r, nil
	}
	if r.root == nil || r.ByteLen() == 0 {
		if offset != 0 {
			return Rope{}, ErrInvalidBoundary
		}
		return FromString(text), nil
	}
	if offset > r.ByteLen() {
		return Rope{}, ErrInvalidBoundary
	}
	if !r.isByteBoundary(offset) {
		return Rope{}, ErrInvalidBoundary
	}

	if offset == 0 {
		return FromString(text).Concat(r), nil
	}
	if offset == r.ByteLen() {
		return r.Concat(FromString(text)), nil
	}

	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right), nil
}

// Delete returns a copy of r with the byte range [start, end) removed. An
// empty range (start >= end) is a no-op. start or end falling inside a
// multi-byte UTF-8 sequence fails with ErrInvalidBoundary.
func (r Rope) Delete(start, end ByteOffset) (Rope, error) {
	if start >= end {
		return r, nil
	}
	ropeLen := r.ByteLen()
	if start > ropeLen || end > ropeLen {
		return Rope{}, ErrInvalidBoundary
	}
	if !r.isByteBoundary(start) || !r.isByteBoundary(end) {
		return Rope{}, ErrInvalidBoundary
	}

	if start == 0 && end >= ropeLen {
		return New(), nil
	}
	if start == 0 {
		_, right := r.Split(end)
		return right, nil
	}
	if end >= ropeLen {
		left, _ := r.Split(start)
		return left, nil
	}

	left, temp := r.Split(start)
	_, right := temp.Split(end - start)
	return left.Concat(right), nil
}

// Replace deletes [start, end) and inserts text at start, as a single
// logical edit.
func (r Rope) Replace(start, end ByteOffset, text string) (Rope, error) {
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Delete(start, end)
	}
	deleted, err := r.Delete(start, end)
	if err != nil {
		return Rope{}, err
	}
	return deleted.Insert(start, text)
}

// isByteBoundary reports whether offset lies on a UTF-8 character
// boundary (or at either end of the rope).
func (r Rope) isByteBoundary(offset ByteOffset) bool {
	if offset == 0 || offset >= r.ByteLen() {
		return true
	}
	b, ok := r.ByteAt(offset)
	if !ok {
		return true
	}
	return b&0xC0 != 0x80
}

// Split divides r at offset into [0, offset) and [offset, len).
func (r Rope) Split(offset ByteOffset) (Rope, Rope) {
	if r.root == nil || offset == 0 {
		return New(), r
	}
	if offset >= r.ByteLen() {
		return r, New()
	}
	left, right := r.root.split(offset)
	return Rope{root: left}, Rope{root: right}
}

// Concat joins r and other into a new rope.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.ByteLen() == 0 {
		return other
	}
	if other.root == nil || other.ByteLen() == 0 {
		return r
	}
	return Rope{root: concatNodes(r.root, other.root)}
}

// LineToByte returns the byte offset of the start of line (0-indexed).
func (r Rope) LineToByte(line uint32) ByteOffset {
	if r.root == nil || line == 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.ByteLen()
	}

	cur := r.root
	offset := ByteOffset(0)
	for !cur.isLeaf() {
		idx, childLine := cur.findChildByLine(line)
		for i := 0; i < idx; i++ {
			offset += cur.childSummaries[i].Bytes
		}
		cur = cur.children[idx]
		line = childLine
	}
	for _, c := range cur.chunks {
		if line == 0 {
			return offset
		}
		lines := c.Summary().Lines
		if lines >= line {
			return offset + ByteOffset(nthNewline(c.String(), line-1)+1)
		}
		line -= lines
		offset += ByteOffset(c.Len())
	}
	return r.ByteLen()
}

// ByteToLine returns the 0-indexed line containing byte offset.
func (r Rope) ByteToLine(offset ByteOffset) uint32 {
	if r.root == nil || offset == 0 {
		return 0
	}
	if offset >= r.ByteLen() {
		offset = r.ByteLen()
	}

	cur := r.root
	line := uint32(0)
	for !cur.isLeaf() {
		idx, childOffset := cur.findChildByOffset(offset)
		for i := 0; i < idx; i++ {
			line += cur.childSummaries[i].Lines
		}
		cur = cur.children[idx]
		offset = childOffset
	}
	for _, c := range cur.chunks {
		cLen := ByteOffset(c.Len())
		if offset < cLen {
			line += countNewlines(c.String()[:offset])
			return line
		}
		line += c.Summary().Lines
		offset -= cLen
	}
	return line
}

// LineStart returns the byte offset of the start of line.
func (r Rope) LineStart(line uint32) ByteOffset { return r.LineToByte(line) }

// LineEnd returns the byte offset just past the last byte of line, not
// including its trailing newline.
func (r Rope) LineEnd(line uint32) ByteOffset {
	if r.root == nil {
		return 0
	}
	lineCount := r.LineCount()
	if line >= lineCount {
		return r.ByteLen()
	}
	if line == lineCount-1 {
		return r.ByteLen()
	}
	next := r.LineStart(line + 1)
	if next > 0 {
		return next - 1
	}
	return 0
}

// LineText returns the text of line, excluding its newline.
func (r Rope) LineText(line uint32) string {
	return r.Slice(r.LineStart(line), r.LineEnd(line))
}

// OffsetToPoint converts a byte offset to a (line, byte-column) Point.
func (r Rope) OffsetToPoint(offset ByteOffset) Point {
	line := r.ByteToLine(offset)
	col := offset - r.LineStart(line)
	return Point{Line: line, Column: uint32(col)}
}

// PointToOffset converts a (line, byte-column) Point to a byte offset,
// clamping the column to the line's length.
func (r Rope) PointToOffset(p Point) ByteOffset {
	start := r.LineStart(p.Line)
	end := r.LineEnd(p.Line)
	lineLen := end - start
	if ByteOffset(p.Column) >= lineLen {
		return end
	}
	return start + ByteOffset(p.Column)
}

// CharToByte converts a rune (Unicode scalar value) index to a byte
// offset. Conversions walk the rope's chunks once; this is not O(log n)
// but char-index conversion is only used at the edges of the edit
// application engine (spec.md §4.5's unit tags), never on the rope's hot
// insert/delete path.
func (r Rope) CharToByte(charIdx uint64) ByteOffset {
	if r.root == nil || charIdx == 0 {
		return 0
	}
	var seen uint64
	var offset ByteOffset
	done := false
	r.walkChunks(func(s string) bool {
		for i, rn := range s {
			if seen == charIdx {
				offset += ByteOffset(i)
				done = true
				return false
			}
			_ = rn
			seen++
		}
		if seen == charIdx {
			offset += ByteOffset(len(s))
			done = true
			return false
		}
		offset += ByteOffset(len(s))
		return true
	})
	if !done {
		return r.ByteLen()
	}
	return offset
}

// ByteToChar converts a byte offset to a rune index.
func (r Rope) ByteToChar(offset ByteOffset) uint64 {
	if r.root == nil || offset == 0 {
		return 0
	}
	var consumed ByteOffset
	var count uint64
	r.walkChunks(func(s string) bool {
		sLen := ByteOffset(len(s))
		if consumed+sLen <= offset {
			count += uint64(utf8.RuneCountInString(s))
			consumed += sLen
			return true
		}
		remain := int(offset - consumed)
		count += uint64(utf8.RuneCountInString(s[:remain]))
		consumed = offset
		return false
	})
	return count
}

// walkChunks visits every chunk's text in order, stopping early if visit
// returns false.
func (r Rope) walkChunks(visit func(s string) bool) {
	if r.root == nil {
		return
	}
	var walk func(n *node) bool
	walk = func(n *node) bool {
		if n.isLeaf() {
			for _, c := range n.chunks {
				if !visit(c.String()) {
					return false
				}
			}
			return true
		}
		for _, c := range n.children {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(r.root)
}

func countNewlines(s string) uint32 {
	var n uint32
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return n
}

// nthNewline returns the byte index of the (n+1)-th '\n' in s (0-indexed
// count of preceding newlines), or len(s) if there are fewer.
func nthNewline(s string, n uint32) int {
	var count uint32
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if count == n {
				return i
			}
			count++
		}
	}
	return len(s)
}

// Equal reports whether r and other contain identical bytes.
func (r Rope) Equal(other Rope) bool {
	if r.ByteLen() != other.ByteLen() {
		return false
	}
	return r.String() == other.String()
}
