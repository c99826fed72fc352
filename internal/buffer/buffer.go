package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/zcode-editor/zcode/internal/history"
	"github.com/zcode-editor/zcode/internal/rope"
)

// Errors returned by buffer operations.
var (
	ErrRangeInvalid = errors.New("buffer: invalid range")
	ErrEditsOverlap = errors.New("buffer: edits overlap or are not in descending order")
)

// LineEnding specifies the line ending style a buffer normalizes to.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns an escaped representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return `\n`
	case LineEndingCRLF:
		return `\r\n`
	case LineEndingCR:
		return `\r`
	default:
		return `\n`
	}
}

// Sequence returns the actual line ending bytes.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is the editor's unit of open content: a rope plus the metadata
// spec.md's data model requires — path, language tag, monotonic edit
// version, dirty flag, and a reference to the buffer's own history DAG.
// The byte sequence is always valid UTF-8; newlines are normalized to LF
// internally regardless of the configured LineEnding, which instead
// governs what Save restores on the way out. All methods are thread-safe.
type Buffer struct {
	mu sync.RWMutex

	content    rope.Rope
	history    *history.DAG
	revisionID RevisionID

	path       string
	languageID string
	version    uint64
	dirty      bool

	lineEnding         LineEnding
	tabWidth           int
	checkpointInterval int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lineEnding:         LineEndingLF,
		tabWidth:           4,
		checkpointInterval: history.DefaultCheckpointInterval,
		revisionID:         NewRevisionID(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.content = rope.New()
	b.history = history.NewDAGWithInterval(b.content, b.checkpointInterval)
	return b
}

// NewBufferFromString creates a buffer with initial content. CRLF/CR is
// normalized to LF before the rope is built, whatever line ending an
// option configures; that setting only affects what Save writes.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	s = b.normalizeLineEndings(s)
	b.content = rope.FromString(s)
	b.history = history.NewDAGWithInterval(b.content, b.checkpointInterval)
	return b
}

// NewBufferFromReader creates a buffer from r's full contents. The reader
// is drained before normalization so a CRLF split across read boundaries
// is never missed.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	b := NewBuffer(opts...)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, errors.New("buffer: content is not valid UTF-8")
	}

	text := b.normalizeLineEndings(string(data))
	b.content = rope.FromString(text)
	b.history = history.NewDAGWithInterval(b.content, b.checkpointInterval)
	return b, nil
}

// normalizeLineEndings canonicalizes s to LF regardless of the buffer's
// configured LineEnding: the rope always stores LF internally (spec.md's
// Buffer invariant), and b.lineEnding governs only what Save restores on
// the way back out.
func (b *Buffer) normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// --- Read operations ---

// Text returns the full buffer content. For large buffers prefer TextRange.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.String()
}

// TextRange returns text in the given byte range.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.Slice(start, end)
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.ByteLen()
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.LineCount()
}

// LineText returns the text of line, without its newline.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.LineText(line)
}

// LineLen returns the byte length of line, without its newline.
func (b *Buffer) LineLen(line uint32) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int(b.content.LineEnd(line) - b.content.LineStart(line))
}

// ByteAt returns the byte at offset.
func (b *Buffer) ByteAt(offset ByteOffset) (byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.ByteAt(offset)
}

// RuneAt returns the rune starting at offset, and its width in bytes.
// Returns utf8.RuneError, 0 if offset is out of range.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ropeLen := b.content.ByteLen()
	if offset >= ropeLen {
		return utf8.RuneError, 0
	}
	end := offset + 4
	if end > ropeLen {
		end = ropeLen
	}
	return utf8.DecodeRuneInString(b.content.Slice(offset, end))
}

// --- Coordinate conversion ---

// OffsetToPoint converts a byte offset to a (line, byte-column) Point.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.OffsetToPoint(offset)
}

// PointToOffset converts a Point to a byte offset.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.PointToOffset(p)
}

// OffsetToPointUTF16 converts a byte offset to a UTF-16 (line, column).
func (b *Buffer) OffsetToPointUTF16(offset ByteOffset) PointUTF16 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	point := b.content.OffsetToPoint(offset)
	lineStart := b.content.LineStart(point.Line)
	lineText := b.content.Slice(lineStart, offset)
	return PointUTF16{Line: point.Line, Column: utf16ColumnFromString(lineText)}
}

// PointUTF16ToOffset converts a UTF-16 (line, column) to a byte offset.
func (b *Buffer) PointUTF16ToOffset(point PointUTF16) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lineStart := b.content.LineStart(point.Line)
	lineEnd := b.content.LineEnd(point.Line)
	lineText := b.content.Slice(lineStart, lineEnd)
	return lineStart + ByteOffset(byteOffsetFromUTF16Column(lineText, point.Column))
}

// LineStartOffset returns the byte offset of the start of line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.LineStart(line)
}

// LineEndOffset returns the byte offset just past line's last byte,
// excluding its trailing newline.
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.LineEnd(line)
}

// --- Write operations ---
//
// Every successful write goes through applyLocked, which records one op
// on the buffer's history DAG, bumps Version, and marks the buffer dirty —
// there is no path that mutates content without also extending history.

// Insert inserts text at offset and returns the offset just past it.
// cursor-before/after both default to the point at offset; callers that
// track selection precisely should use InsertWithCursors instead.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	res, err := b.applyEditWithCursors(NewInsert(offset, text), nil, nil)
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// InsertWithCursors is Insert, recording explicit cursor-before/after
// positions on the history DAG instead of the offset-derived default.
func (b *Buffer) InsertWithCursors(offset ByteOffset, text string, cursorBefore, cursorAfter Point) (ByteOffset, error) {
	res, err := b.applyEditWithCursors(NewInsert(offset, text), &cursorBefore, &cursorAfter)
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// Delete removes text in [start, end).
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.applyEditWithCursors(NewDelete(start, end), nil, nil)
	return err
}

// DeleteWithCursors is Delete, recording explicit cursor positions.
func (b *Buffer) DeleteWithCursors(start, end ByteOffset, cursorBefore, cursorAfter Point) (EditResult, error) {
	return b.applyEditWithCursors(NewDelete(start, end), &cursorBefore, &cursorAfter)
}

// Replace replaces [start, end) with text and returns the offset just
// past the replacement.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	res, err := b.ApplyEdit(NewEdit(Range{Start: start, End: end}, text))
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// ApplyEdit applies a single edit, approximating cursor-before/after from
// the edit's own geometry.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	return b.applyEditWithCursors(edit, nil, nil)
}

// ApplyEditWithCursors applies a single edit with explicit cursor
// positions to record on the history DAG.
func (b *Buffer) ApplyEditWithCursors(edit Edit, cursorBefore, cursorAfter Point) (EditResult, error) {
	return b.applyEditWithCursors(edit, &cursorBefore, &cursorAfter)
}

func (b *Buffer) applyEditWithCursors(edit Edit, cursorBefore, cursorAfter *Point) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !edit.Range.IsValid() || edit.Range.End > b.content.ByteLen() {
		return EditResult{}, ErrRangeInvalid
	}

	oldText := b.content.Slice(edit.Range.Start, edit.Range.End)
	newText := b.normalizeLineEndings(edit.NewText)
	op := opForEdit(edit.Range, oldText, newText)
	newEnd := edit.Range.Start + ByteOffset(len(newText))

	// Callers that don't track selection state themselves (direct Insert/
	// Delete/Replace/ApplyEdit calls, tests) get both cursor slots
	// defaulted to the point at the edit's start in the pre-edit rope;
	// callers that do should use the *WithCursors variants.
	before := b.content.OffsetToPoint(edit.Range.Start)
	after := before
	if cursorBefore != nil {
		before = *cursorBefore
	}
	if cursorAfter != nil {
		after = *cursorAfter
	}

	newRope, _, err := b.history.Apply(op, before, after, b.content)
	if err != nil {
		return EditResult{}, err
	}

	b.content = newRope
	b.revisionID = NewRevisionID()
	b.version++
	b.dirty = true

	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: newEnd},
		OldText:  oldText,
		Delta:    int64(len(newText)) - int64(edit.Range.Len()),
	}, nil
}

func opForEdit(r Range, oldText, newText string) history.Op {
	switch {
	case r.IsEmpty():
		return history.Insert(r.Start, newText)
	case newText == "":
		return history.Delete(r.Start, oldText)
	default:
		return history.Composite(
			history.Delete(r.Start, oldText),
			history.Insert(r.Start, newText),
		)
	}
}

// ApplyEdits applies multiple edits atomically as a single composite
// history op. Edits must be given in descending offset order
// (highest-offset first) and must not overlap, matching spec.md §4.5's
// workspace-edit ordering requirement: if validation fails, no edit is
// applied and no history op is recorded.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	return b.ApplyEditsWithCursors(edits, Point{}, Point{})
}

// ApplyEditsWithCursors is ApplyEdits with explicit cursor positions for
// the resulting composite op.
func (b *Buffer) ApplyEditsWithCursors(edits []Edit, cursorBefore, cursorAfter Point) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}
	ropeLen := b.content.ByteLen()
	for _, edit := range edits {
		if !edit.Range.IsValid() || edit.Range.End > ropeLen {
			return ErrRangeInvalid
		}
	}

	ops := make([]history.Op, len(edits))
	for i, edit := range edits {
		oldText := b.content.Slice(edit.Range.Start, edit.Range.End)
		newText := b.normalizeLineEndings(edit.NewText)
		ops[i] = opForEdit(edit.Range, oldText, newText)
	}
	composite := history.Composite(ops...)

	newRope, _, err := b.history.Apply(composite, cursorBefore, cursorAfter, b.content)
	if err != nil {
		return err
	}

	b.content = newRope
	b.revisionID = NewRevisionID()
	b.version++
	b.dirty = true
	return nil
}

// --- Undo/redo ---

// Undo reverts the most recent op on this buffer's history DAG. ok is
// false if there is nothing to undo.
func (b *Buffer) Undo() (Point, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	newRope, pos, ok := b.history.Undo()
	if !ok {
		return Point{}, false
	}
	b.content = newRope
	b.revisionID = NewRevisionID()
	b.version++
	b.dirty = true
	return pos, true
}

// Redo re-applies the most recently undone (or forked) op. ok is false
// if there is nothing to redo.
func (b *Buffer) Redo() (Point, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	newRope, pos, ok := b.history.Redo()
	if !ok {
		return Point{}, false
	}
	b.content = newRope
	b.revisionID = NewRevisionID()
	b.version++
	b.dirty = true
	return pos, true
}

// CanUndo reports whether Undo would do anything.
func (b *Buffer) CanUndo() bool {
	return b.history.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (b *Buffer) CanRedo() bool {
	return b.history.CanRedo()
}

// History returns the buffer's edit-history DAG, for callers (e.g. the
// command palette's "jump to history entry") that need direct access to
// Log/Reflog/BranchPoints/Checkout.
func (b *Buffer) History() *history.DAG {
	return b.history
}

// --- Buffer state ---

// RevisionID returns an id that changes on every mutation, including ones
// that don't go through history (e.g. SetTabWidth).
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// Version returns the monotonic edit version: 0 until the first
// successful edit, incremented by every Insert/Delete/Replace/ApplyEdit(s)
// and every Undo/Redo.
func (b *Buffer) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// IsDirty reports whether the buffer's version differs from the version
// at last save.
func (b *Buffer) IsDirty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dirty
}

// MarkSaved clears the dirty flag after the caller has persisted Save's
// output. It does not touch Version or history.
func (b *Buffer) MarkSaved() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirty = false
}

// Save returns the buffer's content with its configured line ending
// restored (LF is the canonical in-memory form; CRLF/CR are expanded back
// out only here, on the way to disk). It does not mark the buffer saved —
// callers should call MarkSaved once the bytes are durably written.
func (b *Buffer) Save() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.lineEnding == LineEndingLF {
		return b.content.String()
	}
	return strings.ReplaceAll(b.content.String(), "\n", b.lineEnding.Sequence())
}

// Path returns the buffer's filesystem path, or "" for an unsaved buffer.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// SetPath sets the buffer's filesystem path (e.g. after "Save As").
func (b *Buffer) SetPath(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.path = path
}

// LanguageID returns the buffer's language tag (e.g. "go", "rust"), used
// to pick which language server owns this buffer.
func (b *Buffer) LanguageID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.languageID
}

// SetLanguageID sets the buffer's language tag.
func (b *Buffer) SetLanguageID(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.languageID = id
}

// IsEmpty reports whether the buffer holds no bytes.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.IsEmpty()
}

// LineEnding returns the buffer's configured line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetLineEnding sets the buffer's line ending style. It does not convert
// existing content; it only changes what Save restores.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
	b.revisionID = NewRevisionID()
}

// SetTabWidth sets the buffer's tab width, used by the layout cache for
// tab-expansion.
func (b *Buffer) SetTabWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabWidth = width
	b.revisionID = NewRevisionID()
}

// Snapshot returns a read-only view of the current buffer state, safe for
// concurrent use from worker tasks. Taking one is an O(1) structural
// share of the rope, never a copy of its bytes.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		content:    b.content,
		revisionID: b.revisionID,
		version:    b.version,
		lineEnding: b.lineEnding,
		tabWidth:   b.tabWidth,
	}
}

// --- UTF-16 helpers ---

func utf16ColumnFromString(s string) uint32 {
	var col uint32
	for _, r := range s {
		if r >= 0x10000 {
			col += 2
		} else {
			col++
		}
	}
	return col
}

func byteOffsetFromUTF16Column(line string, utf16Col uint32) int {
	var col uint32
	var byteOffset int
	for _, r := range line {
		if col >= utf16Col {
			break
		}
		if r >= 0x10000 {
			col += 2
		} else {
			col++
		}
		byteOffset += utf8.RuneLen(r)
	}
	return byteOffset
}
