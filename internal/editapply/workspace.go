package editapply

import (
	"errors"
	"sort"
	"strings"
	"syscall"

	"github.com/zcode-editor/zcode/internal/buffer"
	"github.com/zcode-editor/zcode/internal/history"
	"github.com/zcode-editor/zcode/internal/selection"
)

// TextEdit replaces Range (in the given Unit) with NewText.
type TextEdit struct {
	Range   Range
	NewText string
	Unit    Unit
}

// BufferEdit is one buffer's portion of a workspace edit. ExpectedVersion,
// when set, fails the whole workspace edit with ErrVersionMismatch if the
// buffer's current edit version differs. ActiveCaret, when set, is
// transformed by the applied edits and returned in the result so the
// caller can move the on-screen caret without recomputing the transform
// itself.
type BufferEdit struct {
	Path            string
	Edits           []TextEdit
	ExpectedVersion *uint64
	ActiveCaret     *selection.Selection
}

// ResourceOpKind identifies the filesystem operation a ResourceOp performs.
type ResourceOpKind uint8

const (
	ResourceCreateFile ResourceOpKind = iota
	ResourceRenameFile
	ResourceDeleteFile
)

// ResourceOp is a create/rename/delete applied before any text edit in the
// same workspace edit. Path is the affected file; NewPath is used only by
// ResourceRenameFile.
type ResourceOp struct {
	Kind    ResourceOpKind
	Path    string
	NewPath string
}

// WorkspaceEdit is an unordered set of per-buffer edit-lists plus optional
// resource operations, as produced by an LSP rename, format, or code
// action response.
type WorkspaceEdit struct {
	ResourceOps []ResourceOp
	BufferEdits []BufferEdit
}

// BufferProvider resolves buffer paths and performs resource operations
// on behalf of Apply. OpenBuffer opens the buffer from disk (or returns
// an already-open one) on demand.
type BufferProvider interface {
	OpenBuffer(path string) (*buffer.Buffer, error)
	CreateFile(path string) error
	RenameFile(oldPath, newPath string) error
	DeleteFile(path string) error
}

// BufferResult reports what happened to one buffer touched by Apply.
type BufferResult struct {
	Path  string
	Caret *selection.Selection
	Head  history.OpID
}

// Result is the outcome of a successfully applied workspace edit.
type Result struct {
	Buffers []BufferResult
}

// Apply runs resource operations first, then validates every buffer
// edit's unit conversion with no further mutation, then applies each
// buffer's edits as a single composite history op. A validation failure
// leaves every buffer's text untouched; a resource-operation failure
// aborts before any buffer is opened for editing.
func Apply(provider BufferProvider, edit WorkspaceEdit) (Result, error) {
	for _, op := range edit.ResourceOps {
		if err := applyResourceOp(provider, op); err != nil {
			return Result{}, err
		}
	}

	plans := make([]bufferPlan, 0, len(edit.BufferEdits))
	for _, be := range edit.BufferEdits {
		plan, err := planBufferEdit(provider, be)
		if err != nil {
			return Result{}, err
		}
		plans = append(plans, plan)
	}

	results := make([]BufferResult, 0, len(plans))
	for _, p := range plans {
		result, err := p.apply()
		if err != nil {
			return Result{}, err
		}
		results = append(results, result)
	}

	return Result{Buffers: results}, nil
}

type bufferPlan struct {
	path         string
	buf          *buffer.Buffer
	edits        []buffer.Edit
	cursorBefore buffer.Point
	cursorAfter  buffer.Point
	caret        *selection.Selection
}

func planBufferEdit(provider BufferProvider, be BufferEdit) (bufferPlan, error) {
	buf, err := provider.OpenBuffer(be.Path)
	if err != nil {
		return bufferPlan{}, &UnreadableFileError{Path: be.Path, Err: err}
	}
	if be.ExpectedVersion != nil && buf.Version() != *be.ExpectedVersion {
		return bufferPlan{}, ErrVersionMismatch
	}
	if len(be.Edits) == 0 {
		return bufferPlan{path: be.Path, buf: buf, caret: be.ActiveCaret}, nil
	}

	byteEdits := make([]buffer.Edit, len(be.Edits))
	for i, te := range be.Edits {
		br, err := toByteRange(buf, te.Range, te.Unit)
		if err != nil {
			return bufferPlan{}, err
		}
		byteEdits[i] = buffer.NewEdit(br, te.NewText)
	}

	sort.Slice(byteEdits, func(i, j int) bool {
		return byteEdits[i].Range.Start > byteEdits[j].Range.Start
	})
	for i := 1; i < len(byteEdits); i++ {
		if byteEdits[i].Range.End > byteEdits[i-1].Range.Start {
			return bufferPlan{}, ErrOverlappingEdits
		}
	}

	last := byteEdits[len(byteEdits)-1]
	cursorBefore := buf.OffsetToPoint(last.Range.Start)
	if be.ActiveCaret != nil {
		cursorBefore = buf.OffsetToPoint(be.ActiveCaret.Caret)
	}
	cursorAfter := pointAfterInsert(buf, last.Range.Start, last.NewText)

	return bufferPlan{
		path:         be.Path,
		buf:          buf,
		edits:        byteEdits,
		cursorBefore: cursorBefore,
		cursorAfter:  cursorAfter,
		caret:        be.ActiveCaret,
	}, nil
}

func (p bufferPlan) apply() (BufferResult, error) {
	if len(p.edits) == 0 {
		return BufferResult{Path: p.path, Caret: p.caret, Head: p.buf.History().Head()}, nil
	}

	if err := p.buf.ApplyEditsWithCursors(p.edits, p.cursorBefore, p.cursorAfter); err != nil {
		return BufferResult{}, translateBufferError(err)
	}

	var caret *selection.Selection
	if p.caret != nil {
		transformed := selection.TransformMulti(*p.caret, p.edits)
		caret = &transformed
	}
	return BufferResult{Path: p.path, Caret: caret, Head: p.buf.History().Head()}, nil
}

func applyResourceOp(provider BufferProvider, op ResourceOp) error {
	var err error
	switch op.Kind {
	case ResourceCreateFile:
		err = provider.CreateFile(op.Path)
	case ResourceRenameFile:
		err = provider.RenameFile(op.Path, op.NewPath)
	case ResourceDeleteFile:
		err = provider.DeleteFile(op.Path)
	default:
		return errors.New("editapply: unknown resource op kind")
	}
	if errors.Is(err, syscall.ENOSPC) {
		return ErrDiskFull
	}
	return err
}

func translateBufferError(err error) error {
	switch {
	case errors.Is(err, buffer.ErrRangeInvalid):
		return ErrInvalidBoundary
	case errors.Is(err, buffer.ErrEditsOverlap):
		return ErrOverlappingEdits
	default:
		return err
	}
}

// pointAfterInsert computes the Point immediately after newText would be
// inserted at startOffset, using buf's content as it stood before any
// edit in the same workspace edit was applied. Since workspace edits
// within a buffer are applied in descending-start order, the bytes before
// the lowest-start edit (the one this is computed for) are never touched
// by the edits applied ahead of it, so the pre-edit Point is still valid
// once the whole set has been applied.
func pointAfterInsert(buf *buffer.Buffer, startOffset buffer.ByteOffset, newText string) buffer.Point {
	start := buf.OffsetToPoint(startOffset)
	nlCount := strings.Count(newText, "\n")
	if nlCount == 0 {
		return buffer.Point{Line: start.Line, Column: start.Column + uint32(len(newText))}
	}
	lastNL := strings.LastIndexByte(newText, '\n')
	return buffer.Point{Line: start.Line + uint32(nlCount), Column: uint32(len(newText) - lastNL - 1)}
}
