package editapply

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Apply. All are recoverable: a failed
// workspace edit leaves every buffer it touched unchanged.
var (
	// ErrInvalidBoundary indicates an edit's range does not resolve to a
	// valid byte range in its buffer (out of bounds, or end before start).
	ErrInvalidBoundary = errors.New("editapply: invalid edit boundary")

	// ErrOverlappingEdits indicates two edits within the same buffer's
	// edit-list share bytes. Adjacent ranges are allowed.
	ErrOverlappingEdits = errors.New("editapply: overlapping edits")

	// ErrVersionMismatch indicates a BufferEdit carried an expected
	// version that no longer matches the buffer's current edit version.
	ErrVersionMismatch = errors.New("editapply: buffer version mismatch")

	// ErrDiskFull is returned when a resource operation fails for lack of
	// space: a BufferProvider error matching ENOSPC is reported as
	// ErrDiskFull.
	ErrDiskFull = errors.New("editapply: disk full")
)

// UnreadableFileError reports that a buffer edit's target path could not
// be opened through the BufferProvider.
type UnreadableFileError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("editapply: unreadable file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *UnreadableFileError) Unwrap() error { return e.Err }
