package rope

import "errors"

// ErrInvalidBoundary is returned by Insert/Delete when a byte offset falls
// inside a multi-byte UTF-8 sequence instead of on a character boundary.
var ErrInvalidBoundary = errors.New("rope: offset is not a valid UTF-8 boundary")
