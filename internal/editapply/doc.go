// Package editapply applies workspace edits — the unordered, possibly
// multi-buffer edit sets produced by rename, format, and code-action
// responses from a language server — onto one or more internal/buffer
// buffers.
//
// A workspace edit's ranges are tagged with the unit their endpoints are
// measured in (UTF-8 bytes, UTF-16 code units, or grapheme clusters); this
// package converts every endpoint to a byte offset against the buffer's
// current content, validates the whole set before touching anything, and
// then applies each buffer's portion as a single composite history op so
// undo reverts the whole workspace edit at once.
//
// Unit conversion composes internal/buffer's existing UTF-16 arithmetic
// with github.com/rivo/uniseg for the grapheme case. Caret and selection
// preservation across an edit reuses internal/selection's offset-transform
// rules rather than re-deriving them.
package editapply
