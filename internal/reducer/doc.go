// Package reducer implements the editor's single-threaded event loop: it
// polls terminal input, coalesces bursts of events, resolves them to
// actions through the keymap and current input mode, and reduces each
// action against editor state via a pure (state, action) -> (state,
// effects) function. Effects are descriptions of side-causing work (save
// to disk, invoke an LSP method, apply a workspace edit) handed to a
// worker runtime rather than performed inline, so the loop itself never
// blocks on I/O.
package reducer
