// Package keymap provides key binding management for the zcode editor.
//
// The keymap system manages the mapping between key sequences and actions.
// It supports multiple modes, conditional bindings, and priority-based
// precedence between keymaps.
//
// # Key Concepts
//
// Keymap: A named collection of bindings for a specific mode or context.
//
// Binding: Maps a key sequence to an action with optional conditions.
//
// Registry: Central registry that manages all keymaps and provides lookup.
//
// # Binding Precedence
//
// When multiple bindings match a key sequence, the one with the highest
// score wins. The score is the keymap's Priority times 100 plus the
// binding's Priority, plus 50 for a mode-specific keymap and 25 for a
// filetype-specific keymap. Equal scores go to the mode-specific binding,
// then to the filetype-specific one; registration order and a keymap's
// Source are not considered.
//
// # Key Sequence Parsing
//
// Key sequences can be specified in multiple formats:
//
//	"j"        - Single character
//	"g g"      - Multi-key sequence
//	"Up"       - A named special key
//	"<C-s>"    - Ctrl+S (angle bracket notation)
//	"Ctrl+S"   - Ctrl+S (readable notation)
//	"<C-S-a>"  - Ctrl+Shift+A
//
// # Conditional Bindings
//
// Bindings can have conditions that must be met:
//
//	binding := Binding{
//	    Keys:   "<C-s>",
//	    Action: "file.save",
//	    When:   "editorTextFocus && !editorReadonly",
//	}
//
// # Usage
//
//	registry := keymap.NewRegistry()
//	keymap.LoadDefaults(registry)
//
//	// Lookup a binding
//	ctx := &keymap.LookupContext{Mode: "normal"}
//	seq, _ := key.ParseSequence("g g")
//	binding := registry.Lookup(seq, ctx)
//	if binding != nil {
//	    // Execute binding.Action
//	}
//
//	// Check if more keys might complete a binding
//	if registry.HasPrefix(partialSeq, ctx) {
//	    // Wait for more keys
//	}
package keymap
