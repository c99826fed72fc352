package keymap

import "github.com/zcode-editor/zcode/internal/input/mode"

// LoadDefaults loads all default keymaps into the registry.
func LoadDefaults(r *Registry) error {
	keymaps := []*Keymap{
		DefaultGlobalKeymap(),
		DefaultNormalKeymap(),
		DefaultCompletionKeymap(),
		DefaultDialogKeymap(),
		DefaultCommandPaletteKeymap(),
	}

	for _, km := range keymaps {
		if err := r.Register(km); err != nil {
			return err
		}
	}

	return nil
}

// DefaultGlobalKeymap returns bindings active in every mode (spec.md §6's
// keymap table).
func DefaultGlobalKeymap() *Keymap {
	return &Keymap{
		Name:   "default-global",
		Source: "default",
		Bindings: []Binding{
			{Keys: "Ctrl+Q", Action: "app.quit", Description: "Quit", Category: "Application"},
			{Keys: "Ctrl+S", Action: "buffer.save", Description: "Save", Category: "File"},
			{Keys: "Ctrl+Z", Action: "history.undo", Description: "Undo", Category: "Edit"},
			{Keys: "Ctrl+Y", Action: "history.redo", Description: "Redo", Category: "Edit"},
			{Keys: "Ctrl+C", Action: "selection.copy", Description: "Copy", Category: "Edit"},
			{Keys: "Ctrl+X", Action: "selection.cut", Description: "Cut", Category: "Edit"},
			{Keys: "Ctrl+V", Action: "selection.paste", Description: "Paste", Category: "Edit"},
			{Keys: "Ctrl+A", Action: "selection.selectAll", Description: "Select all", Category: "Edit"},
			{Keys: "Ctrl+F", Action: "dialog.find", Description: "Find in file", Category: "Search"},
			{Keys: "Ctrl+H", Action: "dialog.replace", Description: "Replace in file", Category: "Search"},
			{Keys: "Ctrl+Shift+F", Action: "dialog.findInWorkspace", Description: "Global search", Category: "Search"},
			{Keys: "Ctrl+W", Action: "view.closeTab", Description: "Close tab", Category: "View"},
			{Keys: "Ctrl+Tab", Action: "view.nextTab", Description: "Next tab", Category: "View"},
			{Keys: "Ctrl+Shift+Tab", Action: "view.previousTab", Description: "Previous tab", Category: "View"},
			{Keys: "F2", Action: "lsp.hover", Description: "Hover", Category: "Language"},
			{Keys: "Ctrl+Shift+R", Action: "lsp.rename", Description: "Rename", Category: "Language"},
			{Keys: "F12", Action: "lsp.definition", Description: "Go to definition", Category: "Language"},
			{Keys: "Shift+F12", Action: "lsp.references", Description: "Find references", Category: "Language"},
			{Keys: "Alt+Enter", Action: "lsp.codeAction", Description: "Code action", Category: "Language"},
			{Keys: "Ctrl+Space", Action: "lsp.triggerCompletion", Description: "Trigger completion", Category: "Language"},
			{Keys: "Ctrl+Shift+P", Action: "palette.open", Description: "Command palette", Category: "Application"},
		},
	}
}

// DefaultNormalKeymap returns default normal-mode navigation bindings not
// covered by the global keymap.
func DefaultNormalKeymap() *Keymap {
	return &Keymap{
		Name:   "default-normal",
		Mode:   mode.ModeNormal,
		Source: "default",
		Bindings: []Binding{
			{Keys: "Up", Action: "cursor.moveUp", Description: "Move up", Category: "Movement"},
			{Keys: "Down", Action: "cursor.moveDown", Description: "Move down", Category: "Movement"},
			{Keys: "Left", Action: "cursor.moveLeft", Description: "Move left", Category: "Movement"},
			{Keys: "Right", Action: "cursor.moveRight", Description: "Move right", Category: "Movement"},
			{Keys: "Home", Action: "cursor.lineStart", Description: "Move to line start", Category: "Movement"},
			{Keys: "End", Action: "cursor.lineEnd", Description: "Move to line end", Category: "Movement"},
			{Keys: "PageUp", Action: "cursor.pageUp", Description: "Page up", Category: "Movement"},
			{Keys: "PageDown", Action: "cursor.pageDown", Description: "Page down", Category: "Movement"},
			{Keys: "Ctrl+Home", Action: "cursor.documentStart", Description: "Go to document start", Category: "Movement"},
			{Keys: "Ctrl+End", Action: "cursor.documentEnd", Description: "Go to document end", Category: "Movement"},
			{Keys: "Backspace", Action: "edit.deleteLeft", Description: "Delete left", Category: "Edit"},
			{Keys: "Delete", Action: "edit.deleteRight", Description: "Delete right", Category: "Edit"},
			{Keys: "Enter", Action: "edit.insertNewline", Description: "Insert newline", Category: "Edit"},
			{Keys: "Tab", Action: "edit.insertTab", Description: "Insert tab", Category: "Edit"},
			{Keys: "Shift+Up", Action: "selection.extendUp", Description: "Extend selection up", Category: "Selection"},
			{Keys: "Shift+Down", Action: "selection.extendDown", Description: "Extend selection down", Category: "Selection"},
			{Keys: "Shift+Left", Action: "selection.extendLeft", Description: "Extend selection left", Category: "Selection"},
			{Keys: "Shift+Right", Action: "selection.extendRight", Description: "Extend selection right", Category: "Selection"},
		},
	}
}

// DefaultCompletionKeymap returns bindings active while a completion popup
// is showing suggestions.
func DefaultCompletionKeymap() *Keymap {
	return &Keymap{
		Name:   "default-completion",
		Mode:   mode.ModeCompletion,
		Source: "default",
		Bindings: []Binding{
			{Keys: "Up", Action: "completion.selectPrevious", Description: "Previous suggestion", Category: "Completion"},
			{Keys: "Down", Action: "completion.selectNext", Description: "Next suggestion", Category: "Completion"},
			{Keys: "Enter", Action: "completion.accept", Description: "Accept suggestion", Category: "Completion"},
			{Keys: "Tab", Action: "completion.accept", Description: "Accept suggestion", Category: "Completion"},
			{Keys: "Escape", Action: "completion.dismiss", Description: "Dismiss completion", Category: "Completion"},
			{Keys: "Backspace", Action: "edit.deleteLeft", Description: "Delete left, re-filter", Category: "Completion"},
		},
	}
}

// DefaultDialogKeymap returns bindings active while a modal dialog owns
// input focus.
func DefaultDialogKeymap() *Keymap {
	return &Keymap{
		Name:   "default-dialog",
		Mode:   mode.ModeDialog,
		Source: "default",
		Bindings: []Binding{
			{Keys: "Enter", Action: "dialog.confirm", Description: "Confirm", Category: "Dialog"},
			{Keys: "Escape", Action: "dialog.cancel", Description: "Cancel", Category: "Dialog"},
			{Keys: "Tab", Action: "dialog.focusNext", Description: "Next field", Category: "Dialog"},
			{Keys: "Backspace", Action: "edit.deleteLeft", Description: "Delete left", Category: "Dialog"},
		},
	}
}

// DefaultCommandPaletteKeymap returns bindings active while the fuzzy
// command palette is open.
func DefaultCommandPaletteKeymap() *Keymap {
	return &Keymap{
		Name:   "default-command-palette",
		Mode:   mode.ModeCommandPalette,
		Source: "default",
		Bindings: []Binding{
			{Keys: "Up", Action: "palette.selectPrevious", Description: "Previous result", Category: "Palette"},
			{Keys: "Down", Action: "palette.selectNext", Description: "Next result", Category: "Palette"},
			{Keys: "Enter", Action: "palette.accept", Description: "Run selected command", Category: "Palette"},
			{Keys: "Escape", Action: "palette.close", Description: "Close palette", Category: "Palette"},
			{Keys: "Backspace", Action: "palette.backspaceQuery", Description: "Delete last query rune", Category: "Palette"},
		},
	}
}
