package mode

import (
	"github.com/zcode-editor/zcode/internal/input/key"
)

// CommandPaletteMode is active while the fuzzy command palette is open
// (Ctrl+Shift+P). Typed runes extend the query; navigation/accept/escape
// are keymap-bound.
type CommandPaletteMode struct{}

// NewCommandPaletteMode creates the command-palette input mode.
func NewCommandPaletteMode() *CommandPaletteMode {
	return &CommandPaletteMode{}
}

func (m *CommandPaletteMode) Name() string            { return ModeCommandPalette }
func (m *CommandPaletteMode) DisplayName() string      { return "Command Palette" }
func (m *CommandPaletteMode) CursorStyle() CursorStyle { return CursorHidden }
func (m *CommandPaletteMode) Enter(ctx *Context) error { return nil }
func (m *CommandPaletteMode) Exit(ctx *Context) error  { return nil }

func (m *CommandPaletteMode) HandleUnmapped(event key.Event, ctx *Context) *UnmappedResult {
	if event.Key == key.KeyRune && event.Rune != 0 {
		return &UnmappedResult{Action: &Action{
			Name: "palette.appendQuery",
			Args: map[string]any{"rune": string(event.Rune)},
		}, Consumed: true}
	}
	return &UnmappedResult{Consumed: false}
}
