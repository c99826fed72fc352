package mode

import (
	"github.com/zcode-editor/zcode/internal/input/key"
)

// NormalMode is the default editing mode: printable keys insert text,
// navigation and editing keys are resolved through the keymap before
// falling through to HandleUnmapped.
type NormalMode struct{}

// NewNormalMode creates the normal editing mode.
func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string            { return ModeNormal }
func (m *NormalMode) DisplayName() string      { return "Normal" }
func (m *NormalMode) CursorStyle() CursorStyle { return CursorBar }
func (m *NormalMode) Enter(ctx *Context) error { return nil }
func (m *NormalMode) Exit(ctx *Context) error  { return nil }

// HandleUnmapped inserts printable runes directly; everything else is
// ignored (the keymap is expected to carry explicit bindings for
// non-printable keys in this mode).
func (m *NormalMode) HandleUnmapped(event key.Event, ctx *Context) *UnmappedResult {
	if event.Key == key.KeyRune && event.Rune != 0 {
		return &UnmappedResult{Consumed: true, InsertText: string(event.Rune)}
	}
	return &UnmappedResult{Consumed: false}
}
