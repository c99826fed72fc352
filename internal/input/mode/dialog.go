package mode

import (
	"github.com/zcode-editor/zcode/internal/input/key"
)

// DialogMode owns input focus while a modal dialog (find/replace, confirm
// overwrite, unsaved-changes prompt) is displayed. Unmapped printable
// runes are inserted as text; every other unmapped key is swallowed.
type DialogMode struct{}

// NewDialogMode creates the modal-dialog input mode.
func NewDialogMode() *DialogMode {
	return &DialogMode{}
}

func (m *DialogMode) Name() string            { return ModeDialog }
func (m *DialogMode) DisplayName() string      { return "Dialog" }
func (m *DialogMode) CursorStyle() CursorStyle { return CursorBar }
func (m *DialogMode) Enter(ctx *Context) error { return nil }
func (m *DialogMode) Exit(ctx *Context) error  { return nil }

func (m *DialogMode) HandleUnmapped(event key.Event, ctx *Context) *UnmappedResult {
	if event.Key == key.KeyRune && event.Rune != 0 {
		return &UnmappedResult{Consumed: true, InsertText: string(event.Rune)}
	}
	return &UnmappedResult{Consumed: true}
}
