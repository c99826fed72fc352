package mode

import (
	"github.com/zcode-editor/zcode/internal/input/key"
)

// CompletionMode is active while a completion popup is showing suggestions.
// Printable keys continue to insert text and re-filter the popup; the
// keymap carries the navigation bindings (up/down/enter/escape).
type CompletionMode struct{}

// NewCompletionMode creates the completion-popup mode.
func NewCompletionMode() *CompletionMode {
	return &CompletionMode{}
}

func (m *CompletionMode) Name() string            { return ModeCompletion }
func (m *CompletionMode) DisplayName() string      { return "Completion" }
func (m *CompletionMode) CursorStyle() CursorStyle { return CursorBar }
func (m *CompletionMode) Enter(ctx *Context) error { return nil }
func (m *CompletionMode) Exit(ctx *Context) error  { return nil }

func (m *CompletionMode) HandleUnmapped(event key.Event, ctx *Context) *UnmappedResult {
	if event.Key == key.KeyRune && event.Rune != 0 {
		return &UnmappedResult{Consumed: true, InsertText: string(event.Rune)}
	}
	return &UnmappedResult{Consumed: false}
}
