package reducer

import "github.com/zcode-editor/zcode/internal/input/key"

// InputEventKind identifies what kind of terminal input event occurred.
// The reducer package owns this type rather than depending on a terminal
// backend, so a future internal/term can depend on reducer instead of the
// other way around.
type InputEventKind uint8

const (
	InputKey InputEventKind = iota
	InputMouseScroll
	InputResize
	InputPaste
)

// InputEvent is one polled terminal event, already reduced to the fields
// the loop needs — a key sequence, a scroll delta on one axis, a new
// terminal size, or pasted text.
type InputEvent struct {
	Kind InputEventKind

	Key key.Event

	ScrollAxis  Axis
	ScrollDelta int

	Width, Height int

	PasteText string
}

// Coalesce merges a burst of events drained from the input source in a
// single non-blocking pass, per spec.md §4.8: consecutive mouse-scroll
// events on the same axis sum their delta into one event; consecutive
// resize events collapse to the last one seen; every other event
// (including a resize or scroll event that breaks a run) is preserved in
// its original relative order. Coalesce does not reorder events across a
// different kind — only same-kind runs are merged.
func Coalesce(events []InputEvent) []InputEvent {
	if len(events) == 0 {
		return events
	}
	out := make([]InputEvent, 0, len(events))
	for _, ev := range events {
		if len(out) > 0 {
			last := &out[len(out)-1]
			switch ev.Kind {
			case InputMouseScroll:
				if last.Kind == InputMouseScroll && last.ScrollAxis == ev.ScrollAxis {
					last.ScrollDelta += ev.ScrollDelta
					continue
				}
			case InputResize:
				if last.Kind == InputResize {
					last.Width = ev.Width
					last.Height = ev.Height
					continue
				}
			}
		}
		out = append(out, ev)
	}
	return out
}
