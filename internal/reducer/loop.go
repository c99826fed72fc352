package reducer

import (
	"time"

	"github.com/zcode-editor/zcode/internal/input/key"
	"github.com/zcode-editor/zcode/internal/input/keymap"
	"github.com/zcode-editor/zcode/internal/input/mode"
)

// pollTimeout is how long a tick waits for the first input event before
// giving up and looping back to check the async inbound channel, per
// spec.md §4.8's 16ms figure (one frame at ~60Hz).
const pollTimeout = 16 * time.Millisecond

// Source supplies input events to the loop. A real terminal backend
// implements it by running PollEvent in a background goroutine and
// feeding a buffered channel (mirroring the teacher's startInputPolling);
// tests use a fake that replays a fixed event slice.
type Source interface {
	// Events returns the channel new input events arrive on.
	Events() <-chan InputEvent
}

// Renderer draws the current state. Render is only called when State.Dirty
// is true; the loop clears Dirty after Render returns.
type Renderer interface {
	Render(s *State)
}

// Loop drives the single-threaded event loop described in spec.md §4.8:
// render if dirty, poll input with a short timeout, drain and coalesce
// whatever else is immediately available, resolve each event to an
// action via the keymap and current mode, reduce it, then drain the
// async inbound channel non-blockingly. Effects returned by Reduce are
// handed to Dispatch rather than performed here.
type Loop struct {
	State    *State
	Modes    *mode.Manager
	Keymap   *keymap.Registry
	Source   Source
	Renderer Renderer

	// Inbound carries Actions built from asynchronous replies (LSP
	// responses, completed save/open effects, server-crash reports).
	// These are reduced after the tick's input events, per the ordering
	// guarantee that user intent beats delayed async replies.
	Inbound <-chan Action

	// Dispatch hands an effect batch from one reduce call off to the
	// worker runtime. Nil is valid for tests that don't care about
	// effects.
	Dispatch func([]Effect)
}

// NewLoop wires the pieces described above into a ready-to-run Loop.
func NewLoop(s *State, modes *mode.Manager, km *keymap.Registry, src Source, r Renderer, inbound <-chan Action) *Loop {
	return &Loop{
		State:    s,
		Modes:    modes,
		Keymap:   km,
		Source:   src,
		Renderer: r,
		Inbound:  inbound,
		Dispatch: func([]Effect) {},
	}
}

// Tick runs exactly one iteration of the loop's six steps and reports
// whether the loop should keep running (false once ActionQuit fires).
func (l *Loop) Tick() bool {
	if l.State.Dirty && l.Renderer != nil {
		l.Renderer.Render(l.State)
		l.State.Dirty = false
	}

	events := l.pollAndDrain()
	events = Coalesce(events)
	for _, ev := range events {
		action, ok := l.resolve(ev)
		if !ok {
			continue
		}
		l.reduceAndDispatch(action)
		if l.State.Quit {
			return false
		}
	}

	l.drainInbound()
	return !l.State.Quit
}

// Run calls Tick until it returns false.
func (l *Loop) Run() {
	for l.Tick() {
	}
}

// pollAndDrain waits up to pollTimeout for the first event, then drains
// whatever else is already queued without blocking.
func (l *Loop) pollAndDrain() []InputEvent {
	ch := l.Source.Events()
	var events []InputEvent

	timer := time.NewTimer(pollTimeout)
	defer timer.Stop()

	select {
	case ev, ok := <-ch:
		if ok {
			events = append(events, ev)
		}
	case <-timer.C:
		return events
	}

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

// drainInbound reduces every async Action already queued, without
// blocking for more.
func (l *Loop) drainInbound() {
	if l.Inbound == nil {
		return
	}
	for {
		select {
		case action, ok := <-l.Inbound:
			if !ok {
				return
			}
			l.reduceAndDispatch(action)
		default:
			return
		}
	}
}

func (l *Loop) reduceAndDispatch(action Action) {
	effects := Reduce(l.State, action)
	if len(effects) > 0 && l.Dispatch != nil {
		l.Dispatch(effects)
	}
}

// resolve turns one input event into an Action, consulting the keymap
// before the current mode (the mode only sees keys with no binding, and
// can claim one, e.g. inserting a printable rune) and the mode before
// falling back to "no binding, drop it" — mirroring the teacher's
// handleKeyEvent -> HandleUnmapped -> processModeResult flow, minus the
// handler-registry machinery that flow used to execute the result.
func (l *Loop) resolve(ev InputEvent) (Action, bool) {
	switch ev.Kind {
	case InputResize:
		return Action{Name: ActionResizeViewport, Args: map[string]any{
			"width": ev.Width, "height": ev.Height,
		}}, true
	case InputMouseScroll:
		return Action{Name: ActionScroll, Args: map[string]any{
			"axis": ev.ScrollAxis, "delta": ev.ScrollDelta,
		}}, true
	case InputPaste:
		return Action{Name: ActionInsertText, Args: map[string]any{"text": ev.PasteText}}, true
	case InputKey:
		return l.resolveKey(ev.Key)
	default:
		return Action{}, false
	}
}

func (l *Loop) resolveKey(ev key.Event) (Action, bool) {
	seq := key.NewSequenceFrom(ev)

	ctx := &keymap.LookupContext{Mode: l.Modes.CurrentName(), FileType: l.State.LanguageID()}
	if b := l.Keymap.Lookup(seq, ctx); b != nil {
		return Action{Name: b.Action, Args: b.Args}, true
	}

	m := l.Modes.Current()
	if m == nil {
		return Action{}, false
	}
	modeCtx := mode.NewContext().WithEditor(l.State)
	result := m.HandleUnmapped(ev, modeCtx)
	if result == nil || !result.Consumed {
		return Action{}, false
	}
	if result.Action != nil {
		return Action{Name: result.Action.Name, Args: result.Action.Args}, true
	}
	if result.InsertText != "" {
		return Action{Name: ActionInsertText, Args: map[string]any{"text": result.InsertText}}, true
	}
	return Action{}, false
}
