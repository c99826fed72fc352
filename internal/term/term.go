// Package term adapts a real terminal to the reducer's input/render
// contract: it turns tcell key/mouse/resize/paste events into
// reducer.InputEvent values on a buffered channel (so Loop.pollAndDrain
// never blocks on a terminal read) and exposes a small cell-grid surface
// the renderer draws into.
package term

import (
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/zcode-editor/zcode/internal/input/key"
	"github.com/zcode-editor/zcode/internal/reducer"
)

// Terminal wraps a tcell.Screen, translating its event stream into
// reducer.InputEvent and exposing cell drawing for the renderer.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	events  chan reducer.InputEvent
	running atomic.Bool
	done    chan struct{}
}

// New creates a Terminal backed by a freshly constructed tcell screen.
// Init must be called before the terminal is usable.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{
		screen: screen,
		events: make(chan reducer.InputEvent, 100),
		done:   make(chan struct{}),
	}, nil
}

// NewSimulation creates a Terminal backed by a tcell SimulationScreen of
// the given size, for tests that exercise rendering without a real tty.
func NewSimulation(width, height int) (*Terminal, tcell.SimulationScreen, error) {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		return nil, nil, err
	}
	screen.SetSize(width, height)
	return &Terminal{
		screen: screen,
		events: make(chan reducer.InputEvent, 100),
		done:   make(chan struct{}),
	}, screen, nil
}

// Init initializes the underlying screen and starts the background
// polling goroutine that feeds Events().
func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	t.running.Store(true)
	go t.pollLoop()
	return nil
}

// Shutdown stops polling and restores the terminal. PollEvent is
// blocking, so screen.Fini() (which tcell guarantees unblocks any
// in-flight PollEvent) is what actually lets pollLoop exit.
func (t *Terminal) Shutdown() {
	t.running.Store(false)
	close(t.done)
	t.mu.Lock()
	t.screen.Fini()
	t.mu.Unlock()
}

// Events returns the channel reducer.Loop polls for input.
func (t *Terminal) Events() <-chan reducer.InputEvent {
	return t.events
}

// Size returns the current terminal dimensions.
func (t *Terminal) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// pollLoop blocks on the screen's event stream and forwards translated
// events non-blockingly, dropping on a full buffer rather than stalling
// the terminal's own event delivery.
func (t *Terminal) pollLoop() {
	defer close(t.events)
	for t.running.Load() {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		translated, ok := translateEvent(ev)
		if !ok {
			continue
		}
		select {
		case t.events <- translated:
		case <-t.done:
			return
		default:
		}
	}
}

// translateEvent converts a tcell event into a reducer.InputEvent. The
// second return is false for event kinds the reducer doesn't act on
// (e.g. focus changes).
func translateEvent(ev tcell.Event) (reducer.InputEvent, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return reducer.InputEvent{Kind: reducer.InputKey, Key: convertKey(e)}, true

	case *tcell.EventMouse:
		axis, delta, ok := convertScroll(e.Buttons())
		if !ok {
			return reducer.InputEvent{}, false
		}
		return reducer.InputEvent{Kind: reducer.InputMouseScroll, ScrollAxis: axis, ScrollDelta: delta}, true

	case *tcell.EventResize:
		w, h := e.Size()
		return reducer.InputEvent{Kind: reducer.InputResize, Width: w, Height: h}, true

	case *tcell.EventPaste:
		// tcell delivers pasted text as ordinary key events bracketed by
		// start/end EventPaste markers; the bracketing itself carries no
		// text and the loop has nothing to act on until the keys arrive.
		return reducer.InputEvent{}, false

	default:
		return reducer.InputEvent{}, false
	}
}

// convertScroll maps tcell's wheel buttons to a scroll axis/delta.
// Click buttons aren't part of spec.md's action vocabulary yet, so they
// are dropped here rather than carried as a half-modeled event.
func convertScroll(b tcell.ButtonMask) (reducer.Axis, int, bool) {
	switch {
	case b&tcell.WheelUp != 0:
		return reducer.AxisVertical, 1, true
	case b&tcell.WheelDown != 0:
		return reducer.AxisVertical, -1, true
	case b&tcell.WheelLeft != 0:
		return reducer.AxisHorizontal, 1, true
	case b&tcell.WheelRight != 0:
		return reducer.AxisHorizontal, -1, true
	default:
		return reducer.AxisVertical, 0, false
	}
}

// convertKey converts a tcell key event to key.Event. Ctrl+letter arrives
// from tcell as a dedicated tcell.KeyCtrlA..KeyCtrlZ constant rather than
// KeyRune+ModCtrl, so those are unpacked back into the rune form
// key.Sequence/keymap bindings expect. Backspace, Tab and Enter share
// their codes with Ctrl+H, Ctrl+I and Ctrl+M and stay special keys.
func convertKey(e *tcell.EventKey) key.Event {
	mods := convertMod(e.Modifiers())

	if k := e.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ &&
		k != tcell.KeyBackspace && k != tcell.KeyTab && k != tcell.KeyEnter {
		r := rune('a' + int(k-tcell.KeyCtrlA))
		return key.NewRuneEvent(r, mods.With(key.ModCtrl))
	}

	if e.Key() == tcell.KeyRune {
		return key.NewRuneEvent(e.Rune(), mods)
	}

	return key.NewSpecialEvent(convertSpecialKey(e.Key()), mods)
}

func convertMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}

func convertSpecialKey(k tcell.Key) key.Key {
	switch k {
	case tcell.KeyEscape:
		return key.KeyEscape
	case tcell.KeyEnter:
		return key.KeyEnter
	case tcell.KeyTab:
		return key.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.KeyBackspace
	case tcell.KeyDelete:
		return key.KeyDelete
	case tcell.KeyInsert:
		return key.KeyInsert
	case tcell.KeyHome:
		return key.KeyHome
	case tcell.KeyEnd:
		return key.KeyEnd
	case tcell.KeyPgUp:
		return key.KeyPageUp
	case tcell.KeyPgDn:
		return key.KeyPageDown
	case tcell.KeyUp:
		return key.KeyUp
	case tcell.KeyDown:
		return key.KeyDown
	case tcell.KeyLeft:
		return key.KeyLeft
	case tcell.KeyRight:
		return key.KeyRight
	case tcell.KeyF1:
		return key.KeyF1
	case tcell.KeyF2:
		return key.KeyF2
	case tcell.KeyF3:
		return key.KeyF3
	case tcell.KeyF4:
		return key.KeyF4
	case tcell.KeyF5:
		return key.KeyF5
	case tcell.KeyF6:
		return key.KeyF6
	case tcell.KeyF7:
		return key.KeyF7
	case tcell.KeyF8:
		return key.KeyF8
	case tcell.KeyF9:
		return key.KeyF9
	case tcell.KeyF10:
		return key.KeyF10
	case tcell.KeyF11:
		return key.KeyF11
	case tcell.KeyF12:
		return key.KeyF12
	default:
		return key.KeyNone
	}
}
