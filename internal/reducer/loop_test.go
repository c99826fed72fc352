package reducer

import (
	"testing"

	"github.com/zcode-editor/zcode/internal/input/key"
	"github.com/zcode-editor/zcode/internal/input/keymap"
	"github.com/zcode-editor/zcode/internal/input/mode"
)

// fakeSource replays a fixed slice of events then reports no more input.
type fakeSource struct {
	ch chan InputEvent
}

func newFakeSource(events ...InputEvent) *fakeSource {
	ch := make(chan InputEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	return &fakeSource{ch: ch}
}

func (f *fakeSource) Events() <-chan InputEvent { return f.ch }

// countingRenderer records how many times Render was called.
type countingRenderer struct{ calls int }

func (r *countingRenderer) Render(*State) { r.calls++ }

func newTestLoop(s *State, src Source, r Renderer) *Loop {
	modes := mode.NewManager()
	modes.Register(mode.NewNormalMode())
	_ = modes.SetInitialMode(mode.ModeNormal)
	km := keymap.NewRegistry()
	return NewLoop(s, modes, km, src, r, nil)
}

func TestLoopRendersOnlyWhenDirty(t *testing.T) {
	s, _ := newTestState("hello")
	s.Dirty = false
	r := &countingRenderer{}
	l := newTestLoop(s, newFakeSource(), r)

	l.Tick()
	if r.calls != 0 {
		t.Errorf("Render called %d times, want 0 (state was not dirty)", r.calls)
	}

	s.Dirty = true
	l.Tick()
	if r.calls != 1 {
		t.Errorf("Render called %d times, want 1", r.calls)
	}
	if s.Dirty {
		t.Error("Tick should clear Dirty after rendering")
	}
}

func TestLoopResolvesUnmappedRuneToInsertText(t *testing.T) {
	s, doc := newTestState("")
	ev := InputEvent{Kind: InputKey, Key: key.NewRuneEvent('x', key.ModNone)}
	l := newTestLoop(s, newFakeSource(ev), nil)

	l.Tick()

	if got := doc.Buffer.Text(); got != "x" {
		t.Errorf("Text() = %q, want %q", got, "x")
	}
}

func TestLoopResizeEventDispatchesResizeAction(t *testing.T) {
	s, _ := newTestState("x")
	ev := InputEvent{Kind: InputResize, Width: 100, Height: 50}
	l := newTestLoop(s, newFakeSource(ev), nil)

	l.Tick()

	if s.ViewportWidth != 100 || s.ViewportHeight != 50 {
		t.Errorf("viewport = %dx%d, want 100x50", s.ViewportWidth, s.ViewportHeight)
	}
}

func TestLoopQuitActionStopsTick(t *testing.T) {
	s, _ := newTestState("x")
	modes := mode.NewManager()
	modes.Register(mode.NewNormalMode())
	_ = modes.SetInitialMode(mode.ModeNormal)
	km := keymap.NewRegistry()
	_ = km.Register(&keymap.Keymap{
		Name: "test",
		Mode: mode.ModeNormal,
		Bindings: []keymap.Binding{
			{Keys: "<C-q>", Action: ActionQuit},
		},
	})

	ev := InputEvent{Kind: InputKey, Key: key.NewRuneEvent('q', key.ModCtrl)}

	l := NewLoop(s, modes, km, newFakeSource(ev), nil, nil)
	keepRunning := l.Tick()

	if keepRunning {
		t.Error("Tick should report false after a Quit action")
	}
	if !s.Quit {
		t.Error("State.Quit should be true")
	}
}

func TestLoopDrainsInboundActionsAfterInput(t *testing.T) {
	s, doc := newTestState("hello")
	inbound := make(chan Action, 1)
	inbound <- Action{Name: ActionInsertText, Args: map[string]any{"text": "!"}}
	close(inbound)

	l := newTestLoop(s, newFakeSource(), nil)
	l.Inbound = inbound

	l.Tick()

	if got := doc.Buffer.Text(); got != "hello!" {
		t.Errorf("Text() = %q, want %q", got, "hello!")
	}
}

func TestLoopDispatchReceivesEffects(t *testing.T) {
	s, doc := newTestState("hello")
	doc.Buffer.SetPath("/tmp/f.txt")
	inbound := make(chan Action, 1)
	inbound <- Action{Name: ActionSave}
	close(inbound)

	l := newTestLoop(s, newFakeSource(), nil)
	l.Inbound = inbound

	var got []Effect
	l.Dispatch = func(effects []Effect) { got = append(got, effects...) }

	l.Tick()

	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if _, ok := got[0].(SaveFile); !ok {
		t.Errorf("effect type = %T, want SaveFile", got[0])
	}
}
