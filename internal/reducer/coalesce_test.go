package reducer

import "testing"

func TestCoalesceSumsConsecutiveScrollOnSameAxis(t *testing.T) {
	in := []InputEvent{
		{Kind: InputMouseScroll, ScrollAxis: AxisVertical, ScrollDelta: 1},
		{Kind: InputMouseScroll, ScrollAxis: AxisVertical, ScrollDelta: 2},
		{Kind: InputMouseScroll, ScrollAxis: AxisVertical, ScrollDelta: 3},
	}
	out := Coalesce(in)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0].ScrollDelta != 6 {
		t.Errorf("ScrollDelta = %d, want 6", out[0].ScrollDelta)
	}
}

func TestCoalesceDoesNotMergeAcrossDifferentAxes(t *testing.T) {
	in := []InputEvent{
		{Kind: InputMouseScroll, ScrollAxis: AxisVertical, ScrollDelta: 1},
		{Kind: InputMouseScroll, ScrollAxis: AxisHorizontal, ScrollDelta: 1},
	}
	out := Coalesce(in)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2 (different axes should not merge)", len(out))
	}
}

func TestCoalesceKeepsLastResize(t *testing.T) {
	in := []InputEvent{
		{Kind: InputResize, Width: 80, Height: 24},
		{Kind: InputResize, Width: 100, Height: 30},
		{Kind: InputResize, Width: 120, Height: 40},
	}
	out := Coalesce(in)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0].Width != 120 || out[0].Height != 40 {
		t.Errorf("resize = %dx%d, want 120x40", out[0].Width, out[0].Height)
	}
}

func TestCoalescePreservesOrderOfOtherEvents(t *testing.T) {
	in := []InputEvent{
		{Kind: InputKey},
		{Kind: InputResize, Width: 80, Height: 24},
		{Kind: InputResize, Width: 81, Height: 24},
		{Kind: InputKey},
		{Kind: InputMouseScroll, ScrollAxis: AxisVertical, ScrollDelta: 1},
	}
	out := Coalesce(in)
	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
	wantKinds := []InputEventKind{InputKey, InputResize, InputKey, InputMouseScroll}
	for i, k := range wantKinds {
		if out[i].Kind != k {
			t.Errorf("out[%d].Kind = %v, want %v", i, out[i].Kind, k)
		}
	}
	if out[1].Width != 81 {
		t.Errorf("merged resize width = %d, want 81", out[1].Width)
	}
}

func TestCoalesceEmpty(t *testing.T) {
	if out := Coalesce(nil); len(out) != 0 {
		t.Errorf("Coalesce(nil) = %v, want empty", out)
	}
}
