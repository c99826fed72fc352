package viewport

import "testing"

func TestFrameBottomLineClampsToMaxLine(t *testing.T) {
	f := Frame{TopLine: 0, Width: 80, Height: 10, MaxLine: 5}
	if got := f.BottomLine(); got != 4 {
		t.Errorf("BottomLine = %d, want 4", got)
	}
}

func TestFrameLineToScreenRowOutsideReturnsNegativeOne(t *testing.T) {
	f := Frame{TopLine: 10, Width: 80, Height: 20}
	if got := f.LineToScreenRow(5); got != -1 {
		t.Errorf("LineToScreenRow(5) = %d, want -1", got)
	}
	if got := f.LineToScreenRow(10); got != 0 {
		t.Errorf("LineToScreenRow(10) = %d, want 0", got)
	}
}

func TestFrameBufferToScreenRoundTrip(t *testing.T) {
	f := Frame{TopLine: 4, LeftColumn: 2, Width: 80, Height: 20}
	row, col := f.BufferToScreen(6, 10)
	if row != 2 || col != 8 {
		t.Fatalf("BufferToScreen = (%d,%d), want (2,8)", row, col)
	}
	line, visCol := f.ScreenToBuffer(row, col)
	if line != 6 || visCol != 10 {
		t.Errorf("ScreenToBuffer round-trip = (%d,%d), want (6,10)", line, visCol)
	}
}

func TestFrameBufferToScreenOutsideWindow(t *testing.T) {
	f := Frame{TopLine: 0, LeftColumn: 0, Width: 10, Height: 10}
	if row, col := f.BufferToScreen(0, 50); row != -1 || col != -1 {
		t.Errorf("expected off-screen column to report (-1,-1), got (%d,%d)", row, col)
	}
	if row, col := f.BufferToScreen(50, 0); row != -1 || col != -1 {
		t.Errorf("expected off-screen line to report (-1,-1), got (%d,%d)", row, col)
	}
}

func TestRevealScrollsUpWhenAboveTopMargin(t *testing.T) {
	f := Frame{TopLine: 10, LeftColumn: 0, Width: 80, Height: 20}
	m := DefaultMargins()
	top, _, moved := Reveal(f, m, 2, 0)
	if !moved {
		t.Fatal("expected Reveal to move when caret is above the margin")
	}
	if top != 0 {
		t.Errorf("topLine = %d, want 0 (line 2 is within margin distance of doc start)", top)
	}
}

func TestRevealScrollsDownWhenBelowBottomMargin(t *testing.T) {
	f := Frame{TopLine: 0, LeftColumn: 0, Width: 80, Height: 20}
	m := DefaultMargins()
	top, _, moved := Reveal(f, m, 25, 0)
	if !moved {
		t.Fatal("expected Reveal to move when caret is below the margin")
	}
	wantTop := uint32(25 - 20 + m.Bottom + 1)
	if top != wantTop {
		t.Errorf("topLine = %d, want %d", top, wantTop)
	}
}

func TestRevealNoOpWhenAlreadyWithinMargins(t *testing.T) {
	f := Frame{TopLine: 10, LeftColumn: 0, Width: 80, Height: 20}
	m := DefaultMargins()
	top, left, moved := Reveal(f, m, 15, 10)
	if moved {
		t.Errorf("expected no movement, got topLine=%d leftColumn=%d", top, left)
	}
}

func TestRevealScrollsRightWhenPastRightMargin(t *testing.T) {
	f := Frame{TopLine: 0, LeftColumn: 0, Width: 40, Height: 20}
	m := DefaultMargins()
	_, left, moved := Reveal(f, m, 0, 100)
	if !moved {
		t.Fatal("expected Reveal to scroll horizontally")
	}
	wantLeft := 100 - 40 + m.Right
	if left != wantLeft {
		t.Errorf("leftColumn = %d, want %d", left, wantLeft)
	}
}

func TestRevealScrollsLeftWhenBeforeLeftMargin(t *testing.T) {
	f := Frame{TopLine: 0, LeftColumn: 20, Width: 40, Height: 20}
	m := DefaultMargins()
	_, left, moved := Reveal(f, m, 0, 3)
	if !moved {
		t.Fatal("expected Reveal to scroll left")
	}
	if left != 0 {
		t.Errorf("leftColumn = %d, want 0 (clamped at document start)", left)
	}
}

func TestFramePageSizeHasMinimumOfOne(t *testing.T) {
	f := Frame{Height: 1}
	if got := f.PageSize(); got != 1 {
		t.Errorf("PageSize = %d, want 1", got)
	}
}
