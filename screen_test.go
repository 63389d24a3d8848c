package termcore

import "testing"

func newTestScreen(rows, cols int) *Screen {
	return NewScreen(rows, cols, NewBoundedHistory(1000), NewExtendedCharTable(), false)
}

// --- Invariants (cursor bounds, wrap, resize preservation) ---

func TestScreenCursorNeverLeavesBounds(t *testing.T) {
	s := newTestScreen(5, 5)

	s.CursorUp(100)
	if s.CursorRow() != 0 {
		t.Fatalf("expected row clamped to 0, got %d", s.CursorRow())
	}
	s.CursorDown(100)
	if s.CursorRow() != s.Rows()-1 {
		t.Fatalf("expected row clamped to %d, got %d", s.Rows()-1, s.CursorRow())
	}
	s.CursorLeft(100)
	if s.CursorCol() != 0 {
		t.Fatalf("expected col clamped to 0, got %d", s.CursorCol())
	}
	s.CursorRight(100)
	if s.CursorCol() != s.Cols()-1 {
		t.Fatalf("expected col clamped to %d, got %d", s.Cols()-1, s.CursorCol())
	}
}

func TestScreenWrapInvariantMarksLineAndAdvances(t *testing.T) {
	s := newTestScreen(3, 4)
	for i := 0; i < 5; i++ { // the 5th char overflows col 4, forcing a wrap
		s.DisplayCharacter(rune('a' + i))
	}
	if !s.lines[0].wrapped {
		t.Fatal("expected first row marked wrapped once it fills and a further character arrives")
	}
	if s.CursorRow() != 1 || s.CursorCol() != 1 {
		t.Fatalf("expected cursor to have wrapped onto row 1 col 1, got row=%d col=%d", s.CursorRow(), s.CursorCol())
	}
}

func TestScreenResizeShrinkWidthPreservesOverlongLines(t *testing.T) {
	s := newTestScreen(3, 10)
	for col := 0; col < 10; col++ {
		s.cursor.Row, s.cursor.Col = 0, col
		s.lines[0].cells[col] = Cell{CodePoint: uint16('a' + col), Fg: DefaultColor, Bg: DefaultColor, Real: true}
	}

	s.Resize(3, 5)

	if len(s.lines[0].cells) != 10 {
		t.Fatalf("expected overlong row 0 left untouched at 10 cells, got %d", len(s.lines[0].cells))
	}
	if s.lines[0].cells[9].CodePoint != uint16('a'+9) {
		t.Fatal("expected overlong row's original content preserved past the new column count")
	}
	if s.Cols() != 5 {
		t.Fatalf("expected Cols() to report the new width 5, got %d", s.Cols())
	}
}

func TestScreenResizeShrinkHeightScrollsIntoHistory(t *testing.T) {
	s := newTestScreen(5, 4)
	for i := 0; i < 5; i++ {
		s.cursor.Row, s.cursor.Col = i, 0
		s.DisplayCharacter(rune('0' + i))
	}

	s.Resize(2, 4)

	if s.HistoryLen() == 0 {
		t.Fatal("expected shrinking height to push the overflowing rows into history")
	}
	if s.Rows() != 2 {
		t.Fatalf("expected Rows() to report the new height 2, got %d", s.Rows())
	}
}

func TestScreenScrollUpVacatedRowsUseCurrentRendition(t *testing.T) {
	s := newTestScreen(4, 3)
	s.SetBackColor(PaletteColor(2))

	s.ScrollUp(0, s.Rows(), 1)

	want := s.blankFill()
	for col, cell := range s.lines[s.Rows()-1].cells {
		if !cell.Equal(want) {
			t.Fatalf("expected vacated row cell at col %d to use the current rendition %+v, got %+v", col, want, cell)
		}
	}
}

func TestScreenScrollDownVacatedRowsUseCurrentRendition(t *testing.T) {
	s := newTestScreen(4, 3)
	s.SetBackColor(PaletteColor(2))
	s.SetRendition(RenditionReverse)

	s.ScrollDown(0, s.Rows(), 1)

	want := s.blankFill()
	for col, cell := range s.lines[0].cells {
		if !cell.Equal(want) {
			t.Fatalf("expected vacated row cell at col %d to use the current non-inverse rendition %+v, got %+v", col, want, cell)
		}
	}
}

func TestScreenDeleteLinesAndInsertLinesUseCurrentRendition(t *testing.T) {
	s := newTestScreen(4, 3)
	s.SetForeColor(PaletteColor(5))

	s.DeleteLines(1)
	want := s.blankFill()
	if !s.lines[s.Rows()-1].cells[0].Equal(want) {
		t.Fatalf("expected DeleteLines' vacated row to use the current rendition, got %+v", s.lines[s.Rows()-1].cells[0])
	}

	s.InsertLines(1)
	if !s.lines[s.cursor.Row].cells[0].Equal(want) {
		t.Fatalf("expected InsertLines' vacated row to use the current rendition, got %+v", s.lines[s.cursor.Row].cells[0])
	}
}

func TestScreenCombiningCharacterAttachesToPrecedingCell(t *testing.T) {
	s := newTestScreen(3, 5)
	s.DisplayCharacter('e')
	s.DisplayCharacter('́') // combining acute accent, zero width

	cell := s.lines[0].cells[0]
	if cell.Rendition&RenditionExtended == 0 {
		t.Fatal("expected the preceding cell to become an extended char once a combining mark attaches")
	}
	seq := s.extended.LookupExtendedChar(cell.CodePoint)
	if len(seq) != 2 || seq[0] != 'e' || seq[1] != '́' {
		t.Fatalf("expected the extended sequence to be ['e', combining accent], got %q", seq)
	}
	if s.CursorCol() != 1 {
		t.Fatal("expected a combining character not to advance the cursor")
	}
}

func TestScreenSelectionNormalizesRegardlessOfDragDirection(t *testing.T) {
	s := newTestScreen(5, 5)

	s.SetSelectionStart(3, 2, false)
	s.SetSelectionEnd(1, 0) // dragged backwards/upwards

	if !s.IsSelected(1, 0) {
		t.Fatal("expected normalized selection to include the earlier endpoint")
	}
	if !s.IsSelected(3, 2) {
		t.Fatal("expected normalized selection to include the later endpoint")
	}
	if s.IsSelected(4, 3) {
		t.Fatal("expected a coordinate after the selection's bottom-right to be unselected")
	}
}

// --- Round-trip / idempotence laws (§8.2) ---

func TestScreenDoubleResetIsIdempotent(t *testing.T) {
	s := newTestScreen(4, 4)
	s.SetMode(ModeInsert)
	s.DisplayCharacter('x')

	s.Reset()
	first := *s

	s.Reset()
	if s.modes != first.modes {
		t.Fatal("expected a second Reset to leave mode state unchanged")
	}
	if s.cursor != first.cursor {
		t.Fatal("expected a second Reset to leave cursor state unchanged")
	}
}

func TestScreenSaveRestoreCursorRoundTrips(t *testing.T) {
	s := newTestScreen(5, 5)
	s.cursor.Row, s.cursor.Col = 2, 3
	s.SetRendition(RenditionBold)

	s.SaveCursor()
	s.cursor.Row, s.cursor.Col = 0, 0
	s.ResetRendition(RenditionBold)

	s.RestoreCursor()
	if s.CursorRow() != 2 || s.CursorCol() != 3 {
		t.Fatalf("expected cursor restored to row=2 col=3, got row=%d col=%d", s.CursorRow(), s.CursorCol())
	}
	if s.Template().Rendition&RenditionBold == 0 {
		t.Fatal("expected rendition template restored along with the cursor")
	}
}

// --- Boundary scenarios (§8.3) ---

func TestBoundaryLineDrawingCharset(t *testing.T) {
	e := NewEmulation(WithSize(3, 10))
	e.WriteString("\x1b(0", tm(0)) // designate DEC special graphics into G0
	e.WriteString("q", tm(1))      // 'q' in line-drawing is a horizontal line

	cell := e.ActiveScreen().lines[0].cells[0]
	if cell.CodePoint == uint16('q') {
		t.Fatal("expected line-drawing charset to translate 'q' away from its literal code point")
	}
}

func TestBoundaryScrollRegionPlusIndex(t *testing.T) {
	s := newTestScreen(6, 4)
	s.SetMargins(2, 4) // 1-based, rows 2..4 inclusive -> 0-based [1,3]
	s.cursor.Row = s.bottomMargin
	s.DisplayCharacter('X') // mark the bottom margin row before scrolling it

	s.Index()

	if s.lines[0].cells[0].CodePoint == uint16('X') {
		t.Fatal("expected scrolling within the margin region to leave rows above top margin untouched")
	}
	if s.lines[4].cells[0].CodePoint == uint16('X') {
		t.Fatal("expected the marked bottom-margin row to have scrolled up, not stayed in place")
	}
	if s.lines[2].cells[0].CodePoint != uint16('X') {
		t.Fatalf("expected the marked row to land at row 2 after scrolling up by 1, got %q", rune(s.lines[2].cells[0].CodePoint))
	}
}

func TestBoundaryWrapAtMargin(t *testing.T) {
	s := newTestScreen(3, 3)
	s.SetMargins(1, 2) // 0-based [0,1]: rows 0-1 only
	for i := 0; i < 9; i++ {
		s.DisplayCharacter(rune('a' + i))
	}
	if s.CursorRow() > s.bottomMargin {
		t.Fatalf("expected wrapping at the bottom margin to scroll rather than descend past it, cursor at row %d margin %d", s.CursorRow(), s.bottomMargin)
	}
	if s.lines[2].cells[0].CodePoint != uint16(' ') {
		t.Fatal("expected row 2, outside the scroll region, to stay untouched by the margin-bound wrap")
	}
}

func TestBoundarySGRTrueColor(t *testing.T) {
	e := NewEmulation(WithSize(3, 10))
	e.WriteString("\x1b[38;2;10;20;30mX", tm(0))

	cell := e.ActiveScreen().lines[0].cells[0]
	if cell.Fg.Space != ColorRGB {
		t.Fatalf("expected RGB color space from a 38;2 SGR sequence, got %v", cell.Fg.Space)
	}
	r, g, b := cell.Fg.RGB()
	if r != 10 || g != 20 || b != 30 {
		t.Fatalf("expected fg (10,20,30), got (%d,%d,%d)", r, g, b)
	}
}

func TestBoundaryAlternateScreenRoundTrip(t *testing.T) {
	e := NewEmulation(WithSize(3, 10))
	e.WriteString("primary content", tm(0))

	e.WriteString("\x1b[?1049h", tm(1))
	e.WriteString("alt content", tm(2))
	e.WriteString("\x1b[?1049l", tm(3))

	cell := e.ActiveScreen().lines[0].cells[0]
	if cell.CodePoint != uint16('p') {
		t.Fatalf("expected primary screen content restored after leaving the alternate screen, got %q", rune(cell.CodePoint))
	}
}

func TestBoundaryCursorPositionReportReflectsOriginMode(t *testing.T) {
	sink := &recordingSink{}
	e := NewEmulation(WithSize(10, 10), WithByteSink(sink))

	e.WriteString("\x1b[3;10r", tm(0))  // scroll region rows 3-10
	e.WriteString("\x1b[?6h", tm(1))    // DECOM: origin mode relative to margins
	e.WriteString("\x1b[1;1H", tm(2))   // home, relative to the new origin
	e.WriteString("\x1b[6n", tm(3))

	if got := sink.last(); got != "\x1b[3;1R" {
		t.Fatalf("expected CPR reported relative to the actual screen in absolute coordinates, got %q", got)
	}
}
