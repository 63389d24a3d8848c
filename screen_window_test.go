package termcore

import "testing"

func fillScreenRows(s *Screen, from, to int, ch rune) {
	for row := from; row < to; row++ {
		for col := 0; col < s.Cols(); col++ {
			s.cursor.Row, s.cursor.Col = row, col
			s.DisplayCharacter(ch + rune(row))
		}
	}
	s.cursor.Row, s.cursor.Col = 0, 0
}

func TestScreenWindowTracksBottomByDefault(t *testing.T) {
	hist := NewBoundedHistory(1000)
	ext := NewExtendedCharTable()
	s := NewScreen(5, 10, hist, ext, false)
	w := NewScreenWindow(s, 5)

	if !w.TrackOutput() {
		t.Fatal("expected new window to track output")
	}
	if w.CurrentLine() != 0 {
		t.Fatalf("expected current line 0 with content fitting on screen, got %d", w.CurrentLine())
	}

	for i := 0; i < 20; i++ {
		s.Index()
	}
	w.NotifyOutputChanged()

	if !w.TrackOutput() {
		t.Fatal("expected tracking window to stay pinned")
	}
	if got, want := w.CurrentLine(), s.GlobalLineCount()-5; got != want {
		t.Fatalf("expected current line %d at bottom, got %d", want, got)
	}
}

func TestScreenWindowScrollToClampsAndCountsDelta(t *testing.T) {
	hist := NewBoundedHistory(1000)
	ext := NewExtendedCharTable()
	s := NewScreen(5, 10, hist, ext, false)
	for i := 0; i < 30; i++ {
		s.Index()
	}
	w := NewScreenWindow(s, 5)
	w.NotifyOutputChanged()
	w.DrainScrollCount()

	w.ScrollTo(-100)
	if w.CurrentLine() != 0 {
		t.Fatalf("expected clamp to 0, got %d", w.CurrentLine())
	}
	if w.TrackOutput() {
		t.Fatal("expected scrolling away from bottom to clear track-output")
	}

	max := s.GlobalLineCount() - 5
	w.ScrollTo(max + 1000)
	if w.CurrentLine() != max {
		t.Fatalf("expected clamp to max %d, got %d", max, w.CurrentLine())
	}
	if !w.TrackOutput() {
		t.Fatal("expected scrolling back to bottom to re-engage track-output")
	}
}

func TestScreenWindowScrollByPagesUsesHalfWindow(t *testing.T) {
	hist := NewBoundedHistory(1000)
	ext := NewExtendedCharTable()
	s := NewScreen(5, 10, hist, ext, false)
	for i := 0; i < 40; i++ {
		s.Index()
	}
	w := NewScreenWindow(s, 10)
	w.NotifyOutputChanged()
	w.SetTrackOutput(false)
	w.ScrollTo(20)

	w.ScrollBy(ScrollPages, -1)
	if w.CurrentLine() != 15 {
		t.Fatalf("expected page-up of 5 lines (window/2), got current line %d", w.CurrentLine())
	}
}

func TestScreenWindowGetImageConcatenatesHistoryAndScreen(t *testing.T) {
	hist := NewBoundedHistory(1000)
	ext := NewExtendedCharTable()
	s := NewScreen(3, 4, hist, ext, false)

	fillScreenRows(s, 0, 3, 'a')
	s.cursor.Row = s.bottomMargin
	s.Index() // pushes row 0 ('a'*4) into history, screen now starts at old row 1

	w := NewScreenWindow(s, 3)
	w.NotifyOutputChanged()
	w.ScrollTo(0)
	img := w.GetImage()

	if len(img) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(img))
	}
	if img[0][0].CodePoint != uint16('a') {
		t.Fatalf("expected oldest visible row to be history row 'a', got %q", rune(img[0][0].CodePoint))
	}
}

func TestScreenWindowGetImageMarksCursorAndSelection(t *testing.T) {
	hist := NewBoundedHistory(1000)
	ext := NewExtendedCharTable()
	s := NewScreen(3, 4, hist, ext, false)
	s.cursor.Row, s.cursor.Col = 1, 2

	s.template.Fg = PaletteColor(1)
	s.DisplayCharacter('x')
	s.cursor.Row, s.cursor.Col = 1, 2

	s.SetSelectionStart(0, 1, false)
	s.SetSelectionEnd(3, 1)

	w := NewScreenWindow(s, 3)
	img := w.GetImage()

	if img[1][2].Rendition&RenditionCursor == 0 {
		t.Fatal("expected cursor rendition bit set at cursor position")
	}
	if img[1][2].Fg != DefaultColor || img[1][2].Bg != PaletteColor(1) {
		t.Fatalf("expected selected cell's fg/bg swapped, got fg=%+v bg=%+v", img[1][2].Fg, img[1][2].Bg)
	}
}

func TestScreenWindowGetLinePropertiesReflectsWrap(t *testing.T) {
	hist := NewBoundedHistory(1000)
	ext := NewExtendedCharTable()
	s := NewScreen(2, 3, hist, ext, false)
	for i := 0; i < 4; i++ {
		s.DisplayCharacter('x') // the 4th char overflows col 3, forcing a wrap
	}

	w := NewScreenWindow(s, 2)
	props := w.GetLineProperties()
	if props[0]&LineWrapped == 0 {
		t.Fatal("expected first row marked wrapped once a character overflows it")
	}
}

func TestScreenWindowNotifySelectionChangedForwardsToListener(t *testing.T) {
	hist := NewBoundedHistory(1000)
	ext := NewExtendedCharTable()
	s := NewScreen(3, 4, hist, ext, false)
	w := NewScreenWindow(s, 3)

	calls := 0
	w.SetListener(funcListener{selChanged: func() { calls++ }})
	w.NotifySelectionChanged()
	if calls != 1 {
		t.Fatalf("expected listener invoked once, got %d", calls)
	}
}

type funcListener struct {
	outChanged func()
	selChanged func()
}

func (f funcListener) OutputChanged() {
	if f.outChanged != nil {
		f.outChanged()
	}
}

func (f funcListener) SelectionChanged() {
	if f.selChanged != nil {
		f.selChanged()
	}
}
