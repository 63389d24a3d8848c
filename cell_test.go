package termcore

import "testing"

func TestNewCell(t *testing.T) {
	cell := NewCell()

	if cell.CodePoint != ' ' {
		t.Errorf("expected space, got %q", cell.CodePoint)
	}
	if cell.Fg != DefaultColor {
		t.Error("expected default foreground")
	}
	if cell.Bg != DefaultColor {
		t.Error("expected default background")
	}
	if cell.Rendition != 0 {
		t.Error("expected no rendition bits")
	}
	if !cell.Real {
		t.Error("expected a fresh cell to be real")
	}
}

func TestCellReset(t *testing.T) {
	cell := NewCell()
	cell.CodePoint = 'A'
	cell.SetRendition(RenditionBold)

	cell.Reset()

	if cell.CodePoint != ' ' {
		t.Errorf("expected space after reset, got %q", cell.CodePoint)
	}
	if cell.HasRendition(RenditionBold) {
		t.Error("expected no rendition bits after reset")
	}
}

func TestCellRendition(t *testing.T) {
	cell := NewCell()

	cell.SetRendition(RenditionBold)
	if !cell.HasRendition(RenditionBold) {
		t.Error("expected bold")
	}

	cell.SetRendition(RenditionItalic)
	if !cell.HasRendition(RenditionBold) || !cell.HasRendition(RenditionItalic) {
		t.Error("expected both bits set")
	}

	cell.ClearRendition(RenditionBold)
	if cell.HasRendition(RenditionBold) {
		t.Error("expected bold cleared")
	}
	if !cell.HasRendition(RenditionItalic) {
		t.Error("expected italic to remain")
	}
}

func TestCellWide(t *testing.T) {
	cell := NewCell()
	cell.SetRendition(RenditionWideChar)
	if !cell.IsWide() {
		t.Error("expected cell to be wide")
	}

	spacer := WideSpacer(DefaultColor, DefaultColor, 0)
	if !spacer.IsWideSpacer() {
		t.Error("expected spacer cell to report IsWideSpacer")
	}
	if spacer.IsWide() {
		t.Error("a spacer is never itself wide")
	}
}

func TestCellEqual(t *testing.T) {
	a := NewCell()
	a.CodePoint = 'X'
	a.Fg = PaletteColor(1)

	b := a
	b.SetRendition(RenditionCursor)

	if !a.Equal(b) {
		t.Error("CURSOR rendition must not affect equality")
	}

	c := a
	c.CodePoint = 'Y'
	if a.Equal(c) {
		t.Error("differing code points must not be equal")
	}
}

func TestPaletteColorOutOfRange(t *testing.T) {
	if got := PaletteColor(-1); got != DefaultColor {
		t.Errorf("expected DefaultColor for negative index, got %+v", got)
	}
	if got := PaletteColor(256); got != DefaultColor {
		t.Errorf("expected DefaultColor for out-of-range index, got %+v", got)
	}
}

func TestRGBColorRoundTrip(t *testing.T) {
	c := RGBColor(10, 20, 30)
	r, g, b := c.RGB()
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("expected (10,20,30), got (%d,%d,%d)", r, g, b)
	}
}
