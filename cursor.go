package termcore

// CursorStyle determines how the cursor is rendered.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Cursor tracks the current position and rendering style (0-based
// coordinates, relative to the Screen's own grid — not global history
// coordinates).
type Cursor struct {
	Row     int
	Col     int
	Style   CursorStyle
	Visible bool
}

// NewCursor creates a cursor at (0, 0), visible, blinking block style.
func NewCursor() *Cursor {
	return &Cursor{Style: CursorStyleBlinkingBlock, Visible: true}
}

// SavedCursor stores cursor position, rendition template and charset state
// for ESC 7 / ESC 8 (save/restore cursor) and for the implicit save/restore
// around an alternate-screen switch.
type SavedCursor struct {
	Row          int
	Col          int
	Template     CellTemplate
	OriginMode   bool
	CharsetIndex CharsetIndex
	Charsets     [4]Charset
}

// CellTemplate is the rendition/color state applied to newly written
// characters; SGR sequences mutate it, display_character reads it.
type CellTemplate struct {
	Fg        Color
	Bg        Color
	Rendition Rendition
}

// NewCellTemplate returns a template with default colors and no rendition.
func NewCellTemplate() CellTemplate {
	return CellTemplate{Fg: DefaultColor, Bg: DefaultColor}
}

// Cell materializes the template plus a code point into a storable Cell.
func (t CellTemplate) Cell(codePoint uint16) Cell {
	return Cell{CodePoint: codePoint, Fg: t.Fg, Bg: t.Bg, Rendition: t.Rendition, Real: true}
}

// Charset selects a character-set slot's mapping.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetUKPound
	CharsetLineDrawing
)

// CharsetIndex selects one of the four character-set slots G0-G3.
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)
