package termcore

// screenLine is one row of the live grid plus its line-property bits
// (§3.2). Cells may temporarily exceed the current column count after a
// shrinking Resize — see the Resize doc comment — which is why cells is a
// slice rather than a fixed-size array.
type screenLine struct {
	cells        []Cell
	wrapped      bool
	doubleWidth  bool
	doubleHeight bool
}

func newScreenLine(cols int) *screenLine {
	cells := make([]Cell, cols)
	for i := range cells {
		cells[i] = NewCell()
	}
	return &screenLine{cells: cells}
}

// Screen is the rectangular character grid, cursor, rendition state, scroll
// region, tab stops, charset slots and selection for one primary or
// alternate buffer. Grounded on the teacher's Buffer (grid storage and
// scrollback plumbing) generalized with the cursor/mode/rendition/selection
// state the teacher kept inline on Terminal, plus the resize-preserves-
// overlong-lines and format-run history behavior the distillation calls for.
type Screen struct {
	rows, cols int
	lines      []*screenLine

	history     HistoryStore
	isAlternate bool

	extended *ExtendedCharTable

	cursor      Cursor
	saved       SavedCursor
	hasSaved    bool
	template    CellTemplate
	modes       modes
	topMargin   int
	bottomMargin int // inclusive, per the glossary's [top_margin, bottom_margin]

	charsets     [4]Charset
	glSelector   CharsetIndex
	grSelector   CharsetIndex

	tabStops []bool

	selection selectionState

	// scrolledLines counts lines pushed into history since the last reset
	// by a consumer (ScreenWindow.notify_output_changed decrements its
	// scroll_count by this and then the counter is drained).
	scrolledLines int
}

// NewScreen creates a rows x cols Screen. history may be NoneHistory{} for
// the alternate screen (which never retains scrollback per §3.3).
func NewScreen(rows, cols int, history HistoryStore, extended *ExtendedCharTable, isAlternate bool) *Screen {
	s := &Screen{
		rows:         rows,
		cols:         cols,
		history:      history,
		isAlternate:  isAlternate,
		extended:     extended,
		template:     NewCellTemplate(),
		modes:        newModes(),
		bottomMargin: rows - 1,
		tabStops:     make([]bool, cols),
	}
	s.lines = make([]*screenLine, rows)
	for i := range s.lines {
		s.lines[i] = newScreenLine(cols)
	}
	s.initTabStops()
	s.selection.clear()
	return s
}

// initTabStops sets stops at columns 8, 16, 24, ... — column 0 is
// deliberately not a stop, matching Konsole's initTabStops (the naive
// "every 8 starting at 0" pattern is one column early).
func (s *Screen) initTabStops() {
	for i := range s.tabStops {
		s.tabStops[i] = false
	}
	for i := 8; i < s.cols; i += 8 {
		s.tabStops[i] = true
	}
}

func (s *Screen) Rows() int { return s.rows }
func (s *Screen) Cols() int { return s.cols }

// Cursor returns a copy of the current cursor state.
func (s *Screen) Cursor() Cursor { return s.cursor }

func (s *Screen) CursorRow() int { return s.cursor.Row }
func (s *Screen) CursorCol() int { return s.cursor.Col }

func defaultN(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- Cursor movement (§4.2 "Cursor movement") ---

func (s *Screen) clampColumnNoWrap() {
	if s.cursor.Col > s.cols-1 {
		s.cursor.Col = s.cols - 1
	}
}

func (s *Screen) CursorUp(n int) {
	s.clampColumnNoWrap()
	s.cursor.Row = clampInt(s.cursor.Row-defaultN(n), s.topMargin, s.bottomMargin)
}

func (s *Screen) CursorDown(n int) {
	s.clampColumnNoWrap()
	s.cursor.Row = clampInt(s.cursor.Row+defaultN(n), s.topMargin, s.bottomMargin)
}

func (s *Screen) CursorLeft(n int) {
	s.cursor.Col = clampInt(s.cursor.Col-defaultN(n), 0, s.cols-1)
}

func (s *Screen) CursorRight(n int) {
	s.cursor.Col = clampInt(s.cursor.Col+defaultN(n), 0, s.cols-1)
}

// SetCursorX sets the column from a 1-based wire value.
func (s *Screen) SetCursorX(x int) {
	s.cursor.Col = clampInt(x-1, 0, s.cols-1)
}

// SetCursorY sets the row from a 1-based wire value, offset by topMargin
// when ORIGIN mode is active.
func (s *Screen) SetCursorY(y int) {
	row := y - 1
	if s.modes.get(ModeOrigin) {
		row += s.topMargin
		s.cursor.Row = clampInt(row, s.topMargin, s.bottomMargin)
	} else {
		s.cursor.Row = clampInt(row, 0, s.rows-1)
	}
}

// Index moves the cursor down one line, scrolling the region up if already
// on the bottom margin.
func (s *Screen) Index() {
	if s.cursor.Row == s.bottomMargin {
		s.ScrollUp(s.topMargin, s.bottomMargin+1, 1)
	} else {
		s.cursor.Row = clampInt(s.cursor.Row+1, 0, s.rows-1)
	}
}

// ReverseIndex moves the cursor up one line, scrolling the region down if
// already on the top margin.
func (s *Screen) ReverseIndex() {
	if s.cursor.Row == s.topMargin {
		s.ScrollDown(s.topMargin, s.bottomMargin+1, 1)
	} else {
		s.cursor.Row = clampInt(s.cursor.Row-1, 0, s.rows-1)
	}
}

// CarriageReturn moves the cursor to column 0.
func (s *Screen) CarriageReturn() {
	s.cursor.Col = 0
}

// NextLine is carriage-return followed by Index.
func (s *Screen) NextLine() {
	s.CarriageReturn()
	s.Index()
}

// --- Scrolling (§4.2 "Scrolling") ---

func (s *Screen) blankFill() Cell {
	fg, bg, _ := effectiveColors(s.template)
	return Cell{CodePoint: ' ', Fg: fg, Bg: bg, Rendition: s.template.Rendition &^ RenditionReverse, Real: true}
}

// ScrollUp moves lines [top,bottom) up by n, clearing the n lines vacated
// at the bottom. When top==0 the departing lines are appended to history
// (unless this is the alternate screen, which has no history).
func (s *Screen) ScrollUp(top, bottom, n int) {
	if n <= 0 || top >= bottom {
		return
	}
	top = clampInt(top, 0, s.rows)
	if bottom > s.rows {
		bottom = s.rows
	}
	if n > bottom-top {
		n = bottom - top
	}
	if n <= 0 {
		return
	}

	if top == 0 && !s.isAlternate {
		before := s.history.Dropped()
		for i := 0; i < n; i++ {
			s.history.AppendLine(s.lines[i].cells, s.lines[i].wrapped)
			s.scrolledLines++
		}
		s.adjustSelectionForHistoryDrop(s.history.Dropped() - before)
	}

	fill := s.blankFill()
	copy(s.lines[top:], s.lines[top+n:bottom])
	for row := bottom - n; row < bottom; row++ {
		line := newScreenLine(s.cols)
		for c := range line.cells {
			line.cells[c] = fill
		}
		s.lines[row] = line
	}
}

// ScrollDown moves lines [top,bottom) down by n, clearing the n lines
// vacated at the top.
func (s *Screen) ScrollDown(top, bottom, n int) {
	if n <= 0 || top >= bottom {
		return
	}
	top = clampInt(top, 0, s.rows)
	if bottom > s.rows {
		bottom = s.rows
	}
	if n > bottom-top {
		n = bottom - top
	}
	if n <= 0 {
		return
	}

	fill := s.blankFill()
	copy(s.lines[top+n:bottom], s.lines[top:bottom-n])
	for row := top; row < top+n; row++ {
		line := newScreenLine(s.cols)
		for c := range line.cells {
			line.cells[c] = fill
		}
		s.lines[row] = line
	}
}

// --- Editing (§4.2 "Editing") ---

func (s *Screen) EraseChars(n int) {
	n = defaultN(n)
	line := s.lines[s.cursor.Row]
	fill := s.blankFill()
	for c := s.cursor.Col; c < s.cursor.Col+n && c < len(line.cells); c++ {
		line.cells[c] = fill
	}
}

func (s *Screen) DeleteChars(n int) {
	n = defaultN(n)
	line := s.lines[s.cursor.Row]
	fill := s.blankFill()
	copy(line.cells[s.cursor.Col:], line.cells[s.cursor.Col+n:])
	for c := len(line.cells) - n; c < len(line.cells); c++ {
		if c >= s.cursor.Col {
			line.cells[c] = fill
		}
	}
}

func (s *Screen) InsertChars(n int) {
	n = defaultN(n)
	line := s.lines[s.cursor.Row]
	fill := s.blankFill()
	for c := len(line.cells) - 1; c >= s.cursor.Col+n; c-- {
		line.cells[c] = line.cells[c-n]
	}
	for c := s.cursor.Col; c < s.cursor.Col+n && c < len(line.cells); c++ {
		line.cells[c] = fill
	}
	if len(line.cells) > s.cols {
		line.cells = line.cells[:s.cols]
	}
}

func (s *Screen) InsertLines(n int) {
	s.ScrollDown(s.cursor.Row, s.bottomMargin+1, defaultN(n))
}

func (s *Screen) DeleteLines(n int) {
	s.ScrollUp(s.cursor.Row, s.bottomMargin+1, defaultN(n))
}

// --- Modes (§4.2 "Modes") ---

func (s *Screen) SetMode(m ScreenMode) {
	s.modes.set(m, true)
	if m == ModeOrigin {
		s.cursor.Row, s.cursor.Col = s.topMargin, 0
	}
}

func (s *Screen) ResetMode(m ScreenMode) {
	s.modes.set(m, false)
	if m == ModeOrigin {
		s.cursor.Row, s.cursor.Col = 0, 0
	}
}

func (s *Screen) ModeSet(m ScreenMode) bool { return s.modes.get(m) }

func (s *Screen) SaveMode(m ScreenMode)    { s.modes.saveMode(m) }
func (s *Screen) RestoreMode(m ScreenMode) { s.modes.restoreMode(m) }

// --- Rendition (§4.2 "Rendition") ---

func (s *Screen) SetRendition(bits Rendition)   { s.template.Rendition |= bits }
func (s *Screen) ResetRendition(bits Rendition) { s.template.Rendition &^= bits }

func (s *Screen) SetForeColor(c Color) { s.template.Fg = c }
func (s *Screen) SetBackColor(c Color) { s.template.Bg = c }

func (s *Screen) SetDefaultRendition() {
	s.template.Fg = DefaultColor
	s.template.Bg = DefaultColor
	s.template.Rendition = 0
}

func (s *Screen) Template() CellTemplate { return s.template }

// --- Margins ---

// SetMargins sets the scroll region from 1-based, inclusive wire values.
// Invalid ranges (top >= bottom) are ignored, leaving margins unchanged.
func (s *Screen) SetMargins(top, bottom int) {
	t, b := top-1, bottom-1
	if t < 0 {
		t = 0
	}
	if b >= s.rows {
		b = s.rows - 1
	}
	if t >= b {
		return
	}
	s.topMargin, s.bottomMargin = t, b
	s.cursor.Row, s.cursor.Col = s.topMargin, 0
}

func (s *Screen) ResetMargins() {
	s.topMargin, s.bottomMargin = 0, s.rows-1
}

// --- Clearing (§4.2 "Clearing") ---

func (s *Screen) clearCellRange(row, startCol, endCol int) {
	line := s.lines[row]
	fg, bg, _ := effectiveColors(s.template)
	for c := startCol; c < endCol && c < len(line.cells); c++ {
		line.cells[c] = Cell{CodePoint: ' ', Fg: fg, Bg: bg, Real: true}
	}
}

func (s *Screen) ClearToEndOfLine() {
	s.clearCellRange(s.cursor.Row, s.cursor.Col, s.cols)
}

func (s *Screen) ClearToBeginOfLine() {
	s.clearCellRange(s.cursor.Row, 0, s.cursor.Col+1)
}

func (s *Screen) ClearEntireLine() {
	s.clearCellRange(s.cursor.Row, 0, s.cols)
}

func (s *Screen) ClearToEndOfScreen() {
	s.ClearToEndOfLine()
	for row := s.cursor.Row + 1; row < s.rows; row++ {
		s.clearCellRange(row, 0, s.cols)
	}
}

func (s *Screen) ClearToBeginOfScreen() {
	s.ClearToBeginOfLine()
	for row := 0; row < s.cursor.Row; row++ {
		s.clearCellRange(row, 0, s.cols)
	}
}

// ClearEntireScreen scrolls the whole screen into history first (primary
// screen only — the alternate screen has no history, so there the call is
// a plain wipe), then clears every cell.
func (s *Screen) ClearEntireScreen() {
	if !s.isAlternate {
		before := s.history.Dropped()
		for i := 0; i < s.rows; i++ {
			s.history.AppendLine(s.lines[i].cells, s.lines[i].wrapped)
			s.scrolledLines++
		}
		s.adjustSelectionForHistoryDrop(s.history.Dropped() - before)
	}
	for row := 0; row < s.rows; row++ {
		s.clearCellRange(row, 0, s.cols)
		s.lines[row].wrapped = false
	}
}

// --- Character display (§4.2 "Character display") ---

// DisplayCharacter writes r at the cursor following the five-step contract:
// width computation and combining attachment, wrap-or-clamp, insert-mode
// shift, cell write (with a placeholder for the second column of a wide
// character), and cursor advance.
func (s *Screen) DisplayCharacter(r rune) {
	w := runeWidth(r)

	if w == 0 {
		s.attachCombining(r)
		return
	}

	if s.cursor.Col+w > s.cols {
		if s.modes.get(ModeWrap) {
			s.lines[s.cursor.Row].wrapped = true
			s.NextLine()
		} else {
			s.cursor.Col = s.cols - w
		}
	}

	if s.modes.get(ModeInsert) {
		s.InsertChars(w)
	}

	fg, bg, intensive := effectiveColors(s.template)
	_ = intensive
	cell := Cell{CodePoint: codePointOf(r), Fg: fg, Bg: bg, Rendition: s.template.Rendition, Real: true}
	if r > 0xFFFF {
		hash := s.extended.CreateExtendedChar([]rune{r})
		cell.CodePoint = hash
		cell.Rendition |= RenditionExtended
	}
	if w == 2 {
		cell.Rendition |= RenditionWideChar
	}

	line := s.lines[s.cursor.Row]
	if s.cursor.Col < len(line.cells) {
		line.cells[s.cursor.Col] = cell
	}
	if w == 2 && s.cursor.Col+1 < len(line.cells) {
		line.cells[s.cursor.Col+1] = WideSpacer(fg, bg, s.template.Rendition)
	}

	s.cursor.Col += w
}

func codePointOf(r rune) uint16 {
	if r > 0xFFFF || r < 0 {
		return 0
	}
	return uint16(r)
}

// attachCombining implements the combining-character rule: attach to the
// preceding cell, which may be on the previous row if the cursor is at
// column 0 and the previous line is full (WRAPPED). Per the open question
// in §9, the preceding cell is treated as opaque: its own width is not
// re-examined.
func (s *Screen) attachCombining(r rune) {
	row, col := s.cursor.Row, s.cursor.Col-1
	if col < 0 {
		if row == 0 || !s.lines[row-1].wrapped {
			return
		}
		row--
		col = s.cols - 1
	}
	if row < 0 || row >= s.rows || col < 0 {
		return
	}
	line := s.lines[row]
	if col >= len(line.cells) {
		return
	}
	cell := &line.cells[col]

	var seq []rune
	if cell.Rendition&RenditionExtended != 0 {
		seq = append(append([]rune(nil), s.extended.LookupExtendedChar(cell.CodePoint)...), r)
	} else {
		seq = []rune{rune(cell.CodePoint), r}
	}
	hash := s.extended.CreateExtendedChar(seq)
	cell.CodePoint = hash
	cell.Rendition |= RenditionExtended
}

// --- Resizing (§4.2 "Resizing") ---

// Resize changes the grid to newRows x newCols, preserving upper-left
// content. Lines longer than newCols are NOT truncated — they are kept at
// their existing length so that shrinking and then growing back does not
// lose data (§8.1 "Resize preservation"). If the cursor would fall below
// the new bottom row, lines are pushed into history off the top until it
// fits. Scroll margins reset to the full screen; tab stops reinitialize.
func (s *Screen) Resize(newRows, newCols int) {
	if newRows <= 0 || newCols <= 0 {
		return
	}

	if newRows < s.rows && !s.isAlternate {
		overflow := 0
		if s.cursor.Row >= newRows {
			overflow = s.cursor.Row - newRows + 1
		}
		before := s.history.Dropped()
		for i := 0; i < overflow && i < len(s.lines); i++ {
			s.history.AppendLine(s.lines[i].cells, s.lines[i].wrapped)
			s.scrolledLines++
		}
		s.adjustSelectionForHistoryDrop(s.history.Dropped() - before)
		s.lines = s.lines[overflow:]
		s.cursor.Row -= overflow
		if s.cursor.Row < 0 {
			s.cursor.Row = 0
		}
	}

	newLines := make([]*screenLine, newRows)
	for i := range newLines {
		if i < len(s.lines) {
			newLines[i] = s.lines[i]
			// Only grow short lines to the new width; longer lines are left
			// as-is per the preservation rule above.
			if len(newLines[i].cells) < newCols {
				grown := make([]Cell, newCols)
				copy(grown, newLines[i].cells)
				for j := len(newLines[i].cells); j < newCols; j++ {
					grown[j] = NewCell()
				}
				newLines[i].cells = grown
			}
		} else {
			newLines[i] = newScreenLine(newCols)
		}
	}
	s.lines = newLines
	s.rows, s.cols = newRows, newCols

	s.cursor.Row = clampInt(s.cursor.Row, 0, s.rows-1)
	s.cursor.Col = clampInt(s.cursor.Col, 0, s.cols-1)

	s.ResetMargins()
	s.tabStops = make([]bool, newCols)
	s.initTabStops()
}

// --- Tab stops ---

func (s *Screen) SetTabStop(col int) {
	if col >= 0 && col < len(s.tabStops) {
		s.tabStops[col] = true
	}
}

func (s *Screen) ClearTabStop(col int) {
	if col >= 0 && col < len(s.tabStops) {
		s.tabStops[col] = false
	}
}

func (s *Screen) ClearAllTabStops() {
	for i := range s.tabStops {
		s.tabStops[i] = false
	}
}

func (s *Screen) NextTabStop(col int) int {
	for c := col + 1; c < len(s.tabStops); c++ {
		if s.tabStops[c] {
			return c
		}
	}
	return s.cols - 1
}

func (s *Screen) PrevTabStop(col int) int {
	for c := col - 1; c >= 0; c-- {
		if s.tabStops[c] {
			return c
		}
	}
	return 0
}

// --- Save/restore cursor ---

func (s *Screen) SaveCursor() {
	s.saved = SavedCursor{
		Row:          s.cursor.Row,
		Col:          s.cursor.Col,
		Template:     s.template,
		OriginMode:   s.modes.get(ModeOrigin),
		CharsetIndex: s.glSelector,
		Charsets:     s.charsets,
	}
	s.hasSaved = true
}

func (s *Screen) RestoreCursor() {
	if !s.hasSaved {
		return
	}
	s.cursor.Row = clampInt(s.saved.Row, 0, s.rows-1)
	s.cursor.Col = clampInt(s.saved.Col, 0, s.cols-1)
	s.template = s.saved.Template
	s.modes.set(ModeOrigin, s.saved.OriginMode)
	s.glSelector = s.saved.CharsetIndex
	s.charsets = s.saved.Charsets
}

// --- Charset slots ---

func (s *Screen) DesignateCharset(idx CharsetIndex, cs Charset) {
	s.charsets[idx] = cs
}

func (s *Screen) InvokeGL(idx CharsetIndex) { s.glSelector = idx }
func (s *Screen) InvokeGR(idx CharsetIndex) { s.grSelector = idx }

func (s *Screen) TranslateForDisplay(r rune) rune {
	return translateCharset(s.charsets[s.glSelector], r)
}

// --- Global coordinate access, used by ScreenWindow and selection ---

// HistoryLen returns the number of lines currently in this Screen's
// history store.
func (s *Screen) HistoryLen() int {
	if s.history == nil {
		return 0
	}
	return s.history.LineCount()
}

// GlobalLineCount is the total addressable line count: history followed
// by the live grid, per the §3.5 coordinate system.
func (s *Screen) GlobalLineCount() int {
	return s.HistoryLen() + s.rows
}

// GlobalLine returns a copy of the cells and the WRAPPED flag of global
// line i (0 = oldest history line). Out-of-range i returns (nil, false).
func (s *Screen) GlobalLine(i int) ([]Cell, bool) {
	histLen := s.HistoryLen()
	if i < 0 || i >= s.GlobalLineCount() {
		return nil, false
	}
	if i < histLen {
		length := s.history.LineLength(i)
		cells := make([]Cell, length)
		if length > 0 {
			s.history.ReadCells(i, 0, length, cells)
		}
		return cells, s.history.IsWrapped(i)
	}
	line := s.lines[i-histLen]
	cells := make([]Cell, len(line.cells))
	copy(cells, line.cells)
	return cells, line.wrapped
}

// DrainScrolledLines returns the number of lines pushed into history since
// the last call and resets the counter to zero (consumed by
// ScreenWindow.notify_output_changed).
func (s *Screen) DrainScrolledLines() int {
	n := s.scrolledLines
	s.scrolledLines = 0
	return n
}

// Reset reinitializes modes, margins, tab stops, rendition template and
// cursor, and clears the grid — used by Emulation.Reset (ESC c).
func (s *Screen) Reset() {
	s.modes = newModes()
	s.template = NewCellTemplate()
	s.ResetMargins()
	s.initTabStops()
	s.cursor = Cursor{Style: CursorStyleBlinkingBlock, Visible: true}
	s.hasSaved = false
	s.charsets = [4]Charset{}
	s.glSelector, s.grSelector = CharsetIndexG0, CharsetIndexG0
	s.selection.clear()
	for row := range s.lines {
		s.lines[row] = newScreenLine(s.cols)
	}
}
