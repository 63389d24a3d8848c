package termcore

// selectionState is the Screen's current selection, in global coordinates
// (§3.5). A cleared selection uses the -1 sentinel on both endpoints.
type selectionState struct {
	active   bool
	block    bool // true = columnar selection, false = regular stream
	startCol int
	startRow int
	// curCol/curRow track the most recent SetSelectionEnd call.
	curCol    int
	curRow    int
	topCol    int
	topRow    int
	bottomCol int
	bottomRow int
}

func (sel *selectionState) clear() {
	*sel = selectionState{startRow: -1, startCol: -1, topRow: -1, topCol: -1, bottomRow: -1, bottomCol: -1}
}

func (sel *selectionState) normalize() {
	// top_left <= bottom_right in (row, col) reading order.
	if sel.startRow < 0 {
		return
	}
	a := position{sel.startRow, sel.startCol}
	b := position{sel.curRow, sel.curCol}
	if a.before(b) || a == b {
		sel.topRow, sel.topCol = a.row, a.col
		sel.bottomRow, sel.bottomCol = b.row, b.col
	} else {
		sel.topRow, sel.topCol = b.row, b.col
		sel.bottomRow, sel.bottomCol = a.row, a.col
	}
}

type position struct{ row, col int }

func (p position) before(o position) bool {
	if p.row != o.row {
		return p.row < o.row
	}
	return p.col < o.col
}

// SetSelectionStart begins a selection at global coordinates (x, y).
// blockMode selects columnar (rectangular) semantics; otherwise the
// selection is a contiguous stream range.
func (s *Screen) SetSelectionStart(x, y int, blockMode bool) {
	s.selection = selectionState{
		active:   true,
		block:    blockMode,
		startCol: x, startRow: y,
		curCol: x, curRow: y,
	}
	s.selection.normalize()
}

// SetSelectionEnd extends the active selection to (x, y).
func (s *Screen) SetSelectionEnd(x, y int) {
	if !s.selection.active {
		return
	}
	s.selection.curCol, s.selection.curRow = x, y
	s.selection.normalize()
}

func (s *Screen) ClearSelection() {
	s.selection.clear()
}

func (s *Screen) HasSelection() bool { return s.selection.active }

// IsSelected reports whether global coordinate (x, y) falls within the
// current selection.
func (s *Screen) IsSelected(x, y int) bool {
	sel := &s.selection
	if !sel.active || sel.topRow < 0 {
		return false
	}
	if y < sel.topRow || y > sel.bottomRow {
		return false
	}
	if sel.block {
		lo, hi := sel.topCol, sel.bottomCol
		if lo > hi {
			lo, hi = hi, lo
		}
		return x >= lo && x <= hi
	}
	if y == sel.topRow && x < sel.topCol {
		return false
	}
	if y == sel.bottomRow && x > sel.bottomCol {
		return false
	}
	return true
}

// adjustSelectionForHistoryDrop shifts the selection up by delta global
// rows when the oldest delta history lines are dropped out from under it
// (Bounded history overflow). A selection that shifts entirely above row 0
// is cleared, matching "if a scroll invalidates both endpoints, selection
// clears".
func (s *Screen) adjustSelectionForHistoryDrop(delta int) {
	if delta <= 0 || !s.selection.active {
		return
	}
	sel := &s.selection
	sel.startRow -= delta
	sel.curRow -= delta
	sel.topRow -= delta
	sel.bottomRow -= delta
	if sel.bottomRow < 0 {
		sel.clear()
		return
	}
	if sel.topRow < 0 {
		sel.topRow, sel.topCol = 0, 0
	}
	if sel.startRow < 0 {
		sel.startRow = 0
	}
	if sel.curRow < 0 {
		sel.curRow = 0
	}
}

// SelectedText extracts the text of the current selection. Lines marked
// WRAPPED join directly into the next; otherwise lines join with '\n' if
// preserveLineBreaks is set, or a single space if not. Column-mode
// (block) selection always forces line breaks. Trailing spaces on
// non-wrapped lines are dropped when trimTrailingSpace is set.
func (s *Screen) SelectedText(preserveLineBreaks, trimTrailingSpace bool) string {
	sel := &s.selection
	if !sel.active || sel.topRow < 0 {
		return ""
	}

	var out []rune
	for row := sel.topRow; row <= sel.bottomRow; row++ {
		cells, wrapped := s.GlobalLine(row)

		startCol, endCol := 0, len(cells)
		if sel.block {
			startCol, endCol = sel.topCol, sel.bottomCol+1
		} else {
			if row == sel.topRow {
				startCol = sel.topCol
			}
			if row == sel.bottomRow {
				endCol = sel.bottomCol + 1
			}
		}
		startCol = clampInt(startCol, 0, len(cells))
		endCol = clampInt(endCol, startCol, len(cells))

		lineRunes := cellsToRunes(s, cells[startCol:endCol], trimTrailingSpace && !wrapped)
		out = append(out, lineRunes...)

		if row == sel.bottomRow {
			break
		}
		if wrapped && !sel.block {
			continue // logical line continues, no break inserted
		}
		if preserveLineBreaks || sel.block {
			out = append(out, '\n')
		} else {
			out = append(out, ' ')
		}
	}
	return string(out)
}

func cellsToRunes(s *Screen, cells []Cell, trim bool) []rune {
	runes := make([]rune, 0, len(cells))
	for _, c := range cells {
		if c.IsWideSpacer() {
			continue
		}
		if c.Rendition&RenditionExtended != 0 {
			runes = append(runes, s.extended.LookupExtendedChar(c.CodePoint)...)
			continue
		}
		r := rune(c.CodePoint)
		if r == 0 {
			r = ' '
		}
		runes = append(runes, r)
	}
	if trim {
		for len(runes) > 0 && runes[len(runes)-1] == ' ' {
			runes = runes[:len(runes)-1]
		}
	}
	return runes
}
