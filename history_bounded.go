package termcore

// formatRun is one run of uniform formatting within a stored history line,
// grounded in Konsole's CompactHistoryLine/CharacterFormat: terminal output
// is usually long runs of uniform color and rendition, so storing
// (start_col, fg, bg, rendition, real) once per run instead of once per cell
// cuts storage by an order of magnitude on typical output.
type formatRun struct {
	startCol  int
	fg, bg    Color
	rendition Rendition
	real      bool
}

func (r formatRun) matches(c Cell) bool {
	return r.fg == c.Fg && r.bg == c.Bg && r.rendition == c.Rendition && r.real == c.Real
}

// boundedLine is one line stored in a BoundedHistory: code points kept
// densely (they rarely repeat in useful runs), formatting run-length
// encoded.
type boundedLine struct {
	codepoints []uint16
	runs       []formatRun
	wrapped    bool
}

func newBoundedLine(cells []Cell, wrapped bool) *boundedLine {
	l := &boundedLine{
		codepoints: make([]uint16, len(cells)),
		wrapped:    wrapped,
	}
	for i, c := range cells {
		l.codepoints[i] = c.CodePoint
		if i == 0 || !l.runs[len(l.runs)-1].matches(c) {
			l.runs = append(l.runs, formatRun{
				startCol:  i,
				fg:        c.Fg,
				bg:        c.Bg,
				rendition: c.Rendition,
				real:      c.Real,
			})
		}
	}
	return l
}

func (l *boundedLine) length() int {
	return len(l.codepoints)
}

// formatAt returns the run covering column col.
func (l *boundedLine) formatAt(col int) formatRun {
	// Runs are stored in increasing startCol order; typical line lengths
	// are small (tens to low hundreds of columns) so linear scan beats the
	// bookkeeping of a binary search.
	best := l.runs[0]
	for _, r := range l.runs {
		if r.startCol > col {
			break
		}
		best = r
	}
	return best
}

func (l *boundedLine) cellAt(col int) Cell {
	run := l.formatAt(col)
	return Cell{
		CodePoint: l.codepoints[col],
		Fg:        run.fg,
		Bg:        run.bg,
		Rendition: run.rendition,
		Real:      run.real,
	}
}

// BoundedHistory is a fixed-capacity ring of lines: the oldest line is
// dropped once the store is full and a new line arrives. Grounded in
// Konsole's CompactHistoryBlock, with Go's garbage collector standing in
// for the page-block arena and live-allocation refcounting: a slice-backed
// ring gives the same O(1) append/evict behavior without manual block
// bookkeeping.
type BoundedHistory struct {
	lines   []*boundedLine
	max     int
	dropped int
}

// NewBoundedHistory returns a ring bounded to at most max lines.
func NewBoundedHistory(max int) *BoundedHistory {
	if max < 0 {
		max = 0
	}
	return &BoundedHistory{max: max}
}

func (h *BoundedHistory) AppendLine(cells []Cell, wrapped bool) {
	if h.max <= 0 {
		h.dropped++
		return
	}
	h.lines = append(h.lines, newBoundedLine(cells, wrapped))
	if len(h.lines) > h.max {
		drop := len(h.lines) - h.max
		h.lines = h.lines[drop:]
		h.dropped += drop
	}
}

func (h *BoundedHistory) LineCount() int { return len(h.lines) }

func (h *BoundedHistory) LineLength(i int) int {
	if i < 0 || i >= len(h.lines) {
		return 0
	}
	return h.lines[i].length()
}

func (h *BoundedHistory) ReadCells(i, col, count int, out []Cell) int {
	if i < 0 || i >= len(h.lines) {
		return 0
	}
	line := h.lines[i]
	n := 0
	for n < count && col+n < line.length() && n < len(out) {
		out[n] = line.cellAt(col + n)
		n++
	}
	return n
}

func (h *BoundedHistory) IsWrapped(i int) bool {
	if i < 0 || i >= len(h.lines) {
		return false
	}
	return h.lines[i].wrapped
}

func (h *BoundedHistory) Clear() {
	h.lines = nil
}

func (h *BoundedHistory) MaxLines() int { return h.max }

func (h *BoundedHistory) SetMaxLines(n int) {
	if n < 0 {
		n = 0
	}
	h.max = n
	if len(h.lines) > h.max {
		drop := len(h.lines) - h.max
		h.lines = h.lines[drop:]
		h.dropped += drop
	}
}

func (h *BoundedHistory) Dropped() int { return h.dropped }
