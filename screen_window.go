package termcore

// LineProperty bits describe a rendered line's wrap/width state, returned
// alongside GetImage so a display layer can join wrapped lines or double
// their cell width without re-deriving it from cell content (§4.4).
type LineProperty uint8

const (
	LineWrapped LineProperty = 1 << iota
	LineDoubleWidth
	LineDoubleHeight
)

// ScrollMode selects the unit ScrollBy moves in.
type ScrollMode int

const (
	ScrollLines ScrollMode = iota
	ScrollPages
)

// OutputListener receives a ScreenWindow's output_changed and
// selection_changed notifications — the plain interface this distillation
// uses in place of Konsole's Qt signals/slots (§REDESIGN "dynamic dispatch
// via signals/slots"). Registration is a direct reference, not a registry,
// since one window has at most one subscriber in this core.
type OutputListener interface {
	OutputChanged()
	SelectionChanged()
}

// NoopOutputListener ignores both notifications.
type NoopOutputListener struct{}

func (NoopOutputListener) OutputChanged()    {}
func (NoopOutputListener) SelectionChanged() {}

// ScreenWindow is a non-owning viewport onto one Screen (§4.4): a scroll
// position (currentLine, in global coordinates) plus a track-output flag
// and a scroll-count accumulator consumers drain to decide between a cheap
// blit and a full repaint. Multiple windows may observe the same Screen;
// Screen itself carries no back-reference to any of them.
type ScreenWindow struct {
	screen      *Screen
	windowLines int
	currentLine int
	trackOutput bool
	scrollCount int
	listener    OutputListener
}

// NewScreenWindow creates a window of windowLines rows onto screen. New
// windows start pinned to the bottom of content, matching Konsole's
// ScreenWindow default.
func NewScreenWindow(screen *Screen, windowLines int) *ScreenWindow {
	w := &ScreenWindow{
		screen:      screen,
		windowLines: windowLines,
		trackOutput: true,
		listener:    NoopOutputListener{},
	}
	w.currentLine = w.maxCurrentLine()
	return w
}

// SetListener replaces the output/selection-change subscriber. A nil
// listener reverts to a no-op.
func (w *ScreenWindow) SetListener(l OutputListener) {
	if l == nil {
		l = NoopOutputListener{}
	}
	w.listener = l
}

// SetWindowLines resizes the viewport height, re-clamping currentLine.
func (w *ScreenWindow) SetWindowLines(n int) {
	if n <= 0 {
		return
	}
	w.windowLines = n
	w.currentLine = clampInt(w.currentLine, 0, w.maxCurrentLine())
}

func (w *ScreenWindow) maxCurrentLine() int {
	if m := w.screen.GlobalLineCount() - w.windowLines; m > 0 {
		return m
	}
	return 0
}

// ScrollTo clamps line into [0, total_lines-window_lines] and updates
// scroll_count by the delta, per §4.4. Landing on the bottom row
// re-engages track-output, matching a manual scroll-to-end.
func (w *ScreenWindow) ScrollTo(line int) {
	target := clampInt(line, 0, w.maxCurrentLine())
	w.scrollCount += target - w.currentLine
	w.currentLine = target
	w.trackOutput = w.currentLine >= w.maxCurrentLine()
}

// ScrollBy moves the window by amount lines, or by amount half-pages when
// mode is ScrollPages (§4.4: "pages scroll by window_lines / 2").
func (w *ScreenWindow) ScrollBy(mode ScrollMode, amount int) {
	if mode == ScrollPages {
		amount *= w.windowLines / 2
	}
	w.ScrollTo(w.currentLine + amount)
}

// NotifyOutputChanged is called by the owner after the Screen mutates
// (§4.4). When trackOutput is set the window follows the bottom of
// content; otherwise it holds position, shifting up by however many lines
// the Screen just pushed into history so the same content stays in view.
// scroll_count is decremented by that same count either way, and
// OutputChanged always fires.
func (w *ScreenWindow) NotifyOutputChanged() {
	scrolled := w.screen.DrainScrolledLines()
	if w.trackOutput {
		w.currentLine = w.maxCurrentLine()
	} else {
		w.currentLine = clampInt(w.currentLine-scrolled, 0, w.maxCurrentLine())
	}
	w.scrollCount -= scrolled
	w.listener.OutputChanged()
}

// NotifySelectionChanged forwards a Screen selection edit to the listener;
// called by the owner after SetSelectionStart/SetSelectionEnd/ClearSelection.
func (w *ScreenWindow) NotifySelectionChanged() {
	w.listener.SelectionChanged()
}

// SetTrackOutput pins (or unpins) the viewport to the bottom of content.
func (w *ScreenWindow) SetTrackOutput(track bool) {
	w.trackOutput = track
	if track {
		w.currentLine = w.maxCurrentLine()
	}
}

func (w *ScreenWindow) TrackOutput() bool { return w.trackOutput }
func (w *ScreenWindow) CurrentLine() int  { return w.currentLine }
func (w *ScreenWindow) WindowLines() int  { return w.windowLines }

// LineCount is the Screen's total addressable line count: history plus the
// live grid (§3.5).
func (w *ScreenWindow) LineCount() int { return w.screen.GlobalLineCount() }

// ScrollCount returns the accumulated delta since the last drain.
func (w *ScreenWindow) ScrollCount() int { return w.scrollCount }

// DrainScrollCount returns ScrollCount and resets it to zero.
func (w *ScreenWindow) DrainScrollCount() int {
	n := w.scrollCount
	w.scrollCount = 0
	return n
}

// AtEndOfOutput reports whether the window is currently scrolled to the
// bottom of available content.
func (w *ScreenWindow) AtEndOfOutput() bool {
	return w.currentLine >= w.maxCurrentLine()
}

// GetImage copies a window_lines x columns rectangle starting at
// current_line into a freshly allocated grid, concatenating history and
// live-screen lines transparently (§4.4). Cells within the current
// selection have fg/bg swapped; the cursor cell, when visible and within
// the window, gets the CURSOR rendition bit set. Both are transient,
// applied only to this copy — never written back to the Screen.
func (w *ScreenWindow) GetImage() [][]Cell {
	cols := w.screen.Cols()
	image := make([][]Cell, w.windowLines)

	cursorGlobalRow := w.screen.HistoryLen() + w.screen.cursor.Row
	showCursor := w.screen.ModeSet(ModeCursor)

	for row := 0; row < w.windowLines; row++ {
		global := w.currentLine + row
		cells, _ := w.screen.GlobalLine(global)
		line := make([]Cell, cols)
		for c := 0; c < cols; c++ {
			if c < len(cells) {
				line[c] = cells[c]
			} else {
				line[c] = NewCell()
			}
			if w.screen.IsSelected(c, global) {
				line[c].Fg, line[c].Bg = line[c].Bg, line[c].Fg
			}
		}
		if showCursor && global == cursorGlobalRow && w.screen.cursor.Col < cols {
			line[w.screen.cursor.Col].Rendition |= RenditionCursor
		}
		image[row] = line
	}
	return image
}

// GetLineProperties returns the WRAPPED/double-width/double-height bits for
// each row in the window, parallel to GetImage's rows. History lines carry
// only their WRAPPED bit; double-width/height tracking lives on the live
// grid only, matching screenLine's own fields.
func (w *ScreenWindow) GetLineProperties() []LineProperty {
	histLen := w.screen.HistoryLen()
	props := make([]LineProperty, w.windowLines)
	for row := 0; row < w.windowLines; row++ {
		global := w.currentLine + row
		_, wrapped := w.screen.GlobalLine(global)
		var p LineProperty
		if wrapped {
			p |= LineWrapped
		}
		if global >= histLen && global-histLen < len(w.screen.lines) {
			line := w.screen.lines[global-histLen]
			if line.doubleWidth {
				p |= LineDoubleWidth
			}
			if line.doubleHeight {
				p |= LineDoubleHeight
			}
		}
		props[row] = p
	}
	return props
}
