package termcore

// ScreenMode indexes the six per-Screen mode flags from §3.4, each with an
// independent saved/current pair so DECSET/DECRST and save/restore-mode
// operate per-mode rather than on one combined bitset.
type ScreenMode int

const (
	ModeOrigin ScreenMode = iota // DECOM: cursor addressing relative to margins
	ModeWrap                     // DECAWM: autowrap at right margin
	ModeInsert                   // IRM: insert vs replace
	ModeScreen                   // DECSCNM: whole-screen inverse video
	ModeCursor                   // DECTCEM: cursor visible
	ModeNewline                  // LNM: LF also does CR

	modeCount
)

// modes holds the current/saved pair for all six ScreenMode flags.
type modes struct {
	current [modeCount]bool
	saved   [modeCount]bool
}

func newModes() modes {
	m := modes{}
	m.current[ModeWrap] = true
	m.current[ModeCursor] = true
	return m
}

func (m *modes) set(flag ScreenMode, value bool) {
	m.current[flag] = value
}

func (m *modes) get(flag ScreenMode) bool {
	return m.current[flag]
}

// saveMode copies current into saved for flag only, per §4.2 "Modes".
func (m *modes) saveMode(flag ScreenMode) {
	m.saved[flag] = m.current[flag]
}

// restoreMode copies saved into current for flag only.
func (m *modes) restoreMode(flag ScreenMode) {
	m.current[flag] = m.saved[flag]
}

// effectiveColors derives the fg/bg actually used to paint a cell from its
// stored template: REVERSE swaps fg and bg, BOLD marks the foreground
// channel "intensive" (a display hint consumed by Resolve to brighten a
// low palette index, not a color change in itself).
func effectiveColors(t CellTemplate) (fg, bg Color, intensive bool) {
	fg, bg = t.Fg, t.Bg
	if t.Rendition&RenditionReverse != 0 {
		fg, bg = bg, fg
	}
	intensive = t.Rendition&RenditionBold != 0
	return fg, bg, intensive
}
