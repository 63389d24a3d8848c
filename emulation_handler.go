package termcore

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"time"

	"github.com/danielgatis/go-ansicode"
)

// This file implements the ansicode.Handler interface (§4.3 "Dispatch
// responsibilities"): every call arriving from the decoder lands on one of
// these methods and is routed to the active Screen, a provider, or a reply
// written to the ByteSink. Grounded on the teacher's handler.go, which
// dispatches the identical interface onto its own Buffer/Terminal state.

func (e *Emulation) note(now time.Time) {
	e.timers.noteInput(now)
}

// --- Cursor movement ---

func (e *Emulation) Goto(row, col int) {
	e.active.SetCursorY(row + 1)
	e.active.SetCursorX(col + 1)
}

func (e *Emulation) GotoCol(col int) { e.active.SetCursorX(col + 1) }
func (e *Emulation) GotoLine(row int) { e.active.SetCursorY(row + 1) }

func (e *Emulation) MoveUp(n int)      { e.active.CursorUp(n) }
func (e *Emulation) MoveDown(n int)    { e.active.CursorDown(n) }
func (e *Emulation) MoveForward(n int) { e.active.CursorRight(n) }
func (e *Emulation) MoveBackward(n int) { e.active.CursorLeft(n) }

func (e *Emulation) MoveUpCr(n int) {
	e.active.CursorUp(n)
	e.active.CarriageReturn()
}

func (e *Emulation) MoveDownCr(n int) {
	e.active.CursorDown(n)
	e.active.CarriageReturn()
}

func (e *Emulation) MoveForwardTabs(n int) {
	for i := 0; i < defaultN(n); i++ {
		e.active.SetCursorX(e.active.NextTabStop(cursorCol(e.active)) + 1)
	}
}

func (e *Emulation) MoveBackwardTabs(n int) {
	for i := 0; i < defaultN(n); i++ {
		e.active.SetCursorX(e.active.PrevTabStop(cursorCol(e.active)) + 1)
	}
}

func cursorCol(s *Screen) int { return s.cursor.Col }

func (e *Emulation) CarriageReturn() { e.active.CarriageReturn() }
func (e *Emulation) LineFeed() {
	e.active.Index()
	if e.active.ModeSet(ModeNewline) {
		e.active.CarriageReturn()
	}
}
func (e *Emulation) ReverseIndex() { e.active.ReverseIndex() }

func (e *Emulation) Backspace() { e.active.CursorLeft(1) }

func (e *Emulation) Tab(n int) {
	for i := 0; i < defaultN(n); i++ {
		e.active.SetCursorX(e.active.NextTabStop(e.active.cursor.Col) + 1)
	}
}

func (e *Emulation) HorizontalTabSet() { e.active.SetTabStop(e.active.cursor.Col) }

func (e *Emulation) SaveCursorPosition()    { e.active.SaveCursor() }
func (e *Emulation) RestoreCursorPosition() { e.active.RestoreCursor() }

// --- Scrolling ---

func (e *Emulation) ScrollUp(n int) {
	e.active.ScrollUp(e.active.topMargin, e.active.bottomMargin+1, defaultN(n))
}

func (e *Emulation) ScrollDown(n int) {
	e.active.ScrollDown(e.active.topMargin, e.active.bottomMargin+1, defaultN(n))
}

func (e *Emulation) SetScrollingRegion(top, bottom int) {
	e.active.SetMargins(top, bottom)
}

// --- Editing ---

func (e *Emulation) EraseChars(n int)      { e.active.EraseChars(n) }
func (e *Emulation) DeleteChars(n int)     { e.active.DeleteChars(n) }
func (e *Emulation) InsertBlank(n int)     { e.active.InsertChars(n) }
func (e *Emulation) InsertBlankLines(n int) { e.active.InsertLines(n) }
func (e *Emulation) DeleteLines(n int)     { e.active.DeleteLines(n) }

// --- Clearing ---

func (e *Emulation) ClearLine(mode ansicode.LineClearMode) {
	switch mode {
	case ansicode.LineClearModeRight:
		e.active.ClearToEndOfLine()
	case ansicode.LineClearModeLeft:
		e.active.ClearToBeginOfLine()
	case ansicode.LineClearModeAll:
		e.active.ClearEntireLine()
	}
}

func (e *Emulation) ClearScreen(mode ansicode.ClearMode) {
	switch mode {
	case ansicode.ClearModeBelow:
		e.active.ClearToEndOfScreen()
	case ansicode.ClearModeAbove:
		e.active.ClearToBeginOfScreen()
	case ansicode.ClearModeAll:
		e.active.ClearEntireScreen()
	case ansicode.ClearModeSaved:
		e.active.history.Clear()
	}
}

func (e *Emulation) ClearTabs(mode ansicode.TabulationClearMode) {
	switch mode {
	case ansicode.TabulationClearModeCurrent:
		e.active.ClearTabStop(e.active.cursor.Col)
	case ansicode.TabulationClearModeAll:
		e.active.ClearAllTabStops()
	}
}

func (e *Emulation) Decaln() {
	for row := 0; row < e.active.rows; row++ {
		for col := 0; col < e.active.cols; col++ {
			e.active.lines[row].cells[col] = Cell{CodePoint: 'E', Fg: DefaultColor, Bg: DefaultColor, Real: true}
		}
	}
}

func (e *Emulation) Substitute() {
	e.active.DisplayCharacter('�')
}

// --- Modes ---

func (e *Emulation) SetMode(mode ansicode.TerminalMode)   { e.dispatchMode(mode, true) }
func (e *Emulation) UnsetMode(mode ansicode.TerminalMode) { e.dispatchMode(mode, false) }

func (e *Emulation) dispatchMode(mode ansicode.TerminalMode, set bool) {
	switch mode {
	case ansicode.TerminalModeOrigin:
		e.active.setModeBidi(ModeOrigin, set)
	case ansicode.TerminalModeInsert:
		e.active.modes.set(ModeInsert, set)
	case ansicode.TerminalModeLineWrap:
		e.active.modes.set(ModeWrap, set)
	case ansicode.TerminalModeLineFeedNewLine:
		e.active.modes.set(ModeNewline, set)
	case ansicode.TerminalModeShowCursor:
		e.active.modes.set(ModeCursor, set)
		e.active.cursor.Visible = set
	case ansicode.TerminalModeReportMouseClicks:
		e.setMouseMode(mouseModeClicks, set)
	case ansicode.TerminalModeReportCellMouseMotion:
		e.setMouseMode(mouseModeCellMotion, set)
	case ansicode.TerminalModeReportAllMouseMotion:
		e.setMouseMode(mouseModeAllMotion, set)
	case ansicode.TerminalModeReportFocusInOut:
		e.mouse.focus = set
	case ansicode.TerminalModeUTF8Mouse:
		e.mouse.utf8 = set
	case ansicode.TerminalModeSGRMouse:
		e.mouse.sgr = set
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		e.swapScreen(set)
	case ansicode.TerminalModeColumnMode:
		// DECCOLM (80/132 columns): accepted and ignored; the grid is not
		// resized and no column-mode state is recorded.
	}
}

func (s *Screen) setModeBidi(m ScreenMode, set bool) {
	if set {
		s.SetMode(m)
	} else {
		s.ResetMode(m)
	}
}

func (e *Emulation) setMouseMode(mode mouseMode, set bool) {
	if set {
		e.mouse.mode = mode
	} else if e.mouse.mode == mode {
		e.mouse.mode = mouseModeOff
	}
}

// swapScreen implements DECSET/DECRST 1049: switch the active Screen,
// saving/restoring the cursor across the boundary and wiping the entering
// alternate screen (§9 "alternate-screen clear-wipe behavior" — resolved
// as: entering always wipes, leaving never touches the alternate's content
// so a second switch without an intervening program exit sees a blank
// screen again, matching xterm).
func (e *Emulation) swapScreen(toAlternate bool) {
	if toAlternate == e.onAlt {
		return
	}
	if toAlternate {
		e.primary.SaveCursor()
		e.active = e.alternate
		e.active.ClearEntireScreen()
		e.active.cursor = Cursor{Style: CursorStyleBlinkingBlock, Visible: true}
	} else {
		e.active = e.primary
		e.active.RestoreCursor()
	}
	e.onAlt = toAlternate
}

// --- Rendition (SGR) ---

func (e *Emulation) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	t := &e.active.template
	switch attr.Attr {
	case ansicode.CharAttributeReset:
		*t = NewCellTemplate()
	case ansicode.CharAttributeBold:
		t.Rendition |= RenditionBold
	case ansicode.CharAttributeDim:
		t.Rendition |= RenditionDim
	case ansicode.CharAttributeItalic:
		t.Rendition |= RenditionItalic
	case ansicode.CharAttributeUnderline:
		t.Rendition = t.Rendition&^RenditionDoubleUnderline | RenditionUnderline
	case ansicode.CharAttributeDoubleUnderline:
		t.Rendition = t.Rendition&^RenditionUnderline | RenditionDoubleUnderline
	case ansicode.CharAttributeCurlyUnderline, ansicode.CharAttributeDottedUnderline, ansicode.CharAttributeDashedUnderline:
		// The cell model has one "fancy underline" bit; the distinct xterm
		// styles collapse onto it rather than widening Rendition further.
		t.Rendition = t.Rendition&^(RenditionUnderline|RenditionDoubleUnderline) | RenditionCurlyUnderline
	case ansicode.CharAttributeBlinkSlow, ansicode.CharAttributeBlinkFast:
		t.Rendition |= RenditionBlink
	case ansicode.CharAttributeReverse:
		t.Rendition |= RenditionReverse
	case ansicode.CharAttributeHidden:
		t.Rendition |= RenditionHidden
	case ansicode.CharAttributeStrike:
		t.Rendition |= RenditionStrike
	case ansicode.CharAttributeCancelBold:
		t.Rendition &^= RenditionBold
	case ansicode.CharAttributeCancelBoldDim:
		t.Rendition &^= RenditionBold | RenditionDim
	case ansicode.CharAttributeCancelItalic:
		t.Rendition &^= RenditionItalic
	case ansicode.CharAttributeCancelUnderline:
		t.Rendition &^= RenditionUnderline | RenditionDoubleUnderline | RenditionCurlyUnderline
	case ansicode.CharAttributeCancelBlink:
		t.Rendition &^= RenditionBlink
	case ansicode.CharAttributeCancelReverse:
		t.Rendition &^= RenditionReverse
	case ansicode.CharAttributeCancelHidden:
		t.Rendition &^= RenditionHidden
	case ansicode.CharAttributeCancelStrike:
		t.Rendition &^= RenditionStrike
	case ansicode.CharAttributeForeground:
		t.Fg = e.resolveAttrColor(attr, t.Fg)
	case ansicode.CharAttributeBackground:
		t.Bg = e.resolveAttrColor(attr, t.Bg)
	case ansicode.CharAttributeUnderlineColor:
		// No distinct underline-color channel in the cell model (§3.1); the
		// request is accepted and has no further effect.
	}
}

func (e *Emulation) resolveAttrColor(attr ansicode.TerminalCharAttribute, fallback Color) Color {
	if attr.RGBColor != nil {
		return RGBColor(attr.RGBColor.R, attr.RGBColor.G, attr.RGBColor.B)
	}
	if attr.IndexedColor != nil {
		return PaletteColor(int(attr.IndexedColor.Index))
	}
	if attr.NamedColor != nil {
		return DefaultColor
	}
	return fallback
}

func (e *Emulation) SetCursorStyle(style ansicode.CursorStyle) {
	e.active.cursor.Style = CursorStyle(style)
}

// --- Charsets ---

// ConfigureCharset designates charset into slot index. The ansicode enum
// values line up positionally with our own Charset constants (ASCII, UK,
// line-drawing), so this casts directly rather than re-deriving a mapping,
// mirroring the teacher's configureCharsetInternal.
func (e *Emulation) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	idx := CharsetIndex(index)
	cs := Charset(charset)
	if idx < CharsetIndexG0 || idx > CharsetIndexG3 {
		return
	}
	e.primary.DesignateCharset(idx, cs)
	e.alternate.DesignateCharset(idx, cs)
}

func (e *Emulation) SetActiveCharset(n int) {
	idx := CharsetIndex(clampInt(n, 0, 3))
	e.primary.InvokeGL(idx)
	e.alternate.InvokeGL(idx)
}

// --- Character display ---

func (e *Emulation) Input(r rune) {
	e.active.DisplayCharacter(e.active.TranslateForDisplay(r))
}

func (e *Emulation) ApplicationCommandReceived(data []byte) {}
func (e *Emulation) PrivacyMessageReceived(data []byte)     {}
func (e *Emulation) StartOfStringReceived(data []byte)      {}
func (e *Emulation) SixelReceived(params [][]uint16, data []byte) {}

// --- Bell / title / tab-color / hyperlink ---

func (e *Emulation) Bell() {
	e.bell.Ring()
	e.sessionAttrs.NotifySessionState(SessionBell)
}

func (e *Emulation) SetTitle(title string) {
	e.currentTitle = title
	e.markPendingOSC(oscTitle, title)
}

func (e *Emulation) PushTitle() { e.titleStack = append(e.titleStack, e.currentTitle) }
func (e *Emulation) PopTitle() {
	if n := len(e.titleStack); n > 0 {
		e.currentTitle = e.titleStack[n-1]
		e.titleStack = e.titleStack[:n-1]
		e.markPendingOSC(oscTitle, e.currentTitle)
	}
}

// markPendingOSC records the latest value for a coalesced OSC kind,
// starting its 200ms window on the first update of a burst; flushOSC
// (called from Write/Poll) emits the latest value once the window elapses.
func (e *Emulation) markPendingOSC(kind oscKind, value string) {
	e.pendingOSCText[kind] = value
	if _, pending := e.pendingOSC[kind]; !pending {
		e.pendingOSC[kind] = e.now
	}
}

// flushOSC emits any pending OSC-driven session attribute whose 200ms
// coalescing window has elapsed as of now.
func (e *Emulation) flushOSC(now time.Time) {
	for kind, since := range e.pendingOSC {
		if now.Sub(since) < oscCoalesceWindow {
			continue
		}
		value := e.pendingOSCText[kind]
		switch kind {
		case oscTitle:
			// code is always 0: go-ansicode's Handler.SetTitle (like the
			// teacher's own handler.go) never passes through which OSC
			// number (0/1/2/30) triggered it, so the distinct title codes
			// can't be told apart here, and OSC 32 (icon name) has no
			// Handler method at all so it never reaches this callback.
			// Acknowledged upstream limitation, see DESIGN.md.
			e.sessionAttrs.ChangeTitle(0, value)
		case oscWorkingDirectory:
			e.sessionAttrs.OpenURLRequest(value)
		}
		delete(e.pendingOSC, kind)
	}
}

func (e *Emulation) SetHyperlink(h *ansicode.Hyperlink) {
	if h == nil {
		e.hyperlink = nil
		return
	}
	e.hyperlink = &Hyperlink{ID: h.ID, URI: h.URI}
}

// --- Color ---

// Dynamic-color indices per xterm/OSC convention, also used by go-ansicode
// as the index argument to SetColor/SetDynamicColor/ResetColor.
const (
	dynamicColorForeground = 10 // OSC 10
	dynamicColorBackground = 11 // OSC 11
)

// SetColor stores a client-assigned palette entry (256-color slots, or
// OSC 10/11's special indices) and, for the two default-color indices,
// forwards it to the session (§6.3: "changeTabTextColor(color_index),
// changeBackgroundColor(color) — OSC 10/11") — the "set" counterpart to
// SetDynamicColor's query-only reply.
func (e *Emulation) SetColor(index int, c color.Color) {
	r, g, b, _ := c.RGBA()
	rc := RGBColor(uint8(r>>8), uint8(g>>8), uint8(b>>8))
	e.palette[index] = rc
	switch index {
	case dynamicColorForeground:
		e.sessionAttrs.ChangeTabTextColor(index)
	case dynamicColorBackground:
		e.sessionAttrs.ChangeDefaultColor(index, rc)
	}
}

func (e *Emulation) ResetColor(i int) {
	delete(e.palette, i)
}

// SetDynamicColor answers OSC 10/11/12 queries with the current color of
// the named channel, "?" meaning "report" per xterm convention; prefix is
// the OSC code as a string (e.g. "10"), terminator is ST or BEL as the
// client sent it.
func (e *Emulation) SetDynamicColor(prefix string, index int, terminator string) {
	c, ok := e.palette[index]
	if !ok {
		c = DefaultColor
	}
	r, g, b := resolveDisplayColor(c)
	response := fmt.Sprintf("\x1b]%s;rgb:%02x/%02x/%02x%s", prefix, r, g, b, terminator)
	e.sink.SendBlock([]byte(response))
}

func resolveDisplayColor(c Color) (r, g, b uint8) {
	switch c.Space {
	case ColorRGB:
		return c.RGB()
	case ColorPalette:
		idx := c.Value
		return uint8(idx), uint8(idx), uint8(idx)
	default:
		return 0, 0, 0
	}
}

// --- Device attributes / status reports (§6.5) ---

func (e *Emulation) DeviceStatus(n int) {
	switch n {
	case 5:
		e.sink.SendBlock([]byte("\x1b[0n"))
	case 6:
		row, col := e.active.cursor.Row, e.active.cursor.Col
		e.sink.SendBlock([]byte(fmt.Sprintf("\x1b[%d;%dR", row+1, col+1)))
	}
}

// IdentifyTerminal answers a device-attributes query (§6.5); b is the
// intermediate byte distinguishing primary (none, 0), secondary ('>') and
// tertiary ('=') requests.
func (e *Emulation) IdentifyTerminal(b byte) {
	switch b {
	case '>':
		e.sink.SendBlock([]byte("\x1b[>0;100;0c"))
	case '=':
		e.sink.SendBlock([]byte("\x1bP!|7E4B4445\x1b\\"))
	default:
		e.sink.SendBlock([]byte("\x1b[?1;2c"))
	}
}

func (e *Emulation) TextAreaSizeChars() {
	e.sink.SendBlock([]byte(fmt.Sprintf("\x1b[8;%d;%dt", e.active.rows, e.active.cols)))
}

func (e *Emulation) TextAreaSizePixels() {
	const cellW, cellH = 10, 20
	e.sink.SendBlock([]byte(fmt.Sprintf("\x1b[4;%d;%dt", e.active.rows*cellH, e.active.cols*cellW)))
}

func (e *Emulation) CellSizePixels() {
	const cellW, cellH = 10, 20
	e.sink.SendBlock([]byte(fmt.Sprintf("\x1b[6;%d;%dt", cellH, cellW)))
}

// --- Keyboard modes (Kitty progressive enhancement stack) ---

func (e *Emulation) PushKeyboardMode(mode ansicode.KeyboardMode) {
	e.keyboardModeStack = append(e.keyboardModeStack, mode)
}

func (e *Emulation) PopKeyboardMode(n int) {
	for i := 0; i < n && len(e.keyboardModeStack) > 0; i++ {
		e.keyboardModeStack = e.keyboardModeStack[:len(e.keyboardModeStack)-1]
	}
}

func (e *Emulation) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
	current := ansicode.KeyboardModeNoMode
	if n := len(e.keyboardModeStack); n > 0 {
		current = e.keyboardModeStack[n-1]
	}
	var next ansicode.KeyboardMode
	switch behavior {
	case ansicode.KeyboardModeBehaviorReplace:
		next = mode
	case ansicode.KeyboardModeBehaviorUnion:
		next = current | mode
	case ansicode.KeyboardModeBehaviorDifference:
		next = current &^ mode
	}
	if n := len(e.keyboardModeStack); n > 0 {
		e.keyboardModeStack[n-1] = next
	} else {
		e.keyboardModeStack = append(e.keyboardModeStack, next)
	}
}

func (e *Emulation) ReportKeyboardMode() {
	var mode ansicode.KeyboardMode
	if n := len(e.keyboardModeStack); n > 0 {
		mode = e.keyboardModeStack[n-1]
	}
	e.sink.SendBlock([]byte(fmt.Sprintf("\x1b[?%du", mode)))
}

func (e *Emulation) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) {
	e.modifyOtherKeys = modify
}

func (e *Emulation) ReportModifyOtherKeys() {
	e.sink.SendBlock([]byte(fmt.Sprintf("\x1b[>4;%dm", e.modifyOtherKeys)))
}

func (e *Emulation) SetKeypadApplicationMode()   { e.keypadApplication = true }
func (e *Emulation) UnsetKeypadApplicationMode() { e.keypadApplication = false }

// --- Clipboard (OSC 52) ---

func (e *Emulation) ClipboardLoad(clipboard byte, terminator string) {
	text := e.palette52[clipboard]
	if text == "" {
		return
	}
	response := "\x1b]52;" + string(clipboard) + ";" + base64.StdEncoding.EncodeToString([]byte(text)) + terminator
	e.sink.SendBlock([]byte(response))
}

func (e *Emulation) ClipboardStore(clipboard byte, data []byte) {
	if e.palette52 == nil {
		e.palette52 = make(map[byte]string)
	}
	e.palette52[clipboard] = string(data)
}

// --- Working directory (OSC 7) ---

func (e *Emulation) SetWorkingDirectory(uri string) {
	e.workingDirURI = uri
	e.markPendingOSC(oscWorkingDirectory, uri)
}

func (e *Emulation) WorkingDirectory() string { return e.workingDirURI }

func (e *Emulation) WorkingDirectoryPath() string {
	const prefix = "file://"
	if len(e.workingDirURI) <= len(prefix) || e.workingDirURI[:len(prefix)] != prefix {
		return ""
	}
	rest := e.workingDirURI[len(prefix):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			return rest[i:]
		}
	}
	return ""
}

// --- Reset ---

func (e *Emulation) ResetState() {
	e.Reset()
}

// Reset performs a full emulation reset (ESC c / DECSTR-equivalent): both
// Screens clear, charset/keyboard/mouse/palette state returns to defaults,
// the extended character table is garbage-collected since nothing can
// reference stale entries across a reset.
func (e *Emulation) Reset() {
	e.primary.Reset()
	e.alternate.Reset()
	e.active = e.primary
	e.onAlt = false
	e.mouse = mouseState{}
	e.keyboardModeStack = nil
	e.hyperlink = nil
	e.modifyOtherKeys = 0
	e.keypadApplication = false
	e.workingDirURI = ""
	e.extended.GC(nil)
}

