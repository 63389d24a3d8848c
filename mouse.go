package termcore

import "strconv"

// MouseEventType distinguishes press/drag/release for mouse_event() (§6.2).
type MouseEventType int

const (
	MouseEventPress MouseEventType = iota
	MouseEventDrag
	MouseEventRelease
)

// Mouse button codes per §6.4.
const (
	MouseButtonLeft      = 0
	MouseButtonMiddle    = 1
	MouseButtonRight     = 2
	MouseButtonRelease   = 3
	MouseButtonWheelUp   = 64
	MouseButtonWheelDown = 65
)

// Modifier bits added into Cb alongside the button code (xterm convention:
// shift=4, meta=8, control=16).
const (
	MouseModShift = 1 << 2
	MouseModMeta  = 1 << 3
	MouseModCtrl  = 1 << 4
)

// mouseMode tracks which of the four reporting variants (§3.4 "emulation-
// level modes") is active; at most the broadest requested one matters for
// whether an event is reported at all.
type mouseMode int

const (
	mouseModeOff mouseMode = iota
	mouseModeClicks
	mouseModeCellMotion // drag reporting while a button is held (1002)
	mouseModeAllMotion  // drag and motion reporting unconditionally (1003)
)

// mouseState holds the emulation-level mouse configuration; owned by
// Emulation, not Screen, per §3.4.
type mouseState struct {
	mode    mouseMode
	sgr     bool // CSI < Cb ; Cx ; Cy M/m extended encoding (mode 1006)
	utf8    bool // mode 1005, legacy UTF-8 coordinate encoding
	focus   bool // mode 1004, focus in/out reporting
}

func clampCoord(v int) int {
	if v > 223-32 {
		return 223 - 32
	}
	if v < 0 {
		v = 0
	}
	return v
}

// shouldReport decides whether an event at (eventType) is forwarded given
// the current mouse mode: clicks mode reports press/release only; cell-
// motion additionally reports drags while a button is down; all-motion
// reports every motion event regardless of button state.
func (m mouseState) shouldReport(eventType MouseEventType, buttonDown bool) bool {
	switch m.mode {
	case mouseModeOff:
		return false
	case mouseModeClicks:
		return eventType != MouseEventDrag
	case mouseModeCellMotion:
		return eventType != MouseEventDrag || buttonDown
	case mouseModeAllMotion:
		return true
	}
	return false
}

// encodeMouseEvent builds the wire bytes for a mouse report. column/row are
// 0-based; the legacy encoding (§6.4) is `CSI M Cb Cx Cy` with each of Cb,
// Cx, Cy biased by 32 and capped at 223. When SGR mode (1006) is active the
// extended `CSI < Cb ; Cx ; Cy M` (or trailing 'm' on release) form is used
// instead, which does not suffer the 223-column/row cap.
func encodeMouseEvent(m mouseState, button, modifiers, column, row int, eventType MouseEventType) []byte {
	cb := button + modifiers
	if eventType == MouseEventDrag {
		cb |= 32
	}

	if m.sgr {
		final := byte('M')
		if eventType == MouseEventRelease {
			final = 'm'
		}
		s := "\x1b[<" + strconv.Itoa(cb) + ";" + strconv.Itoa(column+1) + ";" + strconv.Itoa(row+1)
		return append([]byte(s), final)
	}

	cbByte := byte(32 + clampCoord(cb))
	cxByte := byte(32 + clampCoord(column+1))
	cyByte := byte(32 + clampCoord(row+1))
	return []byte{0x1b, '[', 'M', cbByte, cxByte, cyByte}
}

// MouseEvent reports a mouse action at (column, row) (0-based) to the
// child process, honoring the currently negotiated mouse mode (§6.4).
// buttonDown indicates whether any button is currently held, needed to
// decide whether a drag is reportable under cell-motion mode. Callers are
// expected to be the host's input layer; the core never originates these
// itself.
func (e *Emulation) MouseEvent(button, modifiers, column, row int, eventType MouseEventType, buttonDown bool) {
	if !e.mouse.shouldReport(eventType, buttonDown) {
		return
	}
	e.sink.SendBlock(encodeMouseEvent(e.mouse, button, modifiers, column, row, eventType))
}

// FocusEvent reports terminal focus in/out when mode 1004 is active.
func (e *Emulation) FocusEvent(focused bool) {
	if !e.mouse.focus {
		return
	}
	if focused {
		e.sink.SendBlock([]byte("\x1b[I"))
	} else {
		e.sink.SendBlock([]byte("\x1b[O"))
	}
}
