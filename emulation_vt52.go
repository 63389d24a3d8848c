package termcore

// VT52 fallback grammar (§4.3 "VT52 mode"): a small hand-rolled byte-level
// state machine, entered via CSI ?2l (DECANM reset) and exited on ESC <.
// go-ansicode has no VT52 support to extend, so this runs entirely outside
// the ansicode.Decoder/Handler pair — feed() in emulation_io.go hands bytes
// here instead of to the decoder while e.ansiMode is false.
//
// Grammar: ESC A/B/C/D move the cursor; ESC H homes it; ESC Y row col
// positions it (each coordinate biased by 0x20, VT52 convention); ESC Z
// answers the identify-terminal query; ESC < exits back to ANSI mode.
// Bytes outside an escape sequence are displayed directly.

// feedVT52 consumes a prefix of data, returning how many bytes it used.
// It always consumes at least 1 byte so callers can loop to exhaustion.
func (e *Emulation) feedVT52(data []byte) int {
	b := data[0]

	switch e.vt52St {
	case vt52Ground:
		if b == 0x1b {
			e.vt52St = vt52Esc
			return 1
		}
		e.active.DisplayCharacter(rune(b))
		return 1

	case vt52Esc:
		switch b {
		case 'A':
			e.active.CursorUp(1)
		case 'B':
			e.active.CursorDown(1)
		case 'C':
			e.active.CursorRight(1)
		case 'D':
			e.active.CursorLeft(1)
		case 'H':
			e.active.SetCursorX(1)
			e.active.SetCursorY(1)
		case 'Y':
			e.vt52St = vt52YRow
			return 1
		case 'Z':
			e.sink.SendBlock([]byte("\x1b/Z"))
		case '<':
			e.ansiMode = true
		default:
			// Unknown VT52 escape: discard per the unknown-sequence policy.
		}
		if e.vt52St != vt52YRow {
			e.vt52St = vt52Ground
		}
		return 1

	case vt52YRow:
		e.vt52Row = int(b) - 0x20
		e.vt52St = vt52YCol
		return 1

	case vt52YCol:
		col := int(b) - 0x20
		e.active.SetCursorY(e.vt52Row + 1)
		e.active.SetCursorX(col + 1)
		e.vt52St = vt52Ground
		return 1
	}

	e.vt52St = vt52Ground
	return 1
}
