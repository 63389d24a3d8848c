package termcore

import (
	"bytes"
	"time"
)

// Write feeds raw bytes from the child process into the emulation (§6.1).
// It applies the legacy codec if one was configured, scans for the ZModem
// side-channel marker, splits VT52-mode bytes off to the VT52 state
// machine, and routes the remainder through the ansicode.Decoder. now is
// supplied by the caller rather than read from the wall clock so that the
// refresh-timer contract (§5) stays a pure function of its inputs.
func (e *Emulation) Write(data []byte, now time.Time) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	e.now = now
	e.scanZmodem(data)

	if e.codec != nil {
		decoded, err := e.codec.NewDecoder().Bytes(data)
		if err == nil {
			data = decoded
		}
	}

	e.note(now)

	n, err := e.feed(data)
	e.flushOSC(now)
	if e.timers.poll(now) {
		e.refresh.UpdateViews()
	}
	return n, err
}

// WriteString is a convenience wrapper around Write.
func (e *Emulation) WriteString(s string, now time.Time) (int, error) {
	return e.Write([]byte(s), now)
}

// Poll checks the refresh-timer deadlines without any new input having
// arrived, firing UpdateViews if either has elapsed. The owning event loop
// calls this on its own cadence (e.g. every few milliseconds) so that a
// burst which stops short of the B deadline still eventually flushes.
func (e *Emulation) Poll(now time.Time) bool {
	e.now = now
	e.flushOSC(now)
	due := e.timers.poll(now)
	if due {
		e.refresh.UpdateViews()
	}
	return due
}

// feed dispatches data to either the ANSI decoder or the VT52 state
// machine depending on ansiMode, switching mid-stream on the literal
// byte sequences that toggle DECANM (CSI ?2l enters VT52, ESC < exits it).
// go-ansicode has no VT52 grammar of its own, so VT52 runs as an entirely
// separate byte-level state machine rather than a Handler extension.
func (e *Emulation) feed(data []byte) (int, error) {
	total := 0
	for len(data) > 0 {
		if !e.ansiMode {
			consumed := e.feedVT52(data)
			total += consumed
			data = data[consumed:]
			continue
		}

		cut := bytes.IndexByte(data, 0x1b)
		if cut < 0 {
			n, err := e.decoder.Write(data)
			total += n
			if err != nil {
				return total, err
			}
			break
		}

		if idx := bytes.Index(data[cut:], []byte(vt52EnterSeq)); idx == 0 {
			n, err := e.decoder.Write(data[:cut+len(vt52EnterSeq)])
			total += n
			if err != nil {
				return total, err
			}
			e.ansiMode = false
			data = data[cut+len(vt52EnterSeq):]
			continue
		}

		// No recognized mode-switch sequence at this position; hand one
		// more byte's worth of plain text (up through cut) to the decoder
		// and let it process the escape sequence itself.
		n, err := e.decoder.Write(data[:cut+1])
		total += n
		if err != nil {
			return total, err
		}
		data = data[cut+1:]
	}
	return total, nil
}

// scanZmodem watches the raw incoming stream for the ZModem download
// trigger (0x18 'B' '0' '0') across block boundaries, carrying the last 3
// bytes of each block forward so a marker split across two Write calls is
// still detected.
func (e *Emulation) scanZmodem(data []byte) {
	probe := append(e.zmodemTail, data...)
	if bytes.Contains(probe, zmodemMarker) {
		e.sessionAttrs.ZmodemDetected()
	}
	tailLen := len(zmodemMarker) - 1
	if len(data) >= tailLen {
		e.zmodemTail = append([]byte(nil), data[len(data)-tailLen:]...)
	} else {
		e.zmodemTail = append([]byte(nil), probe[max(0, len(probe)-tailLen):]...)
	}
}
