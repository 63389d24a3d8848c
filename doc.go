// Package termcore implements the decoding and state-tracking core of a
// terminal emulator: an escape-sequence decoder, a grid model with
// scrollback, and a viewport for reading frames out of it, all independent
// of any particular display toolkit.
//
// This package emulates a terminal without drawing it anywhere, making it
// a building block for:
//   - Terminal multiplexers and recorders
//   - Headless testing of CLI tools and TUI applications
//   - Web-based terminal frontends that want their own renderer
//   - Screen scraping and automation
//
// # Quick Start
//
// Create an Emulation and feed it bytes from a child process:
//
//	em := termcore.NewEmulation(termcore.WithSize(24, 80))
//	em.WriteString("\x1b[31mHello \x1b[32mWorld\x1b[0m!", time.Now())
//
//	screen := em.ActiveScreen()
//	window := termcore.NewScreenWindow(screen, screen.Rows())
//	window.NotifyOutputChanged()
//	for _, line := range window.GetImage() {
//	    // render line, a []termcore.Cell
//	}
//
// # Architecture
//
//   - [Emulation]: decodes the ANSI/VT100/VT102/xterm escape grammar (via
//     go-ansicode) plus a VT52 fallback, and dispatches to a Screen.
//   - [Screen]: the character grid, cursor, rendition state, scroll
//     margins, tab stops and selection for one buffer (primary or
//     alternate).
//   - [HistoryStore]: scrollback storage, backing the primary Screen only.
//   - [ScreenWindow]: a non-owning viewport onto a Screen that copies out
//     fixed-size frames, decoupling rendering from mutation.
//
// # Dual Screens
//
// An Emulation owns two Screens:
//
//   - primary: normal mode, with whatever [HistoryStore] was configured
//   - alternate: used by full-screen apps (vim, less, htop), never has
//     scrollback
//
// Applications switch between them via CSI ?1049h/l. Check which is active
// with [Emulation.IsAlternateScreen].
//
// # Cells and Rendition
//
// Each [Cell] stores a code point with foreground/background [Color] and a
// [Rendition] bitset (bold, underline, blink, reverse, plus a handful of
// attributes Konsole's own format carries beyond the minimal six). Code
// points outside the basic multilingual plane, and combining sequences,
// are stored via a hash into an [ExtendedCharTable] shared across both
// Screens of one Emulation.
//
// # Scrollback
//
// Lines scrolled off the top of the primary Screen are handed to whatever
// [HistoryStore] the Emulation was constructed with: [NoneHistory] (no
// retention), [BoundedHistory] (fixed line cap, in memory), or
// [FileHistory] (unbounded, stored in temp files).
//
// # Providers
//
// Everything an Emulation reports to its host is expressed as a narrow
// interface, each with a no-op default:
//
//   - [ByteSink]: receives bytes destined for the child (replies, mouse
//     reports)
//   - [BellProvider]: BEL handling
//   - [SessionAttributeListener]: title, working directory, default-color
//     and ZModem-detected callbacks
//   - [RefreshListener]: the coalesced updateViews event
//
// # Refresh Contract
//
// Emulation batches repaint notifications rather than firing one per
// character: an incoming block restarts a short deadline and, on the
// first block of a burst, arms a longer one that is never restarted.
// Whichever elapses first triggers a single call to
// [RefreshListener.UpdateViews]. Both deadlines are checked from
// [Emulation.Write] and [Emulation.Poll] — the core never spawns a timer
// goroutine of its own.
package termcore
