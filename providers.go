package termcore

// ByteSink is the child PTY's input side (§6.1): Emulation calls SendBlock
// with bytes the child process should receive — key translations, replies
// to device-attribute/cursor-position queries, mouse reports, pastes.
type ByteSink interface {
	SendBlock(data []byte)
}

// NoopByteSink discards everything written to it.
type NoopByteSink struct{}

func (NoopByteSink) SendBlock(data []byte) {}

// BellProvider handles BEL (0x07).
type BellProvider interface {
	Ring()
}

// NoopBell ignores all bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// SessionAttributeListener is the §6.3 callback surface: everything an
// Emulation reports about itself to the outer session, driven by OSC
// sequences and incoming-data patterns. Unrecognised OSC codes never reach
// here — they are discarded at the parser per §4.3 "Unknown sequence policy".
type SessionAttributeListener interface {
	// ChangeTitle is OSC 0 (icon+title), 1 (icon only), 2 (title only) and
	// 30 (tab title); code is meant to identify which, but go-ansicode's
	// Handler.SetTitle (and the teacher's own) doesn't surface the
	// triggering OSC number, so code is always 0 in practice. OSC 32 (icon
	// name) never reaches this callback at all for the same reason.
	ChangeTitle(code int, text string)
	// OpenURLRequest is OSC 31 (working directory change surfaced as a URI).
	OpenURLRequest(path string)
	// ChangeTabTextColor is OSC 10 (default foreground set); colorIndex
	// carries the OSC index.
	ChangeTabTextColor(colorIndex int)
	// ChangeDefaultColor is OSC 11 (default background set); index carries
	// the OSC index and c the new color.
	ChangeDefaultColor(index int, c Color)
	// NotifySessionState reports SessionNormal/SessionBell/SessionActivity;
	// SessionSilence is driven by an idle timer external to the core.
	NotifySessionState(state SessionState)
	// ZmodemDetected fires once when the 0x18 'B' '0' '0' byte sequence is
	// seen in the input stream (§4.3 "Decoding from bytes").
	ZmodemDetected()
}

// SessionState is the notifySessionState() argument (§6.3).
type SessionState int

const (
	SessionNormal SessionState = iota
	SessionBell
	SessionActivity
	SessionSilence
)

// NoopSessionAttributes ignores every session-attribute callback.
type NoopSessionAttributes struct{}

func (NoopSessionAttributes) ChangeTitle(code int, text string)     {}
func (NoopSessionAttributes) OpenURLRequest(path string)             {}
func (NoopSessionAttributes) ChangeTabTextColor(colorIndex int)      {}
func (NoopSessionAttributes) ChangeDefaultColor(index int, c Color)  {}
func (NoopSessionAttributes) NotifySessionState(state SessionState)  {}
func (NoopSessionAttributes) ZmodemDetected()                        {}

// RefreshListener receives the coalesced updateViews event (§5 "Refresh
// contract"): both bulk timeouts funnel into one call here.
type RefreshListener interface {
	UpdateViews()
}

// NoopRefreshListener ignores refresh notifications.
type NoopRefreshListener struct{}

func (NoopRefreshListener) UpdateViews() {}

// KeyTranslator is the opaque external key-to-bytes table referenced by
// §1 "out of scope" and §6.2: the core never interprets key codes itself,
// it only forwards the already-translated bytes produced by this lookup.
type KeyTranslator interface {
	Translate(keyCode int, modifiers int, text string) []byte
}

var (
	_ ByteSink                  = NoopByteSink{}
	_ BellProvider               = NoopBell{}
	_ SessionAttributeListener   = NoopSessionAttributes{}
	_ RefreshListener            = NoopRefreshListener{}
)
