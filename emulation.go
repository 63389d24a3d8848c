package termcore

import (
	"time"

	"github.com/danielgatis/go-ansicode"
	"golang.org/x/text/encoding"
)

// Ensure Emulation implements ansicode.Handler.
var _ ansicode.Handler = (*Emulation)(nil)

const (
	DefaultRows = 24
	DefaultCols = 80

	// defaultBulkTimeoutA/B are the §5 "Refresh contract" defaults: A
	// restarts on every incoming block, B is armed once per burst and never
	// restarted. Whichever elapses first (checked by Poll) fires one
	// UpdateViews. Per §9's open question these are tunable, not load-bearing
	// constants — WithRefreshTimings overrides them.
	defaultBulkTimeoutA = 10 * time.Millisecond
	defaultBulkTimeoutB = 40 * time.Millisecond

	// oscCoalesceWindow collapses rapid-fire attribute changes for the same
	// OSC code to their last value (§4.3 "OSC ... Buffering").
	oscCoalesceWindow = 200 * time.Millisecond
)

var zmodemMarker = []byte{0x18, 'B', '0', '0'}

const (
	vt52EnterSeq = "\x1b[?2l"
	vt52ExitSeq  = "\x1b<"
)

// refreshTimers implements the two-timer refresh contract without spawning
// a thread of its own (§5: "no threads spawned by the core"). The owning
// event loop calls Poll on whatever cadence it likes (e.g. every 5ms); Poll
// is a pure function of wall-clock time and internal deadlines.
type refreshTimers struct {
	timeoutA, timeoutB time.Duration
	deadlineA          time.Time
	deadlineB          time.Time
	armed              bool
}

func (r *refreshTimers) noteInput(now time.Time) {
	r.deadlineA = now.Add(r.timeoutA)
	if !r.armed {
		r.deadlineB = now.Add(r.timeoutB)
		r.armed = true
	}
}

// poll reports whether a refresh is due as of now, disarming itself if so.
func (r *refreshTimers) poll(now time.Time) bool {
	if !r.armed {
		return false
	}
	if !now.Before(r.deadlineA) || !now.Before(r.deadlineB) {
		r.armed = false
		return true
	}
	return false
}

type vt52State int

const (
	vt52Ground vt52State = iota
	vt52Esc
	vt52YRow
	vt52YCol
)

// Emulation is the escape-sequence decoder (§4.3): it owns the primary and
// alternate Screens, the shared extended-character table, and the parser
// state (ansicode.Decoder for the 7-bit ANSI/VT100/VT102/xterm grammar,
// plus a small hand-rolled VT52 fallback ansicode itself does not model).
// Grounded on the teacher's Terminal (same Handler-dispatch shape, same
// construction-by-options pattern) generalized onto the Screen/HistoryStore
// types built for this distillation instead of the teacher's own Buffer.
type Emulation struct {
	primary   *Screen
	alternate *Screen
	active    *Screen
	onAlt     bool

	extended *ExtendedCharTable

	rows, cols int

	ansiMode bool // false once CSI ?2l (DECANM reset) is observed
	vt52St   vt52State
	vt52Row  int

	mouse mouseState

	decoder *ansicode.Decoder

	sink         ByteSink
	bell         BellProvider
	sessionAttrs SessionAttributeListener
	refresh      RefreshListener
	codec        encoding.Encoding

	timers refreshTimers

	zmodemTail []byte

	pendingOSCText map[oscKind]string

	keyboardModeStack []ansicode.KeyboardMode
	hyperlink         *Hyperlink
	palette           map[int]Color
	palette52         map[byte]string

	modifyOtherKeys   ansicode.ModifyOtherKeys
	keypadApplication bool

	titleStack   []string
	currentTitle string

	workingDirURI string

	// pendingOSC and pendingOSCText implement the 200ms coalescing window:
	// Write stamps pendingOSC[kind] with the arrival time of the first
	// update in a burst, and flushOSC emits the latest pendingOSCText[kind]
	// once that deadline passes. now holds the timestamp of the Write call
	// currently in progress, since the synchronous Handler callbacks
	// invoked from inside decoder.Write (SetTitle, SetWorkingDirectory) have
	// no clock parameter of their own to stamp it with.
	pendingOSC map[oscKind]time.Time
	now        time.Time
}

// oscKind distinguishes the two OSC-driven session attributes subject to
// the 200ms coalescing window (§4.3 "OSC ... Buffering"); go-ansicode's
// Handler.SetTitle does not surface which of OSC 0/1/2/30 triggered it, so
// title updates coalesce as a single stream rather than per numeric code.
type oscKind int

const (
	oscTitle oscKind = iota
	oscWorkingDirectory
)

// Hyperlink is the OSC 8 payload attached to subsequently written cells.
type Hyperlink struct {
	ID  string
	URI string
}

// emulationConfig accumulates Option values before the Screens are built;
// some options (WithHistory) need to influence construction rather than
// mutate a field on the finished Emulation.
type emulationConfig struct {
	rows, cols int
	history    HistoryStore
	sink       ByteSink
	bell       BellProvider
	session    SessionAttributeListener
	refresh    RefreshListener
	codec      encoding.Encoding
	timeoutA   time.Duration
	timeoutB   time.Duration
}

// Option configures an Emulation during construction.
type Option func(*emulationConfig)

// WithSize sets initial dimensions. Non-positive values fall back to the
// 24x80 default.
func WithSize(rows, cols int) Option {
	return func(c *emulationConfig) {
		if rows > 0 {
			c.rows = rows
		}
		if cols > 0 {
			c.cols = cols
		}
	}
}

// WithHistory supplies the history store backing the primary screen. The
// alternate screen always uses NoneHistory{} regardless of this option,
// per §3.3.
func WithHistory(h HistoryStore) Option {
	return func(c *emulationConfig) { c.history = h }
}

// WithByteSink sets where Emulation writes bytes destined for the child
// process (replies, mouse reports).
func WithByteSink(sink ByteSink) Option {
	return func(c *emulationConfig) { c.sink = sink }
}

// WithBell sets the bell handler.
func WithBell(p BellProvider) Option {
	return func(c *emulationConfig) { c.bell = p }
}

// WithSessionAttributes sets the §6.3 callback surface.
func WithSessionAttributes(p SessionAttributeListener) Option {
	return func(c *emulationConfig) { c.session = p }
}

// WithRefreshListener sets the receiver of the coalesced updateViews event.
func WithRefreshListener(p RefreshListener) Option {
	return func(c *emulationConfig) { c.refresh = p }
}

// WithCodec selects a legacy 8-bit text codec (e.g. charmap.ISO8859_1)
// applied to incoming bytes before they reach the parser. The zero value
// (nil, the default) means UTF-8, which ansicode.Decoder handles natively
// without a transcoding pass.
func WithCodec(enc encoding.Encoding) Option {
	return func(c *emulationConfig) { c.codec = enc }
}

// WithRefreshTimings overrides the two bulk-refresh thresholds (§5,
// §9 "Exact timing of bulk refresh").
func WithRefreshTimings(a, b time.Duration) Option {
	return func(c *emulationConfig) {
		c.timeoutA, c.timeoutB = a, b
	}
}

// NewEmulation constructs an Emulation with both Screens, wired to the
// given options. Defaults: 24x80, NoneHistory{} (no scrollback retention),
// a discarding ByteSink, no-op Bell/SessionAttributes/RefreshListener, and
// UTF-8 decoding.
func NewEmulation(opts ...Option) *Emulation {
	cfg := emulationConfig{
		rows: DefaultRows, cols: DefaultCols,
		history:  NoneHistory{},
		sink:     NoopByteSink{},
		bell:     NoopBell{},
		session:  NoopSessionAttributes{},
		refresh:  NoopRefreshListener{},
		timeoutA: defaultBulkTimeoutA,
		timeoutB: defaultBulkTimeoutB,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Emulation{
		rows: cfg.rows, cols: cfg.cols,
		ansiMode:     true,
		sink:         cfg.sink,
		bell:         cfg.bell,
		sessionAttrs: cfg.session,
		refresh:      cfg.refresh,
		codec:        cfg.codec,
		palette:        make(map[int]Color),
		pendingOSC:     make(map[oscKind]time.Time),
		pendingOSCText: make(map[oscKind]string),
		timers:       refreshTimers{timeoutA: cfg.timeoutA, timeoutB: cfg.timeoutB},
	}

	e.extended = NewExtendedCharTable()
	e.primary = NewScreen(e.rows, e.cols, cfg.history, e.extended, false)
	e.alternate = NewScreen(e.rows, e.cols, NoneHistory{}, e.extended, true)
	e.active = e.primary
	e.decoder = ansicode.NewDecoder(e)

	return e
}

// ActiveScreen returns the currently displayed Screen: primary, or
// alternate while an alternate-screen application (vim, less, htop) holds
// it via DECSET 1049.
func (e *Emulation) ActiveScreen() *Screen { return e.active }

// PrimaryScreen always returns the primary Screen, regardless of which is
// currently active — used by a host that wants to address scrollback
// directly while an alternate-screen app is running.
func (e *Emulation) PrimaryScreen() *Screen { return e.primary }

// IsAlternateScreen reports whether the alternate screen is active.
func (e *Emulation) IsAlternateScreen() bool { return e.onAlt }

// Resize changes both Screens to rows x cols, matching xterm's behavior of
// resizing whichever screen is not currently visible along with the one
// that is.
func (e *Emulation) Resize(rows, cols int) {
	e.rows, e.cols = rows, cols
	e.primary.Resize(rows, cols)
	e.alternate.Resize(rows, cols)
}
