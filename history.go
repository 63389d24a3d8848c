package termcore

// HistoryErrorHandler is notified when a history backend suffers a resource
// failure (disk write/read error on the file-backed variant). The Screen
// degrades to behaving as if history were disabled for the remainder of the
// session; it never stops accepting writes.
type HistoryErrorHandler interface {
	HistoryError(err error)
}

// NoopHistoryErrorHandler discards all history resource failures.
type NoopHistoryErrorHandler struct{}

func (NoopHistoryErrorHandler) HistoryError(error) {}

// HistoryStore is the common interface to the three interchangeable
// scrollback backends (§3.7): append-only, with random-access read.
// Implementations must tolerate reads interleaved with writes.
type HistoryStore interface {
	// AppendLine stores one line that scrolled off the top of a Screen.
	// wrapped records whether the line's WRAPPED line-property bit was set.
	AppendLine(cells []Cell, wrapped bool)
	// LineCount returns the number of lines currently retrievable.
	LineCount() int
	// LineLength returns the stored length of line i, or 0 if out of range.
	LineLength(i int) int
	// ReadCells copies up to count cells of line i starting at column col
	// into out, returning the number of cells written. Out-of-range i
	// yields 0 cells, never a panic.
	ReadCells(i, col, count int, out []Cell) int
	// IsWrapped reports whether line i continues onto the next screen row.
	IsWrapped(i int) bool
	// Clear discards all stored lines.
	Clear()
	// MaxLines returns the capacity of a bounded store, or 0 for None/File.
	MaxLines() int
	// SetMaxLines changes a bounded store's capacity, trimming the oldest
	// lines if it shrinks. A no-op on the None and File variants.
	SetMaxLines(n int)
	// Dropped returns the running count of lines discarded because the
	// store was at capacity (Bounded only; always 0 otherwise).
	Dropped() int
}

// NoneHistory is the "history disabled" variant: writes are discarded and
// line_count is always 0.
type NoneHistory struct{}

func (NoneHistory) AppendLine([]Cell, bool)                {}
func (NoneHistory) LineCount() int                          { return 0 }
func (NoneHistory) LineLength(int) int                      { return 0 }
func (NoneHistory) ReadCells(int, int, int, []Cell) int      { return 0 }
func (NoneHistory) IsWrapped(int) bool                       { return false }
func (NoneHistory) Clear()                                   {}
func (NoneHistory) MaxLines() int                             { return 0 }
func (NoneHistory) SetMaxLines(int)                           {}
func (NoneHistory) Dropped() int                              { return 0 }

var (
	_ HistoryStore = NoneHistory{}
	_ HistoryStore = (*BoundedHistory)(nil)
	_ HistoryStore = (*FileHistory)(nil)
)

// CopyHistory transfers every line of src into dst in order, oldest first.
// Used when a session switches history backends (e.g. None -> Bounded ->
// File) so existing scrollback content survives the switch, per §4.1.
func CopyHistory(dst, src HistoryStore) {
	n := src.LineCount()
	for i := 0; i < n; i++ {
		length := src.LineLength(i)
		cells := make([]Cell, length)
		if length > 0 {
			src.ReadCells(i, 0, length, cells)
		}
		dst.AppendLine(cells, src.IsWrapped(i))
	}
}
