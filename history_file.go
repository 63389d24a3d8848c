package termcore

import (
	"encoding/binary"
	"os"
)

// mmapThreshold is the number of consecutive reads without an intervening
// write after which FileHistory switches its cells blob to a fully
// buffered read path, mirroring Konsole's HistoryFile memory-mapping
// itself once the read/write balance is heavily read-dominated. Konsole
// mmaps the raw file; this package has no mmap-capable dependency in its
// corpus, so the equivalent here is slurping the blob into an in-process
// buffer and serving reads from it until the next write invalidates it —
// same amortized-cost shape (one bulk read instead of many small ones),
// portable, no platform-specific syscalls.
const mmapThreshold = 1000

// cellRecord is the fixed-width on-disk encoding of one Cell.
const cellRecordSize = 2 + 4 + 4 + 2 + 1 // codepoint, fg, bg, rendition, real

func encodeCell(buf []byte, c Cell) {
	binary.LittleEndian.PutUint16(buf[0:2], c.CodePoint)
	binary.LittleEndian.PutUint32(buf[2:6], uint32(c.Fg.Space)<<24|c.Fg.Value&0x00FFFFFF)
	binary.LittleEndian.PutUint32(buf[6:10], uint32(c.Bg.Space)<<24|c.Bg.Value&0x00FFFFFF)
	binary.LittleEndian.PutUint16(buf[10:12], uint16(c.Rendition))
	if c.Real {
		buf[12] = 1
	} else {
		buf[12] = 0
	}
}

func decodeCell(buf []byte) Cell {
	fgWord := binary.LittleEndian.Uint32(buf[2:6])
	bgWord := binary.LittleEndian.Uint32(buf[6:10])
	return Cell{
		CodePoint: binary.LittleEndian.Uint16(buf[0:2]),
		Fg:        Color{Space: ColorSpace(fgWord >> 24), Value: fgWord & 0x00FFFFFF},
		Bg:        Color{Space: ColorSpace(bgWord >> 24), Value: bgWord & 0x00FFFFFF},
		Rendition: Rendition(binary.LittleEndian.Uint16(buf[10:12])),
		Real:      buf[12] != 0,
	}
}

// FileHistory is the unbounded, file-backed history variant: three
// append-only blobs — an index of line start offsets into the cells blob,
// the cells blob itself, and a one-byte-per-line flags blob (currently just
// the WRAPPED bit) — grounded directly on Konsole's HistoryScrollFile and
// its three HistoryFile members (_index, _cells, _lineflags).
type FileHistory struct {
	index     *os.File // one int64 offset per line, plus a trailing sentinel
	cells     *os.File
	lineflags *os.File

	lineCount int
	cellsLen  int64 // current length of the cells blob

	// Read/write balance tracking for the mmap-equivalent threshold.
	readsSinceWrite int
	cache           []byte // non-nil once the read-dominated cache is active

	errHandler HistoryErrorHandler
	degraded   bool
}

const lineFlagWrapped = 1 << 0

// NewFileHistory creates a file-backed history store using temp files as
// its three blobs. errHandler receives resource failures; pass
// NoopHistoryErrorHandler{} if the host has no use for them.
func NewFileHistory(errHandler HistoryErrorHandler) (*FileHistory, error) {
	if errHandler == nil {
		errHandler = NoopHistoryErrorHandler{}
	}
	index, err := os.CreateTemp("", "termcore-history-index-*")
	if err != nil {
		return nil, err
	}
	cells, err := os.CreateTemp("", "termcore-history-cells-*")
	if err != nil {
		index.Close()
		os.Remove(index.Name())
		return nil, err
	}
	lineflags, err := os.CreateTemp("", "termcore-history-flags-*")
	if err != nil {
		index.Close()
		os.Remove(index.Name())
		cells.Close()
		os.Remove(cells.Name())
		return nil, err
	}

	h := &FileHistory{index: index, cells: cells, lineflags: lineflags, errHandler: errHandler}
	// Seed the index with a single offset-0 sentinel so LineLength(i) can
	// always compute a line's length as index[i+1]-index[i].
	if err := h.writeIndexEntry(0); err != nil {
		h.fail(err)
	}
	return h, nil
}

func (h *FileHistory) writeIndexEntry(offset int64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(offset))
	_, err := h.index.Write(buf[:])
	return err
}

func (h *FileHistory) fail(err error) {
	h.degraded = true
	h.errHandler.HistoryError(err)
}

func (h *FileHistory) invalidateCache() {
	h.cache = nil
	h.readsSinceWrite = 0
}

func (h *FileHistory) AppendLine(cellsIn []Cell, wrapped bool) {
	if h.degraded {
		return
	}
	buf := make([]byte, len(cellsIn)*cellRecordSize)
	for i, c := range cellsIn {
		encodeCell(buf[i*cellRecordSize:(i+1)*cellRecordSize], c)
	}
	if _, err := h.cells.Write(buf); err != nil {
		h.fail(err)
		return
	}
	h.cellsLen += int64(len(buf))

	if err := h.writeIndexEntry(h.cellsLen); err != nil {
		h.fail(err)
		return
	}

	flag := byte(0)
	if wrapped {
		flag = lineFlagWrapped
	}
	if _, err := h.lineflags.Write([]byte{flag}); err != nil {
		h.fail(err)
		return
	}

	h.lineCount++
	h.invalidateCache()
}

// lineBounds reads the [start,end) byte range of line i from the index
// blob. A corrupt index entry (offset beyond the current cells length) is
// tolerated by treating the line as empty, per §4.1's failure semantics.
func (h *FileHistory) lineBounds(i int) (start, end int64, ok bool) {
	if i < 0 || i >= h.lineCount {
		return 0, 0, false
	}
	var buf [16]byte
	if _, err := h.index.ReadAt(buf[:], int64(i)*8); err != nil {
		h.fail(err)
		return 0, 0, false
	}
	start = int64(binary.LittleEndian.Uint64(buf[0:8]))
	end = int64(binary.LittleEndian.Uint64(buf[8:16]))
	if start > h.cellsLen || end > h.cellsLen || start > end {
		return 0, 0, false
	}
	return start, end, true
}

func (h *FileHistory) LineCount() int { return h.lineCount }

func (h *FileHistory) LineLength(i int) int {
	start, end, ok := h.lineBounds(i)
	if !ok {
		return 0
	}
	return int((end - start) / cellRecordSize)
}

func (h *FileHistory) readCellsRange(start int64, buf []byte) bool {
	h.readsSinceWrite++
	if h.readsSinceWrite >= mmapThreshold && h.cache == nil {
		data := make([]byte, h.cellsLen)
		if _, err := h.cells.ReadAt(data, 0); err != nil {
			h.fail(err)
			return false
		}
		h.cache = data
	}
	if h.cache != nil {
		copy(buf, h.cache[start:start+int64(len(buf))])
		return true
	}
	if _, err := h.cells.ReadAt(buf, start); err != nil {
		h.fail(err)
		return false
	}
	return true
}

func (h *FileHistory) ReadCells(i, col, count int, out []Cell) int {
	start, end, ok := h.lineBounds(i)
	if !ok {
		return 0
	}
	lineLen := int((end - start) / cellRecordSize)
	n := count
	if col+n > lineLen {
		n = lineLen - col
	}
	if n <= 0 || len(out) == 0 {
		return 0
	}
	if n > len(out) {
		n = len(out)
	}

	buf := make([]byte, n*cellRecordSize)
	if !h.readCellsRange(start+int64(col)*cellRecordSize, buf) {
		return 0
	}
	for k := 0; k < n; k++ {
		out[k] = decodeCell(buf[k*cellRecordSize : (k+1)*cellRecordSize])
	}
	return n
}

func (h *FileHistory) IsWrapped(i int) bool {
	if i < 0 || i >= h.lineCount {
		return false
	}
	var buf [1]byte
	if _, err := h.lineflags.ReadAt(buf[:], int64(i)); err != nil {
		h.fail(err)
		return false
	}
	return buf[0]&lineFlagWrapped != 0
}

func (h *FileHistory) Clear() {
	h.lineCount = 0
	h.cellsLen = 0
	h.cache = nil
	h.readsSinceWrite = 0
	h.index.Truncate(0)
	h.cells.Truncate(0)
	h.lineflags.Truncate(0)
	h.writeIndexEntry(0)
}

func (h *FileHistory) MaxLines() int   { return 0 }
func (h *FileHistory) SetMaxLines(int) {}
func (h *FileHistory) Dropped() int    { return 0 }

// Close removes the backing temp files. Not part of HistoryStore: callers
// that own a FileHistory directly (rather than through the Screen that
// created it) are responsible for calling it when finished.
func (h *FileHistory) Close() error {
	h.index.Close()
	os.Remove(h.index.Name())
	h.cells.Close()
	os.Remove(h.cells.Name())
	h.lineflags.Close()
	os.Remove(h.lineflags.Name())
	return nil
}
