package termcore

import "testing"

func lineOfChar(ch rune, n int) []Cell {
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = Cell{CodePoint: uint16(ch), Real: true}
	}
	return cells
}

func TestBoundedHistoryDropsOldest(t *testing.T) {
	h := NewBoundedHistory(4)
	for i := 0; i < 10; i++ {
		h.AppendLine(lineOfChar(rune('a'+i), 3), false)
	}
	if h.LineCount() != 4 {
		t.Fatalf("expected 4 lines retained, got %d", h.LineCount())
	}
	if h.Dropped() != 6 {
		t.Fatalf("expected 6 dropped, got %d", h.Dropped())
	}
	// oldest retained line must equal input line N-K = line 6 ('g')
	out := make([]Cell, 3)
	h.ReadCells(0, 0, 3, out)
	if out[0].CodePoint != uint16('g') {
		t.Fatalf("expected retained oldest line to start with 'g', got %q", rune(out[0].CodePoint))
	}
}

func TestBoundedHistoryFormatRunCompression(t *testing.T) {
	h := NewBoundedHistory(10)
	cells := make([]Cell, 6)
	for i := range cells {
		cells[i] = Cell{CodePoint: uint16('x'), Real: true}
		if i >= 3 {
			cells[i].Rendition = RenditionBold
		}
	}
	h.AppendLine(cells, false)
	if got := len(h.lines[0].runs); got != 2 {
		t.Fatalf("expected 2 format runs, got %d", got)
	}
	out := make([]Cell, 6)
	h.ReadCells(0, 0, 6, out)
	for i, c := range out {
		wantBold := i >= 3
		if c.HasRendition(RenditionBold) != wantBold {
			t.Errorf("cell %d: bold=%v want %v", i, c.HasRendition(RenditionBold), wantBold)
		}
	}
}

func TestHistorySwitchPreservesContent(t *testing.T) {
	var none HistoryStore = NoneHistory{}
	bounded := NewBoundedHistory(100)
	CopyHistory(bounded, none) // no-op, none is empty

	bounded.AppendLine(lineOfChar('1', 2), false)
	bounded.AppendLine(lineOfChar('2', 2), true)

	fileHist, err := NewFileHistory(NoopHistoryErrorHandler{})
	if err != nil {
		t.Fatalf("NewFileHistory: %v", err)
	}
	defer fileHist.Close()

	CopyHistory(fileHist, bounded)

	if fileHist.LineCount() != bounded.LineCount() {
		t.Fatalf("line count mismatch: got %d want %d", fileHist.LineCount(), bounded.LineCount())
	}
	out := make([]Cell, 2)
	fileHist.ReadCells(1, 0, 2, out)
	if out[0].CodePoint != uint16('2') {
		t.Errorf("expected second line preserved, got %q", rune(out[0].CodePoint))
	}
	if !fileHist.IsWrapped(1) {
		t.Error("expected wrapped flag preserved across switch")
	}
}

func TestFileHistoryMmapThresholdConsistency(t *testing.T) {
	h, err := NewFileHistory(NoopHistoryErrorHandler{})
	if err != nil {
		t.Fatalf("NewFileHistory: %v", err)
	}
	defer h.Close()

	for i := 0; i < 5; i++ {
		h.AppendLine(lineOfChar(rune('a'+i), 4), false)
	}

	before := make([]Cell, 4)
	h.ReadCells(2, 0, 4, before)

	// Cross the mmap-equivalent threshold purely with reads.
	for i := 0; i < mmapThreshold+5; i++ {
		out := make([]Cell, 4)
		h.ReadCells(2, 0, 4, out)
	}

	after := make([]Cell, 4)
	h.ReadCells(2, 0, 4, after)

	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("cell %d changed across mmap threshold: before=%+v after=%+v", i, before[i], after[i])
		}
	}

	// A write after caching must invalidate the cache and stay consistent.
	h.AppendLine(lineOfChar('z', 4), false)
	out := make([]Cell, 4)
	h.ReadCells(2, 0, 4, out)
	if out[0] != after[0] {
		t.Fatalf("line 2 content changed after unrelated append")
	}
}

func TestFileHistoryCorruptIndexToleratesAsEmpty(t *testing.T) {
	h, err := NewFileHistory(NoopHistoryErrorHandler{})
	if err != nil {
		t.Fatalf("NewFileHistory: %v", err)
	}
	defer h.Close()

	h.AppendLine(lineOfChar('a', 3), false)
	// Corrupt the line count to point past available data.
	h.lineCount = 5
	if got := h.LineLength(4); got != 0 {
		t.Errorf("expected corrupt out-of-range line to read as empty, got length %d", got)
	}
}
