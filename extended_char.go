package termcore

// ExtendedCharTable maps a 16-bit hash key to a sequence of code points,
// for cells whose content cannot fit in a single 16-bit CodePoint: combining
// character sequences and characters outside the BMP. It is owned by one
// Emulation and shared by reference across that Emulation's Screens and
// ScreenWindows — never duplicated, never reached through a pointer graph.
//
// Grounded directly on Konsole's ExtendedCharTable: a fixed-size hash table
// keyed by a polynomial hash of the sequence, collisions resolved by linear
// probing, entries reclaimed by a mark-and-sweep GC pass driven by the
// Screens that still reference them.
type ExtendedCharTable struct {
	entries map[uint16][]rune
	nextGen uint16
}

// NewExtendedCharTable returns an empty table.
func NewExtendedCharTable() *ExtendedCharTable {
	return &ExtendedCharTable{entries: make(map[uint16][]rune)}
}

// extendedCharHash computes the Konsole polynomial hash of a code point
// sequence: hash = 31*hash + point, seeded with the sequence length so that
// sequences of different lengths sharing a prefix hash differently.
func extendedCharHash(seq []rune) uint16 {
	hash := uint16(len(seq))
	for _, r := range seq {
		hash = 31*hash + uint16(r)
	}
	return hash
}

func runeSeqEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CreateExtendedChar interns seq and returns its hash key. If a matching
// sequence is already present, its existing key is returned unchanged
// (idempotent insert). Collisions on the hash advance the key by linear
// probing until either a matching or an empty slot is found.
func (t *ExtendedCharTable) CreateExtendedChar(seq []rune) uint16 {
	hash := extendedCharHash(seq)
	for {
		existing, ok := t.entries[hash]
		if !ok {
			t.entries[hash] = append([]rune(nil), seq...)
			return hash
		}
		if runeSeqEqual(existing, seq) {
			return hash
		}
		hash++
	}
}

// LookupExtendedChar returns the code point sequence for hash, or nil if no
// such entry exists. The returned slice must not be mutated by the caller.
func (t *ExtendedCharTable) LookupExtendedChar(hash uint16) []rune {
	return t.entries[hash]
}

// GC removes every entry whose hash is not present in used. Called on
// Emulation reset and may be called periodically by a host that tracks
// live extended-char references across its Screens itself; the core never
// calls it automatically outside of reset, mirroring Konsole's
// table-is-full trigger rather than a timer.
func (t *ExtendedCharTable) GC(used map[uint16]struct{}) {
	for hash := range t.entries {
		if _, ok := used[hash]; !ok {
			delete(t.entries, hash)
		}
	}
}

// Len reports the number of distinct sequences currently interned.
func (t *ExtendedCharTable) Len() int {
	return len(t.entries)
}
