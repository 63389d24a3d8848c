package termcore

import "testing"

func TestExtendedCharTableIdempotentLookup(t *testing.T) {
	tbl := NewExtendedCharTable()
	seq := []rune{'e', '́', '̂'}

	hash := tbl.CreateExtendedChar(seq)
	got := tbl.LookupExtendedChar(hash)

	if len(got) != len(seq) {
		t.Fatalf("expected round-tripped sequence of length %d, got %d", len(seq), len(got))
	}
	for i := range seq {
		if got[i] != seq[i] {
			t.Fatalf("expected %q at index %d, got %q", seq, i, got)
		}
	}
}

func TestExtendedCharTableCreateIsIdempotentForSameSequence(t *testing.T) {
	tbl := NewExtendedCharTable()
	seq := []rune{'a', '̀'}

	first := tbl.CreateExtendedChar(seq)
	second := tbl.CreateExtendedChar(append([]rune(nil), seq...))

	if first != second {
		t.Fatalf("expected interning the same sequence twice to return the same key, got %d and %d", first, second)
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected exactly one interned entry, got %d", tbl.Len())
	}
}

func TestExtendedCharTableDistinctSequencesGetDistinctKeys(t *testing.T) {
	tbl := NewExtendedCharTable()

	k1 := tbl.CreateExtendedChar([]rune{'a', '́'})
	k2 := tbl.CreateExtendedChar([]rune{'b', '́'})

	if k1 == k2 {
		t.Fatal("expected distinct sequences to intern to distinct keys")
	}
	seq1 := tbl.LookupExtendedChar(k1)
	seq2 := tbl.LookupExtendedChar(k2)
	if seq1[0] != 'a' || seq2[0] != 'b' {
		t.Fatalf("expected lookups to keep each sequence's identity, got %q and %q", seq1, seq2)
	}
}

func TestExtendedCharTableLookupMissingHashReturnsNil(t *testing.T) {
	tbl := NewExtendedCharTable()
	if got := tbl.LookupExtendedChar(12345); got != nil {
		t.Fatalf("expected nil for an unknown hash, got %q", got)
	}
}

func TestExtendedCharTableGCRemovesUnreferencedEntries(t *testing.T) {
	tbl := NewExtendedCharTable()
	keep := tbl.CreateExtendedChar([]rune{'x', '́'})
	drop := tbl.CreateExtendedChar([]rune{'y', '́'})

	tbl.GC(map[uint16]struct{}{keep: {}})

	if tbl.LookupExtendedChar(keep) == nil {
		t.Fatal("expected the referenced entry to survive GC")
	}
	if tbl.LookupExtendedChar(drop) != nil {
		t.Fatal("expected the unreferenced entry to be collected")
	}
}
