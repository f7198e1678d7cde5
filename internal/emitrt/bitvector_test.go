package emitrt

import "testing"

func TestBitvectorSetIsSet(t *testing.T) {
	bv := NewBitvector(12)
	bv.Set(0)
	bv.Set(11)
	if !bv.IsSet(0) || !bv.IsSet(11) {
		t.Fatalf("expected bits 0 and 11 set")
	}
	for _, i := range []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10} {
		if bv.IsSet(i) {
			t.Fatalf("bit %d unexpectedly set", i)
		}
	}
}

func TestBitvectorClearAll(t *testing.T) {
	bv := NewBitvector(8)
	bv.Set(3)
	bv.ClearAll()
	if bv.IsSet(3) {
		t.Fatalf("expected bit 3 cleared after ClearAll")
	}
}

func TestBitvectorEqual(t *testing.T) {
	a := NewBitvector(16)
	b := NewBitvector(16)
	a.Set(2)
	b.Set(2)
	if !a.Equal(b) {
		t.Fatalf("expected equal bitvectors")
	}
	b.Set(5)
	if a.Equal(b) {
		t.Fatalf("expected unequal bitvectors after divergent Set")
	}
}

func TestBitvectorRoundTripBytes(t *testing.T) {
	bv := NewBitvector(20)
	bv.Set(0)
	bv.Set(19)
	bv.Set(10)
	rt := BitvectorFromBytes(bv.Bytes(), 20)
	if !bv.Equal(rt) {
		t.Fatalf("round trip through Bytes/BitvectorFromBytes changed value")
	}
}
