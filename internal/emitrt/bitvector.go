package emitrt

// Bitvector is a dense, LSB-first bit array sized to a packet
// variant's field count, exactly as the original's BV_DEFINE /
// BV_SET / BV_ISSET / BV_CLR_ALL macros define it over a byte array.
// Its layout is part of the wire format (spec.md §4.3's bitvector
// comparison/transmission rules), not a policy a collaborator
// supplies, so unlike Conn it is fully implemented here.
type Bitvector struct {
	bits  []byte
	width int
}

// NewBitvector allocates a Bitvector wide enough for width bits, all
// clear — the Go analogue of BV_CLR_ALL applied to a freshly declared
// bitvector.
func NewBitvector(width int) Bitvector {
	return Bitvector{bits: make([]byte, (width+7)/8), width: width}
}

// Set sets bit i (BV_SET).
func (b Bitvector) Set(i int) {
	b.bits[i/8] |= 1 << uint(i%8)
}

// Clear clears bit i (BV_CLR).
func (b Bitvector) Clear(i int) {
	b.bits[i/8] &^= 1 << uint(i%8)
}

// IsSet reports whether bit i is set (BV_ISSET).
func (b Bitvector) IsSet(i int) bool {
	return b.bits[i/8]&(1<<uint(i%8)) != 0
}

// ClearAll zeroes every bit (BV_CLR_ALL).
func (b Bitvector) ClearAll() {
	for i := range b.bits {
		b.bits[i] = 0
	}
}

// Width returns the number of addressable bits.
func (b Bitvector) Width() int { return b.width }

// Bytes returns the underlying byte representation, ceil(width/8)
// long, for handing to Writer.PutBitvector.
func (b Bitvector) Bytes() []byte { return b.bits }

// Equal reports whether two bitvectors of the same width carry
// identical bits (BV_ARE_EQUAL), used by generated code to compare
// the old and new values of a bitvector-kind field.
func (b Bitvector) Equal(other Bitvector) bool {
	if b.width != other.width {
		return false
	}
	for i, v := range b.bits {
		if v != other.bits[i] {
			return false
		}
	}
	return true
}

// BitvectorFromBytes reconstructs a Bitvector of width bits from raw
// bytes read off the wire, the counterpart to Bytes used by
// Reader.GetBitvector.
func BitvectorFromBytes(raw []byte, width int) Bitvector {
	bits := make([]byte, (width+7)/8)
	copy(bits, raw)
	return Bitvector{bits: bits, width: width}
}
