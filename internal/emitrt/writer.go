package emitrt

import (
	"encoding/binary"
	"math"
)

// Writer accumulates a serialized packet body, the Go analogue of
// `struct data_out` plus the DIO_PUT_* macro family. Generated Put
// call sites are named after the field's wire kind (uint8, sint16,
// ...) exactly as the original's DIO_PUT(dataio_type, ...) expands via
// token pasting to dio_put_<type>.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated serialized bytes.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) PutUint8(v uint8)   { w.buf = append(w.buf, v) }
func (w *Writer) PutSint8(v int8)    { w.PutUint8(uint8(v)) }
func (w *Writer) PutBool(v bool) {
	if v {
		w.PutUint8(1)
	} else {
		w.PutUint8(0)
	}
}

func (w *Writer) PutUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *Writer) PutSint16(v int16) { w.PutUint16(uint16(v)) }

func (w *Writer) PutUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *Writer) PutSint32(v int32) { w.PutUint32(uint32(v)) }

// PutFloat writes v scaled by factor and rounded to an int32, the
// wire representation for fields whose FieldType.FloatFactor is
// non-zero (e.g. a "coord100" kind stores meters*100 as sint32).
func (w *Writer) PutFloat(v float64, factor int) {
	w.PutSint32(int32(math.Round(v * float64(factor))))
}

// PutString writes a NUL-terminated string, the wire shape of the
// original's "string" kind.
func (w *Writer) PutString(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// PutEstring writes an "estring" (escaped string) field. packetgen
// treats estring identically to string on the wire, deferring any
// escaping policy to the collaborator-supplied value.
func (w *Writer) PutEstring(s string) { w.PutString(s) }

// PutMemory writes a fixed-length opaque byte blob with no
// length prefix, mirroring DIO_PUT(memory, ...): the receiver must
// already know the length from the field's declared array size.
func (w *Writer) PutMemory(b []byte) { w.buf = append(w.buf, b...) }

// PutBitvector writes a bitvector's raw bytes.
func (w *Writer) PutBitvector(bv Bitvector) { w.buf = append(w.buf, bv.Bytes()...) }
