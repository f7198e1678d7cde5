package emitrt

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Reader parses a serialized packet body, the Go analogue of
// `struct data_in` plus DIO_GET_*. Every Get method reports an error
// instead of the original's cumulative "has_failed" sticky flag
// (dio_input_error()): generated receive code checks the error
// immediately after each Get and returns an *emitrt.FieldError, per
// spec.md §7's field-level error reporting requirement.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps raw serialized bytes for sequential parsing.
func NewReader(raw []byte) *Reader { return &Reader{buf: raw} }

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return errors.Errorf("short read: need %d bytes at offset %d, have %d", n, r.pos, len(r.buf))
	}
	return nil
}

func (r *Reader) GetUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) GetSint8() (int8, error) {
	v, err := r.GetUint8()
	return int8(v), err
}

func (r *Reader) GetBool() (bool, error) {
	v, err := r.GetUint8()
	return v != 0, err
}

func (r *Reader) GetUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) GetSint16() (int16, error) {
	v, err := r.GetUint16()
	return int16(v), err
}

func (r *Reader) GetUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) GetSint32() (int32, error) {
	v, err := r.GetUint32()
	return int32(v), err
}

// GetFloat reads a scaled sint32 and divides by factor, the inverse
// of Writer.PutFloat.
func (r *Reader) GetFloat(factor int) (float64, error) {
	v, err := r.GetSint32()
	if err != nil {
		return 0, err
	}
	return float64(v) / float64(factor), nil
}

// GetString reads a NUL-terminated string.
func (r *Reader) GetString() (string, error) {
	for i := r.pos; i < len(r.buf); i++ {
		if r.buf[i] == 0 {
			s := string(r.buf[r.pos:i])
			r.pos = i + 1
			return s, nil
		}
	}
	return "", errors.New("unterminated string: missing NUL")
}

// GetEstring mirrors Writer.PutEstring.
func (r *Reader) GetEstring() (string, error) { return r.GetString() }

// GetMemory reads exactly n bytes of opaque data.
func (r *Reader) GetMemory(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := make([]byte, n)
	copy(v, r.buf[r.pos:r.pos+n])
	r.pos += n
	return v, nil
}

// GetBitvector reads a bitvector of the given bit width.
func (r *Reader) GetBitvector(width int) (Bitvector, error) {
	n := (width + 7) / 8
	raw, err := r.GetMemory(n)
	if err != nil {
		return Bitvector{}, err
	}
	return BitvectorFromBytes(raw, width), nil
}

// Remaining reports how many bytes are left unconsumed. Generated
// receive code does not call it.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }
