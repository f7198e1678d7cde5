package emitrt

import (
	"reflect"
	"testing"
)

func TestScalarRoundTrip(t *testing.T) {
	w := NewWriter()
	w.PutUint8(200)
	w.PutSint16(-1234)
	w.PutSint32(-99999)
	w.PutBool(true)
	w.PutString("hello")

	r := NewReader(w.Bytes())
	u8, err := r.GetUint8()
	if err != nil || u8 != 200 {
		t.Fatalf("GetUint8: %v, %d", err, u8)
	}
	s16, err := r.GetSint16()
	if err != nil || s16 != -1234 {
		t.Fatalf("GetSint16: %v, %d", err, s16)
	}
	s32, err := r.GetSint32()
	if err != nil || s32 != -99999 {
		t.Fatalf("GetSint32: %v, %d", err, s32)
	}
	b, err := r.GetBool()
	if err != nil || !b {
		t.Fatalf("GetBool: %v, %v", err, b)
	}
	s, err := r.GetString()
	if err != nil || s != "hello" {
		t.Fatalf("GetString: %v, %q", err, s)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected no remaining bytes, got %d", r.Remaining())
	}
}

func TestFloatRoundTrip(t *testing.T) {
	w := NewWriter()
	w.PutFloat(12.34, 100)
	r := NewReader(w.Bytes())
	v, err := r.GetFloat(100)
	if err != nil {
		t.Fatalf("GetFloat: %v", err)
	}
	if v != 12.34 {
		t.Fatalf("expected 12.34, got %v", v)
	}
}

func TestMemoryAndBitvectorRoundTrip(t *testing.T) {
	w := NewWriter()
	blob := []byte{1, 2, 3, 4}
	w.PutMemory(blob)
	bv := NewBitvector(10)
	bv.Set(0)
	bv.Set(9)
	w.PutBitvector(bv)

	r := NewReader(w.Bytes())
	got, err := r.GetMemory(4)
	if err != nil || !reflect.DeepEqual(got, blob) {
		t.Fatalf("GetMemory: %v, %v", err, got)
	}
	gotBv, err := r.GetBitvector(10)
	if err != nil || !gotBv.Equal(bv) {
		t.Fatalf("GetBitvector: %v", err)
	}
}

func TestReaderShortReadError(t *testing.T) {
	r := NewReader([]byte{1})
	if _, err := r.GetUint32(); err == nil {
		t.Fatalf("expected short-read error")
	}
}

func TestReaderUnterminatedString(t *testing.T) {
	r := NewReader([]byte("no-nul"))
	if _, err := r.GetString(); err == nil {
		t.Fatalf("expected unterminated-string error")
	}
}
