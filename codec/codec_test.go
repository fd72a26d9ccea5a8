package codec

import (
	"bytes"
	"errors"
	"testing"
)

func TestScalarRoundTrip(t *testing.T) {
	var w Writer
	w.WriteU8(0x81)
	w.WriteU16(0x4281)
	if err := w.WriteU24(0x182442); err != nil {
		t.Fatalf("write u24: %v", err)
	}
	w.WriteU32(0x18244281)
	w.WriteU64(0x1122334455667788)
	w.WriteF32(12.3)
	w.WriteBool(true)
	w.WriteBool(false)

	c := NewCursor(w.Bytes())
	if v, err := c.ReadU8(); err != nil || v != 0x81 {
		t.Fatalf("u8: got %#x, %v", v, err)
	}
	if v, err := c.ReadU16(); err != nil || v != 0x4281 {
		t.Fatalf("u16: got %#x, %v", v, err)
	}
	if v, err := c.ReadU24(); err != nil || v != 0x182442 {
		t.Fatalf("u24: got %#x, %v", v, err)
	}
	if v, err := c.ReadU32(); err != nil || v != 0x18244281 {
		t.Fatalf("u32: got %#x, %v", v, err)
	}
	if v, err := c.ReadU64(); err != nil || v != 0x1122334455667788 {
		t.Fatalf("u64: got %#x, %v", v, err)
	}
	if v, err := c.ReadF32(); err != nil || v != 12.3 {
		t.Fatalf("f32: got %v, %v", v, err)
	}
	if v, err := c.ReadBool(); err != nil || !v {
		t.Fatalf("bool true: got %v, %v", v, err)
	}
	if v, err := c.ReadBool(); err != nil || v {
		t.Fatalf("bool false: got %v, %v", v, err)
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected cursor drained, %d bytes left", c.Remaining())
	}
}

func TestScalarsAreLittleEndian(t *testing.T) {
	var w Writer
	w.WriteU16(0x4281)
	want := []byte{0x81, 0x42}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("u16 encoding: got %x want %x", w.Bytes(), want)
	}

	w = Writer{}
	if err := w.WriteU24(0x182442); err != nil {
		t.Fatalf("write u24: %v", err)
	}
	want = []byte{0x42, 0x24, 0x18}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("u24 encoding: got %x want %x", w.Bytes(), want)
	}
}

func TestU24RejectsOverflow(t *testing.T) {
	var w Writer
	if err := w.WriteU24(MaxU24 + 1); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}

func TestBoolDecodeInterpretsOnlyLSB(t *testing.T) {
	for _, tc := range []struct {
		raw  byte
		want bool
	}{
		{0, false}, {1, true}, {2, false}, {3, true}, {0xff, true},
	} {
		v, err := NewCursor([]byte{tc.raw}).ReadBool()
		if err != nil {
			t.Fatalf("read bool %#x: %v", tc.raw, err)
		}
		if v != tc.want {
			t.Fatalf("bool from %#x: got %v want %v", tc.raw, v, tc.want)
		}
	}
}

func TestU256RoundTrip(t *testing.T) {
	var v U256
	for i := range v {
		v[i] = byte(i)
	}
	var w Writer
	w.WriteU256(v)
	got, err := NewCursor(w.Bytes()).ReadU256()
	if err != nil {
		t.Fatalf("read u256: %v", err)
	}
	if got != v {
		t.Fatalf("u256 mismatch: got %x want %x", got, v)
	}
}

func TestStr255RoundTrip(t *testing.T) {
	var w Writer
	if err := w.WriteStr255("braiinstest.worker1"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := NewCursor(w.Bytes()).ReadStr255()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "braiinstest.worker1" {
		t.Fatalf("str mismatch: %q", got)
	}
}

func TestStr255EncodeOverLimit(t *testing.T) {
	var w Writer
	err := w.WriteStr255(string(make([]byte, 256)))
	if !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}

func TestStr32DecodeOverMaxLength(t *testing.T) {
	// The 1-byte length prefix can describe payloads longer than the
	// type's maximum; the bound must still be enforced.
	buf := append([]byte{33}, make([]byte, 33)...)
	_, err := NewCursor(buf).ReadStr32()
	if !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}

func TestVarlenDecodeTruncated(t *testing.T) {
	for name, decode := range map[string]func(*Cursor) error{
		"str255": func(c *Cursor) error { _, err := c.ReadStr255(); return err },
		"b32":    func(c *Cursor) error { _, err := c.ReadB32(); return err },
		"b64k":   func(c *Cursor) error { _, err := c.ReadB64K(); return err },
		"b16m":   func(c *Cursor) error { _, err := c.ReadB16M(); return err },
	} {
		// No data at all.
		if err := decode(NewCursor(nil)); !errors.Is(err, ErrTruncated) {
			t.Fatalf("%s empty: expected ErrTruncated, got %v", name, err)
		}
		// Prefix promises more than the buffer holds, whether read as
		// one, two or three length bytes.
		if err := decode(NewCursor([]byte{5, 0, 42})); !errors.Is(err, ErrTruncated) {
			t.Fatalf("%s short: expected ErrTruncated, got %v", name, err)
		}
	}
}

func TestB31RejectsThirtyTwoBytes(t *testing.T) {
	var w Writer
	if err := w.WriteB31(make([]byte, 32)); !errors.Is(err, ErrTooLong) {
		t.Fatalf("encode: expected ErrTooLong, got %v", err)
	}
	buf := append([]byte{32}, make([]byte, 32)...)
	if _, err := NewCursor(buf).ReadB31(); !errors.Is(err, ErrTooLong) {
		t.Fatalf("decode: expected ErrTooLong, got %v", err)
	}
}

func TestB64KRoundTripEmpty(t *testing.T) {
	var w Writer
	if err := w.WriteB64K(nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := NewCursor(w.Bytes()).ReadB64K()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %x", got)
	}
}

func TestSeq64KRoundTrip(t *testing.T) {
	ids := []uint32{1, 2, 0xdeadbeef}
	var w Writer
	err := WriteSeq64K(&w, ids, func(w *Writer, v uint32) error {
		w.WriteU32(v)
		return nil
	})
	if err != nil {
		t.Fatalf("write seq: %v", err)
	}
	got, err := ReadSeq64K(NewCursor(w.Bytes()), (*Cursor).ReadU32)
	if err != nil {
		t.Fatalf("read seq: %v", err)
	}
	if len(got) != len(ids) {
		t.Fatalf("length mismatch: %d", len(got))
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Fatalf("item %d: got %d want %d", i, got[i], ids[i])
		}
	}
}

func TestSeq255LyingCountIsTruncated(t *testing.T) {
	// Count prefix promises 200 U256 items with 3 bytes of input.
	_, err := ReadSeq255(NewCursor([]byte{200, 1, 2, 3}), (*Cursor).ReadU256)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestCursorNeverReadsPastSlice(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	if _, err := c.Next(2); err != nil {
		t.Fatalf("next 2: %v", err)
	}
	if _, err := c.Next(2); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	// A failed read must not advance the position.
	b, err := c.Next(1)
	if err != nil || b[0] != 3 {
		t.Fatalf("next 1 after failure: got %v, %v", b, err)
	}
}
