package codec

import (
	"encoding/binary"
	"math"
)

// MaxU24 is the largest value representable by the 3-byte U24 wire type.
const MaxU24 = 1<<24 - 1

// U256 is a fixed 32-byte value, typically a raw SHA256 output or a
// difficulty target, transmitted verbatim.
type U256 [32]byte

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.Next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU24 reads a 3-byte little-endian unsigned integer.
func (c *Cursor) ReadU24() (uint32, error) {
	b, err := c.Next(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.Next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadBool interprets only the least significant bit; the wire format
// reserves the remaining bits.
func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadU8()
	if err != nil {
		return false, err
	}
	return v&1 == 1, nil
}

func (c *Cursor) ReadU256() (U256, error) {
	var out U256
	b, err := c.Next(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// Writer accumulates the little-endian wire encoding of a message.
// Scalar writes are total; length-prefixed writes fail with ErrTooLong
// when the value exceeds the wire type's maximum.
type Writer struct {
	buf []byte
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteU16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteU24 writes a 3-byte little-endian unsigned integer, failing with
// ErrTooLong for values above MaxU24.
func (w *Writer) WriteU24(v uint32) error {
	if v > MaxU24 {
		return ErrTooLong
	}
	w.buf = append(w.buf, byte(v), byte(v>>8), byte(v>>16))
	return nil
}

func (w *Writer) WriteU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteU64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
		return
	}
	w.WriteU8(0)
}

func (w *Writer) WriteU256(v U256) {
	w.buf = append(w.buf, v[:]...)
}

// WriteRaw appends b verbatim, for fixed-size fields with no length prefix.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}
