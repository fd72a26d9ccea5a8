package codec

// Maximum lengths of the variable-length wire types.
const (
	MaxStr32  = 32
	MaxStr255 = 255
	MaxB31    = 31
	MaxB32    = 32
	MaxB255   = 255
	MaxB64K   = 1<<16 - 1
	MaxB16M   = MaxU24
)

// WriteStr255 writes a 1-byte length prefix followed by up to 255 bytes
// of UTF-8 data.
func (w *Writer) WriteStr255(s string) error {
	return w.writeBytes8(MaxStr255, []byte(s))
}

// WriteStr32 writes a 1-byte length prefix followed by up to 32 bytes
// of UTF-8 data.
func (w *Writer) WriteStr32(s string) error {
	return w.writeBytes8(MaxStr32, []byte(s))
}

func (w *Writer) WriteB31(b []byte) error  { return w.writeBytes8(MaxB31, b) }
func (w *Writer) WriteB32(b []byte) error  { return w.writeBytes8(MaxB32, b) }
func (w *Writer) WriteB255(b []byte) error { return w.writeBytes8(MaxB255, b) }

// WriteB64K writes a 2-byte length prefix followed by up to 65535 bytes.
func (w *Writer) WriteB64K(b []byte) error {
	if len(b) > MaxB64K {
		return ErrTooLong
	}
	w.WriteU16(uint16(len(b)))
	w.buf = append(w.buf, b...)
	return nil
}

// WriteB16M writes a U24 length prefix followed by up to 2^24-1 bytes.
func (w *Writer) WriteB16M(b []byte) error {
	if err := w.WriteU24(uint32(len(b))); err != nil {
		return err
	}
	w.buf = append(w.buf, b...)
	return nil
}

func (w *Writer) writeBytes8(max int, b []byte) error {
	if len(b) > max {
		return ErrTooLong
	}
	w.WriteU8(uint8(len(b)))
	w.buf = append(w.buf, b...)
	return nil
}

// ReadStr255 reads a 1-byte length prefix and that many bytes of UTF-8.
func (c *Cursor) ReadStr255() (string, error) {
	b, err := c.readBytes8(MaxStr255)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadStr32 reads a 1-byte length prefix bounded at 32 bytes.
func (c *Cursor) ReadStr32() (string, error) {
	b, err := c.readBytes8(MaxStr32)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Cursor) ReadB31() ([]byte, error)  { return c.readBytes8(MaxB31) }
func (c *Cursor) ReadB32() ([]byte, error)  { return c.readBytes8(MaxB32) }
func (c *Cursor) ReadB255() ([]byte, error) { return c.readBytes8(MaxB255) }

// ReadB64K reads a 2-byte length prefix and that many bytes.
func (c *Cursor) ReadB64K() ([]byte, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return c.cloneNext(int(n))
}

// ReadB16M reads a U24 length prefix and that many bytes.
func (c *Cursor) ReadB16M() ([]byte, error) {
	n, err := c.ReadU24()
	if err != nil {
		return nil, err
	}
	return c.cloneNext(int(n))
}

// readBytes8 reads a 1-byte length prefix bounded at max. A prefix above
// max is ErrTooLong even when enough input remains: the bound is part of
// the type, not of the buffer.
func (c *Cursor) readBytes8(max int) ([]byte, error) {
	n, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	if int(n) > max {
		return nil, ErrTooLong
	}
	return c.cloneNext(int(n))
}

func (c *Cursor) cloneNext(n int) ([]byte, error) {
	b, err := c.Next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}
