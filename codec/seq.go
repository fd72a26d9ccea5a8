package codec

// Bounded sequences carry a count prefix followed by that many items.
// SEQ0_255 uses a 1-byte count, SEQ0_64K a 2-byte count.

// WriteSeq255 writes a 1-byte count followed by each item.
func WriteSeq255[T any](w *Writer, items []T, enc func(*Writer, T) error) error {
	if len(items) > MaxB255 {
		return ErrTooLong
	}
	w.WriteU8(uint8(len(items)))
	for _, item := range items {
		if err := enc(w, item); err != nil {
			return err
		}
	}
	return nil
}

// WriteSeq64K writes a 2-byte count followed by each item.
func WriteSeq64K[T any](w *Writer, items []T, enc func(*Writer, T) error) error {
	if len(items) > MaxB64K {
		return ErrTooLong
	}
	w.WriteU16(uint16(len(items)))
	for _, item := range items {
		if err := enc(w, item); err != nil {
			return err
		}
	}
	return nil
}

// ReadSeq255 reads a 1-byte count and decodes that many items.
func ReadSeq255[T any](c *Cursor, dec func(*Cursor) (T, error)) ([]T, error) {
	n, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	return readSeq(c, int(n), dec)
}

// ReadSeq64K reads a 2-byte count and decodes that many items.
func ReadSeq64K[T any](c *Cursor, dec func(*Cursor) (T, error)) ([]T, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return readSeq(c, int(n), dec)
}

func readSeq[T any](c *Cursor, n int, dec func(*Cursor) (T, error)) ([]T, error) {
	// The count alone can promise more items than the input could hold;
	// each item decode still bounds-checks, so a lying prefix surfaces as
	// ErrTruncated without any allocation proportional to the claim.
	items := make([]T, 0, min(n, c.Remaining()))
	for i := 0; i < n; i++ {
		item, err := dec(c)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
