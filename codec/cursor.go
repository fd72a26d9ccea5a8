// Package codec implements the Stratum V2 primitive wire types: fixed-width
// little-endian scalars, length-prefixed strings and byte blobs, and bounded
// sequences. Decoding operates over an explicit bounds-checked cursor so that
// truncated input is always a well-typed error, never an out-of-range read.
package codec

// Cursor reads through a byte slice, tracking position and enforcing bounds.
// It never reads past the supplied slice.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of b. The cursor
// aliases b; callers must not mutate b while decoding.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Next consumes and returns the next n bytes, or ErrTruncated if fewer
// remain. The returned slice aliases the cursor's buffer.
func (c *Cursor) Next(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf)-c.pos {
		return nil, ErrTruncated
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Remaining reports how many bytes are left to consume.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}
