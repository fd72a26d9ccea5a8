package codec

import "errors"

var (
	// ErrTruncated reports a declared length that exceeds the bytes
	// remaining in the input.
	ErrTruncated = errors.New("codec: truncated data")

	// ErrTooLong reports a value that exceeds its type's maximum length.
	ErrTooLong = errors.New("codec: value exceeds type maximum")
)
