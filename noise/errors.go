package noise

import "errors"

var (
	// ErrHandshakeFailed covers cryptographic failures during the
	// handshake: AEAD tag mismatches, degenerate Diffie-Hellman results,
	// key material of the wrong length.
	ErrHandshakeFailed = errors.New("noise: handshake failed")

	// ErrUnexpectedHandshakeMessage is returned when a state machine
	// method is called outside the one state it is valid in, including
	// any use after Split.
	ErrUnexpectedHandshakeMessage = errors.New("noise: handshake message out of order")

	// ErrAuthenticationFailed is returned when the responder's
	// certificate does not verify: bad authority signature, or a
	// validity window that excludes the current time.
	ErrAuthenticationFailed = errors.New("noise: certificate authentication failed")

	// ErrNonceExhausted is returned when a cipher state reaches the
	// reserved nonce value and must not encrypt again under its key.
	ErrNonceExhausted = errors.New("noise: nonce exhausted")

	// ErrDecryptionFailed is returned by transport-phase decryption when
	// the ciphertext or its tag has been altered.
	ErrDecryptionFailed = errors.New("noise: decryption failed")

	// ErrBadKeyEncoding is returned when a base58 key string does not
	// decode to a key of the expected size.
	ErrBadKeyEncoding = errors.New("noise: bad key encoding")
)
