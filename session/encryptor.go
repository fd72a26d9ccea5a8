// Package session encrypts the post-handshake byte stream. Plaintext is
// cut into segments sealed by the directional cipher states a handshake
// produced; each segment travels as a 2-byte little-endian ciphertext
// length followed by the ciphertext.
package session

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/lodepool/sv2core/frame"
	"github.com/lodepool/sv2core/noise"
)

const (
	// MaxCiphertextSegment is the largest ciphertext the 2-byte length
	// prefix can describe.
	MaxCiphertextSegment = 1<<16 - 1

	// MaxPlaintextSegment leaves room for the AEAD tag inside a segment.
	MaxPlaintextSegment = MaxCiphertextSegment - 16
)

// ErrIncomplete is returned when the buffered ciphertext does not yet hold
// a full segment, or the decrypted bytes do not yet hold a full frame.
// Callers read more and retry.
var ErrIncomplete = errors.New("session: incomplete input")

// Encryptor carries one connection's transport cipher states plus the
// decrypted bytes that have not yet formed a whole frame. It is not safe
// for concurrent use.
type Encryptor struct {
	send    *noise.CipherState
	recv    *noise.CipherState
	pending []byte
}

// NewEncryptor wraps the directional cipher states from a completed
// handshake. send must be the state keyed for this side's outbound traffic.
func NewEncryptor(send, recv *noise.CipherState) *Encryptor {
	return &Encryptor{send: send, recv: recv}
}

// FromHandshake splits hs and wraps the resulting states.
func FromHandshake(hs *noise.HandshakeState) (*Encryptor, error) {
	send, recv, err := hs.Split()
	if err != nil {
		return nil, err
	}
	return NewEncryptor(send, recv), nil
}

// Encrypt seals plaintext into one or more length-prefixed segments,
// appending them to dst. Encrypting nothing still produces one segment so
// the receiver observes the write.
func (e *Encryptor) Encrypt(plaintext, dst []byte) ([]byte, error) {
	for first := true; first || len(plaintext) > 0; first = false {
		n := len(plaintext)
		if n > MaxPlaintextSegment {
			n = MaxPlaintextSegment
		}
		ct, err := e.send.EncryptWithAd(nil, plaintext[:n])
		if err != nil {
			return nil, err
		}
		dst = binary.LittleEndian.AppendUint16(dst, uint16(len(ct)))
		dst = append(dst, ct...)
		plaintext = plaintext[n:]
	}
	return dst, nil
}

// DecryptSegment opens the first complete segment of buf and reports how
// many ciphertext bytes it consumed. ErrIncomplete means feed more bytes;
// nothing is consumed then or on an authentication failure, so the nonce
// counters stay aligned with the peer's.
func (e *Encryptor) DecryptSegment(buf []byte) ([]byte, int, error) {
	if len(buf) < 2 {
		return nil, 0, ErrIncomplete
	}
	ctLen := int(binary.LittleEndian.Uint16(buf))
	if len(buf) < 2+ctLen {
		return nil, 0, ErrIncomplete
	}
	pt, err := e.recv.DecryptWithAd(nil, buf[2:2+ctLen])
	if err != nil {
		return nil, 0, err
	}
	return pt, 2 + ctLen, nil
}

// EncryptFrame marshals f and seals it, appending the segments to dst.
func (e *Encryptor) EncryptFrame(f frame.Frame, dst []byte) ([]byte, error) {
	wire, err := f.Marshal(nil)
	if err != nil {
		return nil, err
	}
	return e.Encrypt(wire, dst)
}

// DecryptFrame opens segments from buf until a whole frame is available and
// returns it with the number of ciphertext bytes consumed. Decrypted bytes
// beyond the frame stay buffered for the next call. The frame's payload is
// a copy and remains valid.
//
// The consumed count must be honored even alongside ErrIncomplete: segments
// opened before the input ran out are held internally, not re-read.
func (e *Encryptor) DecryptFrame(buf []byte) (frame.Frame, int, error) {
	consumed := 0
	for {
		f, n, err := frame.Decode(e.pending)
		if err == nil {
			f.Payload = append([]byte(nil), f.Payload...)
			e.pending = append(e.pending[:0], e.pending[n:]...)
			return f, consumed, nil
		}
		if !errors.Is(err, frame.ErrIncomplete) {
			return frame.Frame{}, consumed, fmt.Errorf("session: %w", err)
		}
		pt, n, err := e.DecryptSegment(buf[consumed:])
		if err != nil {
			if errors.Is(err, ErrIncomplete) {
				return frame.Frame{}, consumed, ErrIncomplete
			}
			return frame.Frame{}, consumed, err
		}
		e.pending = append(e.pending, pt...)
		consumed += n
	}
}

// RekeySend rotates the outbound key per the Noise rekey function. The
// peer must rotate its matching receive key at the same point in the
// stream.
func (e *Encryptor) RekeySend() error { return e.send.Rekey() }

// RekeyRecv rotates the inbound key.
func (e *Encryptor) RekeyRecv() error { return e.recv.Rekey() }
