// Package noise implements the Noise_NX_25519_ChaChaPoly_BLAKE2s handshake
// used to encrypt connections, plus the signed-certificate layer that
// authenticates the responder's static key against a known authority.
//
// The initiator knows nothing in advance except the authority's public
// signing key. The responder proves its static Noise key by sending a
// certificate signed by that authority in its handshake payload.
package noise

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
)

// Lengths of the two handshake messages, excluding the message B payload.
const (
	// MessageALen is the size of the initiator's first message: one
	// X25519 public key and an unencrypted empty payload.
	MessageALen = 32

	// MessageBPrefixLen is the fixed part of the responder's reply: one
	// X25519 public key and the encrypted static key. The encrypted
	// payload follows.
	MessageBPrefixLen = 32 + 32 + macLen
)

// MessageBLen gives the size of message B for a payload of payloadLen
// plaintext bytes, so a reader with out-of-band knowledge of the payload
// can read the exact amount.
func MessageBLen(payloadLen int) int {
	return MessageBPrefixLen + payloadLen + macLen
}

// Keypair is an X25519 key pair used for ephemeral or static Noise keys.
type Keypair struct {
	Private [32]byte
	Public  [32]byte
}

// GenerateKeypair draws a fresh X25519 key pair from rng, defaulting to
// crypto/rand when rng is nil.
func GenerateKeypair(rng io.Reader) (Keypair, error) {
	if rng == nil {
		rng = rand.Reader
	}
	var kp Keypair
	if _, err := io.ReadFull(rng, kp.Private[:]); err != nil {
		return Keypair{}, err
	}
	pub, err := curve25519.X25519(kp.Private[:], curve25519.Basepoint)
	if err != nil {
		return Keypair{}, err
	}
	copy(kp.Public[:], pub)
	return kp, nil
}

// PublicFromPrivate derives the X25519 public key for a stored private key.
func PublicFromPrivate(priv [32]byte) ([32]byte, error) {
	var out [32]byte
	pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBadKeyEncoding, err)
	}
	copy(out[:], pub)
	return out, nil
}

type stage uint8

const (
	stageWriteA stage = iota
	stageReadA
	stageWriteB
	stageReadB
	stageSplit
	stageDone
)

// HandshakeState runs one side of the NX handshake. Methods must be called
// in the pattern's order for the chosen role; anything else fails with
// ErrUnexpectedHandshakeMessage. After Split the state is spent.
type HandshakeState struct {
	ss        *symmetricState
	e         Keypair
	s         Keypair
	re        [32]byte
	rs        [32]byte
	initiator bool
	stage     stage
}

// NewInitiator prepares the connecting side. rng defaults to crypto/rand.
func NewInitiator(rng io.Reader) (*HandshakeState, error) {
	e, err := GenerateKeypair(rng)
	if err != nil {
		return nil, err
	}
	hs := &HandshakeState{ss: newSymmetricState(), e: e, initiator: true, stage: stageWriteA}
	hs.ss.mixHash(nil) // empty prologue
	return hs, nil
}

// NewResponder prepares the listening side with its long-lived static key.
// rng defaults to crypto/rand.
func NewResponder(rng io.Reader, static Keypair) (*HandshakeState, error) {
	e, err := GenerateKeypair(rng)
	if err != nil {
		return nil, err
	}
	hs := &HandshakeState{ss: newSymmetricState(), e: e, s: static, stage: stageReadA}
	hs.ss.mixHash(nil) // empty prologue
	return hs, nil
}

// WriteMessageA produces the initiator's first message: the ephemeral
// public key followed by an empty payload.
func (hs *HandshakeState) WriteMessageA() ([]byte, error) {
	if !hs.initiator || hs.stage != stageWriteA {
		return nil, ErrUnexpectedHandshakeMessage
	}
	hs.ss.mixHash(hs.e.Public[:])
	out, err := hs.ss.encryptAndHash(nil)
	if err != nil {
		return nil, err
	}
	hs.stage = stageReadB
	return append(append([]byte(nil), hs.e.Public[:]...), out...), nil
}

// ReadMessageA consumes the initiator's first message on the responder.
func (hs *HandshakeState) ReadMessageA(msg []byte) error {
	if hs.initiator || hs.stage != stageReadA {
		return ErrUnexpectedHandshakeMessage
	}
	if len(msg) != MessageALen {
		return fmt.Errorf("%w: message A is %d bytes, want %d", ErrHandshakeFailed, len(msg), MessageALen)
	}
	var re [32]byte
	copy(re[:], msg[:32])
	hs.ss.mixHash(re[:])
	if _, err := hs.ss.decryptAndHash(msg[32:]); err != nil {
		return err
	}
	hs.re = re
	hs.stage = stageWriteB
	return nil
}

// WriteMessageB produces the responder's reply: its ephemeral key, the
// encrypted static key, and the encrypted payload, typically a
// SignatureNoiseMessage proving the static key.
func (hs *HandshakeState) WriteMessageB(payload []byte) ([]byte, error) {
	if hs.initiator || hs.stage != stageWriteB {
		return nil, ErrUnexpectedHandshakeMessage
	}
	out := append([]byte(nil), hs.e.Public[:]...)
	hs.ss.mixHash(hs.e.Public[:])

	// ee
	if err := hs.mixDH(hs.e.Private, hs.re); err != nil {
		return nil, err
	}
	encS, err := hs.ss.encryptAndHash(hs.s.Public[:])
	if err != nil {
		return nil, err
	}
	out = append(out, encS...)

	// es (the responder's static against the initiator's ephemeral)
	if err := hs.mixDH(hs.s.Private, hs.re); err != nil {
		return nil, err
	}
	encPayload, err := hs.ss.encryptAndHash(payload)
	if err != nil {
		return nil, err
	}
	hs.stage = stageSplit
	return append(out, encPayload...), nil
}

// ReadMessageB consumes the responder's reply on the initiator, returning
// the decrypted payload. The remote static key is available through
// RemoteStatic afterwards.
func (hs *HandshakeState) ReadMessageB(msg []byte) ([]byte, error) {
	if !hs.initiator || hs.stage != stageReadB {
		return nil, ErrUnexpectedHandshakeMessage
	}
	if len(msg) < MessageBPrefixLen+macLen {
		return nil, fmt.Errorf("%w: message B is %d bytes, want at least %d",
			ErrHandshakeFailed, len(msg), MessageBPrefixLen+macLen)
	}
	var re [32]byte
	copy(re[:], msg[:32])
	hs.ss.mixHash(re[:])
	hs.re = re

	// ee
	if err := hs.mixDH(hs.e.Private, re); err != nil {
		return nil, err
	}
	rs, err := hs.ss.decryptAndHash(msg[32 : 32+32+macLen])
	if err != nil {
		return nil, fmt.Errorf("%w: static key: %v", ErrHandshakeFailed, err)
	}
	copy(hs.rs[:], rs)

	// es
	if err := hs.mixDH(hs.e.Private, hs.rs); err != nil {
		return nil, err
	}
	payload, err := hs.ss.decryptAndHash(msg[32+32+macLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrHandshakeFailed, err)
	}
	hs.stage = stageSplit
	return payload, nil
}

// Split derives the transport cipher states and consumes the handshake.
// send encrypts this side's traffic, recv decrypts the peer's.
func (hs *HandshakeState) Split() (send, recv *CipherState, err error) {
	if hs.stage != stageSplit {
		return nil, nil, ErrUnexpectedHandshakeMessage
	}
	c1, c2, err := hs.ss.split()
	if err != nil {
		return nil, nil, err
	}
	hs.stage = stageDone
	if hs.initiator {
		return c1, c2, nil
	}
	return c2, c1, nil
}

// RemoteStatic returns the peer's static key learned during the handshake.
// Only the initiator learns one in this pattern.
func (hs *HandshakeState) RemoteStatic() [32]byte { return hs.rs }

// HandshakeHash returns the transcript hash, which both sides share once
// the handshake completes.
func (hs *HandshakeState) HandshakeHash() [32]byte { return hs.ss.h }

func (hs *HandshakeState) mixDH(priv, pub [32]byte) error {
	shared, err := curve25519.X25519(priv[:], pub[:])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}
	return hs.ss.mixKey(shared)
}
