package noise

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/lodepool/sv2core/codec"
)

// SignatureNoiseMessageLen is the exact wire size of a
// SignatureNoiseMessage: u16 version, two u32 timestamps, a 64 byte
// signature.
const SignatureNoiseMessageLen = 2 + 4 + 4 + ed25519.SignatureSize

var errBadValidity = errors.New("noise: valid_from must precede not_valid_after")

// SignedCertificate binds a responder's static Noise key to a validity
// window. Its serialization is what the authority signs.
type SignedCertificate struct {
	Version       uint16
	ValidFrom     uint32
	NotValidAfter uint32
	PublicKey     [32]byte
}

// NewSignedCertificate rejects an empty or inverted validity window.
func NewSignedCertificate(version uint16, validFrom, notValidAfter uint32, pub [32]byte) (*SignedCertificate, error) {
	if validFrom >= notValidAfter {
		return nil, errBadValidity
	}
	return &SignedCertificate{
		Version:       version,
		ValidFrom:     validFrom,
		NotValidAfter: notValidAfter,
		PublicKey:     pub,
	}, nil
}

// signingBytes is the byte string the authority signs: version, window,
// then the raw static key.
func (c *SignedCertificate) signingBytes() []byte {
	var w codec.Writer
	w.WriteU16(c.Version)
	w.WriteU32(c.ValidFrom)
	w.WriteU32(c.NotValidAfter)
	w.WriteU256(codec.U256(c.PublicKey))
	return w.Bytes()
}

// AuthoritySign produces the SignatureNoiseMessage a responder sends in
// its handshake payload, signed with the authority's ed25519 key.
func AuthoritySign(cert *SignedCertificate, authority ed25519.PrivateKey) (*SignatureNoiseMessage, error) {
	if len(authority) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: authority key is %d bytes", ErrBadKeyEncoding, len(authority))
	}
	m := &SignatureNoiseMessage{
		Version:       cert.Version,
		ValidFrom:     cert.ValidFrom,
		NotValidAfter: cert.NotValidAfter,
	}
	copy(m.Signature[:], ed25519.Sign(authority, cert.signingBytes()))
	return m, nil
}

// SignatureNoiseMessage is the certificate material carried in the
// responder's handshake payload. The static key itself is not repeated;
// the initiator already learned it from the handshake.
type SignatureNoiseMessage struct {
	Version       uint16
	ValidFrom     uint32
	NotValidAfter uint32
	Signature     [ed25519.SignatureSize]byte
}

// Marshal encodes the message into its fixed wire form.
func (m *SignatureNoiseMessage) Marshal() []byte {
	var w codec.Writer
	w.WriteU16(m.Version)
	w.WriteU32(m.ValidFrom)
	w.WriteU32(m.NotValidAfter)
	w.WriteRaw(m.Signature[:])
	return w.Bytes()
}

// UnmarshalSignatureNoiseMessage decodes the fixed wire form, rejecting
// short input and trailing bytes.
func UnmarshalSignatureNoiseMessage(b []byte) (*SignatureNoiseMessage, error) {
	if len(b) != SignatureNoiseMessageLen {
		return nil, fmt.Errorf("%w: signature message is %d bytes, want %d",
			ErrAuthenticationFailed, len(b), SignatureNoiseMessageLen)
	}
	c := codec.NewCursor(b)
	var m SignatureNoiseMessage
	var err error
	if m.Version, err = c.ReadU16(); err != nil {
		return nil, err
	}
	if m.ValidFrom, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if m.NotValidAfter, err = c.ReadU32(); err != nil {
		return nil, err
	}
	sig, err := c.Next(ed25519.SignatureSize)
	if err != nil {
		return nil, err
	}
	copy(m.Signature[:], sig)
	return &m, nil
}

// CertificateFormat is the initiator's reconstruction of the certificate:
// the authority it trusts, the static key the handshake produced, and the
// signature message the responder sent.
type CertificateFormat struct {
	Authority ed25519.PublicKey
	StaticKey [32]byte
	Message   *SignatureNoiseMessage
}

// Verify checks the validity window against now and the authority
// signature against the reconstructed certificate. It fails closed: any
// defect is ErrAuthenticationFailed.
func (c CertificateFormat) Verify(now time.Time) error {
	if len(c.Authority) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: authority key is %d bytes", ErrAuthenticationFailed, len(c.Authority))
	}
	if c.Message == nil {
		return fmt.Errorf("%w: no signature message", ErrAuthenticationFailed)
	}
	ts := now.Unix()
	if ts < 0 || ts < int64(c.Message.ValidFrom) {
		return fmt.Errorf("%w: certificate not yet valid", ErrAuthenticationFailed)
	}
	if ts >= int64(c.Message.NotValidAfter) {
		return fmt.Errorf("%w: certificate expired", ErrAuthenticationFailed)
	}
	cert := SignedCertificate{
		Version:       c.Message.Version,
		ValidFrom:     c.Message.ValidFrom,
		NotValidAfter: c.Message.NotValidAfter,
		PublicKey:     c.StaticKey,
	}
	if !ed25519.Verify(c.Authority, cert.signingBytes(), c.Message.Signature[:]) {
		return fmt.Errorf("%w: signature does not verify", ErrAuthenticationFailed)
	}
	return nil
}
