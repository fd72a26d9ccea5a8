package noise

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20poly1305"
)

// maxNonce is the reserved nonce value. A cipher state that has counted up
// to it refuses further encryption under the current key.
const maxNonce = ^uint64(0)

// macLen is the ChaCha20-Poly1305 tag size appended to every ciphertext.
const macLen = 16

// CipherState encrypts or decrypts a single direction of a connection with
// ChaCha20-Poly1305 under an incrementing 64-bit nonce. It is not safe for
// concurrent use.
type CipherState struct {
	key    [32]byte
	hasKey bool
	n      uint64
}

func newCipherState(key [32]byte) *CipherState {
	return &CipherState{key: key, hasKey: true}
}

// Nonce reports the next nonce counter value, for diagnostics and tests.
func (cs *CipherState) Nonce() uint64 { return cs.n }

// nonceBytes lays the counter out as the AEAD expects: 4 zero bytes then
// the counter in little-endian.
func nonceBytes(n uint64) []byte {
	var out [chacha20poly1305.NonceSize]byte
	binary.LittleEndian.PutUint64(out[4:], n)
	return out[:]
}

// EncryptWithAd seals plaintext under the next nonce, binding ad, and
// advances the counter. Without a key it returns the plaintext unchanged.
func (cs *CipherState) EncryptWithAd(ad, plaintext []byte) ([]byte, error) {
	if !cs.hasKey {
		return plaintext, nil
	}
	if cs.n == maxNonce {
		return nil, ErrNonceExhausted
	}
	aead, err := chacha20poly1305.New(cs.key[:])
	if err != nil {
		return nil, err
	}
	ct := aead.Seal(nil, nonceBytes(cs.n), plaintext, ad)
	cs.n++
	return ct, nil
}

// DecryptWithAd opens ciphertext under the next nonce, binding ad. The
// counter only advances on success, so a failed read does not desync the
// stream, and no partial plaintext is ever returned.
func (cs *CipherState) DecryptWithAd(ad, ciphertext []byte) ([]byte, error) {
	if !cs.hasKey {
		return ciphertext, nil
	}
	if cs.n == maxNonce {
		return nil, ErrNonceExhausted
	}
	aead, err := chacha20poly1305.New(cs.key[:])
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, nonceBytes(cs.n), ciphertext, ad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	cs.n++
	return pt, nil
}

// Rekey replaces the key with the encryption of 32 zero bytes under the
// reserved nonce, as the Noise REKEY function specifies, and resets the
// counter.
func (cs *CipherState) Rekey() error {
	if !cs.hasKey {
		return ErrHandshakeFailed
	}
	aead, err := chacha20poly1305.New(cs.key[:])
	if err != nil {
		return err
	}
	var zeros [32]byte
	ct := aead.Seal(nil, nonceBytes(maxNonce), zeros[:], nil)
	copy(cs.key[:], ct[:32])
	cs.n = 0
	return nil
}
