package noise

import (
	"hash"
	"io"

	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/hkdf"
)

// protocolName fixes the cipher suite. Its BLAKE2s hash seeds the
// transcript, so both sides abort on the first message if they disagree.
const protocolName = "Noise_NX_25519_ChaChaPoly_BLAKE2s"

func blake2sHash() hash.Hash {
	h, err := blake2s.New256(nil)
	if err != nil {
		// blake2s.New256 only fails for oversized keys; nil has none.
		panic(err)
	}
	return h
}

// symmetricState maintains the chaining key and transcript hash across the
// handshake.
type symmetricState struct {
	ck [32]byte
	h  [32]byte
	cs CipherState
}

func newSymmetricState() *symmetricState {
	var ss symmetricState
	// The protocol name is longer than the hash output, so the transcript
	// starts from its hash.
	ss.h = blake2s.Sum256([]byte(protocolName))
	ss.ck = ss.h
	return &ss
}

func (ss *symmetricState) mixHash(data []byte) {
	h := blake2sHash()
	h.Write(ss.h[:])
	h.Write(data)
	h.Sum(ss.h[:0])
}

func (ss *symmetricState) mixKey(ikm []byte) error {
	var tempK [32]byte
	if err := ss.kdf2(ikm, ss.ck[:], tempK[:]); err != nil {
		return err
	}
	ss.cs = CipherState{key: tempK, hasKey: true}
	return nil
}

// kdf2 runs the two-output Noise HKDF over the chaining key and ikm,
// writing the outputs into out1 and out2. The chaining key may be one of
// the outputs.
func (ss *symmetricState) kdf2(ikm, out1, out2 []byte) error {
	r := hkdf.New(blake2sHash, ikm, ss.ck[:], nil)
	if _, err := io.ReadFull(r, out1); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, out2); err != nil {
		return err
	}
	return nil
}

func (ss *symmetricState) encryptAndHash(plaintext []byte) ([]byte, error) {
	ct, err := ss.cs.EncryptWithAd(ss.h[:], plaintext)
	if err != nil {
		return nil, err
	}
	ss.mixHash(ct)
	return ct, nil
}

func (ss *symmetricState) decryptAndHash(ciphertext []byte) ([]byte, error) {
	pt, err := ss.cs.DecryptWithAd(ss.h[:], ciphertext)
	if err != nil {
		return nil, err
	}
	ss.mixHash(ciphertext)
	return pt, nil
}

// split derives the two directional transport keys from the chaining key.
// The first keys the initiator-to-responder direction.
func (ss *symmetricState) split() (*CipherState, *CipherState, error) {
	var k1, k2 [32]byte
	if err := ss.kdf2(nil, k1[:], k2[:]); err != nil {
		return nil, nil, err
	}
	return newCipherState(k1), newCipherState(k2), nil
}
