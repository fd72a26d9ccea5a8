package noise

import (
	"crypto/ed25519"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// Keys are stored and exchanged as base58 strings, both the X25519 static
// keys and the ed25519 authority keys.

// EncodeKeyBase58 renders raw key bytes as a base58 string.
func EncodeKeyBase58(key []byte) string {
	return base58.Encode(key)
}

func decodeKeyBase58(s string, want int) ([]byte, error) {
	b := base58.Decode(s)
	if len(b) != want {
		return nil, fmt.Errorf("%w: decoded %d bytes, want %d", ErrBadKeyEncoding, len(b), want)
	}
	return b, nil
}

// DecodeStaticKeyBase58 decodes a 32 byte X25519 key, public or private.
func DecodeStaticKeyBase58(s string) ([32]byte, error) {
	var out [32]byte
	b, err := decodeKeyBase58(s, 32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// DecodeAuthorityPublicBase58 decodes an ed25519 public signing key.
func DecodeAuthorityPublicBase58(s string) (ed25519.PublicKey, error) {
	b, err := decodeKeyBase58(s, ed25519.PublicKeySize)
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(b), nil
}

// DecodeAuthoritySecretBase58 decodes an ed25519 private signing key from
// its 32 byte seed form.
func DecodeAuthoritySecretBase58(s string) (ed25519.PrivateKey, error) {
	b, err := decodeKeyBase58(s, ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(b), nil
}
