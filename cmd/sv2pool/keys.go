package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lodepool/sv2core/noise"
)

const (
	authorityKeyFile = "authority.key"
	staticKeyFile    = "static.key"
)

// poolKeys holds the pool's long-lived key material: the certificate
// authority signing key and the static Noise key it certifies.
type poolKeys struct {
	authority ed25519.PrivateKey
	static    noise.Keypair
}

// loadOrCreateKeys reads base58 key files from dir, generating and writing
// fresh ones on first run.
func loadOrCreateKeys(dir string) (poolKeys, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return poolKeys{}, err
	}

	var keys poolKeys

	authPath := filepath.Join(dir, authorityKeyFile)
	seed, err := readKeyFile(authPath)
	switch {
	case err == nil:
		keys.authority, err = noise.DecodeAuthoritySecretBase58(seed)
		if err != nil {
			return poolKeys{}, fmt.Errorf("%s: %w", authPath, err)
		}
	case os.IsNotExist(err):
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return poolKeys{}, err
		}
		keys.authority = priv
		if err := writeKeyFile(authPath, noise.EncodeKeyBase58(priv.Seed())); err != nil {
			return poolKeys{}, err
		}
	default:
		return poolKeys{}, err
	}

	staticPath := filepath.Join(dir, staticKeyFile)
	enc, err := readKeyFile(staticPath)
	switch {
	case err == nil:
		priv, err := noise.DecodeStaticKeyBase58(enc)
		if err != nil {
			return poolKeys{}, fmt.Errorf("%s: %w", staticPath, err)
		}
		keys.static, err = staticFromPrivate(priv)
		if err != nil {
			return poolKeys{}, err
		}
	case os.IsNotExist(err):
		keys.static, err = noise.GenerateKeypair(nil)
		if err != nil {
			return poolKeys{}, err
		}
		if err := writeKeyFile(staticPath, noise.EncodeKeyBase58(keys.static.Private[:])); err != nil {
			return poolKeys{}, err
		}
	default:
		return poolKeys{}, err
	}

	return keys, nil
}

func staticFromPrivate(priv [32]byte) (noise.Keypair, error) {
	pub, err := noise.PublicFromPrivate(priv)
	if err != nil {
		return noise.Keypair{}, err
	}
	return noise.Keypair{Private: priv, Public: pub}, nil
}

func readKeyFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func writeKeyFile(path, encoded string) error {
	return os.WriteFile(path, []byte(encoded+"\n"), 0o600)
}
