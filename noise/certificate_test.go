package noise

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testAuthority(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func TestSignedCertificateWindow(t *testing.T) {
	var pub [32]byte
	_, err := NewSignedCertificate(0, 100, 100, pub)
	require.Error(t, err)
	_, err = NewSignedCertificate(0, 200, 100, pub)
	require.Error(t, err)
	_, err = NewSignedCertificate(0, 100, 200, pub)
	require.NoError(t, err)
}

func TestCertificateVerify(t *testing.T) {
	authPub, authPriv := testAuthority(t)
	static, err := GenerateKeypair(nil)
	require.NoError(t, err)

	now := time.Now()
	validFrom := uint32(now.Add(-time.Hour).Unix())
	notAfter := uint32(now.Add(time.Hour).Unix())

	cert, err := NewSignedCertificate(0, validFrom, notAfter, static.Public)
	require.NoError(t, err)
	snm, err := AuthoritySign(cert, authPriv)
	require.NoError(t, err)

	cf := CertificateFormat{Authority: authPub, StaticKey: static.Public, Message: snm}
	require.NoError(t, cf.Verify(now))

	// Expired, boundary inclusive.
	require.ErrorIs(t, cf.Verify(time.Unix(int64(notAfter), 0)), ErrAuthenticationFailed)
	require.ErrorIs(t, cf.Verify(now.Add(2*time.Hour)), ErrAuthenticationFailed)

	// Not yet valid.
	require.ErrorIs(t, cf.Verify(time.Unix(int64(validFrom)-1, 0)), ErrAuthenticationFailed)

	// Signature over a different static key.
	other, err := GenerateKeypair(nil)
	require.NoError(t, err)
	bad := cf
	bad.StaticKey = other.Public
	require.ErrorIs(t, bad.Verify(now), ErrAuthenticationFailed)

	// Wrong authority.
	otherPub, _ := testAuthority(t)
	bad = cf
	bad.Authority = otherPub
	require.ErrorIs(t, bad.Verify(now), ErrAuthenticationFailed)

	// Corrupted signature.
	tampered := *snm
	tampered.Signature[0] ^= 0x01
	bad = cf
	bad.Message = &tampered
	require.ErrorIs(t, bad.Verify(now), ErrAuthenticationFailed)
}

func TestSignatureNoiseMessageRoundTrip(t *testing.T) {
	m := &SignatureNoiseMessage{Version: 1, ValidFrom: 10, NotValidAfter: 20}
	for i := range m.Signature {
		m.Signature[i] = byte(i)
	}
	b := m.Marshal()
	require.Len(t, b, SignatureNoiseMessageLen)

	got, err := UnmarshalSignatureNoiseMessage(b)
	require.NoError(t, err)
	require.Equal(t, m, got)

	_, err = UnmarshalSignatureNoiseMessage(b[:len(b)-1])
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	_, err = UnmarshalSignatureNoiseMessage(append(b, 0))
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestCertificateOverHandshake(t *testing.T) {
	authPub, authPriv := testAuthority(t)
	static, err := GenerateKeypair(nil)
	require.NoError(t, err)

	now := time.Now()
	cert, err := NewSignedCertificate(0, uint32(now.Unix())-1, uint32(now.Add(24*time.Hour).Unix()), static.Public)
	require.NoError(t, err)
	snm, err := AuthoritySign(cert, authPriv)
	require.NoError(t, err)

	ini, err := NewInitiator(nil)
	require.NoError(t, err)
	res, err := NewResponder(nil, static)
	require.NoError(t, err)

	msgA, err := ini.WriteMessageA()
	require.NoError(t, err)
	require.NoError(t, res.ReadMessageA(msgA))
	msgB, err := res.WriteMessageB(snm.Marshal())
	require.NoError(t, err)
	payload, err := ini.ReadMessageB(msgB)
	require.NoError(t, err)

	received, err := UnmarshalSignatureNoiseMessage(payload)
	require.NoError(t, err)
	cf := CertificateFormat{Authority: authPub, StaticKey: ini.RemoteStatic(), Message: received}
	require.NoError(t, cf.Verify(now))
}

func TestKeyBase58RoundTrip(t *testing.T) {
	kp, err := GenerateKeypair(nil)
	require.NoError(t, err)

	s := EncodeKeyBase58(kp.Public[:])
	got, err := DecodeStaticKeyBase58(s)
	require.NoError(t, err)
	require.Equal(t, kp.Public, got)

	_, err = DecodeStaticKeyBase58("2")
	require.ErrorIs(t, err, ErrBadKeyEncoding)

	authPub, authPriv := testAuthority(t)
	pub, err := DecodeAuthorityPublicBase58(EncodeKeyBase58(authPub))
	require.NoError(t, err)
	require.True(t, pub.Equal(authPub))

	priv, err := DecodeAuthoritySecretBase58(EncodeKeyBase58(authPriv.Seed()))
	require.NoError(t, err)
	require.True(t, priv.Equal(authPriv))
}

func FuzzSignatureNoiseMessage(f *testing.F) {
	m := &SignatureNoiseMessage{Version: 0, ValidFrom: 1, NotValidAfter: 2}
	f.Add(m.Marshal())
	f.Add([]byte{})
	f.Add(make([]byte, SignatureNoiseMessageLen+1))
	f.Fuzz(func(t *testing.T, data []byte) {
		m, err := UnmarshalSignatureNoiseMessage(data)
		if err != nil {
			return
		}
		if !bytes.Equal(m.Marshal(), data) {
			t.Fatalf("round trip mismatch: %x", data)
		}
	})
}
