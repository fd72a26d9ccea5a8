// Package transport runs the Noise handshake over a net.Conn and moves
// mining messages across the encrypted stream. It is plumbing for the demo
// binaries; the library packages know nothing about sockets.
package transport

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/lodepool/sv2core/mining"
	"github.com/lodepool/sv2core/noise"
	"github.com/lodepool/sv2core/session"
)

// Conn is an established encrypted connection.
type Conn struct {
	nc   net.Conn
	enc  *session.Encryptor
	rbuf []byte
	// RemoteStatic is set on the initiating side once the handshake
	// completes.
	RemoteStatic [32]byte
}

// Initiate dials nothing; it runs the initiator handshake on an already
// connected nc and verifies the responder's certificate against authority.
func Initiate(nc net.Conn, authority ed25519.PublicKey, now time.Time) (*Conn, error) {
	hs, err := noise.NewInitiator(nil)
	if err != nil {
		return nil, err
	}
	msgA, err := hs.WriteMessageA()
	if err != nil {
		return nil, err
	}
	if _, err := nc.Write(msgA); err != nil {
		return nil, fmt.Errorf("transport: send handshake: %w", err)
	}

	msgB := make([]byte, noise.MessageBLen(noise.SignatureNoiseMessageLen))
	if _, err := io.ReadFull(nc, msgB); err != nil {
		return nil, fmt.Errorf("transport: read handshake: %w", err)
	}
	payload, err := hs.ReadMessageB(msgB)
	if err != nil {
		return nil, err
	}
	snm, err := noise.UnmarshalSignatureNoiseMessage(payload)
	if err != nil {
		return nil, err
	}
	cert := noise.CertificateFormat{
		Authority: authority,
		StaticKey: hs.RemoteStatic(),
		Message:   snm,
	}
	if err := cert.Verify(now); err != nil {
		return nil, err
	}
	enc, err := session.FromHandshake(hs)
	if err != nil {
		return nil, err
	}
	return &Conn{nc: nc, enc: enc, RemoteStatic: hs.RemoteStatic()}, nil
}

// Respond runs the responder handshake on nc, proving static with the
// authority-signed cert.
func Respond(nc net.Conn, static noise.Keypair, cert *noise.SignatureNoiseMessage) (*Conn, error) {
	hs, err := noise.NewResponder(nil, static)
	if err != nil {
		return nil, err
	}
	msgA := make([]byte, noise.MessageALen)
	if _, err := io.ReadFull(nc, msgA); err != nil {
		return nil, fmt.Errorf("transport: read handshake: %w", err)
	}
	if err := hs.ReadMessageA(msgA); err != nil {
		return nil, err
	}
	msgB, err := hs.WriteMessageB(cert.Marshal())
	if err != nil {
		return nil, err
	}
	if _, err := nc.Write(msgB); err != nil {
		return nil, fmt.Errorf("transport: send handshake: %w", err)
	}
	enc, err := session.FromHandshake(hs)
	if err != nil {
		return nil, err
	}
	return &Conn{nc: nc, enc: enc}, nil
}

// WriteMessage encrypts and sends one mining message.
func (c *Conn) WriteMessage(m mining.Message) error {
	wire, err := mining.EncodeFrame(m, nil)
	if err != nil {
		return err
	}
	ct, err := c.enc.Encrypt(wire, nil)
	if err != nil {
		return err
	}
	_, err = c.nc.Write(ct)
	return err
}

// ReadMessage blocks until one mining message arrives.
func (c *Conn) ReadMessage() (mining.Message, error) {
	var chunk [4096]byte
	for {
		f, n, err := c.enc.DecryptFrame(c.rbuf)
		c.rbuf = c.rbuf[n:]
		if err == nil {
			return mining.DecodeFrame(f)
		}
		if !errors.Is(err, session.ErrIncomplete) {
			return nil, err
		}
		r, err := c.nc.Read(chunk[:])
		if err != nil {
			return nil, err
		}
		c.rbuf = append(c.rbuf, chunk[:r]...)
	}
}

func (c *Conn) Close() error { return c.nc.Close() }
