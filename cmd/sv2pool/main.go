// sv2pool is a demo pool endpoint: it answers the encrypted handshake with
// an authority-signed certificate, accepts connection setup, opens standard
// channels and acknowledges shares. It validates nothing about the shares
// themselves.
package main

import (
	"crypto/ed25519"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lodepool/sv2core/codec"
	"github.com/lodepool/sv2core/internal/logging"
	"github.com/lodepool/sv2core/internal/transport"
	"github.com/lodepool/sv2core/mining"
	"github.com/lodepool/sv2core/noise"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	logger := logging.New("sv2pool")
	if err := run(*configPath, logger); err != nil {
		logger.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(configPath string, logger zerolog.Logger) error {
	cfg, err := loadPoolConfig(configPath)
	if err != nil {
		return err
	}
	keys, err := loadOrCreateKeys(cfg.DataDir)
	if err != nil {
		return err
	}
	logger.Info().
		Str("authority_pubkey", noise.EncodeKeyBase58(keys.authority.Public().(ed25519.PublicKey))).
		Str("static_pubkey", noise.EncodeKeyBase58(keys.static.Public[:])).
		Msg("keys loaded")

	now := time.Now()
	cert, err := noise.NewSignedCertificate(
		0,
		uint32(now.Add(-time.Minute).Unix()),
		uint32(now.Add(cfg.CertValidity).Unix()),
		keys.static.Public,
	)
	if err != nil {
		return err
	}
	snm, err := noise.AuthoritySign(cert, keys.authority)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return err
	}
	defer ln.Close()
	logger.Info().Str("listen", cfg.Listen).Msg("accepting miners")

	for {
		nc, err := ln.Accept()
		if err != nil {
			return err
		}
		go serve(nc, keys.static, snm, logger.With().Str("remote", nc.RemoteAddr().String()).Logger())
	}
}

var nextChannelID atomic.Uint32

func serve(nc net.Conn, static noise.Keypair, snm *noise.SignatureNoiseMessage, logger zerolog.Logger) {
	defer nc.Close()

	conn, err := transport.Respond(nc, static, snm)
	if err != nil {
		logger.Warn().Err(err).Msg("handshake failed")
		return
	}
	logger.Info().Msg("handshake complete")

	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, mining.ErrUnsupportedMessage) {
				logger.Warn().Err(err).Msg("ignoring message")
				continue
			}
			logger.Info().Err(err).Msg("connection done")
			return
		}
		reply, err := handle(msg, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("rejecting connection")
			return
		}
		if reply == nil {
			continue
		}
		if err := conn.WriteMessage(reply); err != nil {
			logger.Warn().Err(err).Msg("write failed")
			return
		}
	}
}

func handle(msg mining.Message, logger zerolog.Logger) (mining.Message, error) {
	switch m := msg.(type) {
	case *mining.SetupConnection:
		logger.Info().
			Str("vendor", m.Vendor).
			Str("firmware", m.Firmware).
			Uint16("min_version", m.MinVersion).
			Uint16("max_version", m.MaxVersion).
			Msg("setup connection")
		if m.MinVersion > 2 {
			reject, err := mining.NewSetupConnectionError(0, mining.ErrorCodeVersionMismatch)
			if err != nil {
				return nil, err
			}
			return reject, nil
		}
		return &mining.SetupConnectionSuccess{UsedVersion: 2}, nil

	case *mining.OpenStandardMiningChannel:
		id := nextChannelID.Add(1)
		logger.Info().Str("user", m.UserIdentity).Uint32("channel_id", id).Msg("channel opened")
		var target codec.U256
		for i := 16; i < 32; i++ {
			target[i] = 0xff
		}
		return &mining.OpenStandardMiningChannelSuccess{
			RequestID:        m.RequestID,
			ChannelID:        id,
			Target:           target,
			ExtranoncePrefix: []byte{0x00, 0x00, byte(id >> 8), byte(id)},
			GroupChannelID:   0,
		}, nil

	case *mining.SubmitSharesStandard:
		logger.Info().Uint32("channel_id", m.ChannelID).Uint32("seq", m.SequenceNumber).Msg("share received")
		return &mining.SubmitSharesSuccess{
			ChannelID:               m.ChannelID,
			LastSequenceNumber:      m.SequenceNumber,
			NewSubmitsAcceptedCount: 1,
			NewSharesSum:            1,
		}, nil

	case *mining.CloseChannel:
		logger.Info().Uint32("channel_id", m.ChannelID).Str("reason", m.ReasonCode).Msg("channel closed")
		return nil, nil

	default:
		return nil, fmt.Errorf("unhandled message %T", msg)
	}
}
