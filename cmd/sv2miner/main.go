// sv2miner is a demo downstream: it connects to a pool, verifies the
// pool's certificate during the handshake, sets up the connection, opens a
// standard channel and submits one canned share. It does no hashing.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
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
	authority := flag.String("authority", "", "pool authority public key, base58 (overrides config)")
	flag.Parse()

	logger := logging.New("sv2miner")
	if err := run(*configPath, *authority, logger); err != nil {
		logger.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(configPath, authorityOverride string, logger zerolog.Logger) error {
	cfg, err := loadMinerConfig(configPath)
	if err != nil {
		return err
	}
	if authorityOverride != "" {
		cfg.AuthorityPubkey = authorityOverride
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	authority, err := noise.DecodeAuthorityPublicBase58(cfg.AuthorityPubkey)
	if err != nil {
		return err
	}

	nc, err := net.Dial("tcp", cfg.Pool)
	if err != nil {
		return err
	}
	defer nc.Close()

	conn, err := transport.Initiate(nc, authority, time.Now())
	if err != nil {
		return err
	}
	logger.Info().
		Str("pool", cfg.Pool).
		Str("pool_static", noise.EncodeKeyBase58(conn.RemoteStatic[:])).
		Msg("handshake complete, certificate verified")

	setup, err := mining.NewSetupConnection(mining.SetupConnection{
		Protocol:        mining.ProtocolMining,
		MinVersion:      2,
		MaxVersion:      2,
		Flags:           mining.FlagRequiresStandardJobs,
		EndpointHost:    cfg.Pool,
		Vendor:          "lodepool",
		HardwareVersion: "demo",
		Firmware:        "sv2miner/0.1",
		DeviceID:        cfg.DeviceID,
	})
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(setup); err != nil {
		return err
	}
	reply, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	switch m := reply.(type) {
	case *mining.SetupConnectionSuccess:
		logger.Info().Uint16("used_version", m.UsedVersion).Msg("connection set up")
	case *mining.SetupConnectionError:
		return fmt.Errorf("pool rejected setup: %s", m.ErrorCode)
	default:
		return fmt.Errorf("unexpected reply %T to setup", reply)
	}

	var maxTarget codec.U256
	for i := range maxTarget {
		maxTarget[i] = 0xff
	}
	open := &mining.OpenStandardMiningChannel{
		RequestID:       1,
		UserIdentity:    cfg.User,
		NominalHashRate: 10e12,
		MaxTarget:       maxTarget,
	}
	if err := conn.WriteMessage(open); err != nil {
		return err
	}
	reply, err = conn.ReadMessage()
	if err != nil {
		return err
	}
	opened, ok := reply.(*mining.OpenStandardMiningChannelSuccess)
	if !ok {
		return fmt.Errorf("unexpected reply %T to open channel", reply)
	}
	logger.Info().
		Uint32("channel_id", opened.ChannelID).
		Hex("extranonce_prefix", opened.ExtranoncePrefix).
		Msg("channel open")

	share := &mining.SubmitSharesStandard{
		ChannelID:      opened.ChannelID,
		SequenceNumber: 1,
		JobID:          1,
		Nonce:          0x64c0ffee,
		NTime:          uint32(time.Now().Unix()),
		Version:        0x20000000,
	}
	if err := conn.WriteMessage(share); err != nil {
		return err
	}
	reply, err = conn.ReadMessage()
	if err != nil {
		return err
	}
	switch m := reply.(type) {
	case *mining.SubmitSharesSuccess:
		logger.Info().Uint32("last_seq", m.LastSequenceNumber).Msg("share accepted")
	case *mining.SubmitSharesError:
		logger.Warn().Str("error_code", m.ErrorCode).Msg("share rejected")
	default:
		return fmt.Errorf("unexpected reply %T to share", reply)
	}

	return conn.WriteMessage(&mining.CloseChannel{
		ChannelID:  opened.ChannelID,
		ReasonCode: "demo-complete",
	})
}
