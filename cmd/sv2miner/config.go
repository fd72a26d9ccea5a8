package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type minerConfig struct {
	Pool            string
	AuthorityPubkey string
	User            string
	DeviceID        string
}

func defaultMinerConfig() minerConfig {
	return minerConfig{
		Pool: "127.0.0.1:34254",
		User: "user.worker0",
	}
}

type fileConfig struct {
	Pool            string `toml:"pool"`
	AuthorityPubkey string `toml:"authority_pubkey"`
	User            string `toml:"user"`
	DeviceID        string `toml:"device_id"`
}

func loadMinerConfig(path string) (minerConfig, error) {
	cfg := defaultMinerConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return minerConfig{}, fmt.Errorf("load miner config: %w", err)
	}

	if meta.IsDefined("pool") {
		if addr := strings.TrimSpace(raw.Pool); addr != "" {
			cfg.Pool = addr
		}
	}
	if meta.IsDefined("authority_pubkey") {
		cfg.AuthorityPubkey = strings.TrimSpace(raw.AuthorityPubkey)
	}
	if meta.IsDefined("user") {
		if u := strings.TrimSpace(raw.User); u != "" {
			cfg.User = u
		}
	}
	if meta.IsDefined("device_id") {
		cfg.DeviceID = strings.TrimSpace(raw.DeviceID)
	}
	return cfg, nil
}

func (c minerConfig) validate() error {
	if c.AuthorityPubkey == "" {
		return errors.New("authority_pubkey is required to verify the pool's certificate")
	}
	return nil
}
