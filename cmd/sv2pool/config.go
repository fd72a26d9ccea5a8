package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type poolConfig struct {
	Listen       string
	DataDir      string
	CertValidity time.Duration
}

func defaultPoolConfig() poolConfig {
	return poolConfig{
		Listen:       "0.0.0.0:34254",
		DataDir:      ".sv2pool",
		CertValidity: 365 * 24 * time.Hour,
	}
}

type fileConfig struct {
	Listen       string `toml:"listen"`
	DataDir      string `toml:"datadir"`
	CertValidity string `toml:"cert_validity"`
}

func loadPoolConfig(path string) (poolConfig, error) {
	cfg := defaultPoolConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return poolConfig{}, fmt.Errorf("load pool config: %w", err)
	}

	if meta.IsDefined("listen") {
		if addr := strings.TrimSpace(raw.Listen); addr != "" {
			cfg.Listen = addr
		}
	}
	if meta.IsDefined("datadir") {
		if dir := strings.TrimSpace(raw.DataDir); dir != "" {
			cfg.DataDir = dir
		}
	}
	if meta.IsDefined("cert_validity") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.CertValidity))
		if err != nil {
			return poolConfig{}, fmt.Errorf("parse cert_validity: %w", err)
		}
		if d <= 0 {
			return poolConfig{}, fmt.Errorf("cert_validity must be positive, got %s", d)
		}
		cfg.CertValidity = d
	}
	return cfg, nil
}
