// Package config holds the deployment configuration for the drop
// engine and its tooling.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the engine/CLI configuration, loaded from a TOML file.
type Config struct {
	// DataDir is the directory holding the bbolt state database.
	DataDir string `toml:"data_dir"`

	// InstanceAddr is the system instance address, 40 hex characters.
	InstanceAddr string `toml:"instance_addr"`

	// AdminAddr is the initial admin address, 40 hex characters.
	AdminAddr string `toml:"admin_addr"`

	// SignerKeyfile is the path to the encrypted trusted-signer seed.
	// Optional; claim verification only needs the signer address.
	SignerKeyfile string `toml:"signer_keyfile"`

	// MetaDomain is the DNS zone for metadata endpoint discovery.
	// Optional; empty disables the metadata resolver.
	MetaDomain string `toml:"meta_domain"`

	// DNSUpstream is the recursive resolver for SRV discovery.
	DNSUpstream string `toml:"dns_upstream"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns a Config with defaults applied, rooted at dataDir.
func Default(dataDir string) Config {
	return Config{
		DataDir:     dataDir,
		DNSUpstream: "8.8.8.8:53",
		LogLevel:    "info",
	}
}

// Load reads and validates a TOML config file. Missing keys fall back
// to defaults.
func Load(path string) (Config, error) {
	cfg := Default("")
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config as TOML, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}

// Address decodes a 40-hex-character address field.
func Address(field string) ([20]byte, error) {
	var addr [20]byte
	raw, err := hex.DecodeString(field)
	if err != nil || len(raw) != 20 {
		return addr, fmt.Errorf("%w: %q", ErrInvalidAddress, field)
	}
	copy(addr[:], raw)
	return addr, nil
}
