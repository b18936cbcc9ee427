package config

import (
	"fmt"
	"net"
	"strings"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within
// acceptable ranges and returns the first error encountered, or nil.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}
	if cfg.InstanceAddr != "" {
		if _, err := Address(cfg.InstanceAddr); err != nil {
			return fmt.Errorf("%w: instance_addr", ErrInvalidAddress)
		}
	}
	if cfg.AdminAddr != "" {
		if _, err := Address(cfg.AdminAddr); err != nil {
			return fmt.Errorf("%w: admin_addr", ErrInvalidAddress)
		}
	}
	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}
	if cfg.DNSUpstream != "" {
		if _, _, err := net.SplitHostPort(cfg.DNSUpstream); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUpstream, err)
		}
	}
	return nil
}
