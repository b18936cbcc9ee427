package config

import "errors"

var (
	// ErrEmptyDataDir indicates a missing data directory setting.
	ErrEmptyDataDir = errors.New("config: empty data directory")

	// ErrInvalidAddress indicates an address field that is not 40 hex
	// characters.
	ErrInvalidAddress = errors.New("config: invalid address")

	// ErrInvalidLogLevel indicates an unsupported log level string.
	ErrInvalidLogLevel = errors.New("config: invalid log level")

	// ErrInvalidUpstream indicates a DNS upstream that is not host:port.
	ErrInvalidUpstream = errors.New("config: invalid DNS upstream address")
)
