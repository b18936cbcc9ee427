package authz

import "errors"

var (
	// ErrInvalidSignature indicates the authorization was not produced
	// by the configured trusted signer over this exact payload.
	ErrInvalidSignature = errors.New("authz: invalid signature")

	// ErrInvalidIntent indicates an intent payload that cannot be
	// serialized (nil or out-of-range fields).
	ErrInvalidIntent = errors.New("authz: invalid intent")

	// ErrNoTrustedSigner indicates verification was attempted before a
	// trusted signer was configured.
	ErrNoTrustedSigner = errors.New("authz: no trusted signer configured")
)
