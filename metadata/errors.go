package metadata

import "errors"

var (
	// ErrDNSLookupFailed indicates the SRV discovery query failed.
	ErrDNSLookupFailed = errors.New("metadata: DNS lookup failed")

	// ErrNoEndpoints indicates no metadata endpoints were discovered.
	ErrNoEndpoints = errors.New("metadata: no endpoints")

	// ErrResolveFailed indicates every discovered endpoint failed.
	ErrResolveFailed = errors.New("metadata: resolve failed")

	// ErrInvalidParams indicates a nil unit or empty domain.
	ErrInvalidParams = errors.New("metadata: invalid parameters")
)
