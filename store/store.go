// Package store defines the persisted state of the drop engine: drop
// records, per-unit claimed earnings, the whitelist and role sets, the
// lifecycle flags and the trusted signer address.
package store

import "math/big"

// DropRecord is the persisted state of a single drop.
type DropRecord struct {
	DropID             uint64 // application-chosen drop identifier
	Capacity           uint64 // maximum issuable units
	Issued             uint64 // issuance cursor offset, monotone
	RewardCurrency     string // fungible-ledger reference for earnings
	CumulativeEarnings uint64 // earnings-per-unit accumulator, monotone
	Paused             bool   // per-drop transfer suspension
}

// Store persists all mutable engine state. Implementations must apply
// SetClaimed atomically across the whole unit list; the engine
// serializes calls, so no other concurrency guarantees are required.
type Store interface {
	// Drops.
	GetDrop(dropID uint64) (*DropRecord, error)
	PutDrop(rec *DropRecord) error
	ListDrops() ([]*DropRecord, error)

	// Per-unit claimed earnings. Units never written read as zero.
	GetClaimed(unit *big.Int) (uint64, error)
	SetClaimed(units []*big.Int, value uint64) error

	// Whitelist membership.
	SetWhitelisted(addr [20]byte, ok bool) error
	IsWhitelisted(addr [20]byte) (bool, error)

	// Admin role set.
	SetAdmin(addr [20]byte, ok bool) error
	IsAdmin(addr [20]byte) (bool, error)

	// Lifecycle flags.
	SetGlobalPause(paused bool) error
	GlobalPaused() (bool, error)
	SetWhitelistEnforced(enforced bool) error
	WhitelistEnforced() (bool, error)

	// Trusted signer address (Hash160 of the signer public key).
	// TrustedSigner reports ok=false until one has been configured.
	SetTrustedSigner(addr [20]byte) error
	TrustedSigner() (addr [20]byte, ok bool, err error)
}
