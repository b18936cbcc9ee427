package engine

import "math/big"

// OwnershipRegistry is the external non-fungible ownership ledger. The
// engine only calls its mint/transfer/query operations; unit transfer
// mechanics live entirely in the collaborator.
type OwnershipRegistry interface {
	// Mint creates a unit owned by owner.
	Mint(unit *big.Int, owner [20]byte) error

	// Transfer moves a unit from one owner to another.
	Transfer(from, to [20]byte, unit *big.Int) error

	// OwnerOf returns the current owner of a unit, or an error
	// matching ErrUnitNotFound.
	OwnerOf(unit *big.Int) ([20]byte, error)

	// UnitsOf enumerates the units held by owner.
	UnitsOf(owner [20]byte) ([]*big.Int, error)
}

// FungibleLedger is the external value-transfer ledger moving reward
// and payment currency in and out of system custody. currency is the
// opaque reference bound to a drop or supplied in a buy intent.
// Implementations return an error matching ErrInsufficientBalance when
// the source cannot fund the transfer.
type FungibleLedger interface {
	TransferFrom(currency string, from, to [20]byte, amount uint64) error
}

// MetadataResolver resolves a unit identifier to descriptive metadata.
// A pure passthrough from the engine's point of view.
type MetadataResolver interface {
	Resolve(instance [20]byte, unit *big.Int) (string, error)
}
