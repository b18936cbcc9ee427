// Package engine composes the identifier-space allocator, drop
// registry, earnings ledger, claim authorization protocol and the
// access/lifecycle gate into one accounting authority over the
// external ownership and fungible-ledger collaborators.
//
// Every operation runs to completion under one mutex, giving the
// strict serial execution the numeric invariants rely on: capacity is
// never exceeded, claimed earnings never pass the cumulative
// accumulator, and no operation observes a partially applied effect
// of another. Validation strictly precedes mutation; a rejected
// request leaves no state change behind.
package engine

import (
	"math/big"
	"sync"

	"go.uber.org/zap"

	"github.com/leomcdev/CoriteNFTDrop/gate"
	"github.com/leomcdev/CoriteNFTDrop/ledger"
	"github.com/leomcdev/CoriteNFTDrop/registry"
	"github.com/leomcdev/CoriteNFTDrop/store"
)

// Engine is the drop accounting and authorization engine.
type Engine struct {
	mu sync.Mutex

	store    store.Store
	registry *registry.Registry
	ledger   *ledger.Ledger
	gate     *gate.Gate

	ownership OwnershipRegistry
	fungible  FungibleLedger
	metadata  MetadataResolver

	instance [20]byte
	log      *zap.Logger
}

// Options configures optional engine collaborators.
type Options struct {
	// Metadata is the resolver backing UnitURI. Optional; UnitURI
	// fails with ErrNilCollaborator when unset.
	Metadata MetadataResolver

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// New creates an Engine over the given store and collaborators and
// grants the admin role to initialAdmin. instance is this system's own
// address: minted units and custody balances are held by it.
func New(s store.Store, ownership OwnershipRegistry, fungible FungibleLedger,
	instance, initialAdmin [20]byte, opts Options) (*Engine, error) {
	if s == nil || ownership == nil || fungible == nil {
		return nil, ErrNilCollaborator
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if err := s.SetAdmin(initialAdmin, true); err != nil {
		return nil, err
	}
	return &Engine{
		store:     s,
		registry:  registry.New(s),
		ledger:    ledger.New(s),
		gate:      gate.New(s, instance),
		ownership: ownership,
		fungible:  fungible,
		metadata:  opts.Metadata,
		instance:  instance,
		log:       log,
	}, nil
}

// Instance returns the system instance address.
func (e *Engine) Instance() [20]byte { return e.instance }

// --- read-only holder surface ---

// Claimable returns the unit's unclaimed entitlement.
func (e *Engine) Claimable(unit *big.Int) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Claimable(unit)
}

// DropCapacity returns the drop's maximum issuable units.
func (e *Engine) DropCapacity(dropID uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Capacity(dropID)
}

// IssuedCount returns the number of units minted for the drop.
func (e *Engine) IssuedCount(dropID uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.IssuedCount(dropID)
}

// UnitsOf enumerates the units held by owner, straight from the
// ownership registry.
func (e *Engine) UnitsOf(owner [20]byte) ([]*big.Int, error) {
	return e.ownership.UnitsOf(owner)
}

// UnitURI resolves a unit to its metadata URI via the configured
// resolver.
func (e *Engine) UnitURI(unit *big.Int) (string, error) {
	if e.metadata == nil {
		return "", ErrNilCollaborator
	}
	return e.metadata.Resolve(e.instance, unit)
}
