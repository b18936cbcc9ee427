// Package registry owns drop metadata: capacity, issuance cursor,
// reward-currency binding and the per-drop pause flag. It wraps the
// idspace allocation rules around a persistent store.
package registry

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/leomcdev/CoriteNFTDrop/idspace"
	"github.com/leomcdev/CoriteNFTDrop/store"
)

// ErrDropExists indicates a create for a drop id that is already taken.
var ErrDropExists = errors.New("registry: drop already exists")

// Registry manages drop records in a Store.
type Registry struct {
	store store.Store
}

// New creates a Registry over the given store.
func New(s store.Store) *Registry {
	return &Registry{store: s}
}

// Create reserves the identifier range for a new drop and binds its
// reward currency. Fails with ErrDropExists when the id is taken and
// with idspace.ErrInvalidCapacity for a zero or oversized capacity.
func (r *Registry) Create(dropID, capacity uint64, rewardCurrency string) error {
	if err := idspace.CheckReserve(capacity); err != nil {
		return err
	}
	if _, err := r.store.GetDrop(dropID); err == nil {
		return fmt.Errorf("%w: drop %d", ErrDropExists, dropID)
	} else if !errors.Is(err, store.ErrDropNotFound) {
		return err
	}
	return r.store.PutDrop(&store.DropRecord{
		DropID:         dropID,
		Capacity:       capacity,
		RewardCurrency: rewardCurrency,
	})
}

// Issue advances the drop's issuance cursor by amount and returns the
// newly minted unit identifiers in order. The caller must forward them
// to the ownership registry as mints owned by the system.
func (r *Registry) Issue(dropID, amount uint64) ([]*big.Int, error) {
	rec, err := r.store.GetDrop(dropID)
	if err != nil {
		return nil, err
	}
	ids, err := idspace.NextIDs(dropID, rec.Issued, rec.Capacity, amount)
	if err != nil {
		return nil, err
	}
	rec.Issued += amount
	if err := r.store.PutDrop(rec); err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateCapacity moves the drop's upper bound. The new capacity must
// cover everything already issued; issued identifiers are unaffected.
func (r *Registry) UpdateCapacity(dropID, newCapacity uint64) error {
	rec, err := r.store.GetDrop(dropID)
	if err != nil {
		return err
	}
	if err := idspace.CheckCapacityUpdate(rec.Issued, newCapacity); err != nil {
		return err
	}
	rec.Capacity = newCapacity
	return r.store.PutDrop(rec)
}

// SetPaused toggles the per-drop transfer pause flag.
func (r *Registry) SetPaused(dropID uint64, paused bool) error {
	rec, err := r.store.GetDrop(dropID)
	if err != nil {
		return err
	}
	rec.Paused = paused
	return r.store.PutDrop(rec)
}

// Get returns the drop record.
func (r *Registry) Get(dropID uint64) (*store.DropRecord, error) {
	return r.store.GetDrop(dropID)
}

// Capacity returns the drop's maximum issuable units.
func (r *Registry) Capacity(dropID uint64) (uint64, error) {
	rec, err := r.store.GetDrop(dropID)
	if err != nil {
		return 0, err
	}
	return rec.Capacity, nil
}

// IssuedCount returns the number of units minted for the drop (the
// cursor offset, not including the range base).
func (r *Registry) IssuedCount(dropID uint64) (uint64, error) {
	rec, err := r.store.GetDrop(dropID)
	if err != nil {
		return 0, err
	}
	return rec.Issued, nil
}

// RewardCurrency returns the drop's fungible-ledger reference.
func (r *Registry) RewardCurrency(dropID uint64) (string, error) {
	rec, err := r.store.GetDrop(dropID)
	if err != nil {
		return "", err
	}
	return rec.RewardCurrency, nil
}
