// Package gate implements the access and lifecycle checks wrapped
// around every mutating engine operation: admin role membership, the
// global and per-drop pause flags, and the optional whitelist filter
// on ownership transfers.
//
// Check order for a mutating call: role or signature check, then
// global pause, then per-drop pause where a drop is involved, then the
// whitelist on the actual ownership-transfer step. Earnings-only
// operations skip the whitelist.
package gate

import (
	"errors"
	"fmt"

	"github.com/leomcdev/CoriteNFTDrop/store"
)

var (
	// ErrUnauthorized indicates the caller does not hold the admin role.
	ErrUnauthorized = errors.New("gate: unauthorized")

	// ErrSystemPaused indicates the global pause flag is set.
	ErrSystemPaused = errors.New("gate: system paused")

	// ErrDropPaused indicates the drop's pause flag is set.
	ErrDropPaused = errors.New("gate: drop paused")

	// ErrNotWhitelisted indicates a transfer party is missing from the
	// whitelist while enforcement is on.
	ErrNotWhitelisted = errors.New("gate: address not whitelisted")
)

// Gate evaluates role, pause and whitelist state from a Store. The
// instance address identifies the system itself: transfers where it is
// either party bypass the whitelist.
type Gate struct {
	store    store.Store
	instance [20]byte
}

// New creates a Gate over the given store for the given system
// instance address.
func New(s store.Store, instance [20]byte) *Gate {
	return &Gate{store: s, instance: instance}
}

// RequireAdmin fails with ErrUnauthorized unless caller holds the
// admin role.
func (g *Gate) RequireAdmin(caller [20]byte) error {
	ok, err := g.store.IsAdmin(caller)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: caller %x", ErrUnauthorized, caller)
	}
	return nil
}

// RequireActive fails with ErrSystemPaused while the global pause flag
// is set. Admin configuration paths do not call this.
func (g *Gate) RequireActive() error {
	paused, err := g.store.GlobalPaused()
	if err != nil {
		return err
	}
	if paused {
		return ErrSystemPaused
	}
	return nil
}

// RequireDropActive fails with ErrDropPaused while the drop's pause
// flag is set. Independent of the global pause.
func (g *Gate) RequireDropActive(dropID uint64) error {
	rec, err := g.store.GetDrop(dropID)
	if err != nil {
		return err
	}
	if rec.Paused {
		return fmt.Errorf("%w: drop %d", ErrDropPaused, dropID)
	}
	return nil
}

// RequireTransferable applies the whitelist filter to a unit transfer.
// When enforcement is on and neither side is the system instance, both
// source and destination must be whitelisted.
func (g *Gate) RequireTransferable(from, to [20]byte) error {
	enforced, err := g.store.WhitelistEnforced()
	if err != nil {
		return err
	}
	if !enforced || from == g.instance || to == g.instance {
		return nil
	}
	for _, addr := range [][20]byte{from, to} {
		ok, err := g.store.IsWhitelisted(addr)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %x", ErrNotWhitelisted, addr)
		}
	}
	return nil
}
