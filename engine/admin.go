package engine

import (
	"encoding/hex"
	"math/big"

	"go.uber.org/zap"

	"github.com/leomcdev/CoriteNFTDrop/ledger"
)

// Every admin entry point checks the caller's role first and stays
// available under the global pause: pausing stops holder traffic, not
// administration.

// CreateDrop reserves the identifier range for a new drop and binds
// its reward currency.
func (e *Engine) CreateDrop(caller [20]byte, dropID, capacity uint64, rewardCurrency string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate.RequireAdmin(caller); err != nil {
		return err
	}
	if err := e.registry.Create(dropID, capacity, rewardCurrency); err != nil {
		return err
	}
	e.log.Info("drop created",
		zap.Uint64("drop", dropID),
		zap.Uint64("capacity", capacity),
		zap.String("currency", rewardCurrency))
	return nil
}

// UpdateCapacity moves a drop's upper bound without touching issued
// identifiers.
func (e *Engine) UpdateCapacity(caller [20]byte, dropID, newCapacity uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate.RequireAdmin(caller); err != nil {
		return err
	}
	return e.registry.UpdateCapacity(dropID, newCapacity)
}

// IssueUnits mints amount new units for the drop into system custody.
// The identifier allocation and the ownership-registry mints happen in
// issuance order; allocation failure leaves nothing minted.
func (e *Engine) IssueUnits(caller [20]byte, dropID, amount uint64) ([]*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate.RequireAdmin(caller); err != nil {
		return nil, err
	}
	ids, err := e.registry.Issue(dropID, amount)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := e.ownership.Mint(id, e.instance); err != nil {
			return nil, err
		}
	}
	e.log.Info("units issued", zap.Uint64("drop", dropID), zap.Uint64("amount", amount))
	return ids, nil
}

// DepositEarnings accrues perUnitAmount to the drop's cumulative
// earnings and pulls the aggregate deposit from the caller into
// custody in a single fungible-ledger transfer. The divisibility gate
// in the ledger guarantees the aggregate and the per-unit accumulator
// reconcile exactly.
func (e *Engine) DepositEarnings(caller [20]byte, dropID, totalDeposit, shareCount, perUnitAmount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate.RequireAdmin(caller); err != nil {
		return err
	}
	rec, err := e.registry.Get(dropID)
	if err != nil {
		return err
	}
	// Validate the arithmetic before pulling the deposit, then pull
	// before touching the accumulator. Either failure rejects the
	// request with no funds moved and the ledger untouched.
	if err := ledger.CheckAccrual(totalDeposit, shareCount, perUnitAmount); err != nil {
		return err
	}
	if err := e.fungible.TransferFrom(rec.RewardCurrency, caller, e.instance, totalDeposit); err != nil {
		return err
	}
	cumulative, err := e.ledger.Accrue(dropID, totalDeposit, shareCount, perUnitAmount)
	if err != nil {
		return err
	}
	e.log.Info("earnings deposited",
		zap.Uint64("drop", dropID),
		zap.Uint64("total", totalDeposit),
		zap.Uint64("per_unit", perUnitAmount),
		zap.Uint64("cumulative", cumulative))
	return nil
}

// SetWhitelist sets or clears whitelist membership for a batch of
// addresses.
func (e *Engine) SetWhitelist(caller [20]byte, addrs [][20]byte, ok bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate.RequireAdmin(caller); err != nil {
		return err
	}
	for _, addr := range addrs {
		if err := e.store.SetWhitelisted(addr, ok); err != nil {
			return err
		}
	}
	return nil
}

// SetWhitelistEnforced toggles whitelist enforcement globally.
func (e *Engine) SetWhitelistEnforced(caller [20]byte, enforced bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate.RequireAdmin(caller); err != nil {
		return err
	}
	return e.store.SetWhitelistEnforced(enforced)
}

// SetTrustedSigner rotates the detached-signer address consulted by
// the claim authorization protocol.
func (e *Engine) SetTrustedSigner(caller, signer [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate.RequireAdmin(caller); err != nil {
		return err
	}
	if err := e.store.SetTrustedSigner(signer); err != nil {
		return err
	}
	e.log.Info("trusted signer rotated", zap.String("signer", hex.EncodeToString(signer[:])))
	return nil
}

// SetGlobalPause toggles the global pause flag. While set, all
// claim/transfer/buy entry points reject; admin configuration stays
// available.
func (e *Engine) SetGlobalPause(caller [20]byte, paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate.RequireAdmin(caller); err != nil {
		return err
	}
	return e.store.SetGlobalPause(paused)
}

// SetDropPause toggles a single drop's transfer pause, independent of
// the global flag.
func (e *Engine) SetDropPause(caller [20]byte, dropID uint64, paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate.RequireAdmin(caller); err != nil {
		return err
	}
	return e.registry.SetPaused(dropID, paused)
}

// GrantAdmin adds an address to the admin role set.
func (e *Engine) GrantAdmin(caller, addr [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate.RequireAdmin(caller); err != nil {
		return err
	}
	return e.store.SetAdmin(addr, true)
}

// RevokeAdmin removes an address from the admin role set.
func (e *Engine) RevokeAdmin(caller, addr [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.gate.RequireAdmin(caller); err != nil {
		return err
	}
	return e.store.SetAdmin(addr, false)
}
