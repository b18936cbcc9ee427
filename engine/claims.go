package engine

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/leomcdev/CoriteNFTDrop/authz"
	"github.com/leomcdev/CoriteNFTDrop/idspace"
)

// verifyAuth checks a detached authorization against the currently
// configured trusted signer. Runs before any mutation.
func (e *Engine) verifyAuth(intent authz.Intent, auth *authz.Authorization) error {
	signer, ok, err := e.store.TrustedSigner()
	if err != nil {
		return err
	}
	if !ok {
		return authz.ErrNoTrustedSigner
	}
	return authz.Verify(intent, auth, signer)
}

// requireDistinct rejects unit lists naming the same unit twice. A
// repeated unit would count its entitlement once per occurrence and
// trip mid-release on the second custody transfer.
func requireDistinct(units []*big.Int) error {
	seen := make(map[string]struct{}, len(units))
	for _, unit := range units {
		if unit == nil {
			return fmt.Errorf("%w: nil unit", ErrUnitNotFound)
		}
		key := unit.String()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: unit %s", ErrDuplicateUnit, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// groupByDrop partitions units by their derived drop, preserving order
// within each drop.
func groupByDrop(units []*big.Int) (map[uint64][]*big.Int, error) {
	byDrop := make(map[uint64][]*big.Int)
	for _, unit := range units {
		dropID, err := idspace.DropOf(unit)
		if err != nil {
			return nil, err
		}
		byDrop[dropID] = append(byDrop[dropID], unit)
	}
	return byDrop, nil
}

// requireCustody verifies the system instance still holds every unit.
// This is also what makes a replayed authorization fail: the first
// execution moves the units out of custody.
func (e *Engine) requireCustody(units []*big.Int) error {
	for _, unit := range units {
		owner, err := e.ownership.OwnerOf(unit)
		if err != nil {
			return fmt.Errorf("%w: unit %s", ErrUnitNotFound, unit)
		}
		if owner != e.instance {
			return fmt.Errorf("%w: unit %s not in custody", ErrNotOwner, unit)
		}
	}
	return nil
}

// releaseUnits settles every unit's baseline to its drop's current
// cumulative earnings and transfers custody to the claimant. All
// validation has already happened by the time this runs.
func (e *Engine) releaseUnits(claimant [20]byte, byDrop map[uint64][]*big.Int) error {
	for dropID, dropUnits := range byDrop {
		rec, err := e.registry.Get(dropID)
		if err != nil {
			return err
		}
		if err := e.ledger.Settle(dropID, dropUnits, rec.CumulativeEarnings); err != nil {
			return err
		}
	}
	for _, dropUnits := range byDrop {
		for _, unit := range dropUnits {
			if err := e.ownership.Transfer(e.instance, claimant, unit); err != nil {
				return err
			}
		}
	}
	return nil
}

// claimChecks runs the shared validation for claim-units and buy-units
// after signature verification: global pause, distinct units, per-drop
// pause, whitelist on the transfer step, custody.
func (e *Engine) claimChecks(claimant [20]byte, units []*big.Int) (map[uint64][]*big.Int, error) {
	if err := e.gate.RequireActive(); err != nil {
		return nil, err
	}
	if err := requireDistinct(units); err != nil {
		return nil, err
	}
	byDrop, err := groupByDrop(units)
	if err != nil {
		return nil, err
	}
	for dropID := range byDrop {
		if err := e.gate.RequireDropActive(dropID); err != nil {
			return nil, err
		}
	}
	if err := e.gate.RequireTransferable(e.instance, claimant); err != nil {
		return nil, err
	}
	if err := e.requireCustody(units); err != nil {
		return nil, err
	}
	return byDrop, nil
}

// ClaimUnits executes a claim-units intent: after signature
// verification and the lifecycle gates, each unit's earnings baseline
// is settled to its drop's current cumulative value and custody moves
// from the system to the claimant.
func (e *Engine) ClaimUnits(claimant [20]byte, units []*big.Int, auth *authz.Authorization) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	intent := &authz.ClaimUnitsIntent{Claimant: claimant, Instance: e.instance, Units: units}
	if err := e.verifyAuth(intent, auth); err != nil {
		return err
	}
	byDrop, err := e.claimChecks(claimant, units)
	if err != nil {
		return err
	}
	if err := e.releaseUnits(claimant, byDrop); err != nil {
		return err
	}
	e.log.Info("units claimed", zap.Int("count", len(units)))
	return nil
}

// BuyUnits executes a buy-units-with-payment intent: ClaimUnits
// semantics with a payment pulled from the claimant into custody
// first. A failed payment rejects the request before any settle or
// transfer.
func (e *Engine) BuyUnits(claimant [20]byte, units []*big.Int, paymentAmount uint64,
	paymentCurrency string, auth *authz.Authorization) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	intent := &authz.BuyUnitsIntent{
		Claimant:        claimant,
		Instance:        e.instance,
		Units:           units,
		PaymentAmount:   paymentAmount,
		PaymentCurrency: paymentCurrency,
	}
	if err := e.verifyAuth(intent, auth); err != nil {
		return err
	}
	byDrop, err := e.claimChecks(claimant, units)
	if err != nil {
		return err
	}
	if err := e.fungible.TransferFrom(paymentCurrency, claimant, e.instance, paymentAmount); err != nil {
		return err
	}
	if err := e.releaseUnits(claimant, byDrop); err != nil {
		return err
	}
	e.log.Info("units bought",
		zap.Int("count", len(units)),
		zap.Uint64("payment", paymentAmount),
		zap.String("currency", paymentCurrency))
	return nil
}

// ClaimEarnings executes a claim-earnings intent: the claimant must
// own every listed unit and each must belong to the stated drop; the
// authorized amount may not exceed the summed claimable entitlement.
// The payout runs before the baselines settle, so an underfunded
// custody balance rejects the request with the ledger untouched.
func (e *Engine) ClaimEarnings(claimant [20]byte, units []*big.Int, amount, dropID uint64,
	auth *authz.Authorization) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	intent := &authz.ClaimEarningsIntent{
		Claimant: claimant,
		Instance: e.instance,
		Units:    units,
		Amount:   amount,
		DropID:   dropID,
	}
	if err := e.verifyAuth(intent, auth); err != nil {
		return err
	}
	if err := e.gate.RequireActive(); err != nil {
		return err
	}
	if err := requireDistinct(units); err != nil {
		return err
	}

	rec, err := e.registry.Get(dropID)
	if err != nil {
		return err
	}
	var entitled uint64
	for _, unit := range units {
		if err := idspace.SameDrop(dropID, unit); err != nil {
			return err
		}
		owner, err := e.ownership.OwnerOf(unit)
		if err != nil {
			return fmt.Errorf("%w: unit %s", ErrUnitNotFound, unit)
		}
		if owner != claimant {
			return fmt.Errorf("%w: unit %s", ErrNotOwner, unit)
		}
		claimable, err := e.ledger.ClaimableIn(dropID, unit)
		if err != nil {
			return err
		}
		entitled += claimable
	}
	if amount > entitled {
		return fmt.Errorf("%w: amount %d, entitled %d", ErrExcessiveClaim, amount, entitled)
	}

	if err := e.fungible.TransferFrom(rec.RewardCurrency, e.instance, claimant, amount); err != nil {
		return err
	}
	if err := e.ledger.Settle(dropID, units, rec.CumulativeEarnings); err != nil {
		return err
	}
	e.log.Info("earnings claimed",
		zap.Uint64("drop", dropID),
		zap.Uint64("amount", amount),
		zap.Int("units", len(units)))
	return nil
}

// TransferUnit moves a unit between holders through the lifecycle
// gates: global pause, the unit's drop pause, and the whitelist filter
// on both parties. Proof that the caller speaks for from is the
// ownership registry's concern; the engine verifies from currently
// owns the unit.
func (e *Engine) TransferUnit(from, to [20]byte, unit *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.gate.RequireActive(); err != nil {
		return err
	}
	dropID, err := idspace.DropOf(unit)
	if err != nil {
		return err
	}
	if err := e.gate.RequireDropActive(dropID); err != nil {
		return err
	}
	if err := e.gate.RequireTransferable(from, to); err != nil {
		return err
	}
	owner, err := e.ownership.OwnerOf(unit)
	if err != nil {
		return fmt.Errorf("%w: unit %s", ErrUnitNotFound, unit)
	}
	if owner != from {
		return fmt.Errorf("%w: unit %s", ErrNotOwner, unit)
	}
	return e.ownership.Transfer(from, to, unit)
}
