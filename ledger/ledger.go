// Package ledger tracks cumulative earnings-per-unit for each drop and
// the per-unit claimed-so-far baseline, and computes claimable deltas.
//
// The accrual gate forces callers to pre-compute a per-unit amount that
// divides the deposit exactly, so rounding loss can never be absorbed
// invisibly: perUnitAmount*shareCount == totalDeposit always holds for
// an accepted accrual.
package ledger

import (
	"fmt"
	"math/big"

	"github.com/leomcdev/CoriteNFTDrop/idspace"
	"github.com/leomcdev/CoriteNFTDrop/store"
)

// Ledger performs earnings accounting over a Store.
type Ledger struct {
	store store.Store
}

// New creates a Ledger over the given store.
func New(s store.Store) *Ledger {
	return &Ledger{store: s}
}

// CheckAccrual validates an accrual's arithmetic without touching
// state: the deposit must floor-divide to exactly perUnitAmount over
// shareCount with no remainder. Callers that move funds before
// accruing run this first so a rejected accrual moves nothing.
func CheckAccrual(totalDeposit, shareCount, perUnitAmount uint64) error {
	if shareCount == 0 {
		return ErrZeroShareCount
	}
	if totalDeposit/shareCount != perUnitAmount {
		return fmt.Errorf("%w: %d / %d != %d",
			ErrEarningsNotDivisible, totalDeposit, shareCount, perUnitAmount)
	}
	if perUnitAmount*shareCount != totalDeposit {
		return fmt.Errorf("%w: remainder %d",
			ErrEarningsNotDivisible, totalDeposit-perUnitAmount*shareCount)
	}
	return nil
}

// Accrue increments the drop's cumulative earnings-per-unit by
// perUnitAmount after checking that totalDeposit floor-divides into it
// over shareCount. Returns the new cumulative value. Moving the
// aggregate deposit into custody is the caller's responsibility.
func (l *Ledger) Accrue(dropID, totalDeposit, shareCount, perUnitAmount uint64) (uint64, error) {
	if err := CheckAccrual(totalDeposit, shareCount, perUnitAmount); err != nil {
		return 0, err
	}
	rec, err := l.store.GetDrop(dropID)
	if err != nil {
		return 0, err
	}
	rec.CumulativeEarnings += perUnitAmount
	if err := l.store.PutDrop(rec); err != nil {
		return 0, err
	}
	return rec.CumulativeEarnings, nil
}

// Claimable returns the unit's unclaimed entitlement: the owning
// drop's cumulative earnings-per-unit minus the unit's claimed value.
func (l *Ledger) Claimable(unit *big.Int) (uint64, error) {
	dropID, err := idspace.DropOf(unit)
	if err != nil {
		return 0, err
	}
	return l.ClaimableIn(dropID, unit)
}

// ClaimableIn is Claimable with a caller-supplied drop id that must
// match the unit's derived drop.
func (l *Ledger) ClaimableIn(dropID uint64, unit *big.Int) (uint64, error) {
	if err := idspace.SameDrop(dropID, unit); err != nil {
		return 0, err
	}
	rec, err := l.store.GetDrop(dropID)
	if err != nil {
		return 0, err
	}
	claimed, err := l.store.GetClaimed(unit)
	if err != nil {
		return 0, err
	}
	// claimed <= cumulative is a settle-time invariant; a violation
	// here means corrupted state, not a recoverable input error.
	if claimed > rec.CumulativeEarnings {
		return 0, fmt.Errorf("%w: unit %s claimed %d, cumulative %d",
			ErrClaimedAboveCumulative, unit, claimed, rec.CumulativeEarnings)
	}
	return rec.CumulativeEarnings - claimed, nil
}

// Settle sets every unit's claimed-earnings baseline to newClaimed.
// Every unit must belong to dropID, and newClaimed may not exceed the
// drop's cumulative earnings-per-unit. Used both when units change
// hands (baseline reset for the incoming holder) and when a holder
// withdraws earnings.
func (l *Ledger) Settle(dropID uint64, units []*big.Int, newClaimed uint64) error {
	if len(units) == 0 {
		return ErrNoUnits
	}
	rec, err := l.store.GetDrop(dropID)
	if err != nil {
		return err
	}
	if newClaimed > rec.CumulativeEarnings {
		return fmt.Errorf("%w: %d > %d",
			ErrClaimedAboveCumulative, newClaimed, rec.CumulativeEarnings)
	}
	for _, unit := range units {
		if err := idspace.SameDrop(dropID, unit); err != nil {
			return err
		}
	}
	return l.store.SetClaimed(units, newClaimed)
}
