package ledger

import "errors"

var (
	// ErrEarningsNotDivisible indicates a deposit that does not split
	// evenly into the stated per-unit amount.
	ErrEarningsNotDivisible = errors.New("ledger: earnings not divisible")

	// ErrZeroShareCount indicates an accrual over zero shares.
	ErrZeroShareCount = errors.New("ledger: zero share count")

	// ErrClaimedAboveCumulative indicates a settle value past the
	// drop's earnings accumulator.
	ErrClaimedAboveCumulative = errors.New("ledger: claimed value above cumulative earnings")

	// ErrNoUnits indicates an empty unit list.
	ErrNoUnits = errors.New("ledger: no units")
)
