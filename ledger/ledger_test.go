package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leomcdev/CoriteNFTDrop/idspace"
	"github.com/leomcdev/CoriteNFTDrop/store"
)

func newLedger(t *testing.T, drops ...*store.DropRecord) (*Ledger, store.Store) {
	t.Helper()
	s := store.NewMemStore()
	for _, rec := range drops {
		require.NoError(t, s.PutDrop(rec))
	}
	return New(s), s
}

func TestAccrue(t *testing.T) {
	l, s := newLedger(t, &store.DropRecord{DropID: 1, Capacity: 1000, Issued: 500})

	cumulative, err := l.Accrue(1, 500_000, 500_000, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cumulative)

	rec, err := s.GetDrop(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rec.CumulativeEarnings)

	// Accruals accumulate.
	cumulative, err = l.Accrue(1, 1000, 500, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), cumulative)
}

func TestAccrue_NotDivisible(t *testing.T) {
	tests := []struct {
		name                          string
		totalDeposit, shares, perUnit uint64
	}{
		{"wrong per-unit", 1000, 10, 99},
		{"floor division hides remainder", 10, 3, 3},
		{"per-unit too large", 10, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, s := newLedger(t, &store.DropRecord{DropID: 1, Capacity: 100})
			_, err := l.Accrue(1, tt.totalDeposit, tt.shares, tt.perUnit)
			assert.ErrorIs(t, err, ErrEarningsNotDivisible)

			// Accumulator untouched after the rejection.
			rec, err := s.GetDrop(1)
			require.NoError(t, err)
			assert.Zero(t, rec.CumulativeEarnings)
		})
	}
}

func TestAccrue_ZeroShares(t *testing.T) {
	l, _ := newLedger(t, &store.DropRecord{DropID: 1, Capacity: 100})
	_, err := l.Accrue(1, 100, 0, 0)
	assert.ErrorIs(t, err, ErrZeroShareCount)
}

func TestAccrue_UnknownDrop(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Accrue(9, 100, 10, 10)
	assert.ErrorIs(t, err, store.ErrDropNotFound)
}

func TestClaimable(t *testing.T) {
	l, s := newLedger(t, &store.DropRecord{DropID: 1, Capacity: 1000, Issued: 500, CumulativeEarnings: 1})
	unit := idspace.EncodeUnitID(1, 7)

	// A unit never settled has the full cumulative value claimable.
	claimable, err := l.Claimable(unit)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claimable)

	require.NoError(t, s.SetClaimed([]*big.Int{unit}, 1))
	claimable, err = l.Claimable(unit)
	require.NoError(t, err)
	assert.Zero(t, claimable)
}

func TestClaimableIn_DropMismatch(t *testing.T) {
	l, _ := newLedger(t, &store.DropRecord{DropID: 1, Capacity: 10})
	unit := idspace.EncodeUnitID(2, 0)
	_, err := l.ClaimableIn(1, unit)
	assert.ErrorIs(t, err, idspace.ErrUnitDropMismatch)
}

func TestSettle(t *testing.T) {
	l, s := newLedger(t, &store.DropRecord{DropID: 1, Capacity: 10, CumulativeEarnings: 5})
	units := []*big.Int{idspace.EncodeUnitID(1, 0), idspace.EncodeUnitID(1, 1)}

	require.NoError(t, l.Settle(1, units, 5))
	for _, unit := range units {
		v, err := s.GetClaimed(unit)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), v)
	}
}

func TestSettle_DropMismatch(t *testing.T) {
	l, s := newLedger(t, &store.DropRecord{DropID: 1, Capacity: 10, CumulativeEarnings: 5})
	units := []*big.Int{idspace.EncodeUnitID(1, 0), idspace.EncodeUnitID(2, 0)}

	err := l.Settle(1, units, 5)
	assert.ErrorIs(t, err, idspace.ErrUnitDropMismatch)

	// Nothing was written, including the valid unit.
	v, err := s.GetClaimed(units[0])
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestSettle_AboveCumulative(t *testing.T) {
	l, _ := newLedger(t, &store.DropRecord{DropID: 1, Capacity: 10, CumulativeEarnings: 5})
	err := l.Settle(1, []*big.Int{idspace.EncodeUnitID(1, 0)}, 6)
	assert.ErrorIs(t, err, ErrClaimedAboveCumulative)
}

func TestSettle_NoUnits(t *testing.T) {
	l, _ := newLedger(t, &store.DropRecord{DropID: 1, Capacity: 10})
	assert.ErrorIs(t, l.Settle(1, nil, 0), ErrNoUnits)
}
