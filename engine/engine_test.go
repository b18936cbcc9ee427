package engine

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leomcdev/CoriteNFTDrop/gate"
	"github.com/leomcdev/CoriteNFTDrop/ledger"
	"github.com/leomcdev/CoriteNFTDrop/store"
)

func makeAddr(seed byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = seed
	}
	return addr
}

var (
	instanceAddr = makeAddr(0x01)
	adminAddr    = makeAddr(0xAD)
	aliceAddr    = makeAddr(0xAA)
	bobAddr      = makeAddr(0xBB)
)

// fakeOwnership is a stateful in-memory OwnershipRegistry.
type fakeOwnership struct {
	units  map[string]*big.Int
	owners map[string][20]byte
}

func newFakeOwnership() *fakeOwnership {
	return &fakeOwnership{units: make(map[string]*big.Int), owners: make(map[string][20]byte)}
}

func (f *fakeOwnership) Mint(unit *big.Int, owner [20]byte) error {
	key := unit.String()
	if _, ok := f.owners[key]; ok {
		return fmt.Errorf("fake ownership: unit %s already minted", key)
	}
	f.units[key] = new(big.Int).Set(unit)
	f.owners[key] = owner
	return nil
}

func (f *fakeOwnership) Transfer(from, to [20]byte, unit *big.Int) error {
	key := unit.String()
	owner, ok := f.owners[key]
	if !ok {
		return fmt.Errorf("fake ownership: unknown unit %s", key)
	}
	if owner != from {
		return fmt.Errorf("fake ownership: %x does not own unit %s", from, key)
	}
	f.owners[key] = to
	return nil
}

func (f *fakeOwnership) OwnerOf(unit *big.Int) ([20]byte, error) {
	owner, ok := f.owners[unit.String()]
	if !ok {
		return [20]byte{}, fmt.Errorf("fake ownership: unknown unit %s", unit)
	}
	return owner, nil
}

func (f *fakeOwnership) UnitsOf(owner [20]byte) ([]*big.Int, error) {
	var out []*big.Int
	for key, o := range f.owners {
		if o == owner {
			out = append(out, f.units[key])
		}
	}
	return out, nil
}

// fakeFungible is a stateful in-memory FungibleLedger keyed by
// currency then holder.
type fakeFungible struct {
	balances map[string]map[[20]byte]uint64
}

func newFakeFungible() *fakeFungible {
	return &fakeFungible{balances: make(map[string]map[[20]byte]uint64)}
}

func (f *fakeFungible) fund(currency string, addr [20]byte, amount uint64) {
	if f.balances[currency] == nil {
		f.balances[currency] = make(map[[20]byte]uint64)
	}
	f.balances[currency][addr] += amount
}

func (f *fakeFungible) balance(currency string, addr [20]byte) uint64 {
	return f.balances[currency][addr]
}

func (f *fakeFungible) TransferFrom(currency string, from, to [20]byte, amount uint64) error {
	if f.balances[currency][from] < amount {
		return fmt.Errorf("%w: %s balance %d, need %d",
			ErrInsufficientBalance, currency, f.balances[currency][from], amount)
	}
	f.balances[currency][from] -= amount
	f.fund(currency, to, amount)
	return nil
}

var (
	_ OwnershipRegistry = (*fakeOwnership)(nil)
	_ FungibleLedger    = (*fakeFungible)(nil)
)

type harness struct {
	engine    *Engine
	store     store.Store
	ownership *fakeOwnership
	fungible  *fakeFungible
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := store.NewMemStore()
	ownership := newFakeOwnership()
	fungible := newFakeFungible()
	e, err := New(s, ownership, fungible, instanceAddr, adminAddr, Options{})
	require.NoError(t, err)
	return &harness{engine: e, store: s, ownership: ownership, fungible: fungible}
}

func TestNew_NilCollaborator(t *testing.T) {
	s := store.NewMemStore()
	_, err := New(s, nil, newFakeFungible(), instanceAddr, adminAddr, Options{})
	assert.ErrorIs(t, err, ErrNilCollaborator)
	_, err = New(s, newFakeOwnership(), nil, instanceAddr, adminAddr, Options{})
	assert.ErrorIs(t, err, ErrNilCollaborator)
}

func TestCreateDrop(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.engine.CreateDrop(adminAddr, 1, 300, "CO8"))
	capacity, err := h.engine.DropCapacity(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), capacity)

	// Only admins create drops.
	assert.ErrorIs(t, h.engine.CreateDrop(aliceAddr, 2, 10, "CO8"), gate.ErrUnauthorized)
	_, err = h.engine.DropCapacity(2)
	assert.ErrorIs(t, err, store.ErrDropNotFound)
}

func TestIssueUnits(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.engine.CreateDrop(adminAddr, 1, 10, "CO8"))

	ids, err := h.engine.IssueUnits(adminAddr, 1, 3)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	// Minted units land in system custody.
	for _, id := range ids {
		owner, err := h.ownership.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, instanceAddr, owner)
	}

	issued, err := h.engine.IssuedCount(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), issued)

	_, err = h.engine.IssueUnits(aliceAddr, 1, 1)
	assert.ErrorIs(t, err, gate.ErrUnauthorized)
}

func TestDepositEarnings(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.engine.CreateDrop(adminAddr, 1, 1_000_000, "CO8"))
	h.fungible.fund("CO8", adminAddr, 600_000)

	require.NoError(t, h.engine.DepositEarnings(adminAddr, 1, 500_000, 500_000, 1))
	assert.Equal(t, uint64(100_000), h.fungible.balance("CO8", adminAddr))
	assert.Equal(t, uint64(500_000), h.fungible.balance("CO8", instanceAddr))
}

func TestDepositEarnings_NotDivisible(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.engine.CreateDrop(adminAddr, 1, 100, "CO8"))
	h.fungible.fund("CO8", adminAddr, 1000)

	err := h.engine.DepositEarnings(adminAddr, 1, 10, 3, 3)
	assert.ErrorIs(t, err, ledger.ErrEarningsNotDivisible)

	// Rejection before the pull: no funds moved, accumulator untouched.
	assert.Equal(t, uint64(1000), h.fungible.balance("CO8", adminAddr))
	assert.Zero(t, h.fungible.balance("CO8", instanceAddr))
	rec, err := h.store.GetDrop(1)
	require.NoError(t, err)
	assert.Zero(t, rec.CumulativeEarnings)
}

func TestDepositEarnings_Underfunded(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.engine.CreateDrop(adminAddr, 1, 100, "CO8"))
	h.fungible.fund("CO8", adminAddr, 50)

	err := h.engine.DepositEarnings(adminAddr, 1, 100, 10, 10)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	rec, err := h.store.GetDrop(1)
	require.NoError(t, err)
	assert.Zero(t, rec.CumulativeEarnings)
}

func TestAdminRoleLifecycle(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.engine.CreateDrop(aliceAddr, 1, 10, "CO8"), gate.ErrUnauthorized)

	require.NoError(t, h.engine.GrantAdmin(adminAddr, aliceAddr))
	require.NoError(t, h.engine.CreateDrop(aliceAddr, 1, 10, "CO8"))

	require.NoError(t, h.engine.RevokeAdmin(adminAddr, aliceAddr))
	assert.ErrorIs(t, h.engine.CreateDrop(aliceAddr, 2, 10, "CO8"), gate.ErrUnauthorized)

	// Non-admins cannot grant.
	assert.ErrorIs(t, h.engine.GrantAdmin(bobAddr, aliceAddr), gate.ErrUnauthorized)
}

func TestAdminAvailableUnderGlobalPause(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.engine.SetGlobalPause(adminAddr, true))

	// Pausing stops holder traffic, not administration.
	require.NoError(t, h.engine.CreateDrop(adminAddr, 1, 10, "CO8"))
	_, err := h.engine.IssueUnits(adminAddr, 1, 2)
	require.NoError(t, err)
	require.NoError(t, h.engine.SetGlobalPause(adminAddr, false))
}

func TestIssueUnits_MintFailure(t *testing.T) {
	s := store.NewMemStore()
	mintErr := fmt.Errorf("registry offline")
	ownership := &MockOwnershipRegistry{
		MintFn: func(unit *big.Int, owner [20]byte) error { return mintErr },
	}
	fungible := &MockFungibleLedger{
		TransferFromFn: func(currency string, from, to [20]byte, amount uint64) error { return nil },
	}
	e, err := New(s, ownership, fungible, instanceAddr, adminAddr, Options{})
	require.NoError(t, err)
	require.NoError(t, e.CreateDrop(adminAddr, 1, 10, "CO8"))

	_, err = e.IssueUnits(adminAddr, 1, 2)
	assert.ErrorIs(t, err, mintErr)
}

func TestUnitURI(t *testing.T) {
	s := store.NewMemStore()
	resolver := &MockMetadataResolver{
		ResolveFn: func(instance [20]byte, unit *big.Int) (string, error) {
			return fmt.Sprintf("http://meta.test/%x/%s", instance, unit), nil
		},
	}
	e, err := New(s, newFakeOwnership(), newFakeFungible(), instanceAddr, adminAddr,
		Options{Metadata: resolver})
	require.NoError(t, err)

	uri, err := e.UnitURI(big.NewInt(1_000_000_005))
	require.NoError(t, err)
	assert.Contains(t, uri, "1000000005")

	// Without a resolver the query fails cleanly.
	h := newHarness(t)
	_, err = h.engine.UnitURI(big.NewInt(1))
	assert.ErrorIs(t, err, ErrNilCollaborator)
}
