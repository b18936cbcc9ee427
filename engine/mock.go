package engine

import "math/big"

// MockOwnershipRegistry is a test double for OwnershipRegistry.
// All function fields must be set before the corresponding method is called.
type MockOwnershipRegistry struct {
	MintFn     func(unit *big.Int, owner [20]byte) error
	TransferFn func(from, to [20]byte, unit *big.Int) error
	OwnerOfFn  func(unit *big.Int) ([20]byte, error)
	UnitsOfFn  func(owner [20]byte) ([]*big.Int, error)
}

func (m *MockOwnershipRegistry) Mint(unit *big.Int, owner [20]byte) error {
	return m.MintFn(unit, owner)
}
func (m *MockOwnershipRegistry) Transfer(from, to [20]byte, unit *big.Int) error {
	return m.TransferFn(from, to, unit)
}
func (m *MockOwnershipRegistry) OwnerOf(unit *big.Int) ([20]byte, error) {
	return m.OwnerOfFn(unit)
}
func (m *MockOwnershipRegistry) UnitsOf(owner [20]byte) ([]*big.Int, error) {
	return m.UnitsOfFn(owner)
}

// MockFungibleLedger is a test double for FungibleLedger.
type MockFungibleLedger struct {
	TransferFromFn func(currency string, from, to [20]byte, amount uint64) error
}

func (m *MockFungibleLedger) TransferFrom(currency string, from, to [20]byte, amount uint64) error {
	return m.TransferFromFn(currency, from, to, amount)
}

// MockMetadataResolver is a test double for MetadataResolver.
type MockMetadataResolver struct {
	ResolveFn func(instance [20]byte, unit *big.Int) (string, error)
}

func (m *MockMetadataResolver) Resolve(instance [20]byte, unit *big.Int) (string, error) {
	return m.ResolveFn(instance, unit)
}
