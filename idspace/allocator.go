package idspace

import (
	"fmt"
	"math/big"
)

// CheckReserve validates a capacity for a new drop range.
func CheckReserve(capacity uint64) error {
	if capacity == 0 {
		return fmt.Errorf("%w: zero", ErrInvalidCapacity)
	}
	if capacity > PartitionWidth {
		return fmt.Errorf("%w: %d exceeds partition width %d",
			ErrInvalidCapacity, capacity, uint64(PartitionWidth))
	}
	return nil
}

// NextIDs advances the issuance cursor of a drop with the given issued
// count and capacity by amount, returning the newly minted identifiers
// in order. The cursor may never pass the drop's upper bound.
func NextIDs(dropID, issued, capacity, amount uint64) ([]*big.Int, error) {
	if amount == 0 {
		return nil, fmt.Errorf("%w: zero", ErrInvalidAmount)
	}
	if amount > capacity || issued > capacity-amount {
		return nil, fmt.Errorf("%w: drop %d has %d of %d issued, cannot issue %d more",
			ErrCapacityExceeded, dropID, issued, capacity, amount)
	}
	ids := make([]*big.Int, amount)
	for i := uint64(0); i < amount; i++ {
		ids[i] = EncodeUnitID(dropID, issued+i)
	}
	return ids, nil
}

// CheckCapacityUpdate validates shrinking or growing a drop's capacity.
// Already-issued identifiers are never affected; the new bound only has
// to cover them.
func CheckCapacityUpdate(issued, newCapacity uint64) error {
	if err := CheckReserve(newCapacity); err != nil {
		return err
	}
	if newCapacity < issued {
		return fmt.Errorf("%w: new capacity %d < issued %d",
			ErrCapacityBelowIssued, newCapacity, issued)
	}
	return nil
}
