// Package idspace partitions a flat 256-bit identifier space into
// disjoint per-drop ranges and enforces issuance bounds within them.
//
// A unit identifier encodes its drop as
//
//	unit = dropID*PartitionWidth + offset, offset in [0, capacity)
//
// so ranges of distinct drops never intersect as long as no capacity
// exceeds PartitionWidth. The drop a unit belongs to is recovered by
// integer division.
package idspace

import (
	"fmt"
	"math/big"
)

// PartitionWidth is the size of each drop's identifier range (10^9).
// No drop capacity may exceed it.
const PartitionWidth = 1_000_000_000

var partitionWidth = big.NewInt(PartitionWidth)

// EncodeUnitID returns the unit identifier for offset within dropID's
// range. Offsets at or beyond PartitionWidth are the caller's bug; the
// allocation rules reject capacities that could produce them.
func EncodeUnitID(dropID, offset uint64) *big.Int {
	unit := new(big.Int).SetUint64(dropID)
	unit.Mul(unit, partitionWidth)
	return unit.Add(unit, new(big.Int).SetUint64(offset))
}

// DecodeUnitID splits a unit identifier into its owning drop and the
// offset within that drop's range.
func DecodeUnitID(unit *big.Int) (dropID, offset uint64, err error) {
	if unit == nil || unit.Sign() < 0 {
		return 0, 0, fmt.Errorf("%w: nil or negative", ErrInvalidUnitID)
	}
	q, r := new(big.Int).QuoRem(unit, partitionWidth, new(big.Int))
	if !q.IsUint64() {
		return 0, 0, fmt.Errorf("%w: drop id out of range", ErrInvalidUnitID)
	}
	return q.Uint64(), r.Uint64(), nil
}

// DropOf returns the drop a unit identifier belongs to.
func DropOf(unit *big.Int) (uint64, error) {
	dropID, _, err := DecodeUnitID(unit)
	return dropID, err
}

// SameDrop verifies that unit belongs to dropID. Every operation taking
// both a drop id and unit ids must call this to catch mismatched batch
// arguments.
func SameDrop(dropID uint64, unit *big.Int) error {
	derived, _, err := DecodeUnitID(unit)
	if err != nil {
		return err
	}
	if derived != dropID {
		return fmt.Errorf("%w: unit %s derives drop %d, want %d",
			ErrUnitDropMismatch, unit.String(), derived, dropID)
	}
	return nil
}
