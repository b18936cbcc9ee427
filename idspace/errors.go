package idspace

import "errors"

var (
	// ErrInvalidCapacity indicates a drop capacity of zero or above the
	// partition width.
	ErrInvalidCapacity = errors.New("idspace: invalid capacity")

	// ErrInvalidAmount indicates an issuance amount of zero.
	ErrInvalidAmount = errors.New("idspace: invalid issue amount")

	// ErrCapacityExceeded indicates issuance past the drop's upper bound.
	ErrCapacityExceeded = errors.New("idspace: capacity exceeded")

	// ErrCapacityBelowIssued indicates a capacity update below the
	// current issuance cursor.
	ErrCapacityBelowIssued = errors.New("idspace: capacity below issued count")

	// ErrUnitDropMismatch indicates a unit identifier that does not
	// belong to the stated drop.
	ErrUnitDropMismatch = errors.New("idspace: unit does not belong to drop")

	// ErrInvalidUnitID indicates a unit identifier outside the encodable
	// drop range.
	ErrInvalidUnitID = errors.New("idspace: invalid unit identifier")
)
