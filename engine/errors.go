package engine

import "errors"

var (
	// ErrUnitNotFound indicates the ownership registry has no record
	// of the unit.
	ErrUnitNotFound = errors.New("engine: unit not found")

	// ErrNotOwner indicates the claimant does not own a listed unit.
	ErrNotOwner = errors.New("engine: claimant does not own unit")

	// ErrInsufficientBalance is propagated by fungible-ledger
	// collaborators when a transfer cannot be funded.
	ErrInsufficientBalance = errors.New("engine: insufficient balance")

	// ErrExcessiveClaim indicates a claim-earnings amount above the
	// summed claimable entitlement of the listed units.
	ErrExcessiveClaim = errors.New("engine: claim exceeds entitlement")

	// ErrDuplicateUnit indicates a unit listed more than once in a
	// claim; a repeated unit would double-count its entitlement.
	ErrDuplicateUnit = errors.New("engine: duplicate unit in claim")

	// ErrNilCollaborator indicates the engine was constructed without a
	// required collaborator.
	ErrNilCollaborator = errors.New("engine: nil collaborator")
)
