package store

import "errors"

var (
	// ErrDropNotFound indicates no record exists for the drop id.
	ErrDropNotFound = errors.New("store: drop not found")

	// ErrNilRecord indicates a nil drop record was passed.
	ErrNilRecord = errors.New("store: nil drop record")

	// ErrNilUnit indicates a nil unit identifier was passed.
	ErrNilUnit = errors.New("store: nil unit identifier")
)
