package records

import "errors"

var (
	// ErrNotFound indicates nothing is stored under the key.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a missing owner or key.
	ErrInvalidInput = errors.New("invalid input")
)
