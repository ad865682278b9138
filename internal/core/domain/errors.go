package domain

import "errors"

// Validation errors. All of them are raised before any network call is made.
var (
	// ErrInvalidFilter indicates a subscription request that does not resolve to exactly one filter.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidBlockIdentifier indicates a block identifier that is neither absent nor an integer.
	ErrInvalidBlockIdentifier = errors.New("invalid block identifier")

	// ErrInvalidRange indicates an unknown value bucket label.
	ErrInvalidRange = errors.New("invalid value range")
)
