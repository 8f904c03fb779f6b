package model

import "errors"

var (
	// ErrInvalidInputKind is returned when a material's description does not
	// match the modality an index was built for.
	ErrInvalidInputKind = errors.New("material input kind does not match index input kind")

	// ErrIndexUnavailable is returned when the reference corpus or its
	// precomputed features cannot be loaded.
	ErrIndexUnavailable = errors.New("reference corpus unavailable")

	// ErrLookupFailure wraps failures of the similarity or recipe backends.
	// Inside a traversal it only prunes the offending branch.
	ErrLookupFailure = errors.New("lookup failed")
)
