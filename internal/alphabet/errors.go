package alphabet

import "errors"

// Sentinel errors for invalid alphabet configuration.
var (
	// ErrUnknownAlphabet indicates a name that is not in the registry.
	ErrUnknownAlphabet = errors.New("alphabet: unknown alphabet")

	// ErrDuplicateLetter indicates a letter listed more than once.
	ErrDuplicateLetter = errors.New("alphabet: duplicate letter")

	// ErrUnsorted indicates letters out of order for an alphabet that requires sorting.
	ErrUnsorted = errors.New("alphabet: letters not sorted")
)
