package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSources indicates no usable source root was found or
	// configured. A build cannot proceed without at least one.
	ErrNoSources = errors.New("no source roots")

	// ErrRootUnreadable indicates a source root directory is missing
	// or inaccessible. Non-fatal: the root is skipped and reported.
	ErrRootUnreadable = errors.New("source root unreadable")

	// ErrOutputWrite indicates the final document could not be
	// written. Fatal: producing the document is the whole purpose.
	ErrOutputWrite = errors.New("output write failed")
)
