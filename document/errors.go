package document

import "errors"

// Errors returned by document operations.
var (
	// ErrOffsetOutOfRange indicates an offset outside [0, Len].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates a range with end before start or bounds
	// outside the document.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrInvalidOperation indicates a mutation attempted from inside a
	// change notification, an unmatched EndUpdate, or a second
	// concurrent mutator.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrAnchorInvalidated indicates use of an anchor whose position was
	// deleted by an earlier edit (or that was released).
	ErrAnchorInvalidated = errors.New("anchor invalidated")

	// ErrVersionNotFound indicates a journal query for a version that
	// was evicted or never existed.
	ErrVersionNotFound = errors.New("version not found")

	// ErrMarkNotFound indicates an unknown journal mark.
	ErrMarkNotFound = errors.New("mark not found")
)
