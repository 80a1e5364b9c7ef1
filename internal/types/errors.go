package types

import "errors"

// Engine error taxonomy. Callers match with errors.Is.
var (
	// ErrNotFound means the requested record, person, or interaction is absent.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means an interaction was already completed; the existing
	// record is returned alongside it so retries stay idempotent.
	ErrConflict = errors.New("interaction already completed")
	// ErrInvalidDimension means an unknown attitude dimension name.
	ErrInvalidDimension = errors.New("invalid attitude dimension")
	// ErrValidation means malformed identifiers or an unknown target type.
	ErrValidation = errors.New("validation failed")
)
