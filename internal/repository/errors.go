package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate entity")
)

// DuplicateError reports which unique constraint a write violated.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return "duplicate value violates " + e.Constraint
}

// Unwrap lets errors.Is(err, ErrDuplicate) match.
func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}
