package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an entity was not located.
var ErrNotFound = errors.New("repository: not found")

// DuplicateError reports a store-level unique constraint rejection. The
// constraint name lets callers decide which field collided; the store, not
// the application, is the authority on uniqueness so concurrent inserts
// race safely.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("repository: duplicate key (constraint %s)", e.Constraint)
}

// IsDuplicate reports whether err is a unique constraint rejection.
func IsDuplicate(err error) bool {
	var dup *DuplicateError
	return errors.As(err, &dup)
}
