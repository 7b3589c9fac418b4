package storage

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a requested entity doesn't exist in the store
// or is not visible to the public.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e NotFoundError) Error() string {
	if e.Key == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// ConflictError is returned when an insert would duplicate a unique key.
type ConflictError struct {
	Entity string
	Key    string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.Key)
}
