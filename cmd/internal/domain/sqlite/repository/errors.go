package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a scoped delete matched no row. A missing id and
// an id owned by another path produce the same error.
var ErrNotFound = errors.New("record not found")

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
