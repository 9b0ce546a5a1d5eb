package database

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks requests the store refuses before touching the database.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound is returned by updates whose target row does not exist.
	ErrNotFound = errors.New("record not found")
)

// StorageError wraps any failure of the underlying database: connection, syntax or constraint violation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error in %s: %v", e.Op, e.Err)
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

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
