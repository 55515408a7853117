package service

import (
	"errors"
	"fmt"

	"github.com/mateuschrist/taxdeed-api/internal/property"
)

var (
	ErrInvalidIdentity = property.ErrInvalidIdentity
	ErrInvalidInput    = errors.New("invalid input")
	ErrRunNotFound     = errors.New("run not found")
	ErrRunExists       = errors.New("run already exists")
)

// StorageError wraps a failure of the record store. Op names the operation
// that was in flight.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e == nil || e.Err == nil {
		return "storage error"
	}
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
