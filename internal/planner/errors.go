package planner

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a trip, item, or storage key does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule
// (e.g. blank trip name, end date before start date).
var ErrValidation = errors.New("validation error")

// ErrStorage matches any *StorageError via errors.Is.
var ErrStorage = errors.New("storage error")

// StorageError reports a backend I/O failure or a value that could not be
// encoded or decoded. It is always propagated to the caller.
type StorageError struct {
	Op  string // "get", "set", "remove", "encode" or "decode"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStorage) match without callers needing errors.As.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// validationf wraps ErrValidation with a formatted reason.
func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
