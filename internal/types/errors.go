package types

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPermission  = errors.New("permission denied")
	ErrConflict    = errors.New("conflict")
	ErrConsistency = errors.New("consistency error")
)

// Wrap annotates one of the sentinel errors above with detail while keeping it
// matchable through errors.Is.
func Wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
