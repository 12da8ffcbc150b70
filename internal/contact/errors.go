package contact

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the store, service and exporters.
var (
	// ErrIO is returned when the contact file cannot be read or written.
	// A missing file is not an error.
	ErrIO = errors.New("contact store i/o failed")

	// ErrValidation is returned when a phone or email fails its format check.
	ErrValidation = errors.New("invalid contact field")

	// ErrInvalidField is returned when a search names an unknown field.
	ErrInvalidField = errors.New("invalid search field")

	// ErrOutOfRange is returned when a positional index is outside [1, len].
	ErrOutOfRange = errors.New("contact index out of range")

	// ErrNoData is returned when exporting an empty collection.
	ErrNoData = errors.New("no contacts to export")
)

// ValidationError reports which field was rejected and with what value.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Field Field
	Value string
}

func (e *ValidationError) Error() string {
	switch e.Field {
	case FieldPhone:
		return fmt.Sprintf("invalid phone number %q: must be exactly 10 digits", e.Value)
	case FieldEmail:
		return fmt.Sprintf("invalid email %q", e.Value)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func outOfRange(index, n int) error {
	if n == 0 {
		return fmt.Errorf("%w: %d (no contacts)", ErrOutOfRange, index)
	}
	return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrOutOfRange, index, n)
}
