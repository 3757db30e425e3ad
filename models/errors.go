package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrNoData is returned when an operation needs a loaded dataset and none
	// has been loaded yet.
	ErrNoData = errors.New("no data loaded")

	// ErrNoCleanData is returned when the cleaned dataset is requested before
	// cleaning has run.
	ErrNoCleanData = errors.New("no clean data available")
)

// ValidationError describes why an entity could not be constructed.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Entity, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) hold for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(entity, field, reason string) error {
	return &ValidationError{Entity: entity, Field: field, Reason: reason}
}
