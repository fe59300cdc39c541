package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidMovement is returned when a movement other than Left or Right is applied.
var ErrInvalidMovement = errors.New("invalid movement")

// ErrMalformedDefinition is returned when a machine definition violates its invariants.
var ErrMalformedDefinition = errors.New("malformed definition")

// ErrNegativeBudget is returned when a run is requested with a negative step budget.
var ErrNegativeBudget = errors.New("negative step budget")

// ErrUnknownMachine is returned when a named machine is not registered.
var ErrUnknownMachine = errors.New("unknown machine")

// ErrInvalidRunID is returned when a run ID cannot be used by a result store.
var ErrInvalidRunID = errors.New("invalid run ID")

// ErrResultNotFound is returned when a run record cannot be found in the store.
var ErrResultNotFound = errors.New("result not found")

// MalformedDefinitionError describes why a definition was rejected at construction time.
type MalformedDefinitionError struct {
	Reason string
	Cause  error
}

func (e *MalformedDefinitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed definition: %s: %v", e.Reason, e.Cause)
	}
	return "malformed definition: " + e.Reason
}

// Unwrap exposes both ErrMalformedDefinition and the underlying cause (if any).
func (e *MalformedDefinitionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrMalformedDefinition, e.Cause}
	}
	return []error{ErrMalformedDefinition}
}

func malformed(format string, args ...any) error {
	return &MalformedDefinitionError{Reason: fmt.Sprintf(format, args...)}
}
