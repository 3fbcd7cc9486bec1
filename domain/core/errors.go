package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Argument errors
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnknownCategory   = fmt.Errorf("%w: unknown subject category", ErrInvalidArgument)
	ErrInvalidTrialCount = fmt.Errorf("%w: trial count must be positive", ErrInvalidArgument)
	ErrInvalidLikelihood = fmt.Errorf("%w: likelihood must lie strictly inside (0,1)", ErrInvalidArgument)
	ErrInvalidDiscrimin  = fmt.Errorf("%w: discriminability must lie in [0,1]", ErrInvalidArgument)
	ErrInvalidPrior      = fmt.Errorf("%w: prior must lie strictly inside (0,1)", ErrInvalidArgument)
	ErrInvalidPreset     = fmt.Errorf("%w: difficulty preset", ErrInvalidArgument)

	// Lifecycle errors
	ErrInvalidState     = errors.New("operation not valid in current session state")
	ErrNotStarted       = errors.New("session has no prior yet")
	ErrInsufficientData = errors.New("insufficient data for summary")

	// Lookup errors
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrTrialNotFound   = fmt.Errorf("%w: trial", ErrNotFound)
)

// Error constructors with context
func NewInvalidArgumentError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, field, reason)
}

func NewInvalidStateError(state string, operation string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidState, operation, state)
}

func NewSessionNotFoundError(id string) error {
	return fmt.Errorf("%w with id %s", ErrSessionNotFound, id)
}

// Error checking helpers
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

func IsNotStarted(err error) bool {
	return errors.Is(err, ErrNotStarted)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
