package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Analysis errors. Rows with missing fields never produce an error:
	// the cohort builder drops them silently and reports a count.
	ErrInsufficientSample = errors.New("insufficient sample size")
	ErrNotComputable      = errors.New("test statistic not computable")

	// Lookup errors
	ErrMarkerNotFound = errors.New("marker column not found")
	ErrSweepNotFound  = errors.New("sweep not found")

	// Invocation errors
	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors with context
func NewMarkerNotFoundError(marker string) error {
	return fmt.Errorf("%w: %s", ErrMarkerNotFound, marker)
}

func NewInvalidInputError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

// Error checking helpers
func IsNotComputable(err error) bool {
	return errors.Is(err, ErrNotComputable)
}

func IsMarkerNotFound(err error) bool {
	return errors.Is(err, ErrMarkerNotFound)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
