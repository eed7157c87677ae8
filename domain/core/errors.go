package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Specification errors
	ErrInvalidSpec      = errors.New("invalid power analysis specification")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrSingularDesign   = errors.New("design matrix is rank deficient")
	ErrLengthMismatch   = errors.New("input lengths do not match")

	// Numerical errors
	ErrRootBracket   = errors.New("search interval does not bracket a root")
	ErrNoConvergence = errors.New("root finder did not converge")

	// Storage errors
	ErrNotFound = errors.New("resource not found")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewInsufficientDataError(n, required int) error {
	return fmt.Errorf("%w: have %d observations, need more than %d", ErrInsufficientData, n, required)
}

func NewLengthMismatchError(what string, got, want int) error {
	return fmt.Errorf("%w: %s has %d values, expected %d", ErrLengthMismatch, what, got, want)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInputError reports errors caused by the caller's input rather than numerics.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidSpec) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrSingularDesign) ||
		errors.Is(err, ErrLengthMismatch)
}

func IsNumericalError(err error) bool {
	return errors.Is(err, ErrRootBracket) ||
		errors.Is(err, ErrNoConvergence)
}
