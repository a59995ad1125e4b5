package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Hard failures: these abort the pipeline run
	ErrPlanNotFound     = errors.New("analysis plan not found")
	ErrPlanInvalid      = errors.New("analysis plan invalid")
	ErrDataFileNotFound = errors.New("data file not found")
	ErrColumnMissing    = errors.New("required column missing from data")

	// Statistical preconditions
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Determinism errors
	ErrHashMismatch = errors.New("hash mismatch")
)

// Error constructors with context

func NewPlanNotFoundError(path string) error {
	return fmt.Errorf("%w: %s", ErrPlanNotFound, path)
}

func NewDataFileNotFoundError(path string) error {
	return fmt.Errorf("%w: %s", ErrDataFileNotFound, path)
}

// NewColumnMissingError names the exact identifier so the plan author can
// fix the declarative configuration without reading code.
func NewColumnMissingError(role, column string) error {
	return fmt.Errorf("%w: %s column %q", ErrColumnMissing, role, column)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers

func IsHardFailure(err error) bool {
	return errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrPlanInvalid) ||
		errors.Is(err, ErrDataFileNotFound) ||
		errors.Is(err, ErrColumnMissing)
}

func IsPlanError(err error) bool {
	return errors.Is(err, ErrPlanNotFound) || errors.Is(err, ErrPlanInvalid)
}
