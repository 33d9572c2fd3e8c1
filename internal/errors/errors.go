package errors

import (
	"errors"
	"fmt"
)

// Common error kinds for the student portal service
var (
	// Input errors
	ErrValidation = errors.New("invalid request")

	// Lookup errors
	ErrNotFound = errors.New("not found")

	// Authentication errors
	ErrAuthRejected = errors.New("authentication rejected")

	// Provider errors (SMS or identity provider call failed). Recovered at
	// the OTP issuer boundary, never surfaced as a hard failure there.
	ErrUpstreamProvider = errors.New("upstream provider failure")

	// Dataset errors (data file missing or malformed)
	ErrDataLoad = errors.New("failed to load dataset")

	// General errors
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
