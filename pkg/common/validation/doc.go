// Package validation provides common validation utilities for configuration
// parameters across the goprim library.
//
// Constructors such as workerpool.NewWithConfig and bridge.New use these
// helpers so that every invalid field is reported as a *errors.ValidationError
// that matches errors.ErrInvalidConfiguration.
package validation
