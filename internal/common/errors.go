package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors for presence checks on user input.
	ErrValidation = errors.New("validation error")
)
