package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound            = errors.New("entity not found")
	ErrValidation          = errors.New("invalid argument")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrProviderError       = errors.New("provider reported failure")
	ErrTimeout             = errors.New("operation timed out")
)
