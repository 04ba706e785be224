package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrAlreadyCancelled is returned when the conditional cancel matches
	// no confirmed document, meaning someone cancelled it first.
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)
