package errors

import "errors"

var (
	ErrNotFound = errors.New("flight not found")

	ErrInvalidID = errors.New("invalid flight ID format")

	// ErrInsufficientSeats is returned when the conditional decrement
	// matches no document, meaning availability dropped below the request.
	ErrInsufficientSeats = errors.New("insufficient seats available")
)
