package domain

import "errors"

// Sentinel errors shared by repositories, services and adapters.
var (
	// ErrInvalidInput is returned when a value fails validation (e.g. an
	// out-of-range MMDD in the recurring catalog).
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedMessage is returned by a FeedSource when a payload could
	// not be decoded into a message.
	ErrMalformedMessage = errors.New("malformed feed message")
)
