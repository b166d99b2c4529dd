package models

import "errors"

// Sentinel errors shared across services and mapped to HTTP statuses by the
// controllers. Anything not matching one of these is treated as a dependency
// failure and surfaced as a generic server error.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")

	// ErrInvalidPair is returned when a room id is requested for a user
	// paired with themselves.
	ErrInvalidPair = errors.New("room requires two distinct users")

	// ErrMalformedRoomID is returned when a room id does not split into
	// exactly two participant ids.
	ErrMalformedRoomID = errors.New("malformed room id")
)
