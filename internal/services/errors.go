package services

import "errors"

// Caller input errors. Reported to the caller, never retried automatically.
var (
	ErrInvalidLocation = errors.New("invalid location coordinates")
	ErrInvalidRadius   = errors.New("radius must be positive")
	ErrInvalidDistance = errors.New("distance must be non-negative")
	ErrInvalidRating   = errors.New("rating out of range")
)

// Upstream dependency failure. The whole operation may be retried; no
// partial state is left behind.
var ErrRoutingUnavailable = errors.New("routing service unavailable")

// State-consistency errors. Reported as conflicts; retrying without
// re-reading state would repeat the same conflict.
var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingUnavailable = errors.New("booking is no longer available")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
)

// Account errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDriverNotFound     = errors.New("driver not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
