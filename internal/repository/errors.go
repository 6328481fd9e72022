// Package repository implements the persistence gateway: typed query
// operations over MySQL for every entity in the platform.  Sentinel
// errors defined here let handlers map failure scenarios onto HTTP
// status codes without inspecting driver errors.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// Not-found sentinels per entity.  Handlers translate these into 404.
var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrHotelNotFound   = errors.New("hotel not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrCarNotFound     = errors.New("car not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrBookingNotFound = errors.New("booking not found")
)

// ErrResourceInactive is returned when a booking targets a room or car
// whose is_active flag is off.  Handlers translate this into 400.
var ErrResourceInactive = errors.New("resource is not available")

// ErrOverlap is returned when a requested date range intersects an
// existing non-cancelled booking on the same resource.
var ErrOverlap = errors.New("already booked for the selected dates")

// ErrAlreadyCancelled is returned when cancelling a booking that is
// already in the CANCELLED state.  Handlers translate this into 409.
var ErrAlreadyCancelled = errors.New("booking already cancelled")
