// Package database contains the repositories backing the hotel domain.
// Sentinel errors defined here let the service and handler layers
// distinguish failure scenarios without inspecting error strings:
// handlers translate ErrNotFound into a 404 response and the range and
// availability errors into 400 responses.
package database

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidRange is returned when a reservation's check-in timestamp
// is not strictly before its check-out timestamp.
var ErrInvalidRange = errors.New("check_in must be before check_out")

// ErrRoomUnavailable is returned when a reservation would overlap an
// existing non-cancelled reservation on the same room. Date ranges are
// half-open [check_in, check_out), so reservations that only touch at
// an endpoint do not conflict.
var ErrRoomUnavailable = errors.New("room is already booked for the requested date range")

// ErrNoAvailability is returned when no room of the requested type is
// currently available.
var ErrNoAvailability = errors.New("no available rooms of the requested type")
