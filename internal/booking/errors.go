// Package booking implements the seat booking coordinator: the one
// place where a reservation request is validated against live seat
// occupancy and, when clean, applied atomically.  Handlers translate
// the error values defined here into HTTP responses.
package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFlightNotFound is returned when the requested flight does not
// exist.  Handlers should translate this into an HTTP 404 response.
var ErrFlightNotFound = errors.New("flight not found")

// ErrNoSeats is returned when a reservation request carries an empty
// seat list.
var ErrNoSeats = errors.New("seat_numbers is required")

// ErrStoreConflict signals that a concurrent admission touched the
// same flight between the conflict check and the write.  The
// coordinator retries on it; it never reaches callers directly.
var ErrStoreConflict = errors.New("store write conflict")

// ErrStoreUnavailable is returned when the store cannot complete the
// operation: transaction timeouts, connection failures, or retry
// exhaustion.  Handlers should translate this into a 5xx response.
var ErrStoreUnavailable = errors.New("booking store unavailable")

// DuplicateSeatsError rejects a request that names the same seat more
// than once.  Silently deduplicating would hide a caller bug, so the
// whole request fails.
type DuplicateSeatsError struct {
	Seats []string // each seat listed more than once, sorted
}

func (e *DuplicateSeatsError) Error() string {
	return fmt.Sprintf("duplicate seats in request: %s", strings.Join(e.Seats, ", "))
}

// CapacityError is returned when a request asks for more seats than
// the flight has available.  The whole request is rejected; there is
// no partial booking.
type CapacityError struct {
	Requested int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("requested %d seats but only %d available", e.Requested, e.Available)
}

// SeatConflictError is returned when one or more requested seats are
// already held by a confirmed booking.  Seats enumerates every
// conflicting seat, not just the first, so callers can re-prompt seat
// selection in one round trip.
type SeatConflictError struct {
	Seats []string // conflicting seat numbers, sorted
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already booked: %s", strings.Join(e.Seats, ", "))
}
