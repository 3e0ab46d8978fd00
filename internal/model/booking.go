package model

import "time"

// Booking statuses.  Only confirmed bookings hold a seat; cancelled
// is reachable through future status transitions and pending is kept
// for payment-gated flows.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusPending   = "pending"
)

// Booking records one seat held by one user on one flight.  A
// multi-seat reservation produces several rows sharing the same
// BookingReference, all written in a single transaction.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who made the booking.
//  FlightID         – flight being booked.
//  BookingReference – caller-supplied reference grouping the rows of
//                     one reservation request.
//  SeatNumber       – seat label such as "12A".
//  Status           – confirmed, cancelled or pending.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Booking struct {
	ID               uint64    `json:"id"`                // bookings.id
	UserID           uint64    `json:"user_id"`           // bookings.user_id
	FlightID         uint64    `json:"flight_id"`         // bookings.flight_id
	BookingReference string    `json:"booking_reference"` // bookings.booking_reference
	SeatNumber       string    `json:"seat_number"`       // bookings.seat_number
	Status           string    `json:"booking_status"`    // bookings.booking_status
	CreatedAt        time.Time `json:"created_at"`        // bookings.created_at
	UpdatedAt        time.Time `json:"updated_at"`        // bookings.updated_at
}

// BookingDraft carries the fields needed to insert a booking row.
// The repository fills in the generated ID and timestamps.
type BookingDraft struct {
	UserID           uint64
	FlightID         uint64
	BookingReference string
	SeatNumber       string
	Status           string
}
