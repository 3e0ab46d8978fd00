package model

import "time"

// Flight represents a scheduled flight as stored in the `flights`
// table.  The available seat counter is the only field mutated by
// the booking path; every decrement bumps Version so concurrent
// writers can detect each other.
//
// Fields:
//  ID             – primary key identifier.
//  FlightNumber   – unique flight code, e.g. "AV204".  The leading
//                   letters form the airline code.
//  DepartureCity  – city the flight departs from.
//  ArrivalCity    – city the flight arrives at.
//  DepartureTime  – scheduled departure (UTC).
//  ArrivalTime    – scheduled arrival (UTC, must be after departure).
//  Price          – ticket price per seat.
//  AvailableSeats – seats still open for booking; never negative.
//  Version        – optimistic-concurrency counter, incremented on
//                   every seat-count update.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Flight struct {
	ID             uint64    `json:"id"`              // flights.id
	FlightNumber   string    `json:"flight_number"`   // flights.flight_number
	DepartureCity  string    `json:"departure_city"`  // flights.departure_city
	ArrivalCity    string    `json:"arrival_city"`    // flights.arrival_city
	DepartureTime  time.Time `json:"departure_time"`  // flights.departure_time
	ArrivalTime    time.Time `json:"arrival_time"`    // flights.arrival_time
	Price          float64   `json:"price"`           // flights.price
	AvailableSeats int       `json:"available_seats"` // flights.available_seats
	Version        uint64    `json:"-"`               // flights.version
	CreatedAt      time.Time `json:"created_at"`      // flights.created_at
	UpdatedAt      time.Time `json:"updated_at"`      // flights.updated_at
}

// AirlineCode returns the leading letters of the flight number, which
// identify the operating airline ("AV204" -> "AV").  An empty string
// is returned when the flight number does not start with a letter.
func (f Flight) AirlineCode() string {
	for i := 0; i < len(f.FlightNumber); i++ {
		ch := f.FlightNumber[i]
		if (ch < 'A' || ch > 'Z') && (ch < 'a' || ch > 'z') {
			return f.FlightNumber[:i]
		}
	}
	return f.FlightNumber
}
