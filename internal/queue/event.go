// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// BookingConfirmedEvent is published after a reservation commits.  It
// carries enough for downstream consumers (notifications, analytics)
// to act without querying the primary database.
type BookingConfirmedEvent struct {
	BookingReference string   `json:"booking_reference"`
	UserID           uint64   `json:"user_id"`
	FlightID         uint64   `json:"flight_id"`
	FlightNumber     string   `json:"flight_number"`
	DepartureCity    string   `json:"departure_city"`
	ArrivalCity      string   `json:"arrival_city"`
	DepartureTime    string   `json:"departure_time"`
	Seats            []string `json:"seats"`
	TotalPrice       float64  `json:"total_price"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
