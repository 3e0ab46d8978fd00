package repository

import (
	"strings"
	"time"
)

// FlightSearchQuery defines filters & pagination for listing flights.
// Pointer fields and empty strings mean "no filter".
type FlightSearchQuery struct {
	DepartureCity string
	ArrivalCity   string
	Date          *time.Time // whole-day window on departure_time (UTC)
	Airline       string     // flight-number prefix, case-insensitive
	MinPrice      *float64
	MaxPrice      *float64
	DepTimeStart  string // time of day "HH:MM", inclusive
	DepTimeEnd    string // time of day "HH:MM", inclusive
	Offset        int
	Limit         int
}

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

func (q FlightSearchQuery) limitOrDefault() int {
	switch {
	case q.Limit <= 0:
		return defaultSearchLimit
	case q.Limit > maxSearchLimit:
		return maxSearchLimit
	default:
		return q.Limit
	}
}

// buildFlightFilters turns a query into a WHERE condition and its
// arguments.  It always returns a valid condition ("1=1" when no
// filter applies) so callers can append it unconditionally.
func buildFlightFilters(q FlightSearchQuery) (string, []any) {
	where := []string{}
	args := []any{}

	if q.DepartureCity != "" {
		where = append(where, "LOWER(departure_city) = ?")
		args = append(args, strings.ToLower(q.DepartureCity))
	}
	if q.ArrivalCity != "" {
		where = append(where, "LOWER(arrival_city) = ?")
		args = append(args, strings.ToLower(q.ArrivalCity))
	}
	if q.Date != nil {
		day := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, time.UTC)
		where = append(where, "departure_time >= ? AND departure_time < ?")
		args = append(args, day, day.AddDate(0, 0, 1))
	}
	if q.Airline != "" {
		where = append(where, "UPPER(flight_number) LIKE ?")
		args = append(args, strings.ToUpper(q.Airline)+"%")
	}
	if q.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *q.MaxPrice)
	}
	if q.DepTimeStart != "" {
		where = append(where, "TIME(departure_time) >= ?")
		args = append(args, q.DepTimeStart+":00")
	}
	if q.DepTimeEnd != "" {
		where = append(where, "TIME(departure_time) <= ?")
		args = append(args, q.DepTimeEnd+":59")
	}

	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}
