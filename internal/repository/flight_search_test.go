package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildFlightFiltersEmptyQuery(t *testing.T) {
	cond, args := buildFlightFilters(FlightSearchQuery{})
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)
}

func TestBuildFlightFiltersCities(t *testing.T) {
	cond, args := buildFlightFilters(FlightSearchQuery{
		DepartureCity: "Oslo",
		ArrivalCity:   "Berlin",
	})
	assert.Equal(t, "LOWER(departure_city) = ? AND LOWER(arrival_city) = ?", cond)
	assert.Equal(t, []any{"oslo", "berlin"}, args)
}

func TestBuildFlightFiltersDateWindow(t *testing.T) {
	d := time.Date(2026, 3, 14, 17, 45, 0, 0, time.UTC)
	cond, args := buildFlightFilters(FlightSearchQuery{Date: &d})
	assert.Equal(t, "departure_time >= ? AND departure_time < ?", cond)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), args[0])
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), args[1])
}

func TestBuildFlightFiltersAirlinePrefix(t *testing.T) {
	cond, args := buildFlightFilters(FlightSearchQuery{Airline: "av"})
	assert.Equal(t, "UPPER(flight_number) LIKE ?", cond)
	assert.Equal(t, []any{"AV%"}, args)
}

func TestBuildFlightFiltersPriceAndTimeOfDay(t *testing.T) {
	minP, maxP := 50.0, 200.0
	cond, args := buildFlightFilters(FlightSearchQuery{
		MinPrice:     &minP,
		MaxPrice:     &maxP,
		DepTimeStart: "06:00",
		DepTimeEnd:   "11:30",
	})
	assert.Equal(t,
		"price >= ? AND price <= ? AND TIME(departure_time) >= ? AND TIME(departure_time) <= ?",
		cond)
	assert.Equal(t, []any{50.0, 200.0, "06:00:00", "11:30:59"}, args)
}

func TestLimitOrDefault(t *testing.T) {
	assert.Equal(t, 10, FlightSearchQuery{}.limitOrDefault())
	assert.Equal(t, 25, FlightSearchQuery{Limit: 25}.limitOrDefault())
	assert.Equal(t, 100, FlightSearchQuery{Limit: 500}.limitOrDefault())
}
