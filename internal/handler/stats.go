package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aerovia/airline-reservation/internal/repository"
)

// StatsHandler aggregates simple operational counts.
type StatsHandler struct {
	Flights  *repository.FlightRepo
	Bookings *repository.BookingRepo
}

func NewStatsHandler(f *repository.FlightRepo, b *repository.BookingRepo) *StatsHandler {
	return &StatsHandler{Flights: f, Bookings: b}
}

// Overview returns totals for dashboards: flight count, booking count
// and flights still to depart.
func (h *StatsHandler) Overview(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	totalFlights, err := h.Flights.CountAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	totalBookings, err := h.Bookings.CountAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	upcoming, err := h.Flights.CountUpcoming(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_flights":    totalFlights,
		"total_bookings":   totalBookings,
		"upcoming_flights": upcoming,
	})
}
