package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aerovia/airline-reservation/internal/booking"
	"github.com/aerovia/airline-reservation/internal/model"
	"github.com/aerovia/airline-reservation/internal/repository"
)

// SeatReserver is the slice of the booking coordinator the handler
// needs.  Tests substitute a stub.
type SeatReserver interface {
	ReserveSeats(ctx context.Context, flightID, userID uint64, reference string, seats []string) ([]model.Booking, error)
	BookedSeats(ctx context.Context, flightID uint64) ([]string, error)
}

// BookingHandler exposes the reservation endpoints.  Publish, when
// set, is called after a successful reservation with the created rows
// and the flight; failures there are logged by the caller and never
// affect the HTTP response.
type BookingHandler struct {
	Reserver SeatReserver
	Bookings *repository.BookingRepo
	Flights  *repository.FlightRepo
	Publish  func(bookings []model.Booking, flight *model.Flight)
}

func NewBookingHandler(r SeatReserver, b *repository.BookingRepo, f *repository.FlightRepo) *BookingHandler {
	return &BookingHandler{Reserver: r, Bookings: b, Flights: f}
}

type createBookingReq struct {
	FlightID         uint64   `json:"flight_id"`
	UserID           uint64   `json:"user_id"` // legacy wire field; the token's subject wins
	BookingReference string   `json:"booking_reference"`
	SeatNumbers      []string `json:"seat_numbers"`
}

// Create books every requested seat atomically, or none of them.
//
//	201 – all seats booked
//	400 – invalid request, duplicate seats, or over capacity
//	404 – unknown flight
//	409 – one or more seats already taken (all listed)
//	503 – store unavailable after retries
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	uid, ok := getUserID(c)
	if !ok {
		// The route is JWT-protected, so this only covers direct
		// handler invocation with the legacy body field.
		if req.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		uid = req.UserID
	}
	if req.FlightID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_id is required"})
	}
	reference := strings.TrimSpace(req.BookingReference)
	if reference == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_reference is required"})
	}
	seats := make([]string, 0, len(req.SeatNumbers))
	for _, s := range req.SeatNumbers {
		if s = strings.TrimSpace(s); s != "" {
			seats = append(seats, strings.ToUpper(s))
		}
	}

	created, err := h.Reserver.ReserveSeats(c.Request().Context(), req.FlightID, uid, reference, seats)
	if err != nil {
		return bookingError(c, err)
	}

	if h.Publish != nil {
		// Best-effort event publish; look the flight up outside the
		// admission transaction.
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if flight, ferr := h.Flights.GetByID(ctx, req.FlightID); ferr == nil {
			h.Publish(created, flight)
		}
	}
	return c.JSON(http.StatusCreated, created)
}

// bookingError maps coordinator errors onto HTTP responses.  Seat
// conflicts carry every conflicting seat so a client can fix its
// selection in one round trip.
func bookingError(c echo.Context, err error) error {
	var (
		dup      *booking.DuplicateSeatsError
		capacity *booking.CapacityError
		conflict *booking.SeatConflictError
	)
	switch {
	case errors.Is(err, booking.ErrNoSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_numbers is required"})
	case errors.As(err, &dup):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":           "duplicate seats in request",
			"duplicate_seats": dup.Seats,
		})
	case errors.As(err, &capacity):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     capacity.Error(),
			"requested": capacity.Requested,
			"available": capacity.Available,
		})
	case errors.Is(err, booking.ErrFlightNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":             "seats already booked",
			"conflicting_seats": conflict.Seats,
		})
	case errors.Is(err, booking.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking temporarily unavailable, please retry"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
}

// FlightSeats returns the sorted confirmed seat numbers for a flight,
// used by seat-map UIs to grey out taken seats.
func (h *BookingHandler) FlightSeats(c echo.Context) error {
	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || flightID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	seats, err := h.Reserver.BookedSeats(c.Request().Context(), flightID)
	if err != nil {
		if errors.Is(err, booking.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, seats)
}

// MyBookings lists the caller's bookings, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rows)
}
