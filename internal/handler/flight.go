package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aerovia/airline-reservation/internal/model"
	"github.com/aerovia/airline-reservation/internal/repository"
)

// FlightHandler exposes flight browsing for everyone and flight CRUD
// for admins.
type FlightHandler struct {
	Flights *repository.FlightRepo
}

func NewFlightHandler(f *repository.FlightRepo) *FlightHandler {
	return &FlightHandler{Flights: f}
}

// List searches flights.  All filters are optional query parameters:
// departure_city, arrival_city, date (YYYY-MM-DD), airline (flight
// number prefix), min_price, max_price, dep_time_start/dep_time_end
// (HH:MM), offset, limit.
func (h *FlightHandler) List(c echo.Context) error {
	q := repository.FlightSearchQuery{
		DepartureCity: strings.TrimSpace(c.QueryParam("departure_city")),
		ArrivalCity:   strings.TrimSpace(c.QueryParam("arrival_city")),
		Airline:       strings.TrimSpace(c.QueryParam("airline")),
	}
	if v := c.QueryParam("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		q.Date = &d
	}
	if v := c.QueryParam("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "min_price must be a number"})
		}
		q.MinPrice = &p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_price must be a number"})
		}
		q.MaxPrice = &p
	}
	if v := c.QueryParam("dep_time_start"); v != "" {
		if !validClock(v) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dep_time_start must be HH:MM"})
		}
		q.DepTimeStart = v
	}
	if v := c.QueryParam("dep_time_end"); v != "" {
		if !validClock(v) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dep_time_end must be HH:MM"})
		}
		q.DepTimeEnd = v
	}
	q.Offset, _ = strconv.Atoi(c.QueryParam("offset"))
	q.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if q.Offset < 0 {
		q.Offset = 0
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	flights, err := h.Flights.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, flights)
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Get returns a single flight by id.
func (h *FlightHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	f, err := h.Flights.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, f)
}

type flightReq struct {
	FlightNumber   string    `json:"flight_number"`
	DepartureCity  string    `json:"departure_city"`
	ArrivalCity    string    `json:"arrival_city"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Price          float64   `json:"price"`
	AvailableSeats int       `json:"available_seats"`
}

func (r flightReq) validate() string {
	switch {
	case strings.TrimSpace(r.FlightNumber) == "":
		return "flight_number is required"
	case strings.TrimSpace(r.DepartureCity) == "":
		return "departure_city is required"
	case strings.TrimSpace(r.ArrivalCity) == "":
		return "arrival_city is required"
	case r.DepartureTime.IsZero() || r.ArrivalTime.IsZero():
		return "departure_time and arrival_time are required"
	case !r.ArrivalTime.After(r.DepartureTime):
		return "arrival_time must be after departure_time"
	case r.Price < 0:
		return "price must not be negative"
	case r.AvailableSeats < 0:
		return "available_seats must not be negative"
	}
	return ""
}

// Create adds a flight (admin only).
func (h *FlightHandler) Create(c echo.Context) error {
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	f := model.Flight{
		FlightNumber:   strings.ToUpper(strings.TrimSpace(req.FlightNumber)),
		DepartureCity:  strings.TrimSpace(req.DepartureCity),
		ArrivalCity:    strings.TrimSpace(req.ArrivalCity),
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		Price:          req.Price,
		AvailableSeats: req.AvailableSeats,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Flights.Create(ctx, &f); err != nil {
		if err == repository.ErrFlightNumberExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "flight number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create flight failed"})
	}
	return c.JSON(http.StatusCreated, f)
}

// Update rewrites a flight (admin only).
func (h *FlightHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	f := model.Flight{
		ID:             id,
		FlightNumber:   strings.ToUpper(strings.TrimSpace(req.FlightNumber)),
		DepartureCity:  strings.TrimSpace(req.DepartureCity),
		ArrivalCity:    strings.TrimSpace(req.ArrivalCity),
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		Price:          req.Price,
		AvailableSeats: req.AvailableSeats,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Flights.Update(ctx, &f); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		case repository.ErrFlightNumberExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "flight number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update flight failed"})
	}
	return c.JSON(http.StatusOK, f)
}

// Delete removes a flight without confirmed bookings (admin only).
func (h *FlightHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Flights.Delete(ctx, id); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "flight has confirmed bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete flight failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Airlines lists the distinct airline codes present in the schedule.
func (h *FlightHandler) Airlines(c echo.Context) error {
	codes, err := h.Flights.Airlines(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"airlines": codes})
}

// PriceRange returns the lowest and highest ticket price on offer,
// scaled by the optional travelers query parameter so a family search
// sees total trip bounds.
func (h *FlightHandler) PriceRange(c echo.Context) error {
	travelers := 1
	if v := c.QueryParam("travelers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "travelers must be a positive integer"})
		}
		travelers = n
	}
	minPrice, maxPrice, err := h.Flights.PriceRange(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"min_price": minPrice * float64(travelers),
		"max_price": maxPrice * float64(travelers),
		"travelers": travelers,
	})
}
