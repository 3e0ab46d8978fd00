package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerovia/airline-reservation/internal/booking"
	"github.com/aerovia/airline-reservation/internal/model"
)

// reserverStub scripts the coordinator's answers for handler tests.
type reserverStub struct {
	bookings []model.Booking
	seats    []string
	err      error

	gotFlightID  uint64
	gotUserID    uint64
	gotReference string
	gotSeats     []string
}

func (s *reserverStub) ReserveSeats(_ context.Context, flightID, userID uint64, reference string, seats []string) ([]model.Booking, error) {
	s.gotFlightID = flightID
	s.gotUserID = userID
	s.gotReference = reference
	s.gotSeats = seats
	if s.err != nil {
		return nil, s.err
	}
	return s.bookings, nil
}

func (s *reserverStub) BookedSeats(_ context.Context, flightID uint64) ([]string, error) {
	s.gotFlightID = flightID
	if s.err != nil {
		return nil, s.err
	}
	return s.seats, nil
}

func newBookingContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7)) // as JWTAuth stores numeric claims
	return c, rec
}

func TestCreateBooksSeats(t *testing.T) {
	stub := &reserverStub{bookings: []model.Booking{
		{ID: 1, UserID: 7, FlightID: 3, BookingReference: "REF-1", SeatNumber: "12A", Status: model.BookingStatusConfirmed},
		{ID: 2, UserID: 7, FlightID: 3, BookingReference: "REF-1", SeatNumber: "12B", Status: model.BookingStatusConfirmed},
	}}
	h := NewBookingHandler(stub, nil, nil)

	c, rec := newBookingContext(t, `{"flight_id":3,"booking_reference":"REF-1","seat_numbers":["12a"," 12B "]}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(3), stub.gotFlightID)
	assert.Equal(t, uint64(7), stub.gotUserID)
	assert.Equal(t, "REF-1", stub.gotReference)
	assert.Equal(t, []string{"12A", "12B"}, stub.gotSeats, "seats should be trimmed and uppercased")
	assert.Contains(t, rec.Body.String(), `"booking_reference":"REF-1"`)
}

func TestCreateRequiresReference(t *testing.T) {
	h := NewBookingHandler(&reserverStub{}, nil, nil)
	c, rec := newBookingContext(t, `{"flight_id":3,"seat_numbers":["12A"]}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateMapsCoordinatorErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"empty seats", booking.ErrNoSeats, http.StatusBadRequest, "seat_numbers"},
		{"duplicate seats", &booking.DuplicateSeatsError{Seats: []string{"9C"}}, http.StatusBadRequest, "9C"},
		{"over capacity", &booking.CapacityError{Requested: 4, Available: 2}, http.StatusBadRequest, `"available":2`},
		{"unknown flight", booking.ErrFlightNotFound, http.StatusNotFound, "flight not found"},
		{"taken seats", &booking.SeatConflictError{Seats: []string{"14A", "14C"}}, http.StatusConflict, "conflicting_seats"},
		{"store down", booking.ErrStoreUnavailable, http.StatusServiceUnavailable, "retry"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewBookingHandler(&reserverStub{err: tc.err}, nil, nil)
			c, rec := newBookingContext(t, `{"flight_id":3,"booking_reference":"REF-1","seat_numbers":["14A","14C"]}`)
			require.NoError(t, h.Create(c))
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}

func TestCreateEnumeratesEveryConflictSeat(t *testing.T) {
	h := NewBookingHandler(&reserverStub{err: &booking.SeatConflictError{Seats: []string{"14A", "14B", "14C"}}}, nil, nil)
	c, rec := newBookingContext(t, `{"flight_id":3,"booking_reference":"REF-1","seat_numbers":["14A","14B","14C"]}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	for _, seat := range []string{"14A", "14B", "14C"} {
		assert.Contains(t, rec.Body.String(), seat)
	}
}

func TestCreateRequiresAuthenticatedUser(t *testing.T) {
	h := NewBookingHandler(&reserverStub{}, nil, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(`{"flight_id":3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no user_id in context

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFlightSeatsReturnsSortedSeats(t *testing.T) {
	stub := &reserverStub{seats: []string{"1A", "1B", "2C"}}
	h := NewBookingHandler(stub, nil, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings/flight/:id/seats")
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.FlightSeats(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), stub.gotFlightID)
	assert.Equal(t, "[\"1A\",\"1B\",\"2C\"]\n", rec.Body.String())
}

func TestFlightSeatsUnknownFlight(t *testing.T) {
	h := NewBookingHandler(&reserverStub{err: booking.ErrFlightNotFound}, nil, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings/flight/:id/seats")
	c.SetParamNames("id")
	c.SetParamValues("9000")

	require.NoError(t, h.FlightSeats(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
