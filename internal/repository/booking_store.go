package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aerovia/airline-reservation/internal/booking"
	"github.com/aerovia/airline-reservation/internal/model"
)

// BookingStore is the MySQL implementation of booking.Store.  It
// composes the flight and booking repositories and owns the
// transaction boundary the coordinator runs inside.
//
// Two independent mechanisms turn lost-update races into
// booking.ErrStoreConflict, which the coordinator retries:
//   - the version-guarded UPDATE on flights.available_seats;
//   - the uniq_flight_confirmed_seat index on bookings
//     (flight_id, confirmed_seat), where confirmed_seat is a
//     generated column that is NULL unless booking_status is
//     'confirmed'.
type BookingStore struct {
	db       *sql.DB
	flights  *FlightRepo
	bookings *BookingRepo
}

// NewBookingStore builds a BookingStore over one shared database
// handle.
func NewBookingStore(db *sql.DB, flights *FlightRepo, bookings *BookingRepo) *BookingStore {
	if db == nil || flights == nil || bookings == nil {
		panic("nil dependency passed to NewBookingStore")
	}
	return &BookingStore{db: db, flights: flights, bookings: bookings}
}

// GetFlight implements booking.Store.
func (s *BookingStore) GetFlight(ctx context.Context, flightID uint64) (*model.Flight, error) {
	f, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, mapFlightErr(err)
	}
	return f, nil
}

// ListConfirmedSeats implements booking.Store.
func (s *BookingStore) ListConfirmedSeats(ctx context.Context, flightID uint64) ([]string, error) {
	seats, err := s.bookings.ListConfirmedSeats(ctx, flightID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return seats, nil
}

// RunInTx implements booking.Store using the usual
// commit-or-deferred-rollback pattern.
func (s *BookingStore) RunInTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapStoreErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&sqlTx{store: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapStoreErr(err)
	}
	committed = true
	return nil
}

// sqlTx adapts one *sql.Tx to the booking.Tx interface.
type sqlTx struct {
	store *BookingStore
	tx    *sql.Tx
}

func (t *sqlTx) GetFlight(ctx context.Context, flightID uint64) (*model.Flight, error) {
	f, err := t.store.flights.GetByIDTx(ctx, t.tx, flightID)
	if err != nil {
		return nil, mapFlightErr(err)
	}
	return f, nil
}

func (t *sqlTx) ConfirmedSeatsIn(ctx context.Context, flightID uint64, seats []string) ([]string, error) {
	hits, err := t.store.bookings.ConfirmedSeatsInTx(ctx, t.tx, flightID, seats)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return hits, nil
}

func (t *sqlTx) InsertBookings(ctx context.Context, drafts []model.BookingDraft) ([]model.Booking, error) {
	created, err := t.store.bookings.CreateBulkTx(ctx, t.tx, drafts)
	if err != nil {
		if isDuplicateKey(err) {
			// Lost the unique-index race on a confirmed seat: another
			// admission committed between our check and this insert.
			return nil, booking.ErrStoreConflict
		}
		return nil, mapStoreErr(err)
	}
	return created, nil
}

func (t *sqlTx) UpdateAvailableSeats(ctx context.Context, flightID uint64, newCount int, expectedVersion uint64) error {
	ok, err := t.store.flights.UpdateAvailableSeatsTx(ctx, t.tx, flightID, newCount, expectedVersion)
	if err != nil {
		return mapStoreErr(err)
	}
	if !ok {
		// Flight existence was checked in this transaction, so zero
		// rows affected means the version moved under us.
		return booking.ErrStoreConflict
	}
	return nil
}

func mapFlightErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return booking.ErrFlightNotFound
	}
	return mapStoreErr(err)
}

func mapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", booking.ErrStoreUnavailable, err)
}
