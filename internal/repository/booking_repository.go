package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aerovia/airline-reservation/internal/model"
)

// BookingRepo provides data access to the bookings table.  Rows are
// only ever created through the admission transaction; the Tx
// variants exist for that path, the plain methods serve read-only
// listings and stats.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, flight_id, booking_reference, seat_number, booking_status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.FlightID, &b.BookingReference,
		&b.SeatNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListConfirmedSeats returns every confirmed seat number for a
// flight, unordered.
func (r *BookingRepo) ListConfirmedSeats(ctx context.Context, flightID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seat_number FROM bookings WHERE flight_id = ? AND booking_status = ?`,
		flightID, model.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// ConfirmedSeatsInTx returns the subset of seats already held by a
// confirmed booking on the flight, evaluated inside the caller's
// transaction so the admission check and write share one snapshot.
// Passing an empty seat list returns an empty result.
func (r *BookingRepo) ConfirmedSeatsInTx(ctx context.Context, tx *sql.Tx, flightID uint64, seats []string) ([]string, error) {
	if len(seats) == 0 {
		return []string{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seats)), ",")
	q := `SELECT seat_number FROM bookings
	      WHERE flight_id = ? AND booking_status = ? AND seat_number IN (` + placeholders + `)`
	args := make([]any, 0, len(seats)+2)
	args = append(args, flightID, model.BookingStatusConfirmed)
	for _, s := range seats {
		args = append(args, s)
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		hits = append(hits, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}

// CreateBulkTx inserts one booking row per draft within the provided
// transaction and returns the full rows including generated IDs and
// timestamps.  The caller must commit or roll back.  Inserting a
// seat that gained a confirmed booking since the conflict check trips
// the uniq_flight_confirmed_seat index; callers should treat that
// duplicate-key error as a transient write conflict.
func (r *BookingRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, drafts []model.BookingDraft) ([]model.Booking, error) {
	if len(drafts) == 0 {
		return []model.Booking{}, nil
	}
	const ins = `INSERT INTO bookings (user_id, flight_id, booking_reference, seat_number, booking_status)
	             VALUES (?, ?, ?, ?, ?)`
	ids := make([]uint64, 0, len(drafts))
	for _, d := range drafts {
		res, err := tx.ExecContext(ctx, ins,
			d.UserID, d.FlightID, d.BookingReference, d.SeatNumber, d.Status)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}
	// Query the rows back to populate DB-side defaults.
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id IN (` + placeholders + `) ORDER BY id`
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Booking, 0, len(ids))
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns all bookings made by the given user, newest
// first.  When no bookings exist, an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountAll returns the total number of booking rows.
func (r *BookingRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n)
	return n, err
}
