package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/aerovia/airline-reservation/internal/model"
)

// FlightRepo provides CRUD and search operations for flights.  The
// version column is bumped on every write that touches
// available_seats so the booking path can detect concurrent edits.
// All timestamp fields are stored in UTC.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a new FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// DB exposes the underlying handle for callers that open their own
// transactions.
func (r *FlightRepo) DB() *sql.DB { return r.db }

const flightColumns = `id, flight_number, departure_city, arrival_city, departure_time, arrival_time, price, available_seats, version, created_at, updated_at`

func scanFlight(row interface{ Scan(...any) error }) (*model.Flight, error) {
	var f model.Flight
	err := row.Scan(
		&f.ID, &f.FlightNumber, &f.DepartureCity, &f.ArrivalCity,
		&f.DepartureTime, &f.ArrivalTime, &f.Price, &f.AvailableSeats,
		&f.Version, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByID returns a flight by primary key.  sql.ErrNoRows is passed
// through when no such flight exists.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*model.Flight, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = ?`, id)
	return scanFlight(row)
}

// GetByIDTx is GetByID within a caller-owned transaction; the booking
// store uses it so the version read and the later version-guarded
// update observe the same snapshot.
func (r *FlightRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Flight, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = ?`, id)
	return scanFlight(row)
}

// Create inserts a new flight and populates the generated ID and
// timestamps on the passed record.  A duplicate flight number is
// reported as ErrFlightNumberExists.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
	const q = `INSERT INTO flights
		(flight_number, departure_city, arrival_city, departure_time, arrival_time, price, available_seats)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		f.FlightNumber, f.DepartureCity, f.ArrivalCity,
		f.DepartureTime.UTC(), f.ArrivalTime.UTC(), f.Price, f.AvailableSeats)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrFlightNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	created, err := r.GetByID(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *created
	return nil
}

// Update rewrites every editable field of a flight.  The version is
// bumped because available_seats may change under an in-flight
// admission, which must then re-check.  sql.ErrNoRows is returned
// when the flight does not exist.
func (r *FlightRepo) Update(ctx context.Context, f *model.Flight) error {
	const q = `UPDATE flights
		SET flight_number = ?, departure_city = ?, arrival_city = ?,
		    departure_time = ?, arrival_time = ?, price = ?,
		    available_seats = ?, version = version + 1
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		f.FlightNumber, f.DepartureCity, f.ArrivalCity,
		f.DepartureTime.UTC(), f.ArrivalTime.UTC(), f.Price,
		f.AvailableSeats, f.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrFlightNumberExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	updated, err := r.GetByID(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *updated
	return nil
}

// UpdateAvailableSeatsTx writes a new seat count guarded by the
// version the caller read earlier in the same transaction.  Zero
// rows affected means another admission committed in between; the
// caller should treat that as a transient conflict and retry.
func (r *FlightRepo) UpdateAvailableSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, newCount int, expectedVersion uint64) (bool, error) {
	const q = `UPDATE flights SET available_seats = ?, version = version + 1 WHERE id = ? AND version = ?`
	res, err := tx.ExecContext(ctx, q, newCount, id, expectedVersion)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a flight unless confirmed bookings still reference
// it, in which case ErrConflict is returned.  sql.ErrNoRows is
// returned when the flight does not exist.
func (r *FlightRepo) Delete(ctx context.Context, id uint64) error {
	var confirmed int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE flight_id = ? AND booking_status = ?`,
		id, model.BookingStatusConfirmed).Scan(&confirmed)
	if err != nil {
		return err
	}
	if confirmed > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Search returns flights matching the query, ordered by departure
// time ascending, with offset/limit pagination applied.
func (r *FlightRepo) Search(ctx context.Context, q FlightSearchQuery) ([]model.Flight, error) {
	cond, args := buildFlightFilters(q)
	sqlQ := `SELECT ` + flightColumns + ` FROM flights WHERE ` + cond +
		` ORDER BY departure_time ASC LIMIT ? OFFSET ?`
	args = append(args, q.limitOrDefault(), q.Offset)

	rows, err := r.db.QueryContext(ctx, sqlQ, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Flight, 0, q.limitOrDefault())
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Airlines returns the distinct airline codes derived from flight
// number prefixes, sorted.  Prefix extraction happens in Go because
// MySQL has no clean expression for "leading letters".
func (r *FlightRepo) Airlines(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT flight_number FROM flights`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := map[string]bool{}
	for rows.Next() {
		var num string
		if err := rows.Scan(&num); err != nil {
			return nil, err
		}
		code := (model.Flight{FlightNumber: num}).AirlineCode()
		if code != "" {
			seen[strings.ToUpper(code)] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

// PriceRange returns the lowest and highest flight price.  Both are
// zero when no flights exist.
func (r *FlightRepo) PriceRange(ctx context.Context) (float64, float64, error) {
	var minPrice, maxPrice sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT MIN(price), MAX(price) FROM flights`).Scan(&minPrice, &maxPrice)
	if err != nil {
		return 0, 0, err
	}
	return minPrice.Float64, maxPrice.Float64, nil
}

// CountAll returns the total number of flights.
func (r *FlightRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flights`).Scan(&n)
	return n, err
}

// CountUpcoming returns the number of flights departing after now.
func (r *FlightRepo) CountUpcoming(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM flights WHERE departure_time > UTC_TIMESTAMP()`).Scan(&n)
	return n, err
}

// isDuplicateKey reports whether err is MySQL error 1062, a unique
// index violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
