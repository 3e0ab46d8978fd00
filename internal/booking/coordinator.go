package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aerovia/airline-reservation/internal/model"
)

// Store is the persistence boundary of the coordinator.  The MySQL
// implementation lives in the repository package; tests use an
// in-memory fake.  RunInTx must provide the usual transactional
// guarantees: every write made through the Tx becomes visible
// together on commit, or not at all when fn returns an error.
type Store interface {
	// GetFlight returns the flight or ErrFlightNotFound.
	GetFlight(ctx context.Context, flightID uint64) (*model.Flight, error)
	// ListConfirmedSeats returns every confirmed seat number for the
	// flight, unordered.
	ListConfirmedSeats(ctx context.Context, flightID uint64) ([]string, error)
	// RunInTx runs fn inside a single transaction and commits when fn
	// returns nil.  Any error from fn rolls the transaction back and
	// is returned unchanged.
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the transactional view handed to the admission sequence.
// All reads observe the transaction's snapshot; stale snapshots are
// caught by the version check in UpdateAvailableSeats.
type Tx interface {
	// GetFlight returns the flight row including its current version,
	// or ErrFlightNotFound.
	GetFlight(ctx context.Context, flightID uint64) (*model.Flight, error)
	// ConfirmedSeatsIn returns the subset of seats already held by a
	// confirmed booking on the flight.
	ConfirmedSeatsIn(ctx context.Context, flightID uint64, seats []string) ([]string, error)
	// InsertBookings inserts all drafts as one batch, all or nothing.
	// A uniqueness race on a confirmed seat surfaces as ErrStoreConflict.
	InsertBookings(ctx context.Context, drafts []model.BookingDraft) ([]model.Booking, error)
	// UpdateAvailableSeats writes the new seat count guarded by the
	// version read earlier in the same transaction.  A stale version
	// surfaces as ErrStoreConflict.
	UpdateAvailableSeats(ctx context.Context, flightID uint64, newCount int, expectedVersion uint64) error
}

const (
	defaultMaxAttempts = 3
	defaultTxTimeout   = 5 * time.Second
)

// Coordinator serializes seat admissions against the authoritative
// store.  It keeps no seat state of its own: every decision is made
// against a fresh transactional read, so two coordinator instances on
// different hosts are safe against each other.
type Coordinator struct {
	store       Store
	maxAttempts int
	txTimeout   time.Duration
}

// NewCoordinator builds a Coordinator over the given store.
// maxAttempts bounds retries on transient write conflicts and
// txTimeout caps each admission transaction; zero values select the
// defaults (3 attempts, 5s).
func NewCoordinator(store Store, maxAttempts int, txTimeout time.Duration) *Coordinator {
	if store == nil {
		panic("nil store passed to NewCoordinator")
	}
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	if txTimeout <= 0 {
		txTimeout = defaultTxTimeout
	}
	return &Coordinator{store: store, maxAttempts: maxAttempts, txTimeout: txTimeout}
}

// ReserveSeats atomically books every seat in seats on the flight for
// the user, or books none of them.  On success it returns one
// confirmed Booking per requested seat, all sharing reference, and
// the flight's available seat count has decreased by exactly
// len(seats).
//
// Deterministic failures (ErrNoSeats, *DuplicateSeatsError,
// ErrFlightNotFound, *CapacityError, *SeatConflictError) are returned
// immediately.  Transient store conflicts re-run the whole
// check-and-write sequence up to maxAttempts times before giving up
// with ErrStoreUnavailable.
func (co *Coordinator) ReserveSeats(ctx context.Context, flightID, userID uint64, reference string, seats []string) ([]model.Booking, error) {
	if len(seats) == 0 {
		return nil, ErrNoSeats
	}
	if dups := duplicateSeats(seats); len(dups) > 0 {
		return nil, &DuplicateSeatsError{Seats: dups}
	}
	var lastErr error
	for attempt := 0; attempt < co.maxAttempts; attempt++ {
		created, err := co.tryReserve(ctx, flightID, userID, reference, seats)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, ErrStoreConflict) {
			return nil, err
		}
		// Another admission moved the flight under us; take a fresh
		// snapshot and re-run the conflict check from scratch.
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %d attempts exhausted: %v", ErrStoreUnavailable, co.maxAttempts, lastErr)
}

// tryReserve runs one full admission attempt inside a single
// transaction bounded by the coordinator's timeout.
func (co *Coordinator) tryReserve(ctx context.Context, flightID, userID uint64, reference string, seats []string) ([]model.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, co.txTimeout)
	defer cancel()

	var created []model.Booking
	err := co.store.RunInTx(ctx, func(tx Tx) error {
		flight, err := tx.GetFlight(ctx, flightID)
		if err != nil {
			return err
		}
		if len(seats) > flight.AvailableSeats {
			return &CapacityError{Requested: len(seats), Available: flight.AvailableSeats}
		}
		booked, err := tx.ConfirmedSeatsIn(ctx, flightID, seats)
		if err != nil {
			return err
		}
		if len(booked) > 0 {
			sort.Strings(booked)
			return &SeatConflictError{Seats: booked}
		}
		drafts := make([]model.BookingDraft, 0, len(seats))
		for _, seat := range seats {
			drafts = append(drafts, model.BookingDraft{
				UserID:           userID,
				FlightID:         flightID,
				BookingReference: reference,
				SeatNumber:       seat,
				Status:           model.BookingStatusConfirmed,
			})
		}
		created, err = tx.InsertBookings(ctx, drafts)
		if err != nil {
			return err
		}
		return tx.UpdateAvailableSeats(ctx, flightID, flight.AvailableSeats-len(seats), flight.Version)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: transaction timed out", ErrStoreUnavailable)
		}
		return nil, err
	}
	return created, nil
}

// BookedSeats returns the confirmed seat numbers for a flight, sorted
// for deterministic output.  It returns ErrFlightNotFound when the
// flight does not exist.
func (co *Coordinator) BookedSeats(ctx context.Context, flightID uint64) ([]string, error) {
	if _, err := co.store.GetFlight(ctx, flightID); err != nil {
		return nil, err
	}
	seats, err := co.store.ListConfirmedSeats(ctx, flightID)
	if err != nil {
		return nil, err
	}
	sort.Strings(seats)
	return seats, nil
}

// duplicateSeats returns the seats appearing more than once, sorted.
func duplicateSeats(seats []string) []string {
	seen := make(map[string]int, len(seats))
	for _, s := range seats {
		seen[s]++
	}
	var dups []string
	for s, n := range seen {
		if n > 1 {
			dups = append(dups, s)
		}
	}
	sort.Strings(dups)
	return dups
}
