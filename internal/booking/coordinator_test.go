package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerovia/airline-reservation/internal/model"
)

// memStore is an in-memory Store with real transactional semantics:
// writes made through a memTx stay staged until fn returns nil.  A
// mutex serializes transactions the way the database would.
type memStore struct {
	mu       sync.Mutex
	flights  map[uint64]*model.Flight
	bookings []model.Booking
	nextID   uint64

	// injectConflicts makes UpdateAvailableSeats fail with
	// ErrStoreConflict this many times before behaving normally.
	injectConflicts int
}

func newMemStore(flights ...*model.Flight) *memStore {
	s := &memStore{flights: map[uint64]*model.Flight{}}
	for _, f := range flights {
		cp := *f
		s.flights[f.ID] = &cp
	}
	return s
}

func (s *memStore) GetFlight(_ context.Context, id uint64) (*model.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[id]
	if !ok {
		return nil, ErrFlightNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *memStore) ListConfirmedSeats(_ context.Context, flightID uint64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmedSeatsLocked(flightID), nil
}

func (s *memStore) confirmedSeatsLocked(flightID uint64) []string {
	var seats []string
	for _, b := range s.bookings {
		if b.FlightID == flightID && b.Status == model.BookingStatusConfirmed {
			seats = append(seats, b.SeatNumber)
		}
	}
	return seats
}

func (s *memStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{s: s, seatCounts: map[uint64]int{}}
	if err := fn(tx); err != nil {
		return err
	}
	// commit
	for _, b := range tx.staged {
		s.bookings = append(s.bookings, b)
	}
	for id, count := range tx.seatCounts {
		f := s.flights[id]
		f.AvailableSeats = count
		f.Version++
	}
	return nil
}

type memTx struct {
	s          *memStore
	staged     []model.Booking
	seatCounts map[uint64]int
}

func (t *memTx) GetFlight(_ context.Context, id uint64) (*model.Flight, error) {
	f, ok := t.s.flights[id]
	if !ok {
		return nil, ErrFlightNotFound
	}
	cp := *f
	return &cp, nil
}

func (t *memTx) ConfirmedSeatsIn(_ context.Context, flightID uint64, seats []string) ([]string, error) {
	requested := make(map[string]bool, len(seats))
	for _, s := range seats {
		requested[s] = true
	}
	var hits []string
	for _, s := range t.s.confirmedSeatsLocked(flightID) {
		if requested[s] {
			hits = append(hits, s)
		}
	}
	return hits, nil
}

func (t *memTx) InsertBookings(_ context.Context, drafts []model.BookingDraft) ([]model.Booking, error) {
	now := time.Now().UTC()
	out := make([]model.Booking, 0, len(drafts))
	for _, d := range drafts {
		t.s.nextID++
		b := model.Booking{
			ID:               t.s.nextID,
			UserID:           d.UserID,
			FlightID:         d.FlightID,
			BookingReference: d.BookingReference,
			SeatNumber:       d.SeatNumber,
			Status:           d.Status,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		t.staged = append(t.staged, b)
		out = append(out, b)
	}
	return out, nil
}

func (t *memTx) UpdateAvailableSeats(_ context.Context, flightID uint64, newCount int, expectedVersion uint64) error {
	if t.s.injectConflicts > 0 {
		t.s.injectConflicts--
		return ErrStoreConflict
	}
	f, ok := t.s.flights[flightID]
	if !ok {
		return ErrFlightNotFound
	}
	if f.Version != expectedVersion {
		return ErrStoreConflict
	}
	t.seatCounts[flightID] = newCount
	return nil
}

// assertNoDuplicateConfirmedSeats checks the core invariant: no two
// confirmed bookings on a flight share a seat number.
func assertNoDuplicateConfirmedSeats(t *testing.T, s *memStore, flightID uint64) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	for _, b := range s.bookings {
		if b.FlightID != flightID || b.Status != model.BookingStatusConfirmed {
			continue
		}
		assert.Falsef(t, seen[b.SeatNumber], "seat %s confirmed twice", b.SeatNumber)
		seen[b.SeatNumber] = true
	}
}

func testFlight(id uint64, seats int) *model.Flight {
	return &model.Flight{
		ID:             id,
		FlightNumber:   "AV100",
		DepartureCity:  "Oslo",
		ArrivalCity:    "Berlin",
		DepartureTime:  time.Now().UTC().Add(24 * time.Hour),
		ArrivalTime:    time.Now().UTC().Add(26 * time.Hour),
		Price:          120.0,
		AvailableSeats: seats,
	}
}

func TestReserveSeatsBooksAllAndDecrementsCapacity(t *testing.T) {
	store := newMemStore(testFlight(1, 2))
	co := NewCoordinator(store, 0, 0)

	created, err := co.ReserveSeats(context.Background(), 1, 7, "REF-1", []string{"12A", "12B"})
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, b := range created {
		assert.Equal(t, model.BookingStatusConfirmed, b.Status)
		assert.Equal(t, "REF-1", b.BookingReference)
		assert.Equal(t, uint64(7), b.UserID)
	}

	f, err := store.GetFlight(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, f.AvailableSeats)
	assertNoDuplicateConfirmedSeats(t, store, 1)

	// Second request for an occupied seat is rejected with the seat
	// named, creates no rows and leaves the counter untouched.
	_, err = co.ReserveSeats(context.Background(), 1, 8, "REF-2", []string{"12A"})
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"12A"}, conflict.Seats)

	f, _ = store.GetFlight(context.Background(), 1)
	assert.Equal(t, 0, f.AvailableSeats)
	assert.Len(t, store.bookings, 2)
}

func TestReserveSeatsRejectsOverCapacity(t *testing.T) {
	store := newMemStore(testFlight(2, 1))
	co := NewCoordinator(store, 0, 0)

	_, err := co.ReserveSeats(context.Background(), 2, 7, "REF-1", []string{"5C", "5D"})
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Requested)
	assert.Equal(t, 1, capErr.Available)

	assert.Empty(t, store.bookings)
	f, _ := store.GetFlight(context.Background(), 2)
	assert.Equal(t, 1, f.AvailableSeats)
}

func TestReserveSeatsUnknownFlight(t *testing.T) {
	co := NewCoordinator(newMemStore(), 0, 0)
	_, err := co.ReserveSeats(context.Background(), 99, 7, "REF-1", []string{"1A"})
	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestReserveSeatsValidatesSeatList(t *testing.T) {
	store := newMemStore(testFlight(1, 10))
	co := NewCoordinator(store, 0, 0)

	_, err := co.ReserveSeats(context.Background(), 1, 7, "REF-1", nil)
	assert.ErrorIs(t, err, ErrNoSeats)

	_, err = co.ReserveSeats(context.Background(), 1, 7, "REF-1", []string{"12A", "12B", "12A"})
	var dup *DuplicateSeatsError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []string{"12A"}, dup.Seats)

	assert.Empty(t, store.bookings)
}

func TestReserveSeatsEnumeratesEveryConflict(t *testing.T) {
	store := newMemStore(testFlight(1, 10))
	co := NewCoordinator(store, 0, 0)

	_, err := co.ReserveSeats(context.Background(), 1, 7, "REF-1", []string{"12B", "12A"})
	require.NoError(t, err)

	_, err = co.ReserveSeats(context.Background(), 1, 8, "REF-2", []string{"12A", "12B", "12C"})
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"12A", "12B"}, conflict.Seats)

	// no partial effect: 12C must not have been booked
	seats, err := co.BookedSeats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"12A", "12B"}, seats)
	f, _ := store.GetFlight(context.Background(), 1)
	assert.Equal(t, 8, f.AvailableSeats)
}

func TestReserveSeatsRejectionIsIdempotent(t *testing.T) {
	store := newMemStore(testFlight(1, 10))
	co := NewCoordinator(store, 0, 0)

	_, err := co.ReserveSeats(context.Background(), 1, 7, "REF-1", []string{"3A", "3B"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := co.ReserveSeats(context.Background(), 1, 8, "REF-2", []string{"3A", "3B"})
		var conflict *SeatConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Len(t, store.bookings, 2)
		f, _ := store.GetFlight(context.Background(), 1)
		assert.Equal(t, 8, f.AvailableSeats)
	}
}

func TestReserveSeatsRetriesTransientConflicts(t *testing.T) {
	store := newMemStore(testFlight(1, 4))
	store.injectConflicts = 2
	co := NewCoordinator(store, 3, 0)

	created, err := co.ReserveSeats(context.Background(), 1, 7, "REF-1", []string{"8F"})
	require.NoError(t, err)
	assert.Len(t, created, 1)
	f, _ := store.GetFlight(context.Background(), 1)
	assert.Equal(t, 3, f.AvailableSeats)
}

func TestReserveSeatsGivesUpAfterBoundedRetries(t *testing.T) {
	store := newMemStore(testFlight(1, 4))
	store.injectConflicts = 3
	co := NewCoordinator(store, 3, 0)

	_, err := co.ReserveSeats(context.Background(), 1, 7, "REF-1", []string{"8F"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	// nothing committed on any attempt
	assert.Empty(t, store.bookings)
	f, _ := store.GetFlight(context.Background(), 1)
	assert.Equal(t, 4, f.AvailableSeats)
}

func TestReserveSeatsConcurrentOverlapHasOneWinner(t *testing.T) {
	store := newMemStore(testFlight(1, 10))
	co := NewCoordinator(store, 3, 0)

	type result struct {
		created []model.Booking
		err     error
	}
	results := make([]result, 2)
	requests := [][]string{{"14A", "14B"}, {"14B", "14C"}}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := co.ReserveSeats(context.Background(), 1, uint64(i+1), "REF", requests[i])
			results[i] = result{created, err}
		}(i)
	}
	wg.Wait()

	var winners, losers int
	for _, r := range results {
		if r.err == nil {
			winners++
			assert.Len(t, r.created, 2)
			continue
		}
		losers++
		var conflict *SeatConflictError
		require.ErrorAs(t, r.err, &conflict)
		assert.Contains(t, conflict.Seats, "14B")
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, losers)

	assertNoDuplicateConfirmedSeats(t, store, 1)
	assert.Len(t, store.bookings, 2)
	f, _ := store.GetFlight(context.Background(), 1)
	assert.Equal(t, 8, f.AvailableSeats)
}

// stalledStore simulates a database that stops answering: RunInTx
// never returns until the transaction context expires.
type stalledStore struct{}

func (s *stalledStore) GetFlight(_ context.Context, id uint64) (*model.Flight, error) {
	return &model.Flight{ID: id, AvailableSeats: 1}, nil
}

func (s *stalledStore) ListConfirmedSeats(context.Context, uint64) ([]string, error) {
	return nil, nil
}

func (s *stalledStore) RunInTx(ctx context.Context, _ func(tx Tx) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestReserveSeatsTimesOutWhenStoreStalls(t *testing.T) {
	co := NewCoordinator(&stalledStore{}, 1, 50*time.Millisecond)

	start := time.Now()
	_, err := co.ReserveSeats(context.Background(), 1, 7, "REF-1", []string{"2A"})
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Less(t, elapsed, time.Second, "caller must be released by the transaction timeout, not hang")
}

func TestReserveSeatsRespectsCancelledContext(t *testing.T) {
	store := newMemStore(testFlight(1, 4))
	co := NewCoordinator(store, 3, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := co.ReserveSeats(ctx, 1, 7, "REF-1", []string{"2A"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, ErrStoreUnavailable))
	assert.Empty(t, store.bookings)
}

func TestBookedSeats(t *testing.T) {
	store := newMemStore(testFlight(1, 10))
	co := NewCoordinator(store, 0, 0)

	_, err := co.BookedSeats(context.Background(), 42)
	assert.ErrorIs(t, err, ErrFlightNotFound)

	seats, err := co.BookedSeats(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, seats)

	_, err = co.ReserveSeats(context.Background(), 1, 7, "REF-1", []string{"9C", "1A"})
	require.NoError(t, err)

	seats, err = co.BookedSeats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "9C"}, seats)
}
