package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "flightfinder/internal/bookings/errors"
	"flightfinder/internal/bookings/validator"
	flightserrors "flightfinder/internal/flights/errors"
	userserrors "flightfinder/internal/users/errors"
	"flightfinder/pkg/config"
	mongotx "flightfinder/pkg/db/mongo"
	apperrors "flightfinder/pkg/errors"
	"flightfinder/pkg/events"
	"flightfinder/pkg/logger"
	"flightfinder/pkg/middleware"
	"flightfinder/pkg/model"
)

const (
	testFlightID   = "64b0c8f2a2b3c4d5e6f70010"
	testTravelerID = "64b0c8f2a2b3c4d5e6f70001"
	testOtherID    = "64b0c8f2a2b3c4d5e6f70002"
)

// fakeStore mimics the flight and booking collections with in-memory state
// and the same conditional-update semantics the Mongo repositories use.
type fakeStore struct {
	mu       sync.Mutex
	flight   *model.Flight
	bookings map[string]*model.Booking
	nextID   int
}

func newFakeStore(available int) *fakeStore {
	departure := time.Now().UTC().Add(72 * time.Hour).Truncate(24 * time.Hour)
	return &fakeStore{
		flight: &model.Flight{
			ID:           testFlightID,
			FlightNumber: "FF101",
			Airline:      "FlightFinder Air",
			Departure:    model.Leg{City: "New York", Date: departure, Time: "09:30"},
			Arrival:      model.Leg{City: "London", Date: departure, Time: "21:45"},
			Price:        map[string]float64{model.FareEconomy: 400},
			Seats: map[string]model.SeatBlock{
				model.FareEconomy: {Total: 180, Available: available},
			},
		},
		bookings: make(map[string]*model.Booking),
	}
}

type fakeFlightRepo struct{ store *fakeStore }

func (f *fakeFlightRepo) Create(ctx context.Context, flight *model.Flight) error { return nil }

func (f *fakeFlightRepo) FindByID(ctx context.Context, id string) (*model.Flight, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if id != f.store.flight.ID {
		return nil, flightserrors.ErrNotFound
	}
	copied := *f.store.flight
	seats := make(map[string]model.SeatBlock, len(f.store.flight.Seats))
	for k, v := range f.store.flight.Seats {
		seats[k] = v
	}
	copied.Seats = seats
	return &copied, nil
}

func (f *fakeFlightRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Flight, error) {
	flight, err := f.FindByID(ctx, f.store.flight.ID)
	if err != nil {
		return nil, err
	}
	return map[string]*model.Flight{flight.ID: flight}, nil
}

func (f *fakeFlightRepo) FindLatest(ctx context.Context, limit int) ([]*model.Flight, error) {
	return nil, nil
}

func (f *fakeFlightRepo) Search(ctx context.Context, from, to string, date time.Time) ([]*model.Flight, error) {
	return nil, nil
}

func (f *fakeFlightRepo) FindByCreator(ctx context.Context, creatorID string) ([]*model.Flight, error) {
	flight, err := f.FindByID(ctx, f.store.flight.ID)
	if err != nil {
		return nil, err
	}
	return []*model.Flight{flight}, nil
}

func (f *fakeFlightRepo) ReserveSeats(ctx context.Context, id, fareClass string, count int) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	block := f.store.flight.Seats[fareClass]
	if block.Available < count {
		return flightserrors.ErrInsufficientSeats
	}
	block.Available -= count
	f.store.flight.Seats[fareClass] = block
	return nil
}

func (f *fakeFlightRepo) ReleaseSeats(ctx context.Context, id, fareClass string, count int) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	block := f.store.flight.Seats[fareClass]
	if block.Available+count > block.Total {
		return flightserrors.ErrNotFound
	}
	block.Available += count
	f.store.flight.Seats[fareClass] = block
	return nil
}

func (f *fakeFlightRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type fakeBookingRepo struct{ store *fakeStore }

func (f *fakeBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.nextID++
	booking.ID = primitiveHex(f.store.nextID)
	booking.CreatedAt = time.Now().UTC()
	copied := *booking
	f.store.bookings[booking.ID] = &copied
	return nil
}

// primitiveHex builds a deterministic 24-char hex id for test bookings.
func primitiveHex(n int) string {
	const hexDigits = "0123456789abcdef"
	id := make([]byte, 24)
	for i := range id {
		id[i] = '0'
	}
	for i := 23; n > 0 && i >= 0; i-- {
		id[i] = hexDigits[n%16]
		n /= 16
	}
	return string(id)
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	booking, ok := f.store.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*model.Booking
	for _, b := range f.store.bookings {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindByFlightIDs(ctx context.Context, flightIDs []string) ([]*model.Booking, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*model.Booking
	for _, b := range f.store.bookings {
		for _, id := range flightIDs {
			if b.FlightID == id {
				copied := *b
				out = append(out, &copied)
			}
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return f.FindByFlightIDs(ctx, []string{testFlightID})
}

func (f *fakeBookingRepo) MarkCancelled(ctx context.Context, id string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	booking, ok := f.store.bookings[id]
	if !ok || booking.Status != model.BookingConfirmed {
		return bookingserrors.ErrAlreadyCancelled
	}
	booking.Status = model.BookingCancelled
	return nil
}

func (f *fakeBookingRepo) Count(ctx context.Context) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return int64(len(f.store.bookings)), nil
}

func (f *fakeBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type fakeUserRepo struct{}

func (fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, userserrors.ErrNotFound
}

func (fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return &model.User{
		ID:        id,
		FirstName: "Ada",
		Email:     "ada@example.com",
		Role:      model.RoleTraveler,
	}, nil
}

func (fakeUserRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}

func (fakeUserRepo) FindOperatorsByStatus(ctx context.Context, status string, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}

func (fakeUserRepo) UpdateOperatorStatus(ctx context.Context, id string, status string) (*mongo.UpdateResult, error) {
	return nil, nil
}

func (fakeUserRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func (fakeUserRepo) CountByRole(ctx context.Context, role string) (int64, error) { return 0, nil }

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (p *capturingPublisher) PublishBookingEvent(ctx context.Context, event events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func newTestBookingService(store *fakeStore) (BookingService, *capturingPublisher) {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log}
	publisher := &capturingPublisher{}
	svc := NewBookingService(
		&fakeBookingRepo{store: store},
		&fakeFlightRepo{store: store},
		fakeUserRepo{},
		validator.NewBookingValidator(log),
		publisher,
		cfg,
	)
	return svc, publisher
}

func twoPassengerRequest() *model.BookingRequest {
	return &model.BookingRequest{
		FlightID:  testFlightID,
		FareClass: model.FareEconomy,
		Passengers: []model.Passenger{
			{Name: "Ada Lovelace", Age: 36},
			{Name: "Alan Turing", Age: 41},
		},
	}
}

func TestCreateBookingAssignsSeatsAndPrice(t *testing.T) {
	store := newFakeStore(180)
	svc, publisher := newTestBookingService(store)

	booking, err := svc.Create(context.Background(), testTravelerID, twoPassengerRequest())

	require.NoError(t, err)
	assert.Equal(t, 800.0, booking.TotalPrice)
	assert.Equal(t, model.BookingConfirmed, booking.Status)
	assert.Equal(t, []string{"E1", "E2"}, booking.SeatsBooked)
	assert.Equal(t, 178, store.flight.Seats[model.FareEconomy].Available)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.TypeBookingCreated, publisher.events[0].Type)
	assert.Equal(t, booking.ID, publisher.events[0].BookingID)
}

func TestCreateBookingUnofferedFareClass(t *testing.T) {
	store := newFakeStore(180)
	svc, _ := newTestBookingService(store)

	req := twoPassengerRequest()
	req.FareClass = model.FareFirst

	_, err := svc.Create(context.Background(), testTravelerID, req)

	require.Error(t, err)
	assert.Equal(t, 400, apperrors.AsAppError(err).StatusCode())
}

func TestCreateBookingInsufficientSeats(t *testing.T) {
	store := newFakeStore(1)
	svc, publisher := newTestBookingService(store)

	_, err := svc.Create(context.Background(), testTravelerID, twoPassengerRequest())

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeSeatsUnavailable, appErr.Code)
	assert.Equal(t, 409, appErr.StatusCode())
	assert.Empty(t, publisher.events)
	assert.Equal(t, 1, store.flight.Seats[model.FareEconomy].Available)
}

func TestConcurrentBookingsNeverOversell(t *testing.T) {
	store := newFakeStore(2)
	svc, _ := newTestBookingService(store)

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.Create(context.Background(), testTravelerID, twoPassengerRequest())
			results <- err
		}()
	}

	var failures, successes int
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			assert.Equal(t, apperrors.CodeSeatsUnavailable, apperrors.AsAppError(err).Code)
			failures++
		} else {
			successes++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
	assert.Equal(t, 0, store.flight.Seats[model.FareEconomy].Available)
}

func TestCancelRestoresSeatsOnce(t *testing.T) {
	store := newFakeStore(180)
	svc, publisher := newTestBookingService(store)

	booking, err := svc.Create(context.Background(), testTravelerID, twoPassengerRequest())
	require.NoError(t, err)
	require.Equal(t, 178, store.flight.Seats[model.FareEconomy].Available)

	identity := middleware.Identity{UserID: testTravelerID, Role: model.RoleTraveler}

	require.NoError(t, svc.Cancel(context.Background(), booking.ID, identity))
	assert.Equal(t, 180, store.flight.Seats[model.FareEconomy].Available)

	err = svc.Cancel(context.Background(), booking.ID, identity)
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeAlreadyCancelled, appErr.Code)
	assert.Equal(t, 409, appErr.StatusCode())
	assert.Equal(t, 180, store.flight.Seats[model.FareEconomy].Available)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, events.TypeBookingCancelled, publisher.events[1].Type)
}

func TestCancelAuthorization(t *testing.T) {
	store := newFakeStore(180)
	svc, _ := newTestBookingService(store)

	booking, err := svc.Create(context.Background(), testTravelerID, twoPassengerRequest())
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), booking.ID,
		middleware.Identity{UserID: testOtherID, Role: model.RoleTraveler})
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.AsAppError(err).StatusCode())

	err = svc.Cancel(context.Background(), booking.ID,
		middleware.Identity{UserID: testOtherID, Role: model.RoleAdmin})
	assert.NoError(t, err)
}

func TestOperatorStatsAggregates(t *testing.T) {
	store := newFakeStore(180)
	svc, _ := newTestBookingService(store)

	_, err := svc.Create(context.Background(), testTravelerID, twoPassengerRequest())
	require.NoError(t, err)

	stats, err := svc.OperatorStats(context.Background(), testOtherID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalFlights)
	assert.Equal(t, int64(1), stats.TotalBookings)
	require.Len(t, stats.Bookings, 1)
	require.NotNil(t, stats.Bookings[0].Traveler)
	assert.Equal(t, "ada@example.com", stats.Bookings[0].Traveler.Email)
	require.NotNil(t, stats.Bookings[0].Flight)
	assert.Equal(t, "FF101", stats.Bookings[0].Flight.FlightNumber)
}
