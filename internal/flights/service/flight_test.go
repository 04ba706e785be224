package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flightserrors "flightfinder/internal/flights/errors"
	"flightfinder/internal/flights/validator"
	"flightfinder/pkg/cache"
	"flightfinder/pkg/config"
	mongotx "flightfinder/pkg/db/mongo"
	apperrors "flightfinder/pkg/errors"
	"flightfinder/pkg/logger"
	"flightfinder/pkg/model"
)

type mockFlightRepository struct {
	createFunc     func(ctx context.Context, flight *model.Flight) error
	findByIDFunc   func(ctx context.Context, id string) (*model.Flight, error)
	findLatestFunc func(ctx context.Context, limit int) ([]*model.Flight, error)
	searchFunc     func(ctx context.Context, from, to string, date time.Time) ([]*model.Flight, error)
}

func (m *mockFlightRepository) Create(ctx context.Context, flight *model.Flight) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, flight)
	}
	flight.ID = "64b0c8f2a2b3c4d5e6f70010"
	return nil
}

func (m *mockFlightRepository) FindByID(ctx context.Context, id string) (*model.Flight, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, flightserrors.ErrNotFound
}

func (m *mockFlightRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Flight, error) {
	return map[string]*model.Flight{}, nil
}

func (m *mockFlightRepository) FindLatest(ctx context.Context, limit int) ([]*model.Flight, error) {
	if m.findLatestFunc != nil {
		return m.findLatestFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockFlightRepository) Search(ctx context.Context, from, to string, date time.Time) ([]*model.Flight, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, from, to, date)
	}
	return nil, nil
}

func (m *mockFlightRepository) FindByCreator(ctx context.Context, creatorID string) ([]*model.Flight, error) {
	return nil, nil
}

func (m *mockFlightRepository) ReserveSeats(ctx context.Context, id, fareClass string, count int) error {
	return nil
}

func (m *mockFlightRepository) ReleaseSeats(ctx context.Context, id, fareClass string, count int) error {
	return nil
}

func (m *mockFlightRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

func newTestFlightService(repo *mockFlightRepository) FlightService {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log}
	return NewFlightService(repo, validator.NewFlightValidator(log), cache.New(nil, time.Minute), cfg)
}

func validFlight() *model.Flight {
	departure := time.Now().UTC().Add(48 * time.Hour).Truncate(24 * time.Hour)
	return &model.Flight{
		FlightNumber: "ff101",
		Airline:      "FlightFinder Air",
		Departure:    model.Leg{City: "New York", Date: departure, Time: "09:30"},
		Arrival:      model.Leg{City: "London", Date: departure, Time: "21:45"},
		Price:        map[string]float64{model.FareEconomy: 420.50},
		Seats:        map[string]model.SeatBlock{model.FareEconomy: {Total: 180}},
	}
}

func TestCreateNormalizesAndDefaultsAvailability(t *testing.T) {
	svc := newTestFlightService(&mockFlightRepository{})
	flight := validFlight()

	err := svc.Create(context.Background(), flight, "64b0c8f2a2b3c4d5e6f70001")

	require.NoError(t, err)
	assert.Equal(t, "FF101", flight.FlightNumber)
	assert.Equal(t, "64b0c8f2a2b3c4d5e6f70001", flight.CreatedBy)
	assert.Equal(t, 180, flight.Seats[model.FareEconomy].Available)
}

func TestCreateRejectsUnknownFareClass(t *testing.T) {
	svc := newTestFlightService(&mockFlightRepository{})
	flight := validFlight()
	flight.Price["premium"] = 999

	err := svc.Create(context.Background(), flight, "64b0c8f2a2b3c4d5e6f70001")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)
}

func TestCreateRejectsPricedClassWithoutSeats(t *testing.T) {
	svc := newTestFlightService(&mockFlightRepository{})
	flight := validFlight()
	flight.Price[model.FareBusiness] = 1200

	err := svc.Create(context.Background(), flight, "64b0c8f2a2b3c4d5e6f70001")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)
}

func TestGetByIDMalformedIDIsNotFound(t *testing.T) {
	svc := newTestFlightService(&mockFlightRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Flight, error) {
			return nil, flightserrors.ErrInvalidID
		},
	})

	_, err := svc.GetByID(context.Background(), "not-an-object-id")

	require.Error(t, err)
	assert.Equal(t, 404, apperrors.AsAppError(err).StatusCode())
}

func TestGetLatestUsesConfiguredCount(t *testing.T) {
	var gotLimit int
	svc := newTestFlightService(&mockFlightRepository{
		findLatestFunc: func(ctx context.Context, limit int) ([]*model.Flight, error) {
			gotLimit = limit
			return []*model.Flight{validFlight()}, nil
		},
	})

	flights, err := svc.GetLatest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, config.DefaultLatestFlightCount, gotLimit)
	assert.Len(t, flights, 1)
}

func TestSearchRequiresAllParameters(t *testing.T) {
	svc := newTestFlightService(&mockFlightRepository{})

	_, err := svc.Search(context.Background(), "", "London", time.Now())

	require.Error(t, err)
	assert.Equal(t, 400, apperrors.AsAppError(err).StatusCode())
}

func TestSearchNormalizesCities(t *testing.T) {
	var gotFrom, gotTo string
	svc := newTestFlightService(&mockFlightRepository{
		searchFunc: func(ctx context.Context, from, to string, date time.Time) ([]*model.Flight, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		},
	})

	_, err := svc.Search(context.Background(), "  New   York ", " London ", time.Now())

	require.NoError(t, err)
	assert.Equal(t, "New York", gotFrom)
	assert.Equal(t, "London", gotTo)
}
