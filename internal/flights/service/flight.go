package service

import (
	"context"
	"errors"
	"time"

	flightserrors "flightfinder/internal/flights/errors"
	"flightfinder/internal/flights/repository"
	"flightfinder/internal/flights/validator"
	"flightfinder/pkg/cache"
	"flightfinder/pkg/config"
	apperrors "flightfinder/pkg/errors"
	"flightfinder/pkg/model"
	"flightfinder/pkg/sanitizer"
)

const latestCacheKey = "flights:latest"

type FlightService interface {
	Create(ctx context.Context, flight *model.Flight, creatorID string) error
	GetByID(ctx context.Context, id string) (*model.Flight, error)
	GetLatest(ctx context.Context) ([]*model.Flight, error)
	Search(ctx context.Context, from, to string, date time.Time) ([]*model.Flight, error)
	GetByCreator(ctx context.Context, creatorID string) ([]*model.Flight, error)
}

type flightService struct {
	repo      repository.FlightRepository
	validator *validator.FlightValidator
	cache     *cache.Cache
	cfg       *config.Config
}

func NewFlightService(
	repo repository.FlightRepository,
	validator *validator.FlightValidator,
	flightCache *cache.Cache,
	cfg *config.Config,
) FlightService {
	return &flightService{
		repo:      repo,
		validator: validator,
		cache:     flightCache,
		cfg:       cfg,
	}
}

func (s *flightService) Create(ctx context.Context, flight *model.Flight, creatorID string) error {
	s.sanitize(flight)
	flight.CreatedBy = creatorID

	// New flights start fully open unless the operator sets availability.
	for class, block := range flight.Seats {
		if block.Available == 0 {
			block.Available = block.Total
			flight.Seats[class] = block
		}
	}

	if err := s.validator.Validate(flight); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return apperrors.Validation("Flight is invalid", validationErrs.Details())
		}
		return apperrors.Internal("Failed to validate flight", err)
	}

	if err := s.repo.Create(ctx, flight); err != nil {
		s.cfg.Log.Error("Failed to create flight", "error", err)
		return apperrors.Internal("Failed to create flight", err)
	}

	if err := s.cache.Invalidate(ctx, latestCacheKey); err != nil {
		s.cfg.Log.Warn("Failed to invalidate latest flights cache", "error", err)
	}

	s.cfg.Log.Info("Flight created",
		"id", flight.ID,
		"flight_number", flight.FlightNumber,
		"created_by", creatorID,
	)
	return nil
}

func (s *flightService) GetByID(ctx context.Context, id string) (*model.Flight, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Flight ID cannot be empty")
	}

	flight, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, flightserrors.ErrNotFound) || errors.Is(err, flightserrors.ErrInvalidID) {
			// A malformed id identifies no flight, same as an unknown one.
			return nil, apperrors.NotFoundWithID("Flight", id)
		}
		return nil, apperrors.Internal("Failed to retrieve flight", err)
	}

	return flight, nil
}

// GetLatest returns the most recently added flights, serving from the
// cache when possible. Cache failures degrade to a database read.
func (s *flightService) GetLatest(ctx context.Context) ([]*model.Flight, error) {
	var cached []*model.Flight
	err := s.cache.Get(ctx, latestCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.cfg.Log.Warn("Latest flights cache read failed", "error", err)
	}

	flights, err := s.repo.FindLatest(ctx, config.DefaultLatestFlightCount)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve latest flights", err)
	}

	if err := s.cache.Set(ctx, latestCacheKey, flights); err != nil {
		s.cfg.Log.Warn("Latest flights cache write failed", "error", err)
	}

	return flights, nil
}

func (s *flightService) Search(ctx context.Context, from, to string, date time.Time) ([]*model.Flight, error) {
	from = sanitizer.NormalizeCity(from)
	to = sanitizer.NormalizeCity(to)

	if from == "" || to == "" || date.IsZero() {
		return nil, apperrors.InvalidInput("from, to and date are required")
	}

	flights, err := s.repo.Search(ctx, from, to, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to search flights", err)
	}

	return flights, nil
}

func (s *flightService) GetByCreator(ctx context.Context, creatorID string) ([]*model.Flight, error) {
	flights, err := s.repo.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve operator flights", err)
	}
	return flights, nil
}

func (s *flightService) sanitize(flight *model.Flight) {
	flight.FlightNumber = sanitizer.NormalizeFlightNumber(flight.FlightNumber)
	flight.Airline = sanitizer.TrimAndNormalize(flight.Airline)
	flight.Departure.City = sanitizer.NormalizeCity(flight.Departure.City)
	flight.Arrival.City = sanitizer.NormalizeCity(flight.Arrival.City)
}
