package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "flightfinder/internal/bookings/errors"
	"flightfinder/internal/bookings/repository"
	"flightfinder/internal/bookings/validator"
	flightserrors "flightfinder/internal/flights/errors"
	flightsrepo "flightfinder/internal/flights/repository"
	userserrors "flightfinder/internal/users/errors"
	usersrepo "flightfinder/internal/users/repository"
	"flightfinder/pkg/config"
	apperrors "flightfinder/pkg/errors"
	"flightfinder/pkg/events"
	"flightfinder/pkg/middleware"
	"flightfinder/pkg/model"
)

type BookingService interface {
	Create(ctx context.Context, userID string, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string, identity middleware.Identity) (*model.BookingView, error)
	Cancel(ctx context.Context, id string, identity middleware.Identity) error
	ListForUser(ctx context.Context, userID string) ([]model.BookingView, error)
	ListForAdmin(ctx context.Context, limit int, offset int64) ([]model.BookingView, int64, error)
	OperatorStats(ctx context.Context, operatorID string) (*model.OperatorStats, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	flightRepo flightsrepo.FlightRepository
	userRepo   usersrepo.UserRepository
	validator  *validator.BookingValidator
	publisher  events.Publisher
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	flightRepo flightsrepo.FlightRepository,
	userRepo usersrepo.UserRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		flightRepo: flightRepo,
		userRepo:   userRepo,
		validator:  validator,
		publisher:  publisher,
		cfg:        cfg,
	}
}

// Create books seats on a flight. The seat decrement and the booking insert
// run in one transaction; the decrement is conditional on availability, so
// concurrent requests for the last seats cannot both succeed.
func (s *bookingService) Create(ctx context.Context, userID string, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Booking request is invalid", validationErrs.Details())
		}
		return nil, apperrors.Internal("Failed to validate booking", err)
	}

	flight, err := s.flightRepo.FindByID(ctx, req.FlightID)
	if err != nil {
		if errors.Is(err, flightserrors.ErrNotFound) || errors.Is(err, flightserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Flight", req.FlightID)
		}
		return nil, apperrors.Internal("Failed to load flight", err)
	}

	price, priced := flight.Price[req.FareClass]
	if _, seated := flight.Seats[req.FareClass]; !priced || !seated {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("Flight does not offer fare class %q", req.FareClass))
	}

	seatCount := len(req.Passengers)
	booking := &model.Booking{
		UserID:     userID,
		FlightID:   req.FlightID,
		FareClass:  req.FareClass,
		Passengers: req.Passengers,
		TotalPrice: price * float64(seatCount),
		Status:     model.BookingConfirmed,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.flightRepo.ReserveSeats(sessCtx, req.FlightID, req.FareClass, seatCount); err != nil {
			if errors.Is(err, flightserrors.ErrInsufficientSeats) {
				return apperrors.SeatsUnavailable(req.FareClass, seatCount)
			}
			return apperrors.Internal("Failed to reserve seats", err)
		}

		updated, err := s.flightRepo.FindByID(sessCtx, req.FlightID)
		if err != nil {
			return apperrors.Internal("Failed to reload flight", err)
		}
		booking.SeatsBooked = assignSeats(updated.Seats[req.FareClass], req.FareClass, seatCount)

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"flight_id", req.FlightID,
			"fare_class", req.FareClass,
			"error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"flight_id", booking.FlightID,
		"fare_class", booking.FareClass,
		"seats", seatCount,
	)

	s.publish(ctx, events.TypeBookingCreated, booking, flight)
	return booking, nil
}

// assignSeats labels the seats just reserved. The block has already been
// decremented, so the sold count includes this booking's seats.
func assignSeats(block model.SeatBlock, fareClass string, count int) []string {
	prefix := strings.ToUpper(fareClass[:1])
	sold := block.Total - block.Available

	seats := make([]string, 0, count)
	for i := sold - count + 1; i <= sold; i++ {
		seats = append(seats, fmt.Sprintf("%s%d", prefix, i))
	}
	return seats
}

func (s *bookingService) GetByID(ctx context.Context, id string, identity middleware.Identity) (*model.BookingView, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != identity.UserID && identity.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("Access denied")
	}

	view := model.BookingView{Booking: booking}
	if flight, err := s.flightRepo.FindByID(ctx, booking.FlightID); err == nil {
		summary := flight.Summary()
		view.Flight = &summary
	}
	return &view, nil
}

// Cancel flips the booking to cancelled and restores seat availability in
// one transaction. Only the owner or an admin may cancel.
func (s *bookingService) Cancel(ctx context.Context, id string, identity middleware.Identity) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.UserID != identity.UserID && identity.Role != model.RoleAdmin {
		return apperrors.Forbidden("Access denied")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.MarkCancelled(sessCtx, booking.ID); err != nil {
			if errors.Is(err, bookingserrors.ErrAlreadyCancelled) {
				return apperrors.AlreadyCancelled(booking.ID)
			}
			return apperrors.Internal("Failed to cancel booking", err)
		}

		if err := s.flightRepo.ReleaseSeats(sessCtx, booking.FlightID, booking.FareClass, len(booking.Passengers)); err != nil {
			return apperrors.Internal("Failed to release seats", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", booking.ID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking cancelled",
		"id", booking.ID,
		"flight_id", booking.FlightID,
		"by", identity.UserID,
	)

	if flight, ferr := s.flightRepo.FindByID(ctx, booking.FlightID); ferr == nil {
		s.publish(ctx, events.TypeBookingCancelled, booking, flight)
	}
	return nil
}

func (s *bookingService) ListForUser(ctx context.Context, userID string) ([]model.BookingView, error) {
	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return s.attachFlights(ctx, bookings), nil
}

func (s *bookingService) ListForAdmin(ctx context.Context, limit int, offset int64) ([]model.BookingView, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	views := s.attachFlights(ctx, bookings)
	s.attachTravelers(ctx, views)
	return views, total, nil
}

// OperatorStats aggregates the operator's flights and every booking made
// against them, with traveler contact details joined in.
func (s *bookingService) OperatorStats(ctx context.Context, operatorID string) (*model.OperatorStats, error) {
	flights, err := s.flightRepo.FindByCreator(ctx, operatorID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve operator flights", err)
	}

	flightIDs := make([]string, 0, len(flights))
	for _, f := range flights {
		flightIDs = append(flightIDs, f.ID)
	}

	bookings, err := s.repo.FindByFlightIDs(ctx, flightIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve flight bookings", err)
	}

	views := s.attachFlights(ctx, bookings)
	s.attachTravelers(ctx, views)

	return &model.OperatorStats{
		TotalFlights:  int64(len(flights)),
		TotalBookings: int64(len(bookings)),
		Flights:       flights,
		Bookings:      views,
	}, nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) attachFlights(ctx context.Context, bookings []*model.Booking) []model.BookingView {
	flightIDs := make([]string, 0, len(bookings))
	seen := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if !seen[b.FlightID] {
			seen[b.FlightID] = true
			flightIDs = append(flightIDs, b.FlightID)
		}
	}

	flights, err := s.flightRepo.FindByIDs(ctx, flightIDs)
	if err != nil {
		s.cfg.Log.Warn("Failed to join flights onto bookings", "error", err)
		flights = map[string]*model.Flight{}
	}

	views := make([]model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := model.BookingView{Booking: b}
		if f, ok := flights[b.FlightID]; ok {
			summary := f.Summary()
			view.Flight = &summary
		}
		views = append(views, view)
	}
	return views
}

func (s *bookingService) attachTravelers(ctx context.Context, views []model.BookingView) {
	contacts := make(map[string]*model.TravelerContact)
	for i := range views {
		userID := views[i].Booking.UserID
		contact, ok := contacts[userID]
		if !ok {
			user, err := s.userRepo.FindByID(ctx, userID)
			if err != nil {
				if !errors.Is(err, userserrors.ErrNotFound) {
					s.cfg.Log.Warn("Failed to join traveler onto booking", "user_id", userID, "error", err)
				}
				contacts[userID] = nil
				continue
			}
			contact = &model.TravelerContact{
				ID:        user.ID,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Email:     user.Email,
				Phone:     user.Phone,
			}
			contacts[userID] = contact
		}
		views[i].Traveler = contact
	}
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking, flight *model.Flight) {
	event := events.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		FlightID:      booking.FlightID,
		FlightNumber:  flight.FlightNumber,
		FareClass:     booking.FareClass,
		SeatsBooked:   len(booking.Passengers),
		TotalPrice:    booking.TotalPrice,
		DepartureCity: flight.Departure.City,
		ArrivalCity:   flight.Arrival.City,
		DepartureDate: flight.Departure.Date,
		OccurredAt:    time.Now().UTC(),
	}

	if err := s.publisher.PublishBookingEvent(ctx, event); err != nil {
		// The booking itself is committed; a lost event only delays the
		// notification.
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err)
	}
}
