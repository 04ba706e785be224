package events

import (
	"context"
	"time"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload published when a booking is created or
// cancelled. Consumers use it to send traveler notifications.
type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     string    `json:"bookingId"`
	UserID        string    `json:"userId"`
	FlightID      string    `json:"flightId"`
	FlightNumber  string    `json:"flightNumber"`
	FareClass     string    `json:"fareClass"`
	SeatsBooked   int       `json:"seatsBooked"`
	TotalPrice    float64   `json:"totalPrice"`
	DepartureCity string    `json:"departureCity"`
	ArrivalCity   string    `json:"arrivalCity"`
	DepartureDate time.Time `json:"departureDate"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher emits booking events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent) error
	Close() error
}
