package model

import "time"

const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

type Passenger struct {
	Name string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Age  int    `json:"age" bson:"age" validate:"required,min=1,max=120"`
}

// Booking references its user and flight by id; traveler and flight display
// fields are joined at read time, never embedded.
type Booking struct {
	ID          string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID      string      `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	FlightID    string      `json:"flight_id" bson:"flight_id" validate:"required,mongodb"`
	FareClass   string      `json:"fare_class" bson:"fare_class" validate:"required,oneof=economy business first"`
	Passengers  []Passenger `json:"passengers" bson:"passengers" validate:"required,min=1,max=9,dive"`
	SeatsBooked []string    `json:"seats_booked" bson:"seats_booked"`
	TotalPrice  float64     `json:"total_price" bson:"total_price" validate:"min=0"`
	Status      string      `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
}

// BookingRequest is the traveler-facing creation payload. The server owns
// pricing, seat assignment and status.
type BookingRequest struct {
	FlightID   string      `json:"flight_id" validate:"required,mongodb"`
	FareClass  string      `json:"fare_class" validate:"required,oneof=economy business first"`
	Passengers []Passenger `json:"passengers" validate:"required,min=1,max=9,dive"`
}

// TravelerContact is the slice of the booking user shown on dashboards.
type TravelerContact struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// BookingView joins a booking with traveler contact and flight summary for
// the admin and operator dashboards.
type BookingView struct {
	Booking  *Booking         `json:"booking"`
	Traveler *TravelerContact `json:"traveler,omitempty"`
	Flight   *FlightSummary   `json:"flight,omitempty"`
}

// OperatorStats is the operator dashboard payload: the operator's flights and
// every booking made against them.
type OperatorStats struct {
	TotalFlights  int64         `json:"total_flights"`
	TotalBookings int64         `json:"total_bookings"`
	Flights       []*Flight     `json:"flights"`
	Bookings      []BookingView `json:"bookings"`
}
