package model

import "time"

const (
	FareEconomy  = "economy"
	FareBusiness = "business"
	FareFirst    = "first"
)

// FareClasses lists the priced seating tiers a flight may carry, in display
// order.
var FareClasses = []string{FareEconomy, FareBusiness, FareFirst}

func IsFareClass(s string) bool {
	for _, fc := range FareClasses {
		if fc == s {
			return true
		}
	}
	return false
}

// SeatBlock tracks inventory for one fare class. Invariant: 0 <= Available <= Total,
// enforced by conditional updates in the flight repository.
type SeatBlock struct {
	Total     int `json:"total" bson:"total" validate:"required,min=1,max=1000"`
	Available int `json:"available" bson:"available" validate:"min=0,ltefield=Total"`
}

// Leg is one endpoint of a flight: where and when.
type Leg struct {
	City string    `json:"city" bson:"city" validate:"required,min=2,max=100"`
	Date time.Time `json:"date" bson:"date" validate:"required"`
	Time string    `json:"time" bson:"time" validate:"required"`
}

type Flight struct {
	ID           string               `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FlightNumber string               `json:"flight_number" bson:"flight_number" validate:"required,min=2,max=10"`
	Airline      string               `json:"airline" bson:"airline" validate:"required,min=2,max=100"`
	Departure    Leg                  `json:"departure" bson:"departure" validate:"required"`
	Arrival      Leg                  `json:"arrival" bson:"arrival" validate:"required"`
	Price        map[string]float64   `json:"price" bson:"price" validate:"required,fare_price_map"`
	Seats        map[string]SeatBlock `json:"seats" bson:"seats" validate:"required,fare_seat_map"`
	CreatedBy    string               `json:"created_by,omitempty" bson:"created_by" validate:"omitempty,mongodb"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
}

// FlightSummary is the denormalized slice of a flight embedded in dashboard
// booking views.
type FlightSummary struct {
	ID            string    `json:"id"`
	FlightNumber  string    `json:"flight_number"`
	Airline       string    `json:"airline"`
	DepartureCity string    `json:"departure_city"`
	ArrivalCity   string    `json:"arrival_city"`
	DepartureDate time.Time `json:"departure_date"`
	DepartureTime string    `json:"departure_time"`
}

func (f *Flight) Summary() FlightSummary {
	return FlightSummary{
		ID:            f.ID,
		FlightNumber:  f.FlightNumber,
		Airline:       f.Airline,
		DepartureCity: f.Departure.City,
		ArrivalCity:   f.Arrival.City,
		DepartureDate: f.Departure.Date,
		DepartureTime: f.Departure.Time,
	}
}
