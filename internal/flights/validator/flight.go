package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"flightfinder/pkg/logger"
	"flightfinder/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type FlightValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewFlightValidator(log *logger.Logger) *FlightValidator {
	v := validator.New()

	if err := v.RegisterValidation("fare_price_map", validateFarePriceMap); err != nil {
		log.Fatal("Failed to register 'fare_price_map' validator", "error", err)
	}
	if err := v.RegisterValidation("fare_seat_map", validateFareSeatMap); err != nil {
		log.Fatal("Failed to register 'fare_seat_map' validator", "error", err)
	}

	log.Info("Flight validator initialized successfully")

	return &FlightValidator{
		validate: v,
		logger:   log,
	}
}

// validateFarePriceMap requires at least one known fare class with a
// positive price, and no unknown classes.
func validateFarePriceMap(fl validator.FieldLevel) bool {
	prices, ok := fl.Field().Interface().(map[string]float64)
	if !ok || len(prices) == 0 {
		return false
	}

	for class, price := range prices {
		if !model.IsFareClass(class) || price <= 0 {
			return false
		}
	}
	return true
}

// validateFareSeatMap requires every seat block to belong to a known fare
// class with sane totals.
func validateFareSeatMap(fl validator.FieldLevel) bool {
	seats, ok := fl.Field().Interface().(map[string]model.SeatBlock)
	if !ok || len(seats) == 0 {
		return false
	}

	for class, block := range seats {
		if !model.IsFareClass(class) {
			return false
		}
		if block.Total < 1 || block.Total > 1000 {
			return false
		}
		if block.Available < 0 || block.Available > block.Total {
			return false
		}
	}
	return true
}

func (v *FlightValidator) Validate(flight *model.Flight) error {
	if err := v.validate.Struct(flight); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !flight.Arrival.Date.After(flight.Departure.Date) && !flight.Arrival.Date.Equal(flight.Departure.Date) {
		return ValidationErrors{
			ValidationError{
				Field:   "Arrival",
				Message: "arrival date cannot be before departure date",
			},
		}
	}

	// Every priced class needs seats and every seated class needs a price.
	for class := range flight.Price {
		if _, ok := flight.Seats[class]; !ok {
			return ValidationErrors{
				ValidationError{
					Field:   "Seats",
					Message: fmt.Sprintf("fare class %q is priced but has no seat block", class),
				},
			}
		}
	}
	for class := range flight.Seats {
		if _, ok := flight.Price[class]; !ok {
			return ValidationErrors{
				ValidationError{
					Field:   "Price",
					Message: fmt.Sprintf("fare class %q has seats but no price", class),
				},
			}
		}
	}

	if flight.Departure.Date.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
		return ValidationErrors{
			ValidationError{
				Field:   "Departure",
				Message: "departure date cannot be in the past",
			},
		}
	}

	return nil
}

func (v *FlightValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "fare_price_map":
			message = fmt.Sprintf("%s must map known fare classes to positive prices", err.Field())
		case "fare_seat_map":
			message = fmt.Sprintf("%s must map known fare classes to valid seat blocks", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
