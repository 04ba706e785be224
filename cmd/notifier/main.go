package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"flightfinder/pkg/config"
	"flightfinder/pkg/events"
	"flightfinder/pkg/kafka"
	kafkaconfig "flightfinder/pkg/kafka/config"
	"flightfinder/pkg/logger"
)

const ServiceName = "notifier"

// The notifier consumes booking events and delivers traveler
// notifications. Delivery is currently a structured log line; the consumer
// loop, retries and DLQ routing are the durable part.
func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Config{
		Level:   os.Getenv(config.EnvLogLevel),
		Format:  logger.JSON,
		Service: ServiceName,
	})

	kafkaCfg := kafkaconfig.Load()
	if err := kafkaCfg.Validate(); err != nil {
		log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled() {
		log.Fatal("KAFKA_BROKERS must be set for the notifier")
	}

	consumer := kafka.NewConsumer(kafkaCfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		sig := <-shutdown
		log.Info("Shutdown signal received", "signal", sig)
		cancel()
		if err := consumer.Close(); err != nil {
			log.Error("Failed to close consumer", "error", err)
		}
	}()

	log.Info("Notifier consuming booking events",
		"brokers", kafkaCfg.Brokers,
		"topic", kafkaCfg.BookingTopic,
		"group", kafkaCfg.ConsumerGroup,
	)

	err := consumer.Consume(ctx, func(ctx context.Context, msg kafka.Message) error {
		var event events.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}

		log.Info("Booking notification",
			"event_id", msg.GetEventID(),
			"type", event.Type,
			"booking_id", event.BookingID,
			"user_id", event.UserID,
			"flight_number", event.FlightNumber,
			"route", event.DepartureCity+" -> "+event.ArrivalCity,
			"seats", event.SeatsBooked,
			"total_price", event.TotalPrice,
		)
		return nil
	})
	if err != nil {
		log.Fatal("Consumer stopped with error", "error", err)
	}

	log.Info("Notifier stopped")
}
