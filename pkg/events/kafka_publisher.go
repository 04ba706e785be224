package events

import (
	"context"
	"time"

	"flightfinder/pkg/kafka"
)

const eventSource = "flightfinder-server"

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaPublisher emits booking events keyed by flight id so events for
// the same flight stay ordered within a partition.
type KafkaPublisher struct {
	producer producer
}

func NewKafkaPublisher(p producer) *KafkaPublisher {
	return &KafkaPublisher{producer: p}
}

func (kp *KafkaPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	msg := kafka.NewMessage().
		WithKey(event.FlightID).
		WithValue(event).
		WithEventType(event.Type).
		WithSource(eventSource).
		Build()

	return kp.producer.Publish(ctx, msg)
}

func (kp *KafkaPublisher) Close() error {
	return kp.producer.Close()
}

// NoopPublisher is used when no brokers are configured. Bookings work the
// same; only the notification stream is absent.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingEvent(context.Context, BookingEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
