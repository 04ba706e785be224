package middleware

import (
	"context"
	"time"

	"flightfinder/pkg/kafka"
	"flightfinder/pkg/logger"
)

// PublishLogging logs every publish attempt with its outcome and latency.
func PublishLogging(log *logger.Logger) kafka.ProducerMiddleware {
	return func(next kafka.PublishFunc) kafka.PublishFunc {
		return func(ctx context.Context, msg kafka.Message) error {
			start := time.Now()
			err := next(ctx, msg)
			duration := time.Since(start)

			if err != nil {
				log.Error("event publish failed",
					"event_id", msg.GetEventID(),
					"event_type", msg.GetEventType(),
					"key", msg.Key,
					"duration_ms", duration.Milliseconds(),
					"error", err)
				return err
			}

			log.Info("event published",
				"event_id", msg.GetEventID(),
				"event_type", msg.GetEventType(),
				"key", msg.Key,
				"duration_ms", duration.Milliseconds())
			return nil
		}
	}
}
