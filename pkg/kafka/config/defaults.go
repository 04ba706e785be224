package config

import "time"

const (
	DefaultBookingTopic  = "flightfinder.bookings"
	DefaultDLQTopic      = "flightfinder.bookings.dlq"
	DefaultConsumerGroup = "flightfinder-notifier"

	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 500 * time.Millisecond
	DefaultBatchTimeout = 100 * time.Millisecond
	DefaultWriteTimeout = 10 * time.Second
	DefaultReadTimeout  = 10 * time.Second
	DefaultMinBytes     = 1
	DefaultMaxBytes     = 10 * 1024 * 1024
)
