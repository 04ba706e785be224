package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries broker addresses and topic names for the booking event
// stream. An empty Brokers list disables publishing entirely.
type Config struct {
	Brokers       []string
	BookingTopic  string
	DLQTopic      string
	ConsumerGroup string

	MaxRetries   int
	RetryBackoff time.Duration
	BatchTimeout time.Duration
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
	MinBytes     int
	MaxBytes     int
}

func Load() Config {
	return Config{
		Brokers:       splitBrokers(os.Getenv(EnvKafkaBrokers)),
		BookingTopic:  getEnvStr(EnvKafkaBookingTopic, DefaultBookingTopic),
		DLQTopic:      getEnvStr(EnvKafkaDLQTopic, DefaultDLQTopic),
		ConsumerGroup: getEnvStr(EnvKafkaConsumerGroup, DefaultConsumerGroup),
		MaxRetries:    getEnvNum(EnvKafkaMaxRetries, DefaultMaxRetries),
		RetryBackoff:  DefaultRetryBackoff,
		BatchTimeout:  DefaultBatchTimeout,
		WriteTimeout:  DefaultWriteTimeout,
		ReadTimeout:   DefaultReadTimeout,
		MinBytes:      DefaultMinBytes,
		MaxBytes:      DefaultMaxBytes,
	}
}

func (c Config) Enabled() bool {
	return len(c.Brokers) > 0
}

func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.BookingTopic == "" {
		return fmt.Errorf("%s cannot be empty", EnvKafkaBookingTopic)
	}
	if c.DLQTopic == "" {
		return fmt.Errorf("%s cannot be empty", EnvKafkaDLQTopic)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%s cannot be negative", EnvKafkaMaxRetries)
	}
	return nil
}

func splitBrokers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
