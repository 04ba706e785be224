package config

const (
	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvKafkaBookingTopic  = "KAFKA_BOOKING_TOPIC"
	EnvKafkaDLQTopic      = "KAFKA_DLQ_TOPIC"
	EnvKafkaConsumerGroup = "KAFKA_CONSUMER_GROUP"
	EnvKafkaMaxRetries    = "KAFKA_MAX_RETRIES"
)
