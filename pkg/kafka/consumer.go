package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"flightfinder/pkg/kafka/config"
	"flightfinder/pkg/logger"
)

type Consumer struct {
	reader    *kafkago.Reader
	dlqWriter *kafkago.Writer
	cfg       config.Config
	log       *logger.Logger

	mu     sync.Mutex
	closed bool
}

func NewConsumer(cfg config.Config, log *logger.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.BookingTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	dlqWriter := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafkago.Hash{},
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafkago.RequireAll,
	}

	return &Consumer{
		reader:    reader,
		dlqWriter: dlqWriter,
		cfg:       cfg,
		log:       log,
	}
}

// Consume blocks reading messages until ctx is cancelled or the consumer
// is closed. Handler failures are retried for transient errors and sent
// to the DLQ otherwise.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		kafkaMsg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || c.isClosed() {
				return nil
			}
			return err
		}

		msg := convertMessage(kafkaMsg)
		c.processMessage(ctx, msg, handler)

		if err := c.reader.CommitMessages(ctx, kafkaMsg); err != nil {
			c.log.Error("kafka commit failed",
				"topic", kafkaMsg.Topic,
				"offset", kafkaMsg.Offset,
				"error", err)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg Message, handler MessageHandler) {
	var err error
	for {
		err = handler(ctx, msg)
		if err == nil {
			return
		}

		if !ShouldRetry(err, msg.GetRetryCount(), c.cfg.MaxRetries) {
			break
		}
		msg.IncrementRetryCount()
		c.log.Warn("retrying message",
			"event_id", msg.GetEventID(),
			"retry", msg.GetRetryCount(),
			"error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.RetryBackoff * time.Duration(msg.GetRetryCount())):
		}
	}

	c.sendToDLQ(ctx, msg, err)
}

func (c *Consumer) sendToDLQ(ctx context.Context, msg Message, cause error) {
	msg.Headers[HeaderOriginalTopic] = msg.Topic
	msg.Headers["failure-reason"] = cause.Error()

	if err := c.dlqWriter.WriteMessages(ctx, toKafkaMessage(msg)); err != nil {
		c.log.Error("kafka DLQ write failed",
			"event_id", msg.GetEventID(),
			"error", err)
		return
	}
	c.log.Warn("message routed to DLQ",
		"event_id", msg.GetEventID(),
		"reason", cause.Error())
}

func (c *Consumer) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	if err := c.reader.Close(); err != nil {
		return err
	}
	return c.dlqWriter.Close()
}

func convertMessage(km kafkago.Message) Message {
	headers := make(map[string]string, len(km.Headers))
	for _, h := range km.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{
		Key:       string(km.Key),
		Value:     km.Value,
		Headers:   headers,
		Topic:     km.Topic,
		Partition: km.Partition,
		Offset:    km.Offset,
		Timestamp: km.Time,
	}
}
