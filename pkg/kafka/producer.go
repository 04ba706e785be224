package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"flightfinder/pkg/kafka/config"
	"flightfinder/pkg/logger"
)

// ProducerMiddleware wraps a publish call, mirroring the HTTP middleware
// chain style used elsewhere in the service.
type ProducerMiddleware func(next PublishFunc) PublishFunc

type PublishFunc func(ctx context.Context, msg Message) error

type Producer struct {
	writer    *kafkago.Writer
	dlqWriter *kafkago.Writer
	cfg       config.Config
	log       *logger.Logger
	chain     PublishFunc

	mu     sync.Mutex
	closed bool
}

func NewProducer(cfg config.Config, log *logger.Logger, middlewares ...ProducerMiddleware) *Producer {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.BookingTopic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafkago.RequireAll,
	}
	dlqWriter := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafkago.Hash{},
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafkago.RequireAll,
	}

	p := &Producer{
		writer:    writer,
		dlqWriter: dlqWriter,
		cfg:       cfg,
		log:       log,
	}

	p.chain = p.publishInternal
	for i := len(middlewares) - 1; i >= 0; i-- {
		p.chain = middlewares[i](p.chain)
	}

	return p
}

// Publish sends a message through the middleware chain. Messages that
// still fail after retries are routed to the DLQ topic.
func (p *Producer) Publish(ctx context.Context, msg Message) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrProducerClosed
	}
	p.mu.Unlock()

	if msg.Key == "" {
		return ErrEmptyKey
	}
	if len(msg.Value) == 0 {
		return ErrEmptyValue
	}

	return p.chain(ctx, msg)
}

func (p *Producer) publishInternal(ctx context.Context, msg Message) error {
	kafkaMsg := toKafkaMessage(msg)

	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.cfg.RetryBackoff * time.Duration(attempt)):
			}
		}

		lastErr = p.writer.WriteMessages(ctx, kafkaMsg)
		if lastErr == nil {
			return nil
		}
		if ClassifyError(lastErr) == ErrorTypePermanent {
			break
		}
		p.log.Warn("kafka publish retry",
			"attempt", attempt+1,
			"key", msg.Key,
			"error", lastErr)
	}

	p.sendToDLQ(ctx, msg, lastErr)
	return fmt.Errorf("publish failed after retries: %w", lastErr)
}

func (p *Producer) sendToDLQ(ctx context.Context, msg Message, cause error) {
	msg.Headers[HeaderOriginalTopic] = p.cfg.BookingTopic
	msg.Headers["failure-reason"] = cause.Error()

	if err := p.dlqWriter.WriteMessages(ctx, toKafkaMessage(msg)); err != nil {
		// Nothing left to do but log; the event is lost.
		p.log.Error("kafka DLQ write failed",
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"error", err)
		return
	}

	p.log.Warn("message routed to DLQ",
		"key", msg.Key,
		"event_id", msg.GetEventID(),
		"reason", cause.Error())
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.writer.Close(); err != nil {
		return err
	}
	return p.dlqWriter.Close()
}

func toKafkaMessage(msg Message) kafkago.Message {
	headers := make([]kafkago.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(v)})
	}
	return kafkago.Message{
		Key:     []byte(msg.Key),
		Value:   msg.Value,
		Headers: headers,
		Time:    msg.Timestamp,
	}
}
