package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecucondor/rates_backend/internal/core/domain"
	"github.com/ecucondor/rates_backend/internal/core/ports/events"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes domain events as JSON, keyed by Event.Key so all events
// of one user or lock land on the same partition.
type Producer struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

var _ events.Publisher = (*Producer)(nil)

// NewProducer creates an asynchronous producer for topic.
func NewProducer(brokers []string, topic string, logger *slog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Compression:  kafka.Snappy,
		BatchTimeout: 10 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Kafka delivery failed",
					slog.String("topic", topic),
					slog.Int("messages", len(messages)),
					slog.String("error", err.Error()))
			}
		},
	}
	logger.Info("Kafka producer initialized", slog.String("topic", topic))
	return newProducer(writer, topic, logger)
}

func newProducer(w messageWriter, topic string, logger *slog.Logger) *Producer {
	return &Producer{writer: w, topic: topic, logger: logger}
}

func (p *Producer) Publish(ctx context.Context, event domain.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send event %s: %w", event.Type, err)
	}
	p.logger.Debug("Event sent to Kafka",
		slog.String("topic", p.topic),
		slog.String("event_type", string(event.Type)),
		slog.String("event_key", event.Key))
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	p.logger.Info("Closing Kafka producer", slog.String("topic", p.topic))
	return p.writer.Close()
}
