package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Publisher ships analysis events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, events ...AnalysisEvent) error
	Close() error
}

// NoopPublisher discards events. It is used when no broker is configured.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, ...AnalysisEvent) error { return nil }

// Close implements Publisher.
func (NoopPublisher) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON to a Kafka topic. The writer runs in
// async mode so Publish never waits on the broker.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher creates an async writer for topic. onFailure, when set, is
// called with the number of messages a failed write dropped.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger, onFailure func(n int)) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireOne,
		Async:        true,
		Completion: func(messages []kafkago.Message, err error) {
			if err == nil {
				return
			}
			logger.Error("analysis events not delivered",
				slog.String("topic", topic),
				slog.Int("count", len(messages)),
				slog.Any("error", err),
			)
			if onFailure != nil {
				onFailure(len(messages))
			}
		},
	}
	return newKafkaPublisher(w, topic, logger)
}

func newKafkaPublisher(w messageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, logger: logger}
}

// Publish implements Publisher. Events are keyed by id.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...AnalysisEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.ID, err)
		}
		messages = append(messages, kafkago.Message{
			Key:   []byte(evt.ID),
			Value: payload,
			Headers: []kafkago.Header{
				{Key: "event_type", Value: []byte(evt.EventType())},
				{Key: "content-type", Value: []byte("application/json")},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.topic, err)
	}

	p.logger.DebugContext(ctx, "published analysis events",
		slog.String("topic", p.topic),
		slog.Int("count", len(messages)),
	)
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("closing kafka writer: %w", err)
	}
	return nil
}
