package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed message. A nil return commits the offset.
type Handler func(ctx context.Context, msg kafkago.Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

const (
	defaultMinBackoff = 100 * time.Millisecond
	defaultMaxBackoff = 5 * time.Second
)

// Consumer reads analysis events with a consumer group and commits each
// offset only after its handler succeeds. A failing message is retried
// until it succeeds or the context ends; later messages wait behind it.
type Consumer struct {
	reader     messageReader
	handler    Handler
	logger     *slog.Logger
	topic      string
	group      string
	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewConsumer creates a group reader for topic.
func NewConsumer(brokers []string, topic, groupID string, handler Handler, logger *slog.Logger) *Consumer {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024, // 10 MB
	})
	return newConsumer(r, topic, groupID, handler, logger)
}

func newConsumer(r messageReader, topic, groupID string, handler Handler, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:     r,
		handler:    handler,
		logger:     logger,
		topic:      topic,
		group:      groupID,
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
	}
}

// Start consumes until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting", "topic", c.topic, "group", c.group)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer stopping due to context cancellation")
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := c.handleWithRetry(ctx, m); err != nil {
			c.logger.Info("consumer stopping due to context cancellation",
				"offset", m.Offset,
			)
			return nil
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit error",
				"topic", m.Topic,
				"partition", m.Partition,
				"offset", m.Offset,
				"error", err,
			)
		}
	}
}

// handleWithRetry runs the handler until it succeeds. It only returns an
// error once ctx is done, leaving the message uncommitted.
func (c *Consumer) handleWithRetry(ctx context.Context, m kafkago.Message) error {
	delay := c.minBackoff
	for attempt := 1; ; attempt++ {
		err := c.handler(ctx, m)
		if err == nil {
			return nil
		}
		c.logger.Error("handler error",
			"topic", m.Topic,
			"partition", m.Partition,
			"offset", m.Offset,
			"attempt", attempt,
			"retry_in", delay,
			"error", err,
		)
		if err := ctx.Err(); err != nil {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = min(delay*2, c.maxBackoff)
	}
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}

// Header returns the value of the named header, or "" when absent.
func Header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
