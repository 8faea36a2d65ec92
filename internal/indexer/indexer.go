package indexer

import (
	"context"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/IrshadAnsari05010/phishing-detector/internal/events"
)

// Outcome labels for consumed events.
const (
	OutcomeIndexed = "indexed"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Indexer moves consumed analysis events into a Store.
type Indexer struct {
	store   Store
	logger  *slog.Logger
	observe func(outcome string)
}

// New creates an Indexer. observe, when set, is told the outcome of every message.
func New(store Store, logger *slog.Logger, observe func(outcome string)) *Indexer {
	if observe == nil {
		observe = func(string) {}
	}
	return &Indexer{store: store, logger: logger, observe: observe}
}

// Handle is an events.Handler. Messages that cannot be decoded are logged and
// acknowledged so they do not block the partition. Store failures are returned
// so the consumer retries the same message before moving on.
func (ix *Indexer) Handle(ctx context.Context, msg kafkago.Message) error {
	if t := events.Header(msg, "event_type"); t != "" && t != events.EventTypeAnalysisCompleted {
		ix.logger.WarnContext(ctx, "skipping unexpected event type",
			slog.String("event_type", t),
			slog.Int64("offset", msg.Offset),
		)
		ix.observe(OutcomeSkipped)
		return nil
	}

	evt, err := events.Decode(msg.Value)
	if err != nil {
		ix.logger.WarnContext(ctx, "skipping undecodable analysis event",
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
			slog.Any("error", err),
		)
		ix.observe(OutcomeSkipped)
		return nil
	}

	if err := ix.store.Index(ctx, evt); err != nil {
		ix.observe(OutcomeFailed)
		return fmt.Errorf("store analysis %s: %w", evt.ID, err)
	}

	ix.logger.DebugContext(ctx, "analysis indexed", slog.String("id", evt.ID))
	ix.observe(OutcomeIndexed)
	return nil
}
