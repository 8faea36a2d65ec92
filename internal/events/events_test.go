package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrshadAnsari05010/phishing-detector/internal/detector"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafkago.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeReader struct {
	messages  []kafkago.Message
	committed []int64
	fetchErr  error
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.messages) == 0 {
		if r.fetchErr != nil {
			return kafkago.Message{}, r.fetchErr
		}
		return kafkago.Message{}, context.Canceled
	}
	m := r.messages[0]
	r.messages = r.messages[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func sampleResult() detector.Result {
	return detector.NewClassifier().Classify(context.Background(), "Please verify your account immediately")
}

func TestNewAnalysisEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	text := strings.Repeat("verify ", 20)

	evt := NewAnalysisEvent(text, sampleResult(), at)

	_, err := uuid.Parse(evt.ID)
	require.NoError(t, err)
	assert.Empty(t, evt.BatchID)
	assert.Equal(t, SourcePredict, evt.Source)
	assert.Equal(t, detector.Preview(text), evt.TextPreview)
	assert.Equal(t, "phishing", evt.Prediction)
	assert.Equal(t, "high", evt.Confidence)
	assert.Equal(t, 0.66, evt.PhishingProbability)
	assert.Equal(t, detector.ScorerHeuristic, evt.Scorer)
	assert.Equal(t, time.UTC, evt.AnalyzedAt.Location())
}

func TestNewBatchEvents(t *testing.T) {
	items := detector.NewClassifier().ClassifyBatch(context.Background(), []string{"hello there", "click here now"})

	evts := NewBatchEvents(items, time.Now())

	require.Len(t, evts, 2)
	assert.NotEmpty(t, evts[0].BatchID)
	assert.Equal(t, evts[0].BatchID, evts[1].BatchID)
	assert.NotEqual(t, evts[0].ID, evts[1].ID)
	assert.Equal(t, 0, evts[0].Position)
	assert.Equal(t, 1, evts[1].Position)
	assert.Equal(t, SourcePredictBatch, evts[1].Source)
	assert.Equal(t, "click here now", evts[1].TextPreview)
}

func TestDecode(t *testing.T) {
	evt := NewAnalysisEvent("hello", sampleResult(), time.Now())
	raw, err := json.Marshal(evt)
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, evt.ID, decoded.ID)
	assert.True(t, evt.AnalyzedAt.Equal(decoded.AnalyzedAt))

	_, err = Decode([]byte("{not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"id":"nope"}`))
	assert.Error(t, err)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "phishguard.analyses", discardLogger())
	evts := NewBatchEvents(detector.NewClassifier().ClassifyBatch(context.Background(), []string{"a", "b"}), time.Now())

	require.NoError(t, p.Publish(context.Background(), evts...))

	require.Len(t, w.messages, 2)
	for i, m := range w.messages {
		assert.Equal(t, evts[i].ID, string(m.Key))
		assert.Equal(t, EventTypeAnalysisCompleted, Header(m, "event_type"))
		decoded, err := Decode(m.Value)
		require.NoError(t, err)
		assert.Equal(t, evts[i].ID, decoded.ID)
	}

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w, "t", discardLogger())

	err := p.Publish(context.Background(), NewAnalysisEvent("x", sampleResult(), time.Now()))
	assert.ErrorContains(t, err, "broker down")

	assert.NoError(t, p.Publish(context.Background()))
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), AnalysisEvent{}))
	assert.NoError(t, p.Close())
}

func fastRetryConsumer(r messageReader, handler Handler) *Consumer {
	c := newConsumer(r, "t", "g", handler, discardLogger())
	c.minBackoff = time.Millisecond
	c.maxBackoff = 2 * time.Millisecond
	return c
}

func TestConsumer_RetriesFailedMessageUntilHandled(t *testing.T) {
	r := &fakeReader{messages: []kafkago.Message{
		{Offset: 1, Value: []byte("a")},
		{Offset: 2, Value: []byte("b")},
		{Offset: 3, Value: []byte("c")},
	}}
	attempts := map[int64]int{}
	var order []string
	handler := func(_ context.Context, m kafkago.Message) error {
		attempts[m.Offset]++
		if m.Offset == 2 && attempts[m.Offset] <= 3 {
			return errors.New("index unavailable")
		}
		order = append(order, string(m.Value))
		return nil
	}

	c := fastRetryConsumer(r, handler)
	require.NoError(t, c.Start(context.Background()))

	assert.Equal(t, map[int64]int{1: 1, 2: 4, 3: 1}, attempts)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, []int64{1, 2, 3}, r.committed)
	assert.NoError(t, c.Close())
}

func TestConsumer_CancelDuringRetryLeavesOffsetUncommitted(t *testing.T) {
	r := &fakeReader{messages: []kafkago.Message{
		{Offset: 1, Value: []byte("a")},
		{Offset: 2, Value: []byte("b")},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempts := 0
	handler := func(context.Context, kafkago.Message) error {
		attempts++
		if attempts == 3 {
			cancel()
		}
		return errors.New("index unavailable")
	}

	c := fastRetryConsumer(r, handler)
	require.NoError(t, c.Start(ctx))

	assert.Equal(t, 3, attempts)
	assert.Empty(t, r.committed)
	assert.Len(t, r.messages, 1, "next message must not be fetched while one is failing")
}

func TestConsumer_BackoffIsCapped(t *testing.T) {
	r := &fakeReader{messages: []kafkago.Message{{Offset: 7}}}
	var stamps []time.Time
	handler := func(context.Context, kafkago.Message) error {
		stamps = append(stamps, time.Now())
		if len(stamps) < 6 {
			return errors.New("index unavailable")
		}
		return nil
	}

	c := newConsumer(r, "t", "g", handler, discardLogger())
	c.minBackoff = time.Millisecond
	c.maxBackoff = 4 * time.Millisecond
	require.NoError(t, c.Start(context.Background()))

	require.Len(t, stamps, 6)
	assert.Equal(t, []int64{7}, r.committed)
	// 1 + 2 + 4 + 4 + 4 ms of waiting at minimum.
	assert.GreaterOrEqual(t, stamps[5].Sub(stamps[0]), 15*time.Millisecond)
}

func TestConsumer_FetchError(t *testing.T) {
	r := &fakeReader{fetchErr: errors.New("coordinator lost")}
	c := newConsumer(r, "t", "g", func(context.Context, kafkago.Message) error { return nil }, discardLogger())

	assert.ErrorContains(t, c.Start(context.Background()), "coordinator lost")
}

func TestHeader(t *testing.T) {
	m := kafkago.Message{Headers: []kafkago.Header{{Key: "event_type", Value: []byte("x")}}}
	assert.Equal(t, "x", Header(m, "event_type"))
	assert.Equal(t, "", Header(m, "missing"))
}
