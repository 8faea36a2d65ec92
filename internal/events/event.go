package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IrshadAnsari05010/phishing-detector/internal/detector"
)

// EventTypeAnalysisCompleted is carried in the event_type header of every message.
const EventTypeAnalysisCompleted = "analysis.completed"

// Sources of an analysis event.
const (
	SourcePredict      = "predict"
	SourcePredictBatch = "predict_batch"
)

// AnalysisEvent is the published record of one classification. Only the text
// preview is carried, never the full input.
type AnalysisEvent struct {
	ID                  string    `json:"id"`
	BatchID             string    `json:"batch_id,omitempty"`
	Source              string    `json:"source"`
	Position            int       `json:"position"`
	TextPreview         string    `json:"text_preview"`
	Prediction          string    `json:"prediction"`
	Confidence          string    `json:"confidence"`
	Reason              string    `json:"reason"`
	PhishingProbability float64   `json:"phishing_probability"`
	SafeProbability     float64   `json:"safe_probability"`
	Scorer              string    `json:"scorer"`
	AnalyzedAt          time.Time `json:"analyzed_at"`
}

// EventType names the event for headers and logs.
func (e AnalysisEvent) EventType() string {
	return EventTypeAnalysisCompleted
}

// NewAnalysisEvent records a single classification.
func NewAnalysisEvent(text string, result detector.Result, at time.Time) AnalysisEvent {
	return newEvent(SourcePredict, "", 0, detector.Preview(text), result, at)
}

// NewBatchEvents records every item of a batch under one batch id.
func NewBatchEvents(items []detector.BatchItem, at time.Time) []AnalysisEvent {
	batchID := uuid.NewString()
	out := make([]AnalysisEvent, len(items))
	for i, item := range items {
		out[i] = newEvent(SourcePredictBatch, batchID, i, item.TextPreview, item.Result, at)
	}
	return out
}

func newEvent(source, batchID string, position int, preview string, result detector.Result, at time.Time) AnalysisEvent {
	return AnalysisEvent{
		ID:                  uuid.NewString(),
		BatchID:             batchID,
		Source:              source,
		Position:            position,
		TextPreview:         preview,
		Prediction:          result.Prediction.String(),
		Confidence:          result.Confidence.String(),
		Reason:              result.Reason,
		PhishingProbability: result.PhishingProbability,
		SafeProbability:     result.SafeProbability,
		Scorer:              result.Scorer,
		AnalyzedAt:          at.UTC(),
	}
}

// Decode parses a message value into an event and checks its identity.
func Decode(value []byte) (AnalysisEvent, error) {
	var evt AnalysisEvent
	if err := json.Unmarshal(value, &evt); err != nil {
		return AnalysisEvent{}, fmt.Errorf("decode analysis event: %w", err)
	}
	if _, err := uuid.Parse(evt.ID); err != nil {
		return AnalysisEvent{}, fmt.Errorf("analysis event id %q: %w", evt.ID, err)
	}
	return evt, nil
}
