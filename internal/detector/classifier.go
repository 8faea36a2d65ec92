package detector

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
)

// PreviewLength is the number of characters kept in a batch preview.
const PreviewLength = 50

// Scorer names recorded on every result.
const (
	ScorerHeuristic = "heuristic"
	ScorerModel     = "model"
)

// ModelPrediction is the raw answer of an external phishing model.
type ModelPrediction struct {
	Label      string
	Confidence float64
}

// ModelClient is the port to an external phishing classifier.
type ModelClient interface {
	Predict(ctx context.Context, text string) (ModelPrediction, error)
}

// Result is the classification of a single text.
type Result struct {
	Prediction          Prediction
	Confidence          Confidence
	Reason              string
	PhishingProbability float64
	SafeProbability     float64
	Scorer              string
}

// BatchItem pairs a classification with the preview of its input.
type BatchItem struct {
	TextPreview string
	Result      Result
}

// Classifier turns probability splits into labelled results. When a model
// client is configured it is consulted first and the keyword heuristic is
// used whenever the model fails.
type Classifier struct {
	model       ModelClient
	concurrency int
	logger      *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithModel routes scoring through an external model.
func WithModel(model ModelClient) Option {
	return func(c *Classifier) {
		c.model = model
	}
}

// WithConcurrency bounds how many batch items are scored at once.
func WithConcurrency(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger used for model fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClassifier builds a heuristic-only classifier unless WithModel is given.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify scores text and derives its label and confidence tier.
func (c *Classifier) Classify(ctx context.Context, text string) Result {
	score, scorer := c.score(ctx, text)

	return Result{
		Prediction:          PredictionFromProbability(score.PhishingProbability),
		Confidence:          ConfidenceFromProbabilities(score.PhishingProbability, score.SafeProbability),
		Reason:              score.Reason,
		PhishingProbability: score.PhishingProbability,
		SafeProbability:     score.SafeProbability,
		Scorer:              scorer,
	}
}

// ClassifyBatch classifies every text independently. The output has the same
// length and order as texts.
func (c *Classifier) ClassifyBatch(ctx context.Context, texts []string) []BatchItem {
	items := make([]BatchItem, len(texts))

	if c.concurrency <= 1 || len(texts) < 2 {
		for i, text := range texts {
			items[i] = c.batchItem(ctx, text)
		}
		return items
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, c.concurrency)
	for i, text := range texts {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, text string) {
			defer wg.Done()
			defer func() { <-sem }()
			items[i] = c.batchItem(ctx, text)
		}(i, text)
	}
	wg.Wait()

	return items
}

func (c *Classifier) batchItem(ctx context.Context, text string) BatchItem {
	return BatchItem{
		TextPreview: Preview(text),
		Result:      c.Classify(ctx, text),
	}
}

func (c *Classifier) score(ctx context.Context, text string) (ScoreResult, string) {
	if c.model == nil {
		return Score(text), ScorerHeuristic
	}

	prediction, err := c.model.Predict(ctx, text)
	if err == nil {
		err = prediction.validate()
	}
	if err != nil {
		c.logger.WarnContext(ctx, "model prediction failed, using heuristic scoring", "error", err)
		return Score(text), ScorerHeuristic
	}

	return scoreModel(prediction, KeywordCount(text)), ScorerModel
}

// scoreModel converts a model answer into a split. The uncertainty override
// still applies and falls back on the keyword count.
func scoreModel(prediction ModelPrediction, keywords int) ScoreResult {
	phishing := prediction.Confidence
	if !strings.EqualFold(prediction.Label, string(PredictionPhishing)) {
		phishing = 1 - prediction.Confidence
	}
	return settle(phishing, ReasonModelPrediction, keywords)
}

func (p ModelPrediction) validate() error {
	if math.IsNaN(p.Confidence) || p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("model confidence %v outside [0, 1]", p.Confidence)
	}
	if strings.TrimSpace(p.Label) == "" {
		return fmt.Errorf("model returned empty label")
	}
	return nil
}

// Preview returns the first PreviewLength characters of text, case preserved.
func Preview(text string) string {
	n := 0
	for i := range text {
		if n == PreviewLength {
			return text[:i]
		}
		n++
	}
	return text
}
