package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IrshadAnsari05010/phishing-detector/common/models"
	"github.com/IrshadAnsari05010/phishing-detector/internal/detector"
	"github.com/IrshadAnsari05010/phishing-detector/internal/events"
	"github.com/IrshadAnsari05010/phishing-detector/internal/metrics"
)

// MaxBatchSize is the largest accepted batch.
const MaxBatchSize = 100

// Validation messages returned to clients.
const (
	ErrTextRequired      = "Text is required"
	ErrTextEmpty         = "Text cannot be empty"
	ErrTextsNotArray     = "texts must be an array"
	ErrTextsEmpty        = "texts array cannot be empty"
	ErrTooManyTexts      = "Maximum 100 texts allowed"
	ErrTextsNotAllString = "All texts must be strings"
)

const (
	endpointPredict      = "predict"
	endpointPredictBatch = "predict_batch"
)

// PredictHandler serves single and batch classification.
type PredictHandler struct {
	classifier   *detector.Classifier
	publisher    events.Publisher
	metrics      *metrics.Metrics
	logger       *slog.Logger
	modelEnabled bool
	now          func() time.Time
}

// NewPredictHandler wires a classifier to its event publisher and metrics.
// modelEnabled marks heuristic results as model fallbacks.
func NewPredictHandler(classifier *detector.Classifier, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger, modelEnabled bool) *PredictHandler {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &PredictHandler{
		classifier:   classifier,
		publisher:    publisher,
		metrics:      m,
		logger:       logger,
		modelEnabled: modelEnabled,
		now:          time.Now,
	}
}

// Predict classifies one text.
//
// @Summary      Classify text
// @Description  Classify a single text as phishing or safe
// @Tags         predict
// @Accept       json
// @Produce      json
// @Param        request body     models.AnalysisRequest true "Text to analyze"
// @Success      200     {object} models.AnalysisResponse
// @Failure      400     {object} models.ErrorResponse
// @Failure      502     {object} models.UpstreamError
// @Router       /predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	text, msg := parseText(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}

	ctx := c.Request.Context()
	result := h.classifier.Classify(ctx, text)
	h.observe(endpointPredict, result)
	h.publish(ctx, events.NewAnalysisEvent(text, result, h.now()))

	c.JSON(http.StatusOK, models.AnalysisResponse{
		Prediction:          result.Prediction.String(),
		Confidence:          result.Confidence.String(),
		Reason:              result.Reason,
		PhishingProbability: result.PhishingProbability,
		SafeProbability:     result.SafeProbability,
	})
}

// PredictBatch classifies up to MaxBatchSize texts, preserving order.
//
// @Summary      Classify a batch
// @Description  Classify up to 100 texts, preserving input order
// @Tags         predict
// @Accept       json
// @Produce      json
// @Param        request body     models.BatchAnalysisRequest true "Texts to analyze"
// @Success      200     {array}  models.BatchResultItem
// @Failure      400     {object} models.ErrorResponse
// @Failure      502     {object} models.UpstreamError
// @Router       /predict_batch [post]
func (h *PredictHandler) PredictBatch(c *gin.Context) {
	texts, msg := parseTexts(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}

	ctx := c.Request.Context()
	items := h.classifier.ClassifyBatch(ctx, texts)
	h.metrics.BatchSize.Observe(float64(len(items)))

	out := make([]models.BatchResultItem, len(items))
	for i, item := range items {
		h.observe(endpointPredictBatch, item.Result)
		out[i] = models.BatchResultItem{
			TextPreview:         item.TextPreview,
			Prediction:          item.Result.Prediction.String(),
			Confidence:          item.Result.Confidence.String(),
			Reason:              item.Result.Reason,
			PhishingProbability: item.Result.PhishingProbability,
		}
	}
	h.publish(ctx, events.NewBatchEvents(items, h.now())...)

	c.JSON(http.StatusOK, out)
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

func (h *PredictHandler) observe(endpoint string, result detector.Result) {
	h.metrics.ObservePrediction(endpoint, result.Prediction.String(), result.Confidence.String())
	if h.modelEnabled && result.Scorer == detector.ScorerHeuristic {
		h.metrics.ModelFallbacks.Inc()
	}
}

// publish never fails the request. Errors are logged and counted.
func (h *PredictHandler) publish(ctx context.Context, evts ...events.AnalysisEvent) {
	if err := h.publisher.Publish(ctx, evts...); err != nil {
		h.metrics.PublishFailures.Add(float64(len(evts)))
		h.logger.WarnContext(ctx, "publishing analysis events failed",
			slog.Int("count", len(evts)),
			slog.Any("error", err),
		)
	}
}

// parseText returns the trimmed-validated text or a client error message.
// Anything that is not an object with a string "text" field counts as missing.
func parseText(c *gin.Context) (string, string) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil || body == nil {
		return "", ErrTextRequired
	}

	raw, ok := body["text"]
	if !ok {
		return "", ErrTextRequired
	}
	var text *string
	if err := json.Unmarshal(raw, &text); err != nil || text == nil {
		return "", ErrTextRequired
	}
	if strings.TrimSpace(*text) == "" {
		return "", ErrTextEmpty
	}
	return *text, ""
}

// parseTexts validates a batch body in the order: array, non-empty, size cap,
// element types.
func parseTexts(c *gin.Context) ([]string, string) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil || body == nil {
		return nil, ErrTextsNotArray
	}

	var elems []json.RawMessage
	raw, ok := body["texts"]
	if !ok || json.Unmarshal(raw, &elems) != nil || elems == nil {
		return nil, ErrTextsNotArray
	}
	if len(elems) == 0 {
		return nil, ErrTextsEmpty
	}
	if len(elems) > MaxBatchSize {
		return nil, ErrTooManyTexts
	}

	texts := make([]string, len(elems))
	for i, elem := range elems {
		var text *string
		if err := json.Unmarshal(elem, &text); err != nil || text == nil {
			return nil, ErrTextsNotAllString
		}
		texts[i] = *text
	}
	return texts, ""
}
