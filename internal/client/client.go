package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/IrshadAnsari05010/phishing-detector/common/models"
)

// APIError is a non-200 answer from the detector API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("detector api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("detector api: status %d: %s", e.StatusCode, e.Message)
}

// Client calls the detector API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Predict classifies one text.
func (c *Client) Predict(ctx context.Context, text string) (models.AnalysisResponse, error) {
	var out models.AnalysisResponse
	err := c.post(ctx, "/predict", models.AnalysisRequest{Text: text}, &out)
	return out, err
}

// PredictBatch classifies texts in one request.
func (c *Client) PredictBatch(ctx context.Context, texts []string) ([]models.BatchResultItem, error) {
	var out []models.BatchResultItem
	err := c.post(ctx, "/predict_batch", models.BatchAnalysisRequest{Texts: texts}, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, path string, payload, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
