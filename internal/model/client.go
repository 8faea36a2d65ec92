package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/IrshadAnsari05010/phishing-detector/internal/detector"
)

const predictPath = "/api/predict"

// Client talks to a remote phishing model server.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ detector.ModelClient = (*Client)(nil)

// NewClient creates a reusable HTTP client. A non-positive timeout keeps the
// 10 second default.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence"`
	Error      string   `json:"error"`
}

// Predict sends text to the model server and returns its raw answer.
func (c *Client) Predict(ctx context.Context, text string) (detector.ModelPrediction, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return detector.ModelPrediction{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+predictPath, bytes.NewReader(body))
	if err != nil {
		return detector.ModelPrediction{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return detector.ModelPrediction{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return detector.ModelPrediction{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return detector.ModelPrediction{}, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return detector.ModelPrediction{}, fmt.Errorf("model error: %s", out.Error)
	}
	if out.Confidence == nil {
		return detector.ModelPrediction{}, fmt.Errorf("model response missing confidence")
	}

	return detector.ModelPrediction{Label: out.Label, Confidence: *out.Confidence}, nil
}
