package model_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrshadAnsari05010/phishing-detector/internal/model"
)

func TestClient_Predict(t *testing.T) {
	var gotAuth, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/predict", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotText = body["text"]

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"label":"phishing","confidence":0.87}`))
	}))
	defer server.Close()

	client := model.NewClient(server.URL+"/", "secret", time.Second)
	prediction, err := client.Predict(context.Background(), "verify your account")

	require.NoError(t, err)
	assert.Equal(t, "phishing", prediction.Label)
	assert.Equal(t, 0.87, prediction.Confidence)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "verify your account", gotText)
}

func TestClient_PredictErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"invalid json", http.StatusOK, `not json`},
		{"error field", http.StatusOK, `{"error":"model not loaded"}`},
		{"missing confidence", http.StatusOK, `{"label":"phishing"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := model.NewClient(server.URL, "", time.Second).Predict(context.Background(), "hi")
			assert.Error(t, err)
		})
	}
}

func TestClient_PredictHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := model.NewClient(server.URL, "", time.Second).Predict(ctx, "hi")
	assert.ErrorIs(t, err, context.Canceled)
}
