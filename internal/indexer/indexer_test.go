package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrshadAnsari05010/phishing-detector/common/models"
	"github.com/IrshadAnsari05010/phishing-detector/internal/events"
)

type memoryStore struct {
	mu       sync.Mutex
	docs     map[string]events.AnalysisEvent
	indexErr error
	failNext int
	getErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: map[string]events.AnalysisEvent{}}
}

func (m *memoryStore) Index(_ context.Context, evt events.AnalysisEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexErr != nil {
		return m.indexErr
	}
	if m.failNext > 0 {
		m.failNext--
		return errors.New("cluster unavailable")
	}
	m.docs[evt.ID] = evt
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (events.AnalysisEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return events.AnalysisEvent{}, m.getErr
	}
	evt, ok := m.docs[id]
	if !ok {
		return events.AnalysisEvent{}, ErrNotFound
	}
	return evt, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *memoryStore) Search(_ context.Context, q models.AnalysisSearchQuery) (models.AnalysisSearchResponse[events.AnalysisEvent], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q.Normalize()
	out := models.AnalysisSearchResponse[events.AnalysisEvent]{Results: []events.AnalysisEvent{}, Page: q.Page, PerPage: q.PerPage}
	for _, evt := range m.docs {
		if q.Prediction == "" || q.Prediction == evt.Prediction {
			out.Results = append(out.Results, evt)
		}
	}
	out.Total = len(out.Results)
	return out, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const eventID = "8f5d2a6e-2d7c-4a35-9f2e-0d1c2b3a4f5e"

func eventMessage(t *testing.T, evt events.AnalysisEvent) kafkago.Message {
	t.Helper()
	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	return kafkago.Message{
		Key:     []byte(evt.ID),
		Value:   raw,
		Headers: []kafkago.Header{{Key: "event_type", Value: []byte(events.EventTypeAnalysisCompleted)}},
	}
}

func TestIndexer_Handle(t *testing.T) {
	store := newMemoryStore()
	var outcomes []string
	ix := New(store, quietLogger(), func(o string) { outcomes = append(outcomes, o) })

	require.NoError(t, ix.Handle(context.Background(), eventMessage(t, sampleEvent(eventID))))

	assert.Contains(t, store.docs, eventID)
	assert.Equal(t, []string{OutcomeIndexed}, outcomes)
}

func TestIndexer_HandleSkipsPoisonMessages(t *testing.T) {
	store := newMemoryStore()
	var outcomes []string
	ix := New(store, quietLogger(), func(o string) { outcomes = append(outcomes, o) })

	assert.NoError(t, ix.Handle(context.Background(), kafkago.Message{Value: []byte("garbage")}))
	assert.NoError(t, ix.Handle(context.Background(), kafkago.Message{
		Value:   []byte(`{}`),
		Headers: []kafkago.Header{{Key: "event_type", Value: []byte("something.else")}},
	}))

	assert.Empty(t, store.docs)
	assert.Equal(t, []string{OutcomeSkipped, OutcomeSkipped}, outcomes)
}

func TestIndexer_HandleReturnsStoreErrors(t *testing.T) {
	store := newMemoryStore()
	store.indexErr = errors.New("cluster red")
	ix := New(store, quietLogger(), nil)

	err := ix.Handle(context.Background(), eventMessage(t, sampleEvent(eventID)))
	assert.ErrorContains(t, err, "cluster red")
}

func TestIndexer_HandleSucceedsOnceStoreRecovers(t *testing.T) {
	store := newMemoryStore()
	store.failNext = 2
	var outcomes []string
	ix := New(store, quietLogger(), func(o string) { outcomes = append(outcomes, o) })
	msg := eventMessage(t, sampleEvent(eventID))

	assert.Error(t, ix.Handle(context.Background(), msg))
	assert.Error(t, ix.Handle(context.Background(), msg))
	require.NoError(t, ix.Handle(context.Background(), msg))

	assert.Contains(t, store.docs, eventID)
	assert.Equal(t, []string{OutcomeFailed, OutcomeFailed, OutcomeIndexed}, outcomes)
}

func setupRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHTTPHandler(store, quietLogger()).RegisterRoutes(r)
	return r
}

func TestHTTPHandler_GetAndDelete(t *testing.T) {
	store := newMemoryStore()
	store.docs[eventID] = sampleEvent(eventID)
	r := setupRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analyses/"+eventID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got events.AnalysisEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, eventID, got.ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/analyses/"+eventID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+eventID+`","deleted":true}`, w.Body.String())

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/analyses/"+eventID, nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Analysis not found"}`, w.Body.String())
	}
}

func TestHTTPHandler_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("timeout")
	r := setupRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analyses/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHTTPHandler_Search(t *testing.T) {
	store := newMemoryStore()
	store.docs["a"] = sampleEvent("a")
	safe := sampleEvent("b")
	safe.Prediction = "safe"
	store.docs["b"] = safe
	r := setupRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analyses?prediction=safe&per_page=500", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AnalysisSearchResponse[events.AnalysisEvent]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 100, resp.PerPage)
	assert.Equal(t, "b", resp.Results[0].ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analyses?page=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analyses?page=9223372036854775807&per_page=100", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.Page)
}
