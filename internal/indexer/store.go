package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/IrshadAnsari05010/phishing-detector/common/models"
	"github.com/IrshadAnsari05010/phishing-detector/internal/events"
)

// ErrNotFound is returned when no analysis is stored under an id.
var ErrNotFound = errors.New("analysis not found")

// Store persists analysis events.
type Store interface {
	Index(ctx context.Context, evt events.AnalysisEvent) error
	Get(ctx context.Context, id string) (events.AnalysisEvent, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q models.AnalysisSearchQuery) (models.AnalysisSearchResponse[events.AnalysisEvent], error)
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":                   {"type": "keyword"},
      "batch_id":             {"type": "keyword"},
      "source":               {"type": "keyword"},
      "position":             {"type": "integer"},
      "text_preview":         {"type": "text"},
      "prediction":           {"type": "keyword"},
      "confidence":           {"type": "keyword"},
      "reason":               {"type": "keyword"},
      "phishing_probability": {"type": "double"},
      "safe_probability":     {"type": "double"},
      "scorer":               {"type": "keyword"},
      "analyzed_at":          {"type": "date"}
    }
  }
}`

// ElasticStore keeps analysis events in one Elasticsearch index, keyed by event id.
type ElasticStore struct {
	es    *elasticsearch.Client
	index string
}

var _ Store = (*ElasticStore)(nil)

// NewElasticStore creates a client for addresses.
func NewElasticStore(addresses []string, username, password, index string) (*ElasticStore, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticStore{es: es, index: index}, nil
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (s *ElasticStore) EnsureIndex(ctx context.Context) error {
	res, err := s.es.Indices.Exists([]string{s.index}, s.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	drain(res)
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = s.es.Indices.Create(s.index,
		s.es.Indices.Create.WithContext(ctx),
		s.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer drain(res)
	if res.IsError() && !strings.Contains(readBody(res), "resource_already_exists_exception") {
		return fmt.Errorf("create index %s: %s", s.index, res.Status())
	}
	return nil
}

// Index stores evt under its id. Re-indexing the same event overwrites it.
func (s *ElasticStore) Index(ctx context.Context, evt events.AnalysisEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal analysis %s: %w", evt.ID, err)
	}

	res, err := s.es.Index(s.index, bytes.NewReader(body),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(evt.ID),
	)
	if err != nil {
		return fmt.Errorf("index analysis %s: %w", evt.ID, err)
	}
	defer drain(res)
	if res.IsError() {
		return fmt.Errorf("index analysis %s: %s", evt.ID, res.Status())
	}
	return nil
}

// Get returns the event stored under id or ErrNotFound.
func (s *ElasticStore) Get(ctx context.Context, id string) (events.AnalysisEvent, error) {
	res, err := s.es.Get(s.index, id, s.es.Get.WithContext(ctx))
	if err != nil {
		return events.AnalysisEvent{}, fmt.Errorf("get analysis %s: %w", id, err)
	}
	defer drain(res)
	if res.StatusCode == http.StatusNotFound {
		return events.AnalysisEvent{}, ErrNotFound
	}
	if res.IsError() {
		return events.AnalysisEvent{}, fmt.Errorf("get analysis %s: %s", id, res.Status())
	}

	var doc struct {
		Found  bool                 `json:"found"`
		Source events.AnalysisEvent `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return events.AnalysisEvent{}, fmt.Errorf("decode analysis %s: %w", id, err)
	}
	if !doc.Found {
		return events.AnalysisEvent{}, ErrNotFound
	}
	return doc.Source, nil
}

// Delete removes the event stored under id or returns ErrNotFound.
func (s *ElasticStore) Delete(ctx context.Context, id string) error {
	res, err := s.es.Delete(s.index, id, s.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete analysis %s: %w", id, err)
	}
	defer drain(res)
	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.IsError() {
		return fmt.Errorf("delete analysis %s: %s", id, res.Status())
	}
	return nil
}

// Search filters stored events, newest first.
func (s *ElasticStore) Search(ctx context.Context, q models.AnalysisSearchQuery) (models.AnalysisSearchResponse[events.AnalysisEvent], error) {
	q.Normalize()
	out := models.AnalysisSearchResponse[events.AnalysisEvent]{
		Results: []events.AnalysisEvent{},
		Page:    q.Page,
		PerPage: q.PerPage,
	}

	body, err := json.Marshal(searchBody(q))
	if err != nil {
		return out, fmt.Errorf("marshal search: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(bytes.NewReader(body)),
		s.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return out, fmt.Errorf("search analyses: %w", err)
	}
	defer drain(res)
	if res.IsError() {
		return out, fmt.Errorf("search analyses: %s", res.Status())
	}

	var parsed struct {
		Took int `json:"took"`
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source events.AnalysisEvent `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return out, fmt.Errorf("decode search: %w", err)
	}

	out.Took = parsed.Took
	out.Total = parsed.Hits.Total.Value
	for _, hit := range parsed.Hits.Hits {
		out.Results = append(out.Results, hit.Source)
	}
	return out, nil
}

func searchBody(q models.AnalysisSearchQuery) map[string]any {
	filters := []map[string]any{}
	if q.Prediction != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"prediction": q.Prediction}})
	}
	if q.Confidence != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"confidence": q.Confidence}})
	}
	if q.BatchID != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"batch_id": q.BatchID}})
	}
	if q.MinProbability > 0 {
		filters = append(filters, map[string]any{"range": map[string]any{
			"phishing_probability": map[string]any{"gte": q.MinProbability},
		}})
	}

	return map[string]any{
		"from":  (q.Page - 1) * q.PerPage,
		"size":  q.PerPage,
		"query": map[string]any{"bool": map[string]any{"filter": filters}},
		"sort":  []map[string]any{{"analyzed_at": map[string]any{"order": "desc"}}},
	}
}

func readBody(res *esapi.Response) string {
	raw, _ := io.ReadAll(res.Body)
	return string(raw)
}

func drain(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
