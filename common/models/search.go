package models

// MaxResultWindow is the deepest result a search may page to. It matches the
// Elasticsearch index.max_result_window default.
const MaxResultWindow = 10000

// AnalysisSearchQuery represents a search over stored analysis events
type AnalysisSearchQuery struct {
	Prediction     string  `form:"prediction" json:"prediction"`
	Confidence     string  `form:"confidence" json:"confidence"`
	MinProbability float64 `form:"min_probability" json:"min_probability"`
	BatchID        string  `form:"batch_id" json:"batch_id"`
	Page           int     `form:"page" json:"page"`
	PerPage        int     `form:"per_page" json:"per_page"`
}

// AnalysisSearchResponse represents one page of stored analysis events.
// Results holds the decoded events of the page.
type AnalysisSearchResponse[T any] struct {
	Results []T `json:"results"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Took    int `json:"took"` // Time in milliseconds
}

// NewAnalysisSearchQuery creates a search query with default paging
func NewAnalysisSearchQuery() AnalysisSearchQuery {
	return AnalysisSearchQuery{
		Page:    1,
		PerPage: 10,
	}
}

// Normalize clamps paging to sane bounds. Page is capped so the last
// requested result stays within MaxResultWindow.
func (q *AnalysisSearchQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}
	if q.PerPage > 100 {
		q.PerPage = 100
	}
	if maxPage := MaxResultWindow / q.PerPage; q.Page > maxPage {
		q.Page = maxPage
	}
}
