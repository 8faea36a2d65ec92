package models

// AnalysisRequest represents a request to classify a single text
type AnalysisRequest struct {
	Text string `json:"text" example:"URGENT: Verify your bank account immediately"`
}

// AnalysisResponse represents the classification of a single text
type AnalysisResponse struct {
	Prediction          string  `json:"prediction" example:"phishing"`
	Confidence          string  `json:"confidence" example:"high"`
	Reason              string  `json:"reason" example:"keyword-based adjustment"`
	PhishingProbability float64 `json:"phishing_probability" example:"0.82"`
	SafeProbability     float64 `json:"safe_probability" example:"0.18"`
}

// BatchAnalysisRequest represents a request to classify up to 100 texts
type BatchAnalysisRequest struct {
	Texts []string `json:"texts"`
}

// BatchResultItem represents one entry of a batch response, in input order
type BatchResultItem struct {
	TextPreview         string  `json:"text_preview"`
	Prediction          string  `json:"prediction"`
	Confidence          string  `json:"confidence"`
	Reason              string  `json:"reason"`
	PhishingProbability float64 `json:"phishing_probability"`
}

// ErrorResponse represents a validation failure
type ErrorResponse struct {
	Error string `json:"error" example:"Text is required"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
