package models

// DeleteResponse represents the response from a delete request
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// UpstreamError represents a gateway failure to reach a backing service
type UpstreamError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}
