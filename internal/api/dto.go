package api

// ReconcileRequest carries both sides as inline delimited text.
type ReconcileRequest struct {
	Source string `json:"source"`
	System string `json:"system"`
}

// APIError represents a structured error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// Common error codes
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeNoData        = "no_data"
	ErrCodeInternalError = "internal_error"
)
