package chi

import (
	"github.com/kailas-cloud/newslens/internal/domain"
)

// ErrorCode is the machine-readable error class in an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeInvalidURL       ErrorCode = "invalid_url"
	ErrorCodeFetchFailed      ErrorCode = "fetch_failed"
	ErrorCodeEmptyText        ErrorCode = "empty_text"
	ErrorCodeRateLimited      ErrorCode = "rate_limited"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// AnalyzeTextRequest is the body of POST /v1/analyze/text.
type AnalyzeTextRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// AnalysisResponse is one pipeline result.
type AnalysisResponse struct {
	*domain.Analysis
	DurationMS int64 `json:"duration_ms"`
}

// QueryTopic is a topic as accepted by POST /v1/query; only keywords matter.
type QueryTopic struct {
	Keywords []string `json:"keywords"`
}

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	Entities []string     `json:"entities"`
	Topics   []QueryTopic `json:"topics"`
}

// QueryResponse carries the built query, null when no term survived.
type QueryResponse struct {
	Query *string `json:"query"`
}

// AlternativesParams are the query parameters of GET /v1/alternatives.
type AlternativesParams struct {
	Q     string `form:"q"`
	Limit *int   `form:"limit,omitempty"`
}

// AlternativesResponse lists provider chain results for a query.
type AlternativesResponse struct {
	Query     string                      `json:"query"`
	Broadened bool                        `json:"broadened"`
	Items     []domain.AlternativeArticle `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string               `json:"status"`
	Checks map[string]string    `json:"checks"`
	Models []domain.ModelStatus `json:"models,omitempty"`
}
