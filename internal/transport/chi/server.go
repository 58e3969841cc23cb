package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/logger"
	"github.com/kailas-cloud/newslens/internal/usecase/alternative"
	healthuc "github.com/kailas-cloud/newslens/internal/usecase/health"
	"github.com/kailas-cloud/newslens/internal/usecase/query"
	"github.com/kailas-cloud/newslens/internal/version"
)

// maxBodyBytes bounds request bodies; article text is the largest payload.
const maxBodyBytes = 2 << 20

// FetchFailedMessage is shown when the article itself cannot be retrieved.
const FetchFailedMessage = "Could not fetch or parse the article from the given URL. " +
	"The website might be blocking automated requests or require JavaScript to load its content."

// Analyzer runs the article pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*domain.Analysis, error)
	AnalyzeText(ctx context.Context, title, body string) (*domain.Analysis, error)
}

// AlternativeSearcher queries the provider chain.
type AlternativeSearcher interface {
	Search(ctx context.Context, q string) alternative.Result
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers of the newslens API.
type Server struct {
	analyzer      Analyzer
	alternatives  AlternativeSearcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(analyzer Analyzer, alternatives AlternativeSearcher, health HealthChecker, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		analyzer:     analyzer,
		alternatives: alternatives,
		health:       health,
		logger:       log,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidURL, http.StatusBadRequest, ErrorCodeInvalidURL, "invalid article url"),
		sentinelHandler(domain.ErrFetchFailed, http.StatusUnprocessableEntity, ErrorCodeFetchFailed, FetchFailedMessage),
		sentinelHandler(domain.ErrEmptyText, http.StatusBadRequest, ErrorCodeEmptyText, "text is empty"),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited, "rate limited"),
	}
	return s
}

// Analyze handles POST /v1/analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "url is required")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	a, err := s.analyzer.Analyze(ctx, req.URL)
	if err != nil {
		s.handleDomainError(ctx, w, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, AnalysisResponse{Analysis: a, DurationMS: a.Duration.Milliseconds()})
}

// AnalyzeText handles POST /v1/analyze/text.
func (s *Server) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeTextRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	a, err := s.analyzer.AnalyzeText(ctx, req.Title, req.Text)
	if err != nil {
		s.handleDomainError(ctx, w, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, AnalysisResponse{Analysis: a, DurationMS: a.Duration.Milliseconds()})
}

// BuildQuery handles POST /v1/query.
func (s *Server) BuildQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !decode(w, r, &req) {
		return
	}

	var topics []domain.Topic
	for i, t := range req.Topics {
		topics = append(topics, domain.Topic{ID: i, Keywords: t.Keywords})
	}

	var resp QueryResponse
	if q, ok := query.Build(req.Entities, topics); ok {
		resp.Query = &q
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAlternatives handles GET /v1/alternatives.
func (s *Server) GetAlternatives(w http.ResponseWriter, r *http.Request, params AlternativesParams) {
	q := strings.TrimSpace(params.Q)
	if q == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "q must not be empty")
		return
	}
	limit := alternative.MaxResults
	if params.Limit != nil {
		if *params.Limit < 1 || *params.Limit > alternative.MaxResults {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				"limit must be between 1 and "+strconv.Itoa(alternative.MaxResults))
			return
		}
		limit = *params.Limit
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res := s.alternatives.Search(ctx, q)

	items := res.Articles
	if len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []domain.AlternativeArticle{}
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, AlternativesResponse{Query: res.Query, Broadened: res.Broadened, Items: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
		Models: report.Models,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// Version handles GET /version.
func (s *Server) Version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.Usage) {
	if n := usage.ProviderCalls(); n > 0 {
		w.Header().Set("X-Provider-Calls", strconv.Itoa(n))
	}
	if n := usage.EmbeddingTokens(); n > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(n))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.Or(ctx, s.logger)
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
