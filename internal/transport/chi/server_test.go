package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/usecase/alternative"
	healthuc "github.com/kailas-cloud/newslens/internal/usecase/health"
)

// --- Mocks ---

type mockAnalyzer struct {
	analysis *domain.Analysis
	err      error
	gotURL   string
	gotTitle string
	gotBody  string
}

func (m *mockAnalyzer) Analyze(ctx context.Context, url string) (*domain.Analysis, error) {
	m.gotURL = url
	domain.UsageFromContext(ctx).AddProviderCall()
	return m.analysis, m.err
}

func (m *mockAnalyzer) AnalyzeText(_ context.Context, title, body string) (*domain.Analysis, error) {
	m.gotTitle, m.gotBody = title, body
	if strings.TrimSpace(body) == "" {
		return nil, domain.ErrEmptyText
	}
	return m.analysis, m.err
}

type mockAlternatives struct {
	result alternative.Result
	gotQ   string
}

func (m *mockAlternatives) Search(_ context.Context, q string) alternative.Result {
	m.gotQ = q
	return m.result
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func newTestRouter(a *mockAnalyzer, alt *mockAlternatives, h *mockHealth) http.Handler {
	if h == nil {
		h = &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}}
	}
	return Handler(NewServer(a, alt, h, nil), chi.NewRouter())
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

var sampleAnalysis = &domain.Analysis{
	ID:           "a-1",
	URL:          "https://news.example.com/a",
	Title:        "Storm hits coast",
	Sentiment:    &domain.SentimentScore{Compound: -0.4},
	Entities:     []string{"Florida"},
	TopicOutcome: domain.TopicOK,
	Topics:       []domain.Topic{{ID: 0, Keywords: []string{"storm"}, Size: 4}},
	Query:        "Florida AND storm",
	Alternatives: []domain.AlternativeArticle{{Title: "Other", Source: "Wire", URL: "https://wire.example.com"}},
	Duration:     1500 * time.Millisecond,
}

// --- Tests ---

func TestAnalyze_OK(t *testing.T) {
	a := &mockAnalyzer{analysis: sampleAnalysis}
	rr := do(t, newTestRouter(a, nil, nil), http.MethodPost, "/v1/analyze", `{"url":"https://news.example.com/a"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if a.gotURL != "https://news.example.com/a" {
		t.Errorf("analyzer got url %q", a.gotURL)
	}
	if rr.Header().Get("X-Provider-Calls") != "1" {
		t.Errorf("expected X-Provider-Calls=1, got %q", rr.Header().Get("X-Provider-Calls"))
	}

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != "a-1" || body["query"] != "Florida AND storm" || body["topic_outcome"] != "ok" {
		t.Errorf("unexpected body %v", body)
	}
	if body["duration_ms"] != float64(1500) {
		t.Errorf("expected duration_ms=1500, got %v", body["duration_ms"])
	}
	if alts, ok := body["alternatives"].([]any); !ok || len(alts) != 1 {
		t.Errorf("unexpected alternatives %v", body["alternatives"])
	}
}

func TestAnalyze_FetchFailed(t *testing.T) {
	a := &mockAnalyzer{err: fmt.Errorf("fetch article: load page: status 403: %w", domain.ErrFetchFailed)}
	rr := do(t, newTestRouter(a, nil, nil), http.MethodPost, "/v1/analyze", `{"url":"https://news.example.com/a"}`)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	resp := decodeError(t, rr)
	if resp.Code != ErrorCodeFetchFailed || resp.Message != FetchFailedMessage {
		t.Errorf("unexpected error %+v", resp)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   ErrorCode
	}{
		{"malformed body", `{"url":`, nil, http.StatusBadRequest, ErrorCodeBadRequest},
		{"missing url", `{}`, nil, http.StatusBadRequest, ErrorCodeValidationFailed},
		{"invalid url", `{"url":"ftp://x"}`, domain.ErrInvalidURL, http.StatusBadRequest, ErrorCodeInvalidURL},
		{"unexpected", `{"url":"https://x.example"}`, fmt.Errorf("boom"), http.StatusInternalServerError, ErrorCodeInternalError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := &mockAnalyzer{err: tc.err}
			rr := do(t, newTestRouter(a, nil, nil), http.MethodPost, "/v1/analyze", tc.body)
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}
			if resp := decodeError(t, rr); resp.Code != tc.code {
				t.Errorf("expected code %q, got %q", tc.code, resp.Code)
			}
		})
	}
}

func TestAnalyzeText(t *testing.T) {
	a := &mockAnalyzer{analysis: sampleAnalysis}
	h := newTestRouter(a, nil, nil)

	rr := do(t, h, http.MethodPost, "/v1/analyze/text", `{"title":"T","text":"Body text."}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if a.gotTitle != "T" || a.gotBody != "Body text." {
		t.Errorf("analyzer got %q / %q", a.gotTitle, a.gotBody)
	}

	rr = do(t, h, http.MethodPost, "/v1/analyze/text", `{"text":"  "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != ErrorCodeEmptyText {
		t.Errorf("expected empty_text, got %q", resp.Code)
	}
}

func TestBuildQuery(t *testing.T) {
	h := newTestRouter(nil, nil, nil)
	tests := []struct {
		name string
		body string
		want *string
	}{
		{
			name: "entities and keywords",
			body: `{"entities":["Tesla","Elon Musk"],"topics":[{"keywords":["electric vehicles","battery","charging"]}]}`,
			want: ptr(`Tesla AND "Elon Musk" AND "electric vehicles"`),
		},
		{
			name: "nothing survives",
			body: `{"entities":[],"topics":[]}`,
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/v1/query", tc.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rr.Code)
			}
			var resp QueryResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			switch {
			case tc.want == nil && resp.Query != nil:
				t.Errorf("expected null query, got %q", *resp.Query)
			case tc.want != nil && (resp.Query == nil || *resp.Query != *tc.want):
				t.Errorf("expected %q, got %v", *tc.want, resp.Query)
			}
		})
	}
}

func TestGetAlternatives(t *testing.T) {
	alt := &mockAlternatives{result: alternative.Result{
		Query:     "Tesla",
		Broadened: true,
		Articles: []domain.AlternativeArticle{
			{Title: "A"}, {Title: "B"}, {Title: "C"},
		},
	}}
	h := newTestRouter(nil, alt, nil)

	rr := do(t, h, http.MethodGet, "/v1/alternatives?q=Tesla+AND+battery&limit=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if alt.gotQ != "Tesla AND battery" {
		t.Errorf("searcher got %q", alt.gotQ)
	}
	var resp AlternativesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Query != "Tesla" || !resp.Broadened || len(resp.Items) != 2 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestGetAlternatives_InvalidParams(t *testing.T) {
	h := newTestRouter(nil, &mockAlternatives{}, nil)
	for _, target := range []string{
		"/v1/alternatives",
		"/v1/alternatives?q=",
		"/v1/alternatives?q=x&limit=abc",
		"/v1/alternatives?q=x&limit=6",
		"/v1/alternatives?q=x&limit=0",
	} {
		t.Run(target, func(t *testing.T) {
			rr := do(t, h, http.MethodGet, target, "")
			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestGetAlternatives_EmptyIsArray(t *testing.T) {
	h := newTestRouter(nil, &mockAlternatives{}, nil)
	rr := do(t, h, http.MethodGet, "/v1/alternatives?q=nothing", "")
	if !strings.Contains(rr.Body.String(), `"items":[]`) {
		t.Errorf("expected empty items array, got %s", rr.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		status healthuc.Status
		code   int
	}{
		{healthuc.Healthy, http.StatusOK},
		{healthuc.Degraded, http.StatusServiceUnavailable},
		{healthuc.Unhealthy, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			h := newTestRouter(nil, nil, &mockHealth{report: healthuc.Report{
				Status: tc.status,
				Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
				Models: []domain.ModelStatus{{Engine: domain.EngineSentiment, State: domain.StateReady}},
			}})
			rr := do(t, h, http.MethodGet, "/health", "")
			if rr.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rr.Code)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != string(tc.status) || resp.Checks["database"] != "ok" || len(resp.Models) != 1 {
				t.Errorf("unexpected response %+v", resp)
			}
		})
	}
}

func TestVersionAndNotFound(t *testing.T) {
	h := newTestRouter(nil, nil, nil)

	rr := do(t, h, http.MethodGet, "/version", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"version"`) {
		t.Errorf("unexpected /version response %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/v1/unknown", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}

	rr = do(t, h, http.MethodGet, "/v1/analyze", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
}

func ptr(s string) *string { return &s }
