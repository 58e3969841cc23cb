package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Handler registers the API routes on r and returns it.
func Handler(s *Server, r chi.Router) http.Handler {
	r.Post("/v1/analyze", s.Analyze)
	r.Post("/v1/analyze/text", s.AnalyzeText)
	r.Post("/v1/query", s.BuildQuery)
	r.Get("/v1/alternatives", s.getAlternatives)

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/version", s.Version)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
	return r
}

// getAlternatives binds the query string and calls GetAlternatives.
func (s *Server) getAlternatives(w http.ResponseWriter, r *http.Request) {
	var params AlternativesParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "q", query, &params.Q); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter q: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter limit: "+err.Error())
		return
	}

	s.GetAlternatives(w, r, params)
}
