package health

import (
	"context"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the sentiment engine is down, so no analysis can run.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	Models []domain.ModelStatus
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
	models    ModelReporter
}

// New creates a Service. Every dependency can be nil; nil ones are not reported.
func New(db DBPinger, embedding EmbeddingChecker, models ModelReporter) *Service {
	return &Service{db: db, embedding: embedding, models: models}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.db != nil {
		checks["database"] = result(s.db.Ping(ctx))
	}
	if s.embedding != nil {
		checks["embedding"] = result(s.embedding.HealthCheck(ctx))
	}
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	var models []domain.ModelStatus
	if s.models != nil {
		models = s.models.Statuses()
	}
	for _, m := range models {
		if m.Ready() {
			continue
		}
		if m.Engine == domain.EngineSentiment {
			status = Unhealthy
			break
		}
		status = Degraded
	}

	return Report{Status: status, Checks: checks, Models: models}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
