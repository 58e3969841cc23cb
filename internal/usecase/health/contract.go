package health

import (
	"context"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// DBPinger checks Redis availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// ModelReporter lists the load state of the NLP engines.
type ModelReporter interface {
	Statuses() []domain.ModelStatus
}
