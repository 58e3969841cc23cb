package topic

import (
	"context"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// Segmenter splits text into sentences.
type Segmenter interface {
	Split(ctx context.Context, text string) ([]string, error)
}

// ModelStatuses reports which engines loaded at startup.
type ModelStatuses interface {
	Status(engine domain.Engine) domain.ModelStatus
}
