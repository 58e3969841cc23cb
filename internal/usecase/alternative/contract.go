package alternative

import (
	"context"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// Searcher is a provider that never fails: errors surface as empty results.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) []domain.AlternativeArticle
}

// EntityExtractor returns the salient entities of a text.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) []string
}
