package domain

import "context"

// SearchProvider finds news articles matching a query.
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, query string) ([]AlternativeArticle, error)
}
