package analysis

import (
	"context"

	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/usecase/alternative"
)

// Fetcher downloads and parses an article.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (domain.Document, error)
}

// SentimentScorer scores a text; nil for empty text.
type SentimentScorer interface {
	Score(text string) *domain.SentimentScore
}

// EntityExtractor returns the salient entities of a text.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) []string
}

// TopicClusterer infers latent topics. It reports failures as outcomes.
type TopicClusterer interface {
	Cluster(ctx context.Context, text string) domain.TopicResult
}

// AlternativeFinder searches for other coverage.
type AlternativeFinder interface {
	FindFor(ctx context.Context, entities []string, topics []domain.Topic) alternative.Result
}
