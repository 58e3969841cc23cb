// Package alternative finds other coverage of the story an article tells.
package alternative

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/logger"
	"github.com/kailas-cloud/newslens/internal/usecase/query"
)

// MaxResults caps the alternatives returned.
const MaxResults = 5

// Service walks an ordered provider chain.
type Service struct {
	entities EntityExtractor
	chain    []Searcher
	logger   *zap.Logger
}

// New creates a Service. Providers are asked in the given order.
func New(entities EntityExtractor, chain []Searcher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{entities: entities, chain: chain, logger: log}
}

// Result is the outcome of a search with the query that produced it.
type Result struct {
	Query     string
	Broadened bool
	Articles  []domain.AlternativeArticle
}

// Find builds a query from the text's entities and the topics, searches the chain
// and retries once with only the first term when nothing is found.
func (s *Service) Find(ctx context.Context, topics []domain.Topic, rawText string) Result {
	return s.FindFor(ctx, s.entities.Extract(ctx, rawText), topics)
}

// FindFor is Find with the entities already extracted.
func (s *Service) FindFor(ctx context.Context, entities []string, topics []domain.Topic) Result {
	q, ok := query.Build(entities, topics)
	if !ok {
		logger.Or(ctx, s.logger).Info("No search query could be built",
			zap.Int("entities", len(entities)), zap.Int("topics", len(topics)))
		return Result{}
	}
	return s.Search(ctx, q)
}

// Search runs q against the chain, then its first term if q found nothing.
// The broadened retry only happens for multi-term queries: a single-term q is
// searched once, and an empty chain result is returned as is.
func (s *Service) Search(ctx context.Context, q string) Result {
	log := logger.Or(ctx, s.logger)
	res := Result{Query: q}

	articles := s.walk(ctx, q)
	if len(articles) == 0 && ctx.Err() == nil {
		if broad := query.FirstTerm(q); broad != "" && broad != q {
			log.Info("No results, broadening query", zap.String("query", q), zap.String("broadened", broad))
			res.Query, res.Broadened = broad, true
			articles = s.walk(ctx, broad)
		}
	}

	res.Articles = Dedupe(articles, MaxResults)
	log.Debug("Alternatives found",
		zap.String("query", res.Query),
		zap.Bool("broadened", res.Broadened),
		zap.Int("articles", len(res.Articles)),
	)
	return res
}

// walk returns the first non-empty result of the chain.
func (s *Service) walk(ctx context.Context, q string) []domain.AlternativeArticle {
	for _, p := range s.chain {
		if ctx.Err() != nil {
			return nil
		}
		if articles := p.Search(ctx, q); len(articles) > 0 {
			return articles
		}
	}
	return nil
}

// Dedupe keeps the first article of every exact title, drops untitled ones, and caps at limit.
func Dedupe(articles []domain.AlternativeArticle, limit int) []domain.AlternativeArticle {
	seen := make(map[string]struct{}, len(articles))
	out := make([]domain.AlternativeArticle, 0, min(len(articles), limit))
	for _, a := range articles {
		if len(out) == limit {
			break
		}
		if a.Title == "" {
			continue
		}
		if _, dup := seen[a.Title]; dup {
			continue
		}
		seen[a.Title] = struct{}{}
		out = append(out, a)
	}
	return out
}
