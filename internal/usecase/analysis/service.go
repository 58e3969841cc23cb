// Package analysis runs the article pipeline: fetch, analyze, search, enrich.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/logger"
	"github.com/kailas-cloud/newslens/internal/metrics"
)

// Config tunes the pipeline.
type Config struct {
	EnrichConcurrency int
	DescriptionLength int
}

// Service orchestrates one analysis per call. It holds no per-document state.
type Service struct {
	fetcher  Fetcher
	scorer   SentimentScorer
	entities EntityExtractor
	topics   TopicClusterer
	finder   AlternativeFinder
	cfg      Config
	logger   *zap.Logger
}

// New creates an analysis Service.
func New(
	fetcher Fetcher, scorer SentimentScorer, entities EntityExtractor,
	topics TopicClusterer, finder AlternativeFinder, cfg Config, log *zap.Logger,
) *Service {
	if cfg.EnrichConcurrency <= 0 {
		cfg.EnrichConcurrency = 4
	}
	if cfg.DescriptionLength <= 0 {
		cfg.DescriptionLength = domain.DescriptionLength
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		fetcher: fetcher, scorer: scorer, entities: entities,
		topics: topics, finder: finder, cfg: cfg, logger: log,
	}
}

// Analyze fetches the article at url and runs the full pipeline.
// Only a failure to fetch the article itself is returned.
func (s *Service) Analyze(ctx context.Context, url string) (*domain.Analysis, error) {
	start := time.Now()

	doc, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	a := s.run(ctx, doc)
	a.Duration = time.Since(start)
	return a, nil
}

// AnalyzeText runs the pipeline over text already in hand.
func (s *Service) AnalyzeText(ctx context.Context, title, body string) (*domain.Analysis, error) {
	if strings.TrimSpace(body) == "" {
		return nil, domain.ErrEmptyText
	}
	start := time.Now()
	a := s.run(ctx, domain.Document{Title: title, Body: body})
	a.Duration = time.Since(start)
	return a, nil
}

func (s *Service) fetch(ctx context.Context, url string) (domain.Document, error) {
	defer stage("fetch")()

	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		metrics.ArticleFetchTotal.WithLabelValues("original", "error").Inc()
		logger.Or(ctx, s.logger).Warn("Article fetch failed", zap.String("url", url), zap.Error(err))
		return domain.Document{}, fmt.Errorf("fetch article: %w", err)
	}
	metrics.ArticleFetchTotal.WithLabelValues("original", "ok").Inc()
	return doc, nil
}

func (s *Service) run(ctx context.Context, doc domain.Document) *domain.Analysis {
	log := logger.Or(ctx, s.logger)
	a := &domain.Analysis{
		ID:    uuid.NewString(),
		URL:   doc.URL,
		Title: doc.Title,
	}

	done := stage("sentiment")
	a.Sentiment = s.scorer.Score(doc.Body)
	done()

	done = stage("entities")
	a.Entities = s.entities.Extract(ctx, doc.Body)
	done()

	done = stage("topics")
	topics := s.topics.Cluster(ctx, doc.Body)
	done()
	metrics.TopicOutcomesTotal.WithLabelValues(string(topics.Outcome)).Inc()
	if topics.Outcome != domain.TopicOK {
		log.Info("Topic analysis produced no topics",
			zap.String("outcome", string(topics.Outcome)),
			zap.String("reason", topics.Reason),
		)
	}
	a.TopicOutcome = topics.Outcome
	a.Topics = topics.Topics()

	done = stage("search")
	found := s.finder.FindFor(ctx, a.Entities, a.Topics)
	done()
	a.Query = found.Query

	done = stage("enrich")
	a.Alternatives = s.enrich(ctx, found.Articles)
	done()
	metrics.AlternativesReturned.Observe(float64(len(a.Alternatives)))

	if a.Entities == nil {
		a.Entities = []string{}
	}
	if a.Topics == nil {
		a.Topics = []domain.Topic{}
	}

	log.Info("Analysis completed",
		zap.String("analysis_id", a.ID),
		zap.Int("entities", len(a.Entities)),
		zap.Int("topics", len(a.Topics)),
		zap.String("query", a.Query),
		zap.Int("alternatives", len(a.Alternatives)),
	)
	return a
}

// enrich fetches every candidate in parallel and scores its body.
// Candidates that cannot be fetched are dropped; order is preserved.
func (s *Service) enrich(ctx context.Context, candidates []domain.AlternativeArticle) []domain.AlternativeArticle {
	log := logger.Or(ctx, s.logger)
	enriched := make([]*domain.AlternativeArticle, len(candidates))

	var g errgroup.Group
	g.SetLimit(s.cfg.EnrichConcurrency)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			doc, err := s.fetcher.Fetch(ctx, c.URL)
			if err != nil {
				metrics.ArticleFetchTotal.WithLabelValues("alternative", "error").Inc()
				log.Info("Dropping alternative", zap.String("title", c.Title), zap.String("url", c.URL), zap.Error(err))
				return nil
			}
			metrics.ArticleFetchTotal.WithLabelValues("alternative", "ok").Inc()
			c.Sentiment = s.scorer.Score(doc.Body)
			c.Description = domain.Describe(doc.Body, s.cfg.DescriptionLength)
			enriched[i] = &c
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.AlternativeArticle, 0, len(candidates))
	for _, a := range enriched {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

// stage starts a stage timer; call the result when the stage ends.
func stage(name string) func() {
	start := time.Now()
	return func() {
		metrics.AnalysisStageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}
