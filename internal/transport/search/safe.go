package search

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/logger"
)

// Safe turns every provider failure into an empty result.
type Safe struct {
	inner  domain.SearchProvider
	logger *zap.Logger
}

// NewSafe wraps inner.
func NewSafe(inner domain.SearchProvider, log *zap.Logger) *Safe {
	if log == nil {
		log = zap.NewNop()
	}
	return &Safe{inner: inner, logger: log}
}

// Name returns the wrapped provider's name.
func (s *Safe) Name() string { return s.inner.Name() }

// Search never fails: errors are logged and yield nil.
func (s *Safe) Search(ctx context.Context, query string) []domain.AlternativeArticle {
	articles, err := s.inner.Search(ctx, query)
	if err == nil {
		return articles
	}

	log := logger.Or(ctx, s.logger).With(zap.String("provider", s.inner.Name()), zap.String("query", query))
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		log.Info("Search provider skipped, quota exhausted")
	case errors.Is(err, context.Canceled):
		log.Debug("Search canceled")
	default:
		log.Warn("Search provider failed", zap.Error(err))
	}
	return nil
}
