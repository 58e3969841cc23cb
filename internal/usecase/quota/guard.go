package quota

import (
	"context"

	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/metrics"
)

// Guard skips a provider whose daily quota is spent and counts every request it lets through.
type Guard struct {
	inner   domain.SearchProvider
	tracker *Tracker
}

// NewGuard wraps inner with tracker.
func NewGuard(inner domain.SearchProvider, tracker *Tracker) *Guard {
	return &Guard{inner: inner, tracker: tracker}
}

// Name returns the wrapped provider's name.
func (g *Guard) Name() string { return g.inner.Name() }

// Search fails with domain.ErrQuotaExceeded without calling the provider once the quota is spent.
func (g *Guard) Search(ctx context.Context, query string) ([]domain.AlternativeArticle, error) {
	if err := g.tracker.Check(); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(g.inner.Name(), metrics.ProviderStatusSkipped).Inc()
		return nil, err
	}

	articles, err := g.inner.Search(ctx, query)
	g.tracker.Record(1)
	if remaining := g.tracker.Remaining(); remaining != Unlimited {
		metrics.ProviderQuotaRemaining.WithLabelValues(g.inner.Name()).Set(float64(remaining))
	}
	return articles, err
}
