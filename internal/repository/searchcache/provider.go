// Package searchcache caches search provider results in the key-value store.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/db"
	"github.com/kailas-cloud/newslens/internal/domain"
)

// store is the consumer interface for the search cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedProvider serves repeated queries from the cache. Only non-empty results
// are stored, so a provider that was down or empty is asked again next time.
type CachedProvider struct {
	inner      domain.SearchProvider
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New wraps inner. cacheTotal has labels "provider" and "result" and can be nil.
func New(
	inner domain.SearchProvider,
	s store,
	keyPrefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedProvider {
	return &CachedProvider{
		inner:      inner,
		store:      s,
		prefix:     keyPrefix + "search_cache:" + inner.Name() + ":",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Name returns the wrapped provider's name.
func (c *CachedProvider) Name() string { return c.inner.Name() }

// Search returns cached articles for query or asks the wrapped provider.
func (c *CachedProvider) Search(ctx context.Context, query string) ([]domain.AlternativeArticle, error) {
	key := c.cacheKey(query)

	if articles, ok := c.get(ctx, key); ok {
		c.inc("hit")
		return articles, nil
	}
	c.inc("miss")

	articles, err := c.inner.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", c.inner.Name(), err)
	}
	if len(articles) > 0 {
		c.put(ctx, key, articles)
	}
	return articles, nil
}

func (c *CachedProvider) cacheKey(query string) string {
	h := sha256.Sum256([]byte(query))
	return c.prefix + hex.EncodeToString(h[:])
}

func (c *CachedProvider) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(c.inner.Name(), result).Inc()
	}
}

func (c *CachedProvider) get(ctx context.Context, key string) ([]domain.AlternativeArticle, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search results", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var articles []domain.AlternativeArticle
	if err := json.Unmarshal(data, &articles); err != nil || len(articles) == 0 {
		c.logger.Warn("Dropping unreadable cached search results", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return articles, true
}

func (c *CachedProvider) put(ctx context.Context, key string, articles []domain.AlternativeArticle) {
	data, err := json.Marshal(articles)
	if err != nil {
		c.logger.Warn("Failed to encode search results", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search results", zap.String("key", key), zap.Error(err))
	}
}
