package searchcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/db"
	"github.com/kailas-cloud/newslens/internal/domain"
)

type mockProvider struct {
	articles []domain.AlternativeArticle
	err      error
	calls    int
}

func (m *mockProvider) Name() string { return "gnews" }

func (m *mockProvider) Search(context.Context, string) ([]domain.AlternativeArticle, error) {
	m.calls++
	return m.articles, m.err
}

// memStore is an in-memory store honoring db.ErrKeyNotFound.
type memStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

var sample = []domain.AlternativeArticle{
	{Title: "Storm batters coast", Source: "The Guardian", URL: "https://example.com/a", PublishedAt: "2025-03-04", Provider: "gnews"},
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_search_cache_total"}, []string{"provider", "result"})
}

func TestSearch_MissThenHit(t *testing.T) {
	inner := &mockProvider{articles: sample}
	store := newMemStore()
	counter := newCounter()
	c := New(inner, store, "newslens:", 30*time.Minute, counter, zap.NewNop())

	for i := 0; i < 2; i++ {
		got, err := c.Search(context.Background(), "storm")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0] != sample[0] {
			t.Fatalf("unexpected articles %+v", got)
		}
	}

	if inner.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", inner.calls)
	}
	for key, ttl := range store.ttls {
		if !strings.HasPrefix(key, "newslens:search_cache:gnews:") {
			t.Errorf("unexpected key %q", key)
		}
		if ttl != 30*time.Minute {
			t.Errorf("unexpected ttl %v", ttl)
		}
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("gnews", "hit")); v != 1 {
		t.Errorf("expected 1 hit, got %v", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("gnews", "miss")); v != 1 {
		t.Errorf("expected 1 miss, got %v", v)
	}
}

func TestSearch_EmptyNotCached(t *testing.T) {
	inner := &mockProvider{}
	store := newMemStore()
	c := New(inner, store, "newslens:", time.Minute, nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := c.Search(context.Background(), "nothing"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("expected every empty result to reach the provider, got %d calls", inner.calls)
	}
	if len(store.data) != 0 {
		t.Errorf("expected nothing cached, got %d keys", len(store.data))
	}
}

func TestSearch_ProviderError(t *testing.T) {
	inner := &mockProvider{err: domain.NewProviderError("gnews", 500, errors.New("down"))}
	c := New(inner, newMemStore(), "newslens:", time.Minute, nil, zap.NewNop())

	_, err := c.Search(context.Background(), "storm")
	if !errors.Is(err, domain.ErrProviderFailed) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestSearch_StoreDown(t *testing.T) {
	inner := &mockProvider{articles: sample}
	store := newMemStore()
	store.getErr = errors.New("connection refused")
	c := New(inner, store, "newslens:", time.Minute, nil, zap.NewNop())

	got, err := c.Search(context.Background(), "storm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected provider results, got %d", len(got))
	}
}

func TestSearch_CorruptEntry(t *testing.T) {
	inner := &mockProvider{articles: sample}
	store := newMemStore()
	c := New(inner, store, "newslens:", time.Minute, nil, zap.NewNop())
	store.data[c.cacheKey("storm")] = []byte("{not json")

	got, err := c.Search(context.Background(), "storm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || inner.calls != 1 {
		t.Errorf("expected fallback to provider, got %d articles and %d calls", len(got), inner.calls)
	}
}
