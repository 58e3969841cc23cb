package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/domain"
)

type mockStore struct {
	mu     sync.Mutex
	values map[string]int64
	getErr error
	incErr error
}

func newMockStore() *mockStore {
	return &mockStore{values: map[string]int64{}}
}

func (m *mockStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incErr != nil {
		return m.incErr
	}
	m.values[key] += val
	return nil
}

func (m *mockStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.values[key], nil
}

func TestTracker_RejectWhenExceeded(t *testing.T) {
	tr := NewTracker("gnews", 3, "newslens:", zap.NewNop())

	for i := 0; i < 3; i++ {
		if err := tr.Check(); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
		tr.Record(1)
	}

	if err := tr.Check(); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if tr.Remaining() != 0 {
		t.Errorf("expected 0 remaining, got %d", tr.Remaining())
	}
}

func TestTracker_UnlimitedWhenZero(t *testing.T) {
	tr := NewTracker("rss", 0, "newslens:", nil)
	tr.Record(1_000_000)

	if err := tr.Check(); err != nil {
		t.Fatalf("expected nil error for unlimited quota, got %v", err)
	}
	if tr.Remaining() != Unlimited {
		t.Errorf("expected Unlimited, got %d", tr.Remaining())
	}
}

func TestTracker_DayRollover(t *testing.T) {
	now := time.Date(2025, 3, 4, 23, 59, 0, 0, time.UTC)
	tr := NewTracker("gnews", 1, "newslens:", nil)
	tr.now = func() time.Time { return now }
	tr.day = truncateToDay(now)

	tr.Record(1)
	if err := tr.Check(); err == nil {
		t.Fatal("expected quota exceeded")
	}

	now = now.Add(2 * time.Minute)
	if err := tr.Check(); err != nil {
		t.Fatalf("expected reset after midnight, got %v", err)
	}
	if tr.Used() != 0 {
		t.Errorf("expected 0 used after rollover, got %d", tr.Used())
	}
}

func TestTracker_WithStore(t *testing.T) {
	store := newMockStore()
	now := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	key := "newslens:quota:gnews:daily:2025-03-04"
	store.values[key] = 99

	tr := NewTracker("gnews", 100, "newslens:", nil)
	tr.now = func() time.Time { return now }
	tr.WithStore(context.Background(), store)

	if tr.Used() != 99 {
		t.Fatalf("expected 99 loaded from store, got %d", tr.Used())
	}

	tr.Record(1)
	if store.values[key] != 100 {
		t.Errorf("expected store counter 100, got %d", store.values[key])
	}
	if err := tr.Check(); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestTracker_StoreErrorsAreNotFatal(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("connection refused")
	store.incErr = errors.New("connection refused")

	tr := NewTracker("gnews", 10, "newslens:", nil).WithStore(context.Background(), store)
	tr.Record(2)

	if tr.Used() != 2 {
		t.Errorf("expected in-memory counter 2, got %d", tr.Used())
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker("gnews", 0, "newslens:", nil).WithStore(context.Background(), newMockStore())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.Check()
			tr.Record(1)
		}()
	}
	wg.Wait()

	if tr.Used() != 50 {
		t.Errorf("expected 50, got %d", tr.Used())
	}
}
