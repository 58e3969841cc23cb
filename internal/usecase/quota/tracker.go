// Package quota enforces daily request limits on search providers.
package quota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// Unlimited is returned by Remaining when no limit is set.
const Unlimited = -1

const persistTimeout = 2 * time.Second

// Tracker counts requests to one provider per UTC day.
// Check is in-memory only; Record updates memory first, then writes behind to the store.
type Tracker struct {
	mu        sync.Mutex
	used      int64
	limit     int64
	provider  string
	keyPrefix string
	day       time.Time
	now       func() time.Time
	store     Store
	logger    *zap.Logger
}

// NewTracker creates a tracker. A limit of 0 disables enforcement.
func NewTracker(provider string, dailyLimit int64, keyPrefix string, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		limit:     dailyLimit,
		provider:  provider,
		keyPrefix: keyPrefix,
		now:       time.Now,
		logger:    logger,
	}
	t.day = truncateToDay(t.now())
	return t
}

// WithStore attaches a persistence store and loads today's counter.
func (t *Tracker) WithStore(ctx context.Context, store Store) *Tracker {
	t.store = store
	t.load(ctx)
	return t
}

func (t *Tracker) load(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := t.key(t.now())
	used, err := t.store.Get(ctx, key)
	if err != nil {
		t.logger.Warn("Failed to load provider quota from store", zap.String("key", key), zap.Error(err))
		return
	}
	t.used = used
	t.logger.Info("Provider quota loaded from store",
		zap.String("provider", t.provider),
		zap.Int64("used", t.used),
		zap.Int64("limit", t.limit),
	)
}

func (t *Tracker) key(at time.Time) string {
	return fmt.Sprintf("%squota:%s:daily:%s", t.keyPrefix, t.provider, at.UTC().Format("2006-01-02"))
}

// Provider returns the tracked provider name.
func (t *Tracker) Provider() string { return t.provider }

// Check reports domain.ErrQuotaExceeded once today's requests reach the limit.
func (t *Tracker) Check() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfNeeded()
	if t.limit > 0 && t.used >= t.limit {
		return fmt.Errorf("%s used %d of %d today: %w", t.provider, t.used, t.limit, domain.ErrQuotaExceeded)
	}
	return nil
}

// Record counts n requests.
func (t *Tracker) Record(n int64) {
	t.mu.Lock()
	t.resetIfNeeded()
	t.used += n
	store := t.store
	key := t.key(t.now())
	t.mu.Unlock()

	if store == nil {
		return
	}

	// Write-behind with its own deadline so a slow store never blocks the search.
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := store.IncrBy(ctx, key, n); err != nil {
		t.logger.Warn("Failed to persist provider quota", zap.String("key", key), zap.Error(err))
	}
}

// Remaining returns requests left today, or Unlimited.
func (t *Tracker) Remaining() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfNeeded()
	if t.limit == 0 {
		return Unlimited
	}
	return max(t.limit-t.used, 0)
}

// Used returns requests made today.
func (t *Tracker) Used() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()
	return t.used
}

// resetIfNeeded zeroes the counter when the UTC day rolls over.
func (t *Tracker) resetIfNeeded() {
	today := truncateToDay(t.now())
	if today.After(t.day) {
		t.used = 0
		t.day = today
	}
}

func truncateToDay(at time.Time) time.Time {
	at = at.UTC()
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
}
