package domain

import (
	"context"
	"sync"
)

type usageKey struct{}

// Usage collects external call counts for one request.
// The handler puts it in the context, services add to it, the handler reports it in headers.
// Enrichment runs in parallel, so the counters are guarded.
type Usage struct {
	mu              sync.Mutex
	embeddingTokens int
	providerCalls   int
}

// NewContextWithUsage returns a context carrying a fresh usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *Usage) {
	u := &Usage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext returns the collector, or nil when none is set.
func UsageFromContext(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}

// AddTokens records embedding tokens. Safe on a nil receiver.
func (u *Usage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.embeddingTokens += n
	u.mu.Unlock()
}

// AddProviderCall records one outbound search provider request. Safe on a nil receiver.
func (u *Usage) AddProviderCall() {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.providerCalls++
	u.mu.Unlock()
}

// EmbeddingTokens returns the recorded embedding tokens.
func (u *Usage) EmbeddingTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.embeddingTokens
}

// ProviderCalls returns the recorded provider requests.
func (u *Usage) ProviderCalls() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.providerCalls
}
