// Package models records which NLP engines loaded at startup.
package models

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// DefaultProbeTimeout bounds a single engine probe.
const DefaultProbeTimeout = 15 * time.Second

// Loader loads or probes one engine.
type Loader interface {
	Load(ctx context.Context) error
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) error

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) error { return f(ctx) }

// Registry holds the load state of every registered engine.
type Registry struct {
	mu       sync.RWMutex
	loaders  map[domain.Engine]Loader
	order    []domain.Engine
	statuses map[domain.Engine]domain.ModelStatus
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates an empty Registry.
func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		loaders:  make(map[domain.Engine]Loader),
		statuses: make(map[domain.Engine]domain.ModelStatus),
		timeout:  DefaultProbeTimeout,
		logger:   log,
	}
}

// Register adds an engine. A nil loader marks the engine as not configured.
func (r *Registry) Register(engine domain.Engine, l Loader) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loaders[engine]; !ok {
		r.order = append(r.order, engine)
	}
	r.loaders[engine] = l
	return r
}

// Load probes every registered engine in registration order and records the result.
// It returns an error joining every failure; the registry stays usable either way.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.RLock()
	order := append([]domain.Engine(nil), r.order...)
	r.mu.RUnlock()

	var errs []error
	for _, engine := range order {
		r.mu.RLock()
		l := r.loaders[engine]
		r.mu.RUnlock()

		status := r.probe(ctx, engine, l)

		r.mu.Lock()
		r.statuses[engine] = status
		r.mu.Unlock()

		if !status.Ready() {
			r.logger.Warn("Engine unavailable", zap.String("engine", string(engine)), zap.String("reason", status.Reason))
			errs = append(errs, fmt.Errorf("%s: %s: %w", engine, status.Reason, domain.ErrModelUnavailable))
			continue
		}
		r.logger.Info("Engine ready", zap.String("engine", string(engine)))
	}
	return errors.Join(errs...)
}

func (r *Registry) probe(ctx context.Context, engine domain.Engine, l Loader) (status domain.ModelStatus) {
	status = domain.ModelStatus{Engine: engine, State: domain.StateReady}
	if l == nil {
		status.State, status.Reason = domain.StateUnavailable, "not configured"
		return status
	}

	defer func() {
		if p := recover(); p != nil {
			status.State, status.Reason = domain.StateUnavailable, fmt.Sprintf("panic: %v", p)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := l.Load(ctx); err != nil {
		status.State, status.Reason = domain.StateUnavailable, err.Error()
	}
	return status
}

// Status returns the recorded state of engine. Engines never loaded are unavailable.
func (r *Registry) Status(engine domain.Engine) domain.ModelStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.statuses[engine]; ok {
		return s
	}
	return domain.ModelStatus{Engine: engine, State: domain.StateUnavailable, Reason: "not loaded"}
}

// Statuses returns every recorded state in registration order.
func (r *Registry) Statuses() []domain.ModelStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ModelStatus, 0, len(r.order))
	for _, engine := range r.order {
		if s, ok := r.statuses[engine]; ok {
			out = append(out, s)
		}
	}
	return out
}
