package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/newslens/internal/domain"
)

func ok(context.Context) error { return nil }

func TestRegistry_Load(t *testing.T) {
	r := New(nil).
		Register(domain.EngineSentiment, LoaderFunc(ok)).
		Register(domain.EngineEntities, LoaderFunc(func(context.Context) error { return errors.New("model missing") })).
		Register(domain.EngineSegmenter, nil).
		Register(domain.EngineEmbedding, LoaderFunc(func(context.Context) error { panic("boom") }))

	err := r.Load(context.Background())
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}

	if !r.Status(domain.EngineSentiment).Ready() {
		t.Error("sentiment should be ready")
	}
	if s := r.Status(domain.EngineEntities); s.Ready() || s.Reason != "model missing" {
		t.Errorf("unexpected entities status %+v", s)
	}
	if s := r.Status(domain.EngineSegmenter); s.Ready() || s.Reason != "not configured" {
		t.Errorf("unexpected segmenter status %+v", s)
	}
	if s := r.Status(domain.EngineEmbedding); s.Ready() || s.Reason != "panic: boom" {
		t.Errorf("unexpected embedding status %+v", s)
	}

	statuses := r.Statuses()
	if len(statuses) != 4 || statuses[0].Engine != domain.EngineSentiment || statuses[3].Engine != domain.EngineEmbedding {
		t.Errorf("unexpected statuses order %+v", statuses)
	}
}

func TestRegistry_AllReady(t *testing.T) {
	r := New(nil).Register(domain.EngineSentiment, LoaderFunc(ok)).Register(domain.EngineEmbedding, LoaderFunc(ok))
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range r.Statuses() {
		if !s.Ready() {
			t.Errorf("%s not ready", s.Engine)
		}
	}
}

func TestRegistry_StatusBeforeLoad(t *testing.T) {
	r := New(nil).Register(domain.EngineSentiment, LoaderFunc(ok))
	if s := r.Status(domain.EngineSentiment); s.Ready() || s.Reason != "not loaded" {
		t.Errorf("unexpected status before load %+v", s)
	}
	if len(r.Statuses()) != 0 {
		t.Error("no statuses expected before load")
	}
}

func TestRegistry_ProbeHonorsTimeout(t *testing.T) {
	r := New(nil).Register(domain.EngineEmbedding, LoaderFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	r.timeout = 10 * time.Millisecond

	_ = r.Load(context.Background())
	if r.Status(domain.EngineEmbedding).Ready() {
		t.Error("expected timed-out probe to be unavailable")
	}
}
