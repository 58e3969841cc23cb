package app

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/config"
	"github.com/kailas-cloud/newslens/internal/domain"
)

func localConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("GNEWS_API_KEY", "")
	t.Setenv("NEWSAPI_API_KEY", "")

	var cfg config.Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid config: %v", err)
	}
	return cfg
}

func TestNew_LocalStack(t *testing.T) {
	a, err := New(context.Background(), localConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()

	if len(a.Providers) != 0 {
		t.Errorf("keyed providers without keys must be skipped, got %v", a.Providers)
	}
	for _, engine := range []domain.Engine{domain.EngineSentiment, domain.EngineEmbedding} {
		if s := a.Models.Status(engine); !s.Ready() {
			t.Errorf("%s not ready: %s", engine, s.Reason)
		}
	}

	report := a.Health.Check(context.Background())
	if _, ok := report.Checks["database"]; ok {
		t.Error("database check must be absent without redis")
	}
	if len(report.Models) != 4 {
		t.Errorf("expected 4 engines in health report, got %d", len(report.Models))
	}
}

func TestNew_AnalyzeTextWithoutProviders(t *testing.T) {
	a, err := New(context.Background(), localConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()

	res, err := a.Analysis.AnalyzeText(context.Background(), "Launch", "The rocket launched on time. Crowds cheered loudly.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sentiment == nil {
		t.Error("expected a sentiment score")
	}
	if res.TopicOutcome != domain.TopicInsufficientSignal {
		t.Errorf("expected insufficient signal for two sentences, got %q", res.TopicOutcome)
	}
	if len(res.Alternatives) != 0 {
		t.Errorf("expected no alternatives without providers, got %d", len(res.Alternatives))
	}
}

func TestNew_ProviderChain(t *testing.T) {
	cfg := localConfig(t)
	cfg.Search.Providers = []config.ProviderConfig{
		{Kind: config.ProviderGNews, APIKey: "g"},
		{Kind: config.ProviderNewsAPI},
		{Kind: config.ProviderRSS, Disabled: true},
		{Kind: config.ProviderRSS, Name: "rss", DailyQuota: 10},
	}
	cfg.ApplyDefaults()

	a, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()

	if len(a.Providers) != 2 || a.Providers[0] != "gnews" || a.Providers[1] != "rss" {
		t.Errorf("unexpected chain %v", a.Providers)
	}
}
