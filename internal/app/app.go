// Package app assembles the newslens services from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/config"
	"github.com/kailas-cloud/newslens/internal/db"
	dbRedis "github.com/kailas-cloud/newslens/internal/db/redis"
	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/metrics"
	"github.com/kailas-cloud/newslens/internal/repository/embcache"
	quotarepo "github.com/kailas-cloud/newslens/internal/repository/quota"
	"github.com/kailas-cloud/newslens/internal/repository/searchcache"
	"github.com/kailas-cloud/newslens/internal/transport/fetcher"
	"github.com/kailas-cloud/newslens/internal/transport/hashing"
	openaiTransport "github.com/kailas-cloud/newslens/internal/transport/openai"
	proseTransport "github.com/kailas-cloud/newslens/internal/transport/prose"
	"github.com/kailas-cloud/newslens/internal/transport/search"
	"github.com/kailas-cloud/newslens/internal/usecase/alternative"
	"github.com/kailas-cloud/newslens/internal/usecase/analysis"
	embeddinguc "github.com/kailas-cloud/newslens/internal/usecase/embedding"
	"github.com/kailas-cloud/newslens/internal/usecase/entity"
	"github.com/kailas-cloud/newslens/internal/usecase/evaluation"
	healthuc "github.com/kailas-cloud/newslens/internal/usecase/health"
	"github.com/kailas-cloud/newslens/internal/usecase/models"
	"github.com/kailas-cloud/newslens/internal/usecase/quota"
	"github.com/kailas-cloud/newslens/internal/usecase/sentiment"
	"github.com/kailas-cloud/newslens/internal/usecase/topic"
)

// quotaKeyTTL keeps daily counters past midnight in every time zone.
const quotaKeyTTL = 48 * time.Hour

// App is the assembled service graph.
type App struct {
	Analysis     *analysis.Service
	Alternatives *alternative.Service
	Health       *healthuc.Service
	Models       *models.Registry
	Evaluator    *evaluation.Evaluator
	Providers    []string

	store  db.Store
	logger *zap.Logger
}

// New builds every service and probes the NLP engines. Engines that fail to load
// are recorded as unavailable; only an unreachable Redis is fatal.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	metrics.Register()

	a := &App{logger: log}
	if cfg.Database.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis not ready: %w", err)
		}
		a.store = store
		log.Info("Connected to redis", zap.Strings("addrs", cfg.Database.Addrs))
	}

	scorer := sentiment.New()
	engine := proseTransport.New()
	embedder := a.buildEmbedder(ctx, cfg)

	var recognizer entity.Recognizer = engine
	var recognizerLoader models.Loader = engine
	if cfg.NLP.Entities.Backend == config.EntityBackendOpenAI {
		r := openaiTransport.NewRecognizer(cfg.NLP.Entities.APIKey, cfg.NLP.Entities.BaseURL, cfg.NLP.Entities.Model)
		recognizer = r
		recognizerLoader = models.LoaderFunc(r.HealthCheck)
	}

	a.Models = models.New(log).
		Register(domain.EngineSentiment, models.LoaderFunc(scorer.Load)).
		Register(domain.EngineEntities, recognizerLoader).
		Register(domain.EngineSegmenter, models.LoaderFunc(func(ctx context.Context) error {
			sentences, err := engine.Split(ctx, "The model loaded. It splits sentences.")
			if err != nil {
				return err
			}
			if len(sentences) != 2 {
				return fmt.Errorf("probe split into %d sentences", len(sentences))
			}
			return nil
		})).
		Register(domain.EngineEmbedding, models.LoaderFunc(embedder.HealthCheck))
	if err := a.Models.Load(ctx); err != nil {
		log.Warn("Some engines are unavailable, analysis degrades", zap.Error(err))
	}
	if !a.Models.Status(domain.EngineEntities).Ready() {
		recognizer = nil
	}

	entities := entity.New(recognizer, cfg.NLP.Entities.MaxChars, cfg.NLP.Entities.Limit, log)
	topics := topic.New(embedder, engine, a.Models, topic.Config{
		MergeThreshold:      cfg.NLP.Topics.MergeThreshold,
		TopKeywords:         cfg.NLP.Topics.TopKeywords,
		Candidates:          cfg.NLP.Topics.Candidates,
		SentenceInstruction: cfg.Embedding.SentenceInstruction,
		KeywordInstruction:  cfg.Embedding.KeywordInstruction,
	}, log)

	chain := a.buildProviders(ctx, cfg)
	a.Alternatives = alternative.New(entities, chain, log)

	fetch := fetcher.New(fetcher.Config{
		UserAgent:    cfg.Fetcher.UserAgent,
		Timeout:      time.Duration(cfg.Fetcher.TimeoutSec) * time.Second,
		MaxBodyBytes: cfg.Fetcher.MaxBodyBytes,
	})
	a.Analysis = analysis.New(fetch, scorer, entities, topics, a.Alternatives, analysis.Config{
		EnrichConcurrency: cfg.Analysis.EnrichConcurrency,
		DescriptionLength: cfg.Analysis.DescriptionLength,
	}, log)

	// A nil *redis.Store inside the interface would not compare equal to nil.
	var pinger healthuc.DBPinger
	if a.store != nil {
		pinger = a.store
	}
	a.Health = healthuc.New(pinger, embedder, a.Models)
	a.Evaluator = evaluation.New(scorer)

	return a, nil
}

// Close releases the Redis connection.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// buildEmbedder assembles the decorator chain: provider -> cache -> instrumented (quota, logging).
func (a *App) buildEmbedder(ctx context.Context, cfg config.Config) *embeddinguc.InstrumentedEmbedder {
	ec := cfg.Embedding

	var base domain.Embedder
	model := ec.Model
	switch ec.Provider {
	case config.EmbeddingProviderOpenAI:
		base = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     ec.APIKey,
			BaseURL:    ec.BaseURL,
			Model:      ec.Model,
			Dimensions: ec.Dimensions,
			Provider:   ec.Provider,
			Logger:     a.logger,
		})
	default:
		base = hashing.New(ec.Dimensions)
		model = fmt.Sprintf("hashing-%d", ec.Dimensions)
	}

	embedder := base
	if a.store != nil && !cfg.Cache.DisableEmbedding {
		embedder = embcache.New(base, a.store, embcache.Config{
			KeyPrefix: cfg.Cache.KeyPrefix,
			Model:     model,
			TTL:       time.Duration(cfg.Cache.EmbeddingTTLH) * time.Hour,
		}, metrics.EmbeddingCacheTotal, a.logger)
	}

	// Pass a nil interface, not a typed nil pointer, when no quota is set.
	var tokens embeddinguc.TokenQuota
	if ec.DailyTokenQuota > 0 {
		tokens = a.tracker(ctx, "embedding_"+ec.Provider, ec.DailyTokenQuota, cfg.Cache.KeyPrefix)
	}

	a.logger.Info("Embedder created", zap.String("provider", ec.Provider), zap.String("model", model))
	return embeddinguc.NewInstrumentedEmbedder(embedder, ec.Provider, model, tokens, a.logger)
}

// buildProviders assembles each search provider: client -> quota guard -> cache -> safe.
func (a *App) buildProviders(ctx context.Context, cfg config.Config) []alternative.Searcher {
	var chain []alternative.Searcher
	for _, pc := range cfg.Search.Providers {
		if pc.Disabled {
			continue
		}
		if pc.RequiresKey() && pc.APIKey == "" {
			a.logger.Warn("Search provider has no api key, skipping", zap.String("provider", pc.Name))
			continue
		}

		client, err := search.New(pc.Kind, search.Config{
			Name:       pc.Name,
			BaseURL:    pc.BaseURL,
			APIKey:     pc.APIKey,
			Timeout:    time.Duration(pc.TimeoutSec) * time.Second,
			MaxResults: cfg.Search.MaxResults,
		})
		if err != nil {
			a.logger.Warn("Skipping search provider", zap.String("provider", pc.Name), zap.Error(err))
			continue
		}

		provider := client
		if pc.DailyQuota > 0 {
			provider = quota.NewGuard(provider, a.tracker(ctx, pc.Name, pc.DailyQuota, cfg.Cache.KeyPrefix))
		}
		if a.store != nil && !cfg.Cache.DisableSearch {
			provider = searchcache.New(provider, a.store, cfg.Cache.KeyPrefix,
				time.Duration(cfg.Cache.SearchTTLMin)*time.Minute, metrics.SearchCacheTotal, a.logger)
		}

		chain = append(chain, search.NewSafe(provider, a.logger))
		a.Providers = append(a.Providers, pc.Name)
	}

	if len(chain) == 0 {
		a.logger.Warn("No search providers configured, alternatives will be empty")
	} else {
		a.logger.Info("Search providers ready", zap.Strings("chain", a.Providers))
	}
	return chain
}

func (a *App) tracker(ctx context.Context, name string, limit int64, prefix string) *quota.Tracker {
	t := quota.NewTracker(name, limit, prefix, a.logger)
	if a.store != nil {
		t.WithStore(ctx, quotarepo.New(a.store, quotaKeyTTL))
	}
	return t
}
