// Package topic finds the latent topics of an article: sentences are embedded,
// reduced, clustered by density and summarized by salient keywords.
package topic

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/logger"
)

// Input guards.
const (
	MinTextLength = 100
	MinSentences  = 5
)

// Clustering parameters.
const (
	minClusterSize = 2
	minSamples     = 2
)

// Config tunes topic reduction and keyword selection.
type Config struct {
	MergeThreshold float64
	TopKeywords    int
	Candidates     int
	// Optional prefixes for instruction-tuned embedding models.
	SentenceInstruction string
	KeywordInstruction  string
}

func (c *Config) applyDefaults() {
	if c.MergeThreshold <= 0 {
		c.MergeThreshold = 0.9
	}
	if c.TopKeywords <= 0 {
		c.TopKeywords = 10
	}
	if c.Candidates <= 0 {
		c.Candidates = 30
	}
}

// Service clusters the sentences of a text into topics.
type Service struct {
	embedder   domain.Embedder
	segmenter  Segmenter
	models     ModelStatuses
	vectorizer *Vectorizer
	cfg        Config
	logger     *zap.Logger
}

// New creates a Service. segmenter and models can be nil: sentences are then split
// on punctuation and every engine is assumed ready.
func New(embedder domain.Embedder, segmenter Segmenter, models ModelStatuses, cfg Config, log *zap.Logger) *Service {
	cfg.applyDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		embedder:   embedder,
		segmenter:  segmenter,
		models:     models,
		vectorizer: NewVectorizer(nil),
		cfg:        cfg,
		logger:     log,
	}
}

// Cluster returns the topics of text ordered by size. It never panics and never
// returns an error: every failure is folded into the result's outcome.
func (s *Service) Cluster(ctx context.Context, text string) (result domain.TopicResult) {
	log := logger.Or(ctx, s.logger)

	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinTextLength {
		return domain.InsufficientSignal(fmt.Sprintf("text shorter than %d characters", MinTextLength))
	}
	if s.embedder == nil || !s.ready(domain.EngineEmbedding) {
		return domain.ModelUnavailable("embedding engine not loaded")
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Topic engine panicked", zap.Any("panic", r))
			result = domain.EngineFailure(fmt.Errorf("panic: %v: %w", r, domain.ErrEngineFailure))
		}
	}()

	sentences := qualifying(s.split(ctx, text))
	if len(sentences) < MinSentences {
		log.Info("Article too short for topic analysis", zap.Int("sentences", len(sentences)))
		return domain.InsufficientSignal(fmt.Sprintf("%d sentences, need %d", len(sentences), MinSentences))
	}

	topics, err := s.cluster(ctx, sentences)
	if err != nil {
		log.Warn("Topic engine failed", zap.Int("sentences", len(sentences)), zap.Error(err))
		return domain.EngineFailure(err)
	}

	log.Debug("Topics found", zap.Int("sentences", len(sentences)), zap.Int("topics", len(topics)))
	return domain.TopicsFound(topics)
}

func (s *Service) ready(engine domain.Engine) bool {
	return s.models == nil || s.models.Status(engine).Ready()
}

func (s *Service) split(ctx context.Context, text string) []string {
	if s.segmenter != nil && s.ready(domain.EngineSegmenter) {
		sentences, err := s.segmenter.Split(ctx, text)
		if err == nil {
			return sentences
		}
		logger.Or(ctx, s.logger).Warn("Sentence segmenter failed, splitting on punctuation", zap.Error(err))
	}
	return SplitSentences(text)
}

func (s *Service) cluster(ctx context.Context, sentences []string) ([]domain.Topic, error) {
	vectors, err := s.embed(ctx, sentences, s.cfg.SentenceInstruction)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}

	points, err := reduce(vectors, ParamsFor(len(sentences)))
	if err != nil {
		return nil, fmt.Errorf("reduce: %v: %w", err, domain.ErrEngineFailure)
	}

	clusters, outliers := group(hdbscan(points, minClusterSize, minSamples))
	if len(clusters) == 0 {
		return nil, fmt.Errorf("no topics: %w", domain.ErrEngineFailure)
	}

	counts := s.vectorizer.Fit(classDocs(sentences, clusters, outliers))
	if len(counts.Vocab) == 0 {
		return nil, fmt.Errorf("empty vocabulary: %w", domain.ErrEngineFailure)
	}

	clusters = mergeSimilar(s.vectorizer, sentences, clusters, outliers, s.cfg.MergeThreshold)
	bySize(clusters)

	counts = s.vectorizer.Fit(classDocs(sentences, clusters, outliers))
	weights := classTFIDF(counts)

	candidates := make([][]string, len(clusters))
	var words []string
	seen := make(map[string]struct{})
	for i := range clusters {
		candidates[i] = topTerms(counts.Vocab, weights[i], s.cfg.Candidates)
		for _, w := range candidates[i] {
			if _, ok := seen[w]; !ok {
				seen[w] = struct{}{}
				words = append(words, w)
			}
		}
	}

	wordVectors, err := s.embed(ctx, words, s.cfg.KeywordInstruction)
	if err != nil {
		return nil, fmt.Errorf("embed keywords: %w", err)
	}
	embeddings := make(map[string][]float64, len(words))
	for i, w := range words {
		embeddings[w] = wordVectors[i]
	}

	topics := make([]domain.Topic, len(clusters))
	for i, c := range clusters {
		topics[i] = domain.Topic{
			ID:       i,
			Keywords: rerank(candidates[i], embeddings, centroid(vectors, c), s.cfg.TopKeywords),
			Size:     len(c),
		}
	}
	return topics, nil
}

func (s *Service) embed(ctx context.Context, texts []string, instruction string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	inputs := texts
	if instruction != "" {
		inputs = make([]string, len(texts))
		for i, t := range texts {
			inputs[i] = instruction + t
		}
	}

	res, err := domain.EmbedAll(ctx, s.embedder, inputs)
	if err != nil {
		return nil, err
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	out := make([][]float64, len(res.Embeddings))
	for i, e := range res.Embeddings {
		out[i] = domain.ToFloat64(e)
	}
	return out, nil
}

// group turns per-sentence labels into clusters ordered by label and the outlier group.
func group(labels []int) ([]cluster, cluster) {
	byLabel := make(map[int]cluster)
	maxLabel := noise
	var outliers cluster
	for i, l := range labels {
		if l == noise {
			outliers = append(outliers, i)
			continue
		}
		byLabel[l] = append(byLabel[l], i)
		maxLabel = max(maxLabel, l)
	}
	clusters := make([]cluster, 0, len(byLabel))
	for l := 0; l <= maxLabel; l++ {
		if c, ok := byLabel[l]; ok {
			clusters = append(clusters, c)
		}
	}
	return clusters, outliers
}
