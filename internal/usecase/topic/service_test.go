package topic

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/newslens/internal/domain"
)

const dims = 64

var (
	stormWords    = []string{"storm", "flood", "rain", "coast", "evacuat", "wind"}
	electionWords = []string{"election", "vote", "ballot", "candidate", "poll", "campaign"}
)

// themeEmbedder places texts about storms and about elections on orthogonal axes
// with a small per-text perturbation.
type themeEmbedder struct {
	err   error
	panic bool
	calls int
}

func (e *themeEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.panic {
		panic("index out of range")
	}
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	v := make([]float32, dims)
	lower := strings.ToLower(text)
	for _, w := range stormWords {
		if strings.Contains(lower, w) {
			v[0] = 1
		}
	}
	for _, w := range electionWords {
		if strings.Contains(lower, w) {
			v[1] = 1
		}
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	sum := h.Sum32()
	v[2+int(sum%uint32(dims-2))] += 0.1
	v[2+int((sum>>8)%uint32(dims-2))] += 0.05
	return domain.EmbeddingResult{Embedding: v, TotalTokens: 1}, nil
}

type statuses map[domain.Engine]domain.ModelState

func (s statuses) Status(engine domain.Engine) domain.ModelStatus {
	state, ok := s[engine]
	if !ok {
		state = domain.StateReady
	}
	return domain.ModelStatus{Engine: engine, State: state}
}

type failingSegmenter struct{}

func (failingSegmenter) Split(context.Context, string) ([]string, error) {
	return nil, errors.New("segmenter crashed")
}

const twoThemes = `A powerful storm made landfall on the coast early on Tuesday morning.
Heavy rain caused severe flooding across several coastal towns.
Emergency crews began to evacuate residents as the wind picked up.
The storm surge flooded roads and cut power to the coast.
Forecasters expect more rain and strong wind through the night.
Flood defenses along the coast were overwhelmed by the storm.
Meanwhile, the election campaign entered its final week.
Both candidates held rallies to win over undecided voters.
A new poll shows the candidate leading among early ballot returns.
Turnout in the election is expected to break previous records.
The campaign focused on the economy as the vote approaches.
Officials said ballot counting for the election will start at eight.`

func TestCluster_ShortText(t *testing.T) {
	emb := &themeEmbedder{}
	svc := New(emb, nil, nil, Config{}, nil)

	res := svc.Cluster(context.Background(), "Too short to analyze.")
	require.Equal(t, domain.TopicInsufficientSignal, res.Outcome)
	require.Nil(t, res.Topics())
	require.ErrorIs(t, res.Err(), domain.ErrInsufficientSignal)
	require.Zero(t, emb.calls)
}

func TestCluster_TooFewSentences(t *testing.T) {
	text := "The first sentence is long enough to count here. " +
		"The second sentence is also long enough to count. " +
		"A third one keeps going for a while longer. " +
		"Short. Tiny. Nope. " +
		"The fourth qualifying sentence ends the article."
	svc := New(&themeEmbedder{}, nil, nil, Config{}, nil)

	res := svc.Cluster(context.Background(), text)
	require.Equal(t, domain.TopicInsufficientSignal, res.Outcome)
}

func TestCluster_ModelUnavailable(t *testing.T) {
	svc := New(&themeEmbedder{}, nil, statuses{domain.EngineEmbedding: domain.StateUnavailable}, Config{}, nil)

	res := svc.Cluster(context.Background(), twoThemes)
	require.Equal(t, domain.TopicModelUnavailable, res.Outcome)
	require.Nil(t, res.Topics())
}

func TestCluster_NilEmbedder(t *testing.T) {
	res := New(nil, nil, nil, Config{}, nil).Cluster(context.Background(), twoThemes)
	require.Equal(t, domain.TopicModelUnavailable, res.Outcome)
}

func TestCluster_EmbedderError(t *testing.T) {
	svc := New(&themeEmbedder{err: domain.ErrRateLimited}, nil, nil, Config{}, nil)

	res := svc.Cluster(context.Background(), twoThemes)
	require.Equal(t, domain.TopicEngineFailure, res.Outcome)
	require.Contains(t, res.Reason, "rate limited")
}

func TestCluster_RecoversPanic(t *testing.T) {
	svc := New(&themeEmbedder{panic: true}, nil, nil, Config{}, nil)

	require.NotPanics(t, func() {
		res := svc.Cluster(context.Background(), twoThemes)
		require.Equal(t, domain.TopicEngineFailure, res.Outcome)
		require.Contains(t, res.Reason, "panic")
	})
}

func TestCluster_TwoThemes(t *testing.T) {
	ctx, usage := domain.NewContextWithUsage(context.Background())
	svc := New(&themeEmbedder{}, failingSegmenter{}, nil, Config{}, nil)

	res := svc.Cluster(ctx, twoThemes)
	require.Equal(t, domain.TopicOK, res.Outcome, res.Reason)

	topics := res.Topics()
	require.NotEmpty(t, topics)
	total := 0
	for i, tp := range topics {
		require.Equal(t, i, tp.ID)
		require.NotEmpty(t, tp.Keywords)
		require.LessOrEqual(t, len(tp.Keywords), 10)
		if i > 0 {
			require.LessOrEqual(t, tp.Size, topics[i-1].Size)
		}
		for _, kw := range tp.Keywords {
			_, stop := DefaultStopwords()[kw]
			require.False(t, stop, "stopword %q in keywords", kw)
		}
		total += tp.Size
	}
	require.LessOrEqual(t, total, 12)
	require.Positive(t, usage.EmbeddingTokens())
}

func TestCluster_Instructions(t *testing.T) {
	var seen []string
	rec := recordingEmbedder{inner: &themeEmbedder{}, seen: &seen}
	svc := New(rec, nil, nil, Config{SentenceInstruction: "passage: ", KeywordInstruction: "query: "}, nil)

	res := svc.Cluster(context.Background(), twoThemes)
	require.Equal(t, domain.TopicOK, res.Outcome, res.Reason)

	var passages, queries int
	for _, s := range seen {
		switch {
		case strings.HasPrefix(s, "passage: "):
			passages++
		case strings.HasPrefix(s, "query: "):
			queries++
		}
	}
	require.Equal(t, 12, passages)
	require.Positive(t, queries)
	require.Equal(t, len(seen), passages+queries)
}

type recordingEmbedder struct {
	inner domain.Embedder
	seen  *[]string
}

func (r recordingEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	*r.seen = append(*r.seen, text)
	return r.inner.Embed(ctx, text)
}

func TestCluster_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		strings.Repeat("a", 500),
		strings.Repeat("Same sentence repeated over and over. ", 20),
		strings.Repeat("!!! ??? ... ", 50),
		strings.Repeat("Numbers 123 456 789 only here. ", 10),
	}
	svc := New(&themeEmbedder{}, nil, nil, Config{}, nil)
	for _, in := range inputs {
		require.NotPanics(t, func() { svc.Cluster(context.Background(), in) })
	}
}

func TestParamsFor(t *testing.T) {
	tests := []struct {
		n    int
		want Params
	}{
		{5, Params{Neighbors: 4, Components: 2}},
		{10, Params{Neighbors: 9, Components: 2}},
		{14, Params{Neighbors: 13, Components: 2}},
		{15, Params{Neighbors: 14, Components: 5}},
		{40, Params{Neighbors: 15, Components: 5}},
		{2, Params{Neighbors: 1, Components: 1}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ParamsFor(tt.n), "n=%d", tt.n)
	}
}
