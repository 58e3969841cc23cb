package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/kailas-cloud/newslens/internal/domain"
)

func TestEmbed_Normalized(t *testing.T) {
	e := New(64)
	res, err := e.Embed(context.Background(), "Storm floods the coastal towns")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != 64 {
		t.Fatalf("expected 64 dims, got %d", len(res.Embedding))
	}
	var norm float64
	for _, x := range res.Embedding {
		norm += float64(x) * float64(x)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("expected unit norm, got %f", norm)
	}
}

func TestEmbed_ZeroForNoWords(t *testing.T) {
	res, err := New(0).Embed(context.Background(), " ... !!! ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != DefaultDimensions {
		t.Fatalf("expected %d dims, got %d", DefaultDimensions, len(res.Embedding))
	}
	for _, x := range res.Embedding {
		if x != 0 {
			t.Fatal("expected zero vector")
		}
	}
}

func TestEmbed_SimilarTextsAreCloser(t *testing.T) {
	e := New(512)
	ctx := context.Background()
	res, err := e.BatchEmbed(ctx, []string{
		"The storm flooded coastal towns overnight.",
		"Coastal towns were flooded by the storm.",
		"The central bank raised interest rates.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := domain.ToFloat64(res.Embeddings[0])
	b := domain.ToFloat64(res.Embeddings[1])
	c := domain.ToFloat64(res.Embeddings[2])
	if domain.Cosine(a, b) <= domain.Cosine(a, c) {
		t.Errorf("expected paraphrase closer: sim(a,b)=%f sim(a,c)=%f", domain.Cosine(a, b), domain.Cosine(a, c))
	}
}

func TestEmbed_Deterministic(t *testing.T) {
	e := New(128)
	a, _ := e.Embed(context.Background(), "election results")
	b, _ := e.Embed(context.Background(), "election results")
	for i := range a.Embedding {
		if a.Embedding[i] != b.Embedding[i] {
			t.Fatal("embedding is not deterministic")
		}
	}
}

func TestBatchEmbed_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(8).BatchEmbed(ctx, []string{"a"}); err == nil {
		t.Fatal("expected context error")
	}
}
