// Package sentiment scores text polarity with the VADER lexicon.
package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// Scorer is stateless after construction and safe for concurrent use.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// New loads the bundled lexicon.
func New() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the polarity of text, or nil when text is empty.
func (s *Scorer) Score(text string) *domain.SentimentScore {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	p := s.analyzer.PolarityScores(text)
	return &domain.SentimentScore{
		Negative: p.Negative,
		Neutral:  p.Neutral,
		Positive: p.Positive,
		Compound: p.Compound,
	}
}

// Load checks that the lexicon produces a polarity for a known phrase.
func (s *Scorer) Load(_ context.Context) error {
	score := s.Score("This is a wonderful, happy day.")
	if score == nil || score.Compound <= 0 {
		return fmt.Errorf("sentiment lexicon did not score probe text: %w", domain.ErrModelUnavailable)
	}
	return nil
}
