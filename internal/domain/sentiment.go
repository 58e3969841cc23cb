package domain

// SentimentScore is a VADER-style polarity breakdown.
// Negative, Neutral and Positive are proportions in [0,1]; Compound is in [-1,1].
type SentimentScore struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// SentimentLabel is the coarse class derived from a compound score.
type SentimentLabel string

// Sentiment labels.
const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// CompoundThreshold is the standard VADER cut-off between neutral and polar text.
const CompoundThreshold = 0.05

// Label classifies the score by its compound value.
func (s SentimentScore) Label() SentimentLabel {
	switch {
	case s.Compound >= CompoundThreshold:
		return SentimentPositive
	case s.Compound <= -CompoundThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
