package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Document is a fetched article. It is never mutated after the fetch.
type Document struct {
	URL   string
	Title string
	Body  string
}

// Empty reports whether the document has no usable body.
func (d Document) Empty() bool {
	return strings.TrimSpace(d.Body) == ""
}

// AlternativeArticle is a search hit from a news provider, optionally enriched
// with the sentiment of its own body.
type AlternativeArticle struct {
	Title       string          `json:"title"`
	Source      string          `json:"source"`
	URL         string          `json:"url"`
	PublishedAt string          `json:"published_at"`
	Provider    string          `json:"provider,omitempty"`
	Description string          `json:"description,omitempty"`
	Sentiment   *SentimentScore `json:"sentiment,omitempty"`
}

// DescriptionLength is the number of body runes kept in an alternative's description.
const DescriptionLength = 250

// Describe returns the first n runes of body followed by an ellipsis.
func Describe(body string, n int) string {
	if n <= 0 {
		n = DescriptionLength
	}
	if utf8.RuneCountInString(body) <= n {
		return body + "..."
	}
	runes := []rune(body)
	return string(runes[:n]) + "..."
}

// DatePrefix cuts an ISO-8601 timestamp at the "T" separator.
func DatePrefix(ts string) string {
	date, _, _ := strings.Cut(ts, "T")
	return date
}

// Analysis is the full output of one pipeline run.
type Analysis struct {
	ID           string               `json:"id"`
	URL          string               `json:"url,omitempty"`
	Title        string               `json:"title"`
	Sentiment    *SentimentScore      `json:"sentiment"`
	Entities     []string             `json:"entities"`
	TopicOutcome TopicOutcome         `json:"topic_outcome"`
	Topics       []Topic              `json:"topics"`
	Query        string               `json:"query,omitempty"`
	Alternatives []AlternativeArticle `json:"alternatives"`
	Duration     time.Duration        `json:"-"`
}
