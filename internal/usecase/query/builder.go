// Package query turns entities and topic keywords into one search query.
package query

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// Query shape.
const (
	Connector        = " AND "
	MaxTerms         = 3
	KeywordsPerTopic = 2
	maxQuotedLength  = 50
)

// Build combines entities and up to two keywords per topic into a query of at most
// three terms. It reports false when no term survives.
func Build(entities []string, topics []domain.Topic) (string, bool) {
	terms := Terms(entities, topics)
	if len(terms) == 0 {
		return "", false
	}
	if len(terms) > MaxTerms {
		terms = terms[:MaxTerms]
	}
	return strings.Join(terms, Connector), true
}

// Terms returns every surviving term, quoted where needed, in priority order.
func Terms(entities []string, topics []domain.Topic) []string {
	base := make([]string, 0, len(entities)+KeywordsPerTopic*len(topics))
	base = append(base, entities...)
	for _, t := range topics {
		n := min(KeywordsPerTopic, len(t.Keywords))
		base = append(base, t.Keywords[:n]...)
	}
	base = dedupe(base)

	var out []string
	for _, term := range base {
		if redundant(term, base) {
			continue
		}
		out = append(out, quote(term))
	}
	return out
}

// FirstTerm returns the text before the first connector, or the whole query.
func FirstTerm(q string) string {
	first, _, _ := strings.Cut(q, Connector)
	return first
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// redundant reports whether term is contained in a different term of the list.
func redundant(term string, all []string) bool {
	for _, other := range all {
		if other != term && strings.Contains(other, term) {
			return true
		}
	}
	return false
}

func quote(term string) string {
	if strings.Contains(term, " ") && utf8.RuneCountInString(term) < maxQuotedLength {
		return `"` + term + `"`
	}
	return term
}
