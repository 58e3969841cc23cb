package entity

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newslens/internal/logger"
)

// Defaults for Service.
const (
	DefaultMaxChars = 100_000
	DefaultLimit    = 5
)

// Service extracts the most frequent salient entities of a text.
type Service struct {
	recognizer Recognizer
	maxChars   int
	limit      int
	logger     *zap.Logger
}

// New creates a Service. recognizer can be nil, in which case Extract returns no entities.
func New(recognizer Recognizer, maxChars, limit int, log *zap.Logger) *Service {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{recognizer: recognizer, maxChars: maxChars, limit: limit, logger: log}
}

// Extract returns up to limit distinct entity strings ordered by frequency,
// ties broken by first occurrence. Recognizer failures are logged and yield nil.
func (s *Service) Extract(ctx context.Context, text string) []string {
	if s.recognizer == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	log := logger.Or(ctx, s.logger)

	spans, err := s.recognizer.Recognize(ctx, truncateRunes(text, s.maxChars))
	if err != nil {
		log.Warn("Entity recognition failed", zap.Error(err))
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, span := range spans {
		if !span.Salient() {
			continue
		}
		t := strings.TrimSpace(span.Text)
		if !Plausible(t) {
			continue
		}
		if _, seen := counts[t]; !seen {
			order = append(order, t)
		}
		counts[t]++
	}

	ranked := rankByCount(order, counts)
	if len(ranked) > s.limit {
		ranked = ranked[:s.limit]
	}

	log.Debug("Entities extracted", zap.Int("mentions", len(spans)), zap.Strings("entities", ranked))
	return ranked
}

// Plausible reports whether a trimmed span looks like a usable search term:
// longer than 3 characters, not all lowercase, fewer than 4 spaces.
func Plausible(s string) bool {
	if utf8.RuneCountInString(s) <= 3 {
		return false
	}
	if strings.Count(s, " ") >= 4 {
		return false
	}
	return strings.ToLower(s) != s || !hasLetter(s)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func rankByCount(order []string, counts map[string]int) []string {
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	return ranked
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
