// Package evaluation measures sentiment accuracy against a hand-labeled CSV.
package evaluation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// Dataset columns.
const (
	SentenceColumn = "Sentence"
	LabelColumn    = "MyLabel"
)

// Scorer scores one sentence.
type Scorer interface {
	Score(text string) *domain.SentimentScore
}

// Miss is a row whose prediction disagrees with its label.
type Miss struct {
	Line      int
	Sentence  string
	Expected  string
	Predicted domain.SentimentLabel
	Compound  float64
}

// Report summarizes an evaluation run. Confusion is indexed by expected then predicted label.
type Report struct {
	Total     int
	Correct   int
	Accuracy  float64 // percent
	Confusion map[string]map[domain.SentimentLabel]int
	Misses    []Miss
}

// Evaluator runs a Scorer over a dataset.
type Evaluator struct {
	scorer Scorer
}

// New creates an Evaluator.
func New(scorer Scorer) *Evaluator {
	return &Evaluator{scorer: scorer}
}

// Evaluate reads a CSV with Sentence and MyLabel header columns and scores every row.
func (e *Evaluator) Evaluate(r io.Reader) (Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Report{}, fmt.Errorf("empty file: %w", domain.ErrInvalidDataset)
	}
	if err != nil {
		return Report{}, fmt.Errorf("read header: %v: %w", err, domain.ErrInvalidDataset)
	}

	sentenceIdx, labelIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case SentenceColumn:
			sentenceIdx = i
		case LabelColumn:
			labelIdx = i
		}
	}
	if sentenceIdx < 0 || labelIdx < 0 {
		return Report{}, fmt.Errorf("columns %q and %q are required: %w",
			SentenceColumn, LabelColumn, domain.ErrInvalidDataset)
	}

	rep := Report{Confusion: make(map[string]map[domain.SentimentLabel]int)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Report{}, fmt.Errorf("read row: %v: %w", err, domain.ErrInvalidDataset)
		}
		line, _ := cr.FieldPos(0)
		if max(sentenceIdx, labelIdx) >= len(rec) {
			return Report{}, fmt.Errorf("line %d: missing fields: %w", line, domain.ErrInvalidDataset)
		}

		sentence := rec[sentenceIdx]
		expected := strings.TrimSpace(rec[labelIdx])

		var score domain.SentimentScore
		if s := e.scorer.Score(sentence); s != nil {
			score = *s
		}
		predicted := score.Label()

		rep.Total++
		if rep.Confusion[expected] == nil {
			rep.Confusion[expected] = make(map[domain.SentimentLabel]int)
		}
		rep.Confusion[expected][predicted]++

		if string(predicted) == expected {
			rep.Correct++
			continue
		}
		rep.Misses = append(rep.Misses, Miss{
			Line:      line,
			Sentence:  sentence,
			Expected:  expected,
			Predicted: predicted,
			Compound:  score.Compound,
		})
	}

	if rep.Total == 0 {
		return Report{}, fmt.Errorf("no rows: %w", domain.ErrInvalidDataset)
	}
	rep.Accuracy = float64(rep.Correct) / float64(rep.Total) * 100
	return rep, nil
}
