package prose

import (
	"context"
	"fmt"
	"strings"

	prose "github.com/jdkato/prose/v2"

	"github.com/kailas-cloud/newslens/internal/domain"
)

const probeText = "Angela Merkel met Emmanuel Macron in Paris on Tuesday. They discussed trade."

// Engine wraps prose's bundled English models for entity recognition and sentence segmentation.
type Engine struct{}

// New creates a prose engine.
func New() *Engine {
	return &Engine{}
}

// Load runs the models once on a probe text so a broken model surfaces at startup.
func (e *Engine) Load(ctx context.Context) error {
	if _, err := e.Recognize(ctx, probeText); err != nil {
		return fmt.Errorf("prose recognizer: %w", err)
	}
	sentences, err := e.Split(ctx, probeText)
	if err != nil {
		return fmt.Errorf("prose segmenter: %w", err)
	}
	if len(sentences) == 0 {
		return fmt.Errorf("prose segmenter returned no sentences: %w", domain.ErrModelUnavailable)
	}
	return nil
}

// Recognize returns entity mentions in order of appearance.
func (e *Engine) Recognize(ctx context.Context, text string) ([]domain.EntitySpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("prose document: %w", err)
	}

	ents := doc.Entities()
	spans := make([]domain.EntitySpan, 0, len(ents))
	for _, ent := range ents {
		spans = append(spans, domain.EntitySpan{Text: ent.Text, Label: ent.Label})
	}
	return spans, nil
}

// Split segments text into sentences.
func (e *Engine) Split(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose document: %w", err)
	}

	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}
