package entity

import (
	"context"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// Recognizer finds named-entity mentions in text, in order of appearance.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]domain.EntitySpan, error)
}
