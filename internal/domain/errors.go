package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed signals that an article could not be downloaded or parsed.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrInvalidURL signals a malformed or non-http(s) article URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrEmptyText signals that there is no text to analyze.
	ErrEmptyText = errors.New("empty text")

	// ErrModelUnavailable signals that an NLP engine failed to load.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInsufficientSignal signals that the input is too small for an analyzer.
	ErrInsufficientSignal = errors.New("insufficient signal")
	// ErrEngineFailure signals an internal numerical or algorithmic failure.
	ErrEngineFailure = errors.New("engine failure")

	// ErrNoQuery signals that no search terms could be derived.
	ErrNoQuery = errors.New("no search query")
	// ErrProviderFailed signals a failed search provider call.
	ErrProviderFailed = errors.New("search provider failed")
	// ErrQuotaExceeded signals an exhausted provider request quota.
	ErrQuotaExceeded = errors.New("provider quota exceeded")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding quota on the provider side.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")

	// ErrInvalidDataset signals a malformed evaluation dataset.
	ErrInvalidDataset = errors.New("invalid dataset")
)

// ProviderError carries the search provider name and HTTP status of a failed call.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is makes every ProviderError match ErrProviderFailed.
func (e *ProviderError) Is(target error) bool { return target == ErrProviderFailed }

// NewProviderError wraps err with provider context.
func NewProviderError(provider string, status int, err error) error {
	return &ProviderError{Provider: provider, StatusCode: status, Err: err}
}
