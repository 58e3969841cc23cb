// Package search holds the news search API clients.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kailas-cloud/newslens/internal/domain"
	"github.com/kailas-cloud/newslens/internal/metrics"
)

// Provider kinds.
const (
	KindGNews         = "gnews"
	KindNewsAPI       = "newsapi"
	KindGoogleNewsRSS = "googlenews_rss"
)

// Defaults shared by all clients.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxResults = 5
	maxErrorBody      = 4 << 10
)

// Config holds the settings of one provider client.
type Config struct {
	Name       string
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxResults int
	UserAgent  string
}

func (c *Config) applyDefaults(kind, baseURL string) {
	if c.Name == "" {
		c.Name = kind
	}
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
}

// New creates the client for kind.
func New(kind string, cfg Config) (domain.SearchProvider, error) {
	switch kind {
	case KindGNews:
		return NewGNews(cfg), nil
	case KindNewsAPI:
		return NewNewsAPI(cfg), nil
	case KindGoogleNewsRSS:
		return NewGoogleNewsRSS(cfg), nil
	default:
		return nil, fmt.Errorf("unknown search provider kind %q", kind)
	}
}

// caller performs one GET with a hard timeout and decodes an "articles" payload.
type caller struct {
	provider  string
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

func newCaller(cfg Config) caller {
	return caller{
		provider:  cfg.Name,
		client:    &http.Client{Timeout: cfg.Timeout},
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
	}
}

type articlesResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// articles fetches endpoint and keeps entries with a title and a source name.
func (c caller) articles(ctx context.Context, endpoint string) ([]domain.AlternativeArticle, error) {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload articlesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, c.fail(0, fmt.Errorf("decode response: %w", err))
	}

	out := make([]domain.AlternativeArticle, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title == "" || a.Source.Name == "" {
			continue
		}
		out = append(out, domain.AlternativeArticle{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: domain.DatePrefix(a.PublishedAt),
			Provider:    c.provider,
		})
	}
	c.observe(len(out))
	return out, nil
}

// get returns the body of a 2xx response.
func (c caller) get(ctx context.Context, endpoint string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, c.fail(0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json, application/rss+xml")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	domain.UsageFromContext(ctx).AddProviderCall()
	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(c.provider).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, c.fail(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(detail)))
		if resp.StatusCode == http.StatusTooManyRequests {
			err = errors.Join(err, domain.ErrRateLimited)
		}
		return nil, c.fail(resp.StatusCode, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	return body, nil
}

func (c caller) fail(status int, err error) error {
	metrics.ProviderRequestsTotal.WithLabelValues(c.provider, metrics.ProviderStatusError).Inc()
	return domain.NewProviderError(c.provider, status, err)
}

func (c caller) observe(n int) {
	status := metrics.ProviderStatusOK
	if n == 0 {
		status = metrics.ProviderStatusEmpty
	}
	metrics.ProviderRequestsTotal.WithLabelValues(c.provider, status).Inc()
}
