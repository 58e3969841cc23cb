package search

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// GNewsBaseURL is the public GNews API root.
const GNewsBaseURL = "https://gnews.io/api/v4"

// GNews queries the GNews search endpoint.
type GNews struct {
	cfg    Config
	caller caller
}

// NewGNews creates a GNews client.
func NewGNews(cfg Config) *GNews {
	cfg.applyDefaults(KindGNews, GNewsBaseURL)
	return &GNews{cfg: cfg, caller: newCaller(cfg)}
}

// Name returns the configured provider name.
func (g *GNews) Name() string { return g.cfg.Name }

// Search returns English articles matching query.
func (g *GNews) Search(ctx context.Context, query string) ([]domain.AlternativeArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("lang", "en")
	params.Set("max", strconv.Itoa(g.cfg.MaxResults))
	params.Set("apikey", g.cfg.APIKey)
	return g.caller.articles(ctx, g.cfg.BaseURL+"/search?"+params.Encode())
}
