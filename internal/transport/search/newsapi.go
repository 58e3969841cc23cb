package search

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// NewsAPIBaseURL is the public NewsAPI root.
const NewsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPI queries the NewsAPI "everything" endpoint sorted by relevancy.
type NewsAPI struct {
	cfg    Config
	caller caller
}

// NewNewsAPI creates a NewsAPI client.
func NewNewsAPI(cfg Config) *NewsAPI {
	cfg.applyDefaults(KindNewsAPI, NewsAPIBaseURL)
	return &NewsAPI{cfg: cfg, caller: newCaller(cfg)}
}

// Name returns the configured provider name.
func (n *NewsAPI) Name() string { return n.cfg.Name }

// Search returns English articles matching query.
func (n *NewsAPI) Search(ctx context.Context, query string) ([]domain.AlternativeArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(n.cfg.MaxResults))
	params.Set("apiKey", n.cfg.APIKey)
	return n.caller.articles(ctx, n.cfg.BaseURL+"/everything?"+params.Encode())
}
