package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// GoogleNewsBaseURL is the Google News root serving RSS search.
const GoogleNewsBaseURL = "https://news.google.com"

// GoogleNewsRSS searches the Google News RSS feed. It needs no key.
type GoogleNewsRSS struct {
	cfg    Config
	caller caller
}

// NewGoogleNewsRSS creates a Google News RSS client.
func NewGoogleNewsRSS(cfg Config) *GoogleNewsRSS {
	cfg.applyDefaults(KindGoogleNewsRSS, GoogleNewsBaseURL)
	return &GoogleNewsRSS{cfg: cfg, caller: newCaller(cfg)}
}

// Name returns the configured provider name.
func (g *GoogleNewsRSS) Name() string { return g.cfg.Name }

// Search returns feed items matching query, capped at MaxResults.
func (g *GoogleNewsRSS) Search(ctx context.Context, query string) ([]domain.AlternativeArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	body, err := g.caller.get(ctx, g.cfg.BaseURL+"/rss/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, g.caller.fail(0, fmt.Errorf("parse feed: %w", err))
	}

	out := make([]domain.AlternativeArticle, 0, g.cfg.MaxResults)
	for _, item := range feed.Items {
		if len(out) == g.cfg.MaxResults {
			break
		}
		if a, ok := g.article(item); ok {
			out = append(out, a)
		}
	}
	g.caller.observe(len(out))
	return out, nil
}

// article maps a feed item. Google News titles read "Headline - Publisher".
func (g *GoogleNewsRSS) article(item *gofeed.Item) (domain.AlternativeArticle, bool) {
	title := strings.TrimSpace(item.Title)
	var source string
	if i := strings.LastIndex(title, " - "); i > 0 {
		title, source = strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
	}
	if source == "" && item.Author != nil {
		source = item.Author.Name
	}
	if title == "" || source == "" {
		return domain.AlternativeArticle{}, false
	}

	var published string
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC().Format("2006-01-02")
	}
	return domain.AlternativeArticle{
		Title:       title,
		Source:      source,
		URL:         item.Link,
		PublishedAt: published,
		Provider:    g.cfg.Name,
	}, true
}
