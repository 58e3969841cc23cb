package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kailas-cloud/newslens/internal/domain"
)

// Config holds fetcher settings.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Fetcher downloads a web page and extracts its title and article text.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 5 << 20
	}
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
	}
}

// paragraph selectors, most specific first
var bodySelectors = []string{
	"[itemprop=articleBody] p",
	"article p",
	".article-body p",
	".story-body p",
	".post-content p",
	".entry-content p",
	"main p",
	".content p",
	"#content p",
	"p",
}

// page chrome that never carries article text
const noiseSelector = "script, style, noscript, nav, header, footer, aside, form, figure, iframe, svg"

const (
	minParagraphLen  = 20
	enoughParagraphs = 3
)

var whitespace = regexp.MustCompile(`[ \t\r\f\v]+`)

// Fetch downloads rawURL and returns the parsed document.
// Every failure wraps domain.ErrFetchFailed or domain.ErrInvalidURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (domain.Document, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Document{}, fmt.Errorf("%q: %w", rawURL, domain.ErrInvalidURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return domain.Document{}, fmt.Errorf("build request: %v: %w", err, domain.ErrFetchFailed)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Document{}, fmt.Errorf("load page: %v: %w", err, domain.ErrFetchFailed)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Document{}, fmt.Errorf("load page: status %d: %w", resp.StatusCode, domain.ErrFetchFailed)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse html: %v: %w", err, domain.ErrFetchFailed)
	}

	result := Extract(doc)
	result.URL = u.String()
	if result.Empty() {
		return domain.Document{}, fmt.Errorf("no article text found: %w", domain.ErrFetchFailed)
	}
	return result, nil
}

// Extract pulls the title and article text out of a parsed page.
func Extract(doc *goquery.Document) domain.Document {
	title := extractTitle(doc)
	doc.Find(noiseSelector).Remove()
	return domain.Document{Title: title, Body: extractBody(doc)}
}

func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t := clean(og); t != "" {
			return t
		}
	}
	for _, sel := range []string{"h1", "title"} {
		if t := clean(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func extractBody(doc *goquery.Document) string {
	var best []string
	for _, selector := range bodySelectors {
		var paragraphs []string
		seen := make(map[string]struct{})
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := clean(s.Text())
			if len(text) <= minParagraphLen {
				return
			}
			if _, dup := seen[text]; dup {
				return
			}
			seen[text] = struct{}{}
			paragraphs = append(paragraphs, text)
		})
		if len(paragraphs) >= enoughParagraphs {
			return strings.Join(paragraphs, "\n\n")
		}
		if len(paragraphs) > len(best) {
			best = paragraphs
		}
	}
	return strings.Join(best, "\n\n")
}

func clean(s string) string {
	s = whitespace.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, " ")
}
