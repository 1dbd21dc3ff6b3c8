package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/validationly/signalscan/internal/cache"
)

// GoogleNewsAdapter reads the Google News RSS search feed. News items have
// no native engagement counter, so the mention count of the query terms in
// the article text serves as the score field.
type GoogleNewsAdapter struct {
	client  *Client
	baseURL string
}

// NewGoogleNewsAdapter constructs the Google News adapter.
func NewGoogleNewsAdapter(cfg AdapterConfig, store cache.Cache) *GoogleNewsAdapter {
	base := cfg.BaseURL
	if base == "" {
		base = "https://news.google.com/rss"
	}
	return &GoogleNewsAdapter{
		client:  NewClient(string(GoogleNews), cfg.Client, store, CacheTTL(GoogleNews)),
		baseURL: base,
	}
}

func (a *GoogleNewsAdapter) Info() SourceInfo {
	return SourceInfo{
		ID:        GoogleNews,
		Name:      "Google News",
		Bucket:    BucketOf(GoogleNews),
		TTL:       CacheTTL(GoogleNews),
		RateLimit: a.client.cfg.RateLimit,
		IsKeyless: true,
	}
}

// Fetch returns articles matching query inside the time window.
func (a *GoogleNewsAdapter) Fetch(ctx context.Context, query string, window TimeRange, maxItems int) ([]RawItem, error) {
	u := fmt.Sprintf("%s/search?q=%s&hl=en-US&gl=US&ceid=US:en", a.baseURL, url.QueryEscape(query))
	key := fmt.Sprintf("gnews:search:%s", query)

	body, err := a.client.GetBytes(ctx, key, u, nil)
	if err != nil {
		return nil, err
	}
	entries, err := parseRSS(body)
	if err != nil {
		return nil, fmt.Errorf("googlenews: %w", err)
	}

	terms := strings.Fields(strings.ToLower(query))
	items := make([]RawItem, 0, maxItems)
	for _, e := range entries {
		title := stripHTML(e.Title)
		snippet := stripHTML(e.Description)
		published := parseRSSTime(e.PubDate)
		if !published.IsZero() && !window.Contains(published) {
			continue
		}
		items = append(items, Article{
			Title:     title,
			Snippet:   snippet,
			Outlet:    stripHTML(e.Source),
			Mentions:  countMentions(title+" "+snippet, terms),
			Published: published,
		})
		if len(items) >= maxItems {
			break
		}
	}
	return items, nil
}

func countMentions(text string, terms []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, term := range terms {
		n += strings.Count(lower, term)
	}
	if n == 0 {
		n = 1
	}
	return n
}
