package source

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/validationly/signalscan/internal/cache"
)

// HackerNewsAdapter searches stories through the Algolia HN index.
type HackerNewsAdapter struct {
	client  *Client
	baseURL string
}

// NewHackerNewsAdapter constructs the Hacker News adapter.
func NewHackerNewsAdapter(cfg AdapterConfig, store cache.Cache) *HackerNewsAdapter {
	base := cfg.BaseURL
	if base == "" {
		base = "https://hn.algolia.com/api/v1"
	}
	return &HackerNewsAdapter{
		client:  NewClient(string(HackerNews), cfg.Client, store, CacheTTL(HackerNews)),
		baseURL: base,
	}
}

func (a *HackerNewsAdapter) Info() SourceInfo {
	return SourceInfo{
		ID:        HackerNews,
		Name:      "Hacker News",
		Bucket:    BucketOf(HackerNews),
		TTL:       CacheTTL(HackerNews),
		RateLimit: a.client.cfg.RateLimit,
		IsKeyless: true,
	}
}

type hnSearchResult struct {
	Hits []struct {
		ObjectID    string `json:"objectID"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		Author      string `json:"author"`
		Points      int    `json:"points"`
		NumComments int    `json:"num_comments"`
		CreatedAtI  int64  `json:"created_at_i"`
	} `json:"hits"`
}

// Fetch returns stories matching query inside the time window.
func (a *HackerNewsAdapter) Fetch(ctx context.Context, query string, window TimeRange, maxItems int) ([]RawItem, error) {
	u := fmt.Sprintf("%s/search?query=%s&tags=story&hitsPerPage=%d",
		a.baseURL, url.QueryEscape(query), maxItems)
	if !window.From.IsZero() && !window.To.IsZero() {
		u += fmt.Sprintf("&numericFilters=created_at_i>%d,created_at_i<%d",
			window.From.Unix(), window.To.Unix())
	}
	key := searchKey("hn:search", query, window, maxItems)

	var result hnSearchResult
	if err := a.client.GetJSON(ctx, key, u, nil, &result); err != nil {
		return nil, err
	}

	items := make([]RawItem, 0, len(result.Hits))
	for _, hit := range result.Hits {
		items = append(items, HNStory{
			Title:    hit.Title,
			URL:      hit.URL,
			Author:   hit.Author,
			Points:   hit.Points,
			Comments: hit.NumComments,
			Posted:   time.Unix(hit.CreatedAtI, 0).UTC(),
		})
		if len(items) >= maxItems {
			break
		}
	}
	return items, nil
}
