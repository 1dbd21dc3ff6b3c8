package source

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/validationly/signalscan/internal/cache"
)

// AdapterConfig configures one source adapter.
type AdapterConfig struct {
	BaseURL string       `yaml:"base_url"`
	APIKey  string       `yaml:"api_key"`
	Client  ClientConfig `yaml:"client"`
}

// RedditAdapter searches reddit's public JSON listing endpoint.
type RedditAdapter struct {
	client  *Client
	baseURL string
}

// NewRedditAdapter constructs the reddit adapter.
func NewRedditAdapter(cfg AdapterConfig, store cache.Cache) *RedditAdapter {
	base := cfg.BaseURL
	if base == "" {
		base = "https://www.reddit.com"
	}
	return &RedditAdapter{
		client:  NewClient(string(Reddit), cfg.Client, store, CacheTTL(Reddit)),
		baseURL: base,
	}
}

func (a *RedditAdapter) Info() SourceInfo {
	return SourceInfo{
		ID:        Reddit,
		Name:      "Reddit",
		Bucket:    BucketOf(Reddit),
		TTL:       CacheTTL(Reddit),
		RateLimit: a.client.cfg.RateLimit,
		IsKeyless: true,
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Subreddit   string  `json:"subreddit"`
				Author      string  `json:"author"`
				Ups         int     `json:"ups"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch returns posts matching query inside the time window.
func (a *RedditAdapter) Fetch(ctx context.Context, query string, window TimeRange, maxItems int) ([]RawItem, error) {
	u := fmt.Sprintf("%s/search.json?q=%s&sort=relevance&limit=%d&t=year",
		a.baseURL, url.QueryEscape(query), maxItems)
	key := fmt.Sprintf("reddit:search:%s:%d", query, maxItems)

	var listing redditListing
	if err := a.client.GetJSON(ctx, key, u, nil, &listing); err != nil {
		return nil, err
	}

	items := make([]RawItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		posted := time.Unix(int64(d.CreatedUTC), 0).UTC()
		if !window.Contains(posted) {
			continue
		}
		items = append(items, RedditPost{
			Title:     d.Title,
			Body:      d.Selftext,
			Subreddit: d.Subreddit,
			Author:    d.Author,
			Upvotes:   d.Ups,
			Comments:  d.NumComments,
			Posted:    posted,
		})
		if len(items) >= maxItems {
			break
		}
	}
	return items, nil
}
