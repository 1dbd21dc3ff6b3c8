package source

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/validationly/signalscan/internal/cache"
)

// StackOverflowAdapter searches questions through the Stack Exchange API.
type StackOverflowAdapter struct {
	client  *Client
	baseURL string
}

// NewStackOverflowAdapter constructs the Stack Overflow adapter.
func NewStackOverflowAdapter(cfg AdapterConfig, store cache.Cache) *StackOverflowAdapter {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.stackexchange.com/2.3"
	}
	return &StackOverflowAdapter{
		client:  NewClient(string(StackOverflow), cfg.Client, store, CacheTTL(StackOverflow)),
		baseURL: base,
	}
}

func (a *StackOverflowAdapter) Info() SourceInfo {
	return SourceInfo{
		ID:        StackOverflow,
		Name:      "Stack Overflow",
		Bucket:    BucketOf(StackOverflow),
		TTL:       CacheTTL(StackOverflow),
		RateLimit: a.client.cfg.RateLimit,
		IsKeyless: true,
	}
}

type soSearchResult struct {
	Items []struct {
		Title        string   `json:"title"`
		Tags         []string `json:"tags"`
		Score        int      `json:"score"`
		AnswerCount  int      `json:"answer_count"`
		ViewCount    int      `json:"view_count"`
		CreationDate int64    `json:"creation_date"`
	} `json:"items"`
}

// Fetch returns questions matching query inside the time window.
func (a *StackOverflowAdapter) Fetch(ctx context.Context, query string, window TimeRange, maxItems int) ([]RawItem, error) {
	u := fmt.Sprintf("%s/search/advanced?order=desc&sort=votes&q=%s&site=stackoverflow&pagesize=%d",
		a.baseURL, url.QueryEscape(query), maxItems)
	if !window.From.IsZero() {
		u += fmt.Sprintf("&fromdate=%d", window.From.Unix())
	}
	if !window.To.IsZero() {
		u += fmt.Sprintf("&todate=%d", window.To.Unix())
	}
	key := searchKey("so:search", query, window, maxItems)

	var result soSearchResult
	if err := a.client.GetJSON(ctx, key, u, nil, &result); err != nil {
		return nil, err
	}

	items := make([]RawItem, 0, len(result.Items))
	for _, q := range result.Items {
		items = append(items, Question{
			Title:   q.Title,
			Tags:    q.Tags,
			Score:   q.Score,
			Answers: q.AnswerCount,
			Views:   q.ViewCount,
			Asked:   time.Unix(q.CreationDate, 0).UTC(),
		})
		if len(items) >= maxItems {
			break
		}
	}
	return items, nil
}
