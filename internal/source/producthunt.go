package source

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/validationly/signalscan/internal/cache"
)

// ProductHuntAdapter reads the public Product Hunt RSS feeds and filters
// launches by query. The feed carries no vote counts; a best-effort count is
// extracted from the item body when present.
type ProductHuntAdapter struct {
	client  *Client
	baseURL string
}

// NewProductHuntAdapter constructs the Product Hunt adapter.
func NewProductHuntAdapter(cfg AdapterConfig, store cache.Cache) *ProductHuntAdapter {
	base := cfg.BaseURL
	if base == "" {
		base = "https://www.producthunt.com"
	}
	return &ProductHuntAdapter{
		client:  NewClient(string(ProductHunt), cfg.Client, store, CacheTTL(ProductHunt)),
		baseURL: base,
	}
}

func (a *ProductHuntAdapter) Info() SourceInfo {
	return SourceInfo{
		ID:        ProductHunt,
		Name:      "Product Hunt",
		Bucket:    BucketOf(ProductHunt),
		TTL:       CacheTTL(ProductHunt),
		RateLimit: a.client.cfg.RateLimit,
		IsKeyless: true,
	}
}

var votesRe = regexp.MustCompile(`(\d+)\s*(?:votes|upvotes|points)`)

// Fetch returns launches whose title or body mentions query.
func (a *ProductHuntAdapter) Fetch(ctx context.Context, query string, window TimeRange, maxItems int) ([]RawItem, error) {
	body, err := a.client.GetBytes(ctx, "ph:feed", a.baseURL+"/feed", nil)
	if err != nil {
		return nil, err
	}
	entries, err := parseRSS(body)
	if err != nil {
		return nil, fmt.Errorf("producthunt: %w", err)
	}

	items := make([]RawItem, 0, maxItems)
	for _, e := range entries {
		title := stripHTML(e.Title)
		desc := stripHTML(e.Description)
		if !containsFold(title, query) && !containsFold(desc, query) {
			continue
		}
		posted := parseRSSTime(e.PubDate)
		if !posted.IsZero() && !window.Contains(posted) {
			continue
		}
		votes := 0
		if m := votesRe.FindStringSubmatch(desc); m != nil {
			votes, _ = strconv.Atoi(m[1])
		}
		items = append(items, Launch{
			Name:    title,
			Tagline: desc,
			Votes:   votes,
			Posted:  posted,
		})
		if len(items) >= maxItems {
			break
		}
	}
	return items, nil
}
