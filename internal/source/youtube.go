package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/validationly/signalscan/internal/cache"
)

// YouTubeAdapter searches videos through the YouTube Data API v3. This is the
// only adapter that requires an API key; without one Fetch fails fast so the
// scanner substitutes a fallback signal.
type YouTubeAdapter struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewYouTubeAdapter constructs the YouTube adapter.
func NewYouTubeAdapter(cfg AdapterConfig, store cache.Cache) *YouTubeAdapter {
	base := cfg.BaseURL
	if base == "" {
		base = "https://www.googleapis.com/youtube/v3"
	}
	return &YouTubeAdapter{
		client:  NewClient(string(YouTube), cfg.Client, store, CacheTTL(YouTube)),
		baseURL: base,
		apiKey:  cfg.APIKey,
	}
}

func (a *YouTubeAdapter) Info() SourceInfo {
	return SourceInfo{
		ID:        YouTube,
		Name:      "YouTube",
		Bucket:    BucketOf(YouTube),
		TTL:       CacheTTL(YouTube),
		RateLimit: a.client.cfg.RateLimit,
		IsKeyless: false,
	}
}

type ytSearchResult struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytVideosResult struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Fetch returns videos matching query inside the time window. A second call
// to the videos endpoint fills in view and like counts, which the search
// endpoint does not return.
func (a *YouTubeAdapter) Fetch(ctx context.Context, query string, window TimeRange, maxItems int) ([]RawItem, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("youtube: missing API key")
	}

	u := fmt.Sprintf("%s/search?part=snippet&type=video&order=relevance&q=%s&maxResults=%d&key=%s",
		a.baseURL, url.QueryEscape(query), maxItems, url.QueryEscape(a.apiKey))
	if !window.From.IsZero() {
		u += "&publishedAfter=" + url.QueryEscape(window.From.UTC().Format(time.RFC3339))
	}
	if !window.To.IsZero() {
		u += "&publishedBefore=" + url.QueryEscape(window.To.UTC().Format(time.RFC3339))
	}
	key := searchKey("yt:search", query, window, maxItems)

	var search ytSearchResult
	if err := a.client.GetJSON(ctx, key, u, nil, &search); err != nil {
		return nil, err
	}
	if len(search.Items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	stats := make(map[string]struct{ views, likes int }, len(ids))
	if len(ids) > 0 {
		su := fmt.Sprintf("%s/videos?part=statistics&id=%s&key=%s",
			a.baseURL, strings.Join(ids, ","), url.QueryEscape(a.apiKey))
		var videos ytVideosResult
		if err := a.client.GetJSON(ctx, "yt:videos:"+strings.Join(ids, ","), su, nil, &videos); err != nil {
			return nil, err
		}
		for _, v := range videos.Items {
			views, _ := strconv.Atoi(v.Statistics.ViewCount)
			likes, _ := strconv.Atoi(v.Statistics.LikeCount)
			stats[v.ID] = struct{ views, likes int }{views, likes}
		}
	}

	items := make([]RawItem, 0, len(search.Items))
	for _, item := range search.Items {
		s := stats[item.ID.VideoID]
		items = append(items, Video{
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Channel:     item.Snippet.ChannelTitle,
			Views:       s.views,
			Likes:       s.likes,
			Published:   item.Snippet.PublishedAt,
		})
		if len(items) >= maxItems {
			break
		}
	}
	return items, nil
}
