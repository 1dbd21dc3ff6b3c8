package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/validationly/signalscan/internal/cache"
)

// GitHubAdapter searches repositories through the GitHub REST API. An API
// token raises the rate limit but is not required.
type GitHubAdapter struct {
	client  *Client
	baseURL string
	token   string
}

// NewGitHubAdapter constructs the GitHub adapter.
func NewGitHubAdapter(cfg AdapterConfig, store cache.Cache) *GitHubAdapter {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.github.com"
	}
	return &GitHubAdapter{
		client:  NewClient(string(GitHub), cfg.Client, store, CacheTTL(GitHub)),
		baseURL: base,
		token:   cfg.APIKey,
	}
}

func (a *GitHubAdapter) Info() SourceInfo {
	return SourceInfo{
		ID:        GitHub,
		Name:      "GitHub",
		Bucket:    BucketOf(GitHub),
		TTL:       CacheTTL(GitHub),
		RateLimit: a.client.cfg.RateLimit,
		IsKeyless: a.token == "",
	}
}

type githubSearchResult struct {
	Items []struct {
		Name            string    `json:"name"`
		FullName        string    `json:"full_name"`
		Description     string    `json:"description"`
		Language        string    `json:"language"`
		StargazersCount int       `json:"stargazers_count"`
		ForksCount      int       `json:"forks_count"`
		CreatedAt       time.Time `json:"created_at"`
	} `json:"items"`
}

// Fetch returns repositories matching query inside the time window.
func (a *GitHubAdapter) Fetch(ctx context.Context, query string, window TimeRange, maxItems int) ([]RawItem, error) {
	q := query
	if !window.From.IsZero() {
		q += " created:>=" + window.From.Format("2006-01-02")
	}
	u := fmt.Sprintf("%s/search/repositories?q=%s&sort=stars&order=desc&per_page=%d",
		a.baseURL, url.QueryEscape(q), maxItems)
	key := fmt.Sprintf("github:search:%s:%d", q, maxItems)

	header := http.Header{"Accept": []string{"application/vnd.github.v3+json"}}
	if a.token != "" {
		header.Set("Authorization", "token "+a.token)
	}

	var result githubSearchResult
	if err := a.client.GetJSON(ctx, key, u, header, &result); err != nil {
		return nil, err
	}

	items := make([]RawItem, 0, len(result.Items))
	for _, repo := range result.Items {
		if !window.Contains(repo.CreatedAt) {
			continue
		}
		items = append(items, Repo{
			Name:        repo.Name,
			FullName:    repo.FullName,
			Description: repo.Description,
			Language:    repo.Language,
			Stars:       repo.StargazersCount,
			Forks:       repo.ForksCount,
			Created:     repo.CreatedAt,
		})
		if len(items) >= maxItems {
			break
		}
	}
	return items, nil
}
