package source

import (
	"context"
	"fmt"
	"time"
)

// FakeAdapter is a deterministic in-memory adapter with configurable
// responses. Tests use it to drive the scanner without network access.
type FakeAdapter struct {
	id         ID
	items      []RawItem
	shouldFail bool
}

// NewFakeAdapter creates a fake adapter seeded with a small deterministic
// item set matching the shape of sourceID.
func NewFakeAdapter(sourceID ID) *FakeAdapter {
	return &FakeAdapter{
		id:    sourceID,
		items: seedItems(sourceID),
	}
}

// SetFailure makes subsequent Fetch calls return an error.
func (f *FakeAdapter) SetFailure(fail bool) { f.shouldFail = fail }

// SetItems replaces the canned response.
func (f *FakeAdapter) SetItems(items []RawItem) { f.items = items }

func (f *FakeAdapter) Info() SourceInfo {
	return SourceInfo{
		ID:        f.id,
		Name:      fmt.Sprintf("Fake %s", f.id),
		Bucket:    BucketOf(f.id),
		TTL:       CacheTTL(f.id),
		RateLimit: RateLimit{RequestsPerSecond: 10, Burst: 20},
		IsKeyless: true,
	}
}

func (f *FakeAdapter) Fetch(ctx context.Context, query string, window TimeRange, maxItems int) ([]RawItem, error) {
	if f.shouldFail {
		return nil, fmt.Errorf("fake %s: simulated failure", f.id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if maxItems > 0 && len(f.items) > maxItems {
		return f.items[:maxItems], nil
	}
	return f.items, nil
}

func seedItems(sourceID ID) []RawItem {
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	switch sourceID {
	case Reddit:
		return []RawItem{
			RedditPost{Title: "Anyone else struggling with invoice tools?", Subreddit: "smallbusiness", Author: "ops_owl", Upvotes: 42, Comments: 18, Posted: base},
			RedditPost{Title: "Built a side project for tracking expenses", Subreddit: "startups", Author: "ledger_dan", Upvotes: 87, Comments: 31, Posted: base.Add(48 * time.Hour)},
		}
	case HackerNews:
		return []RawItem{
			HNStory{Title: "Show HN: Open source billing engine", Author: "pg_fan", Points: 120, Comments: 64, Posted: base},
			HNStory{Title: "Why subscription billing is still broken", Author: "saas_vet", Points: 95, Comments: 48, Posted: base.Add(72 * time.Hour)},
		}
	case ProductHunt:
		return []RawItem{
			Launch{Name: "BillFlow", Tagline: "Invoicing that runs itself", Maker: "maya", Votes: 310, Comments: 25, Posted: base},
		}
	case GitHub:
		return []RawItem{
			Repo{Name: "ledgerkit", FullName: "acme/ledgerkit", Description: "Double-entry bookkeeping library", Language: "Go", Stars: 540, Forks: 62, Created: base},
		}
	case StackOverflow:
		return []RawItem{
			Question{Title: "How to reconcile payment webhooks reliably?", Tags: []string{"payments", "webhooks"}, Score: 34, Answers: 5, Views: 4200, Asked: base},
		}
	case GoogleNews:
		return []RawItem{
			Article{Title: "Fintech startups race to automate invoicing", Outlet: "TechWire", Mentions: 3, Published: base},
		}
	case YouTube:
		return []RawItem{
			Video{Title: "I automated my entire billing stack", Channel: "DevOps Diaries", Views: 18500, Likes: 920, Published: base},
		}
	default:
		return nil
	}
}
