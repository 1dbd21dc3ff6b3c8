package source

import (
	"context"
	"fmt"
	"time"
)

// ID identifies one of the seven supported external sources.
type ID string

const (
	Reddit        ID = "reddit"
	HackerNews    ID = "hackernews"
	ProductHunt   ID = "producthunt"
	GitHub        ID = "github"
	StackOverflow ID = "stackoverflow"
	GoogleNews    ID = "googlenews"
	YouTube       ID = "youtube"
)

// All lists every supported source in canonical order.
func All() []ID {
	return []ID{Reddit, HackerNews, ProductHunt, GitHub, StackOverflow, GoogleNews, YouTube}
}

// Known reports whether id is one of the seven supported sources.
func Known(id ID) bool {
	switch id {
	case Reddit, HackerNews, ProductHunt, GitHub, StackOverflow, GoogleNews, YouTube:
		return true
	}
	return false
}

// Bucket groups sources by the kind of attention they capture. The demand
// scorer uses buckets for its diversity bonus.
type Bucket string

const (
	BucketCommunity Bucket = "community"
	BucketDeveloper Bucket = "developer"
	BucketProduct   Bucket = "product"
	BucketMedia     Bucket = "media"
	BucketContent   Bucket = "content"
	BucketOther     Bucket = "other"
)

// BucketOf returns the type bucket for a source.
func BucketOf(id ID) Bucket {
	switch id {
	case Reddit, HackerNews:
		return BucketCommunity
	case GitHub, StackOverflow:
		return BucketDeveloper
	case ProductHunt:
		return BucketProduct
	case GoogleNews:
		return BucketMedia
	case YouTube:
		return BucketContent
	}
	return BucketOther
}

// CacheTTL returns how long fetched results for a source stay fresh.
func CacheTTL(id ID) time.Duration {
	switch id {
	case Reddit:
		return 3 * time.Hour
	case HackerNews, StackOverflow:
		return 6 * time.Hour
	case ProductHunt:
		return 8 * time.Hour
	case GoogleNews:
		return 2 * time.Hour
	case GitHub, YouTube:
		return 12 * time.Hour
	}
	return time.Hour
}

// TimeRange bounds a scan to items created inside [From, To].
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the range. A zero range admits
// everything.
func (r TimeRange) Contains(t time.Time) bool {
	if r.From.IsZero() && r.To.IsZero() {
		return true
	}
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// searchKey builds the cache key for a windowed search request. The window
// is part of the key because it is part of the upstream query.
func searchKey(prefix, query string, window TimeRange, maxItems int) string {
	return fmt.Sprintf("%s:%s:%d:%d:%d", prefix, query, window.From.Unix(), window.To.Unix(), maxItems)
}

// RateLimit defines outbound request pacing for a source.
type RateLimit struct {
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `json:"burst" yaml:"burst"`
}

// SourceInfo describes a source adapter to the rest of the engine.
type SourceInfo struct {
	ID        ID            `json:"id"`
	Name      string        `json:"name"`
	Bucket    Bucket        `json:"bucket"`
	TTL       time.Duration `json:"ttl"`
	RateLimit RateLimit     `json:"rate_limit"`
	IsKeyless bool          `json:"is_keyless"`
}

// Adapter fetches raw items from a single external source. Implementations
// return transport and parsing failures as errors; the scanner converts them
// into neutral fallback signals.
type Adapter interface {
	Fetch(ctx context.Context, query string, window TimeRange, maxItems int) ([]RawItem, error)
	Info() SourceInfo
}

// Registry maps source IDs to constructed adapters.
type Registry map[ID]Adapter

// Get returns the adapter for id or an error naming the unknown source.
func (r Registry) Get(id ID) (Adapter, error) {
	a, ok := r[id]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for source %q", id)
	}
	return a, nil
}
