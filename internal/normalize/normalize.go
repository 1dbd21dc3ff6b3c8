package normalize

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/validationly/signalscan/internal/source"
)

// Normalizer converts each adapter's raw output into a SourceSignal. One code
// path serves all sources; the per-source shape differences live in the
// extract function below.
type Normalizer struct{}

func NewNormalizer() *Normalizer { return &Normalizer{} }

// DefaultKeywords is used when item text overlaps nothing in the vocabulary.
var DefaultKeywords = []string{"startup", "business", "innovation"}

// vocabulary is the fixed set of domain terms keyword extraction matches
// against. Salience is occurrence count across item text.
var vocabulary = []string{
	"ai", "analytics", "api", "automation", "billing", "cloud", "community",
	"crm", "dashboard", "data", "developer", "ecommerce", "fintech",
	"infrastructure", "integration", "invoice", "marketing", "marketplace",
	"mobile", "monitoring", "nocode", "onboarding", "open source", "payments",
	"platform", "pricing", "privacy", "productivity", "saas", "security",
	"startup", "subscription", "tool", "workflow",
}

// engagementDenominator scales mean native score into [0,1]. Vote-like
// scores divide by 100, star counts by 1000, view counts by 10000, mention
// counts by 10.
func engagementDenominator(id source.ID) float64 {
	switch id {
	case source.GitHub:
		return 1000
	case source.GoogleNews:
		return 10
	case source.YouTube:
		return 10000
	}
	return 100
}

// rawFields is the uniform view of one raw item.
type rawFields struct {
	text      string
	author    string
	score     float64
	timestamp time.Time
}

// extract maps each concrete item variant to the uniform field view. The
// item set is closed; an unknown variant is a programming error.
func extract(item source.RawItem) rawFields {
	switch v := item.(type) {
	case source.RedditPost:
		return rawFields{text: v.Title + " " + v.Body, author: v.Author, score: float64(v.Upvotes), timestamp: v.Posted}
	case source.HNStory:
		return rawFields{text: v.Title, author: v.Author, score: float64(v.Points), timestamp: v.Posted}
	case source.Launch:
		return rawFields{text: v.Name + " " + v.Tagline, author: v.Maker, score: float64(v.Votes), timestamp: v.Posted}
	case source.Repo:
		return rawFields{text: v.Name + " " + v.Description, author: v.FullName, score: float64(v.Stars), timestamp: v.Created}
	case source.Question:
		return rawFields{text: v.Title + " " + v.Body + " " + strings.Join(v.Tags, " "), score: float64(v.Score), timestamp: v.Asked}
	case source.Article:
		return rawFields{text: v.Title + " " + v.Snippet, author: v.Outlet, score: float64(v.Mentions), timestamp: v.Published}
	case source.Video:
		return rawFields{text: v.Title + " " + v.Description, author: v.Channel, score: float64(v.Views), timestamp: v.Published}
	}
	panic(fmt.Sprintf("normalize: unknown raw item %T", item))
}

// Normalize produces the SourceSignal for one source's raw items. Callers
// pass the fetch result as-is; an empty list should instead go through
// Fallback.
func (n *Normalizer) Normalize(id source.ID, items []source.RawItem, query string) SourceSignal {
	if len(items) == 0 {
		return Fallback(id)
	}

	fields := make([]rawFields, len(items))
	for i, item := range items {
		fields[i] = extract(item)
	}

	sentiment, labels := splitSentiment(fields)
	denom := engagementDenominator(id)

	return SourceSignal{
		SourceID:  id,
		Summary:   fmt.Sprintf("%d %s items matching %q, avg score %.1f", len(fields), id, query, meanScore(fields)),
		Sentiment: sentiment,
		Metrics: Metrics{
			Volume:     len(fields),
			Engagement: clamp01(meanScore(fields) / denom),
			GrowthRate: growthRate(fields),
		},
		TopKeywords: extractKeywords(fields),
		Quotes:      topQuotes(fields, labels, denom),
	}
}

// Fallback returns the neutral signal substituted for a source that errored
// or returned nothing.
func Fallback(id source.ID) SourceSignal {
	return SourceSignal{
		SourceID:    id,
		Summary:     fmt.Sprintf("no data available from %s", id),
		Sentiment:   Sentiment{Positive: 0.33, Neutral: 0.34, Negative: 0.33},
		Metrics:     Metrics{Volume: 0, Engagement: 0, GrowthRate: 0},
		TopKeywords: append([]string(nil), DefaultKeywords...),
		Fallback:    true,
	}
}

// splitSentiment bisects items around the midpoint of the observed score
// range: above counts positive, below negative, on the midpoint neutral.
// A uniform score list carries no signal and defaults to near-neutral.
func splitSentiment(fields []rawFields) (Sentiment, []string) {
	labels := make([]string, len(fields))
	min, max := fields[0].score, fields[0].score
	for _, f := range fields[1:] {
		if f.score < min {
			min = f.score
		}
		if f.score > max {
			max = f.score
		}
	}
	if min == max {
		for i := range labels {
			labels[i] = "neutral"
		}
		return Sentiment{Positive: 0.33, Neutral: 0.34, Negative: 0.33}, labels
	}

	mid := (max + min) / 2
	var pos, neg int
	for i, f := range fields {
		switch {
		case f.score > mid:
			pos++
			labels[i] = "positive"
		case f.score < mid:
			neg++
			labels[i] = "negative"
		default:
			labels[i] = "neutral"
		}
	}
	n := float64(len(fields))
	p := float64(pos) / n
	g := float64(neg) / n
	return Sentiment{Positive: p, Neutral: 1 - p - g, Negative: g}, labels
}

// growthRate compares the mean native score of the chronologically later
// half against the earlier half.
func growthRate(fields []rawFields) float64 {
	if len(fields) < 2 {
		return 0
	}
	sorted := append([]rawFields(nil), fields...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].timestamp.Before(sorted[j].timestamp)
	})

	half := len(sorted) / 2
	early := meanScore(sorted[:half])
	late := meanScore(sorted[half:])
	if early == 0 {
		if late > 0 {
			return 1
		}
		return 0
	}
	return (late - early) / early
}

// extractKeywords intersects item text with the fixed vocabulary, most
// frequent first, at most five.
func extractKeywords(fields []rawFields) []string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(strings.ToLower(f.text))
		b.WriteByte(' ')
	}
	text := b.String()

	counts := make(map[string]int)
	for _, term := range vocabulary {
		if n := strings.Count(text, term); n > 0 {
			counts[term] = n
		}
	}
	if len(counts) == 0 {
		return append([]string(nil), DefaultKeywords...)
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > 5 {
		terms = terms[:5]
	}
	return terms
}

// topQuotes picks the highest-scoring items as representative excerpts.
func topQuotes(fields []rawFields, labels []string, denom float64) []Quote {
	type indexed struct {
		i int
		f rawFields
	}
	ranked := make([]indexed, len(fields))
	for i, f := range fields {
		ranked[i] = indexed{i, f}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].f.score > ranked[b].f.score
	})

	limit := 3
	if len(ranked) < limit {
		limit = len(ranked)
	}
	quotes := make([]Quote, 0, limit)
	for _, r := range ranked[:limit] {
		quotes = append(quotes, Quote{
			Text:      truncate(r.f.text, 200),
			Author:    r.f.author,
			Score:     r.f.score,
			Influence: clamp01(r.f.score / denom),
			Sentiment: labels[r.i],
		})
	}
	return quotes
}

func meanScore(fields []rawFields) float64 {
	if len(fields) == 0 {
		return 0
	}
	var sum float64
	for _, f := range fields {
		sum += f.score
	}
	return sum / float64(len(fields))
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return cut + "..."
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
