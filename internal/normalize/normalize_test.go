package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validationly/signalscan/internal/source"
)

func postAt(score int, at time.Time) source.RedditPost {
	return source.RedditPost{Title: "post", Upvotes: score, Posted: at}
}

func TestNormalizeSentimentSumsToOne(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	items := []source.RawItem{
		postAt(5, base),
		postAt(50, base.Add(time.Hour)),
		postAt(95, base.Add(2*time.Hour)),
		postAt(30, base.Add(3*time.Hour)),
	}

	sig := NewNormalizer().Normalize(source.Reddit, items, "billing")

	sum := sig.Sentiment.Positive + sig.Sentiment.Neutral + sig.Sentiment.Negative
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, 4, sig.Metrics.Volume)
	assert.GreaterOrEqual(t, sig.Metrics.Engagement, 0.0)
	assert.LessOrEqual(t, sig.Metrics.Engagement, 1.0)
}

func TestNormalizeSentimentMidpointSplit(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	// scores 0 and 100: midpoint 50, one positive, one negative
	items := []source.RawItem{
		postAt(0, base),
		postAt(100, base.Add(time.Hour)),
	}

	sig := NewNormalizer().Normalize(source.Reddit, items, "billing")

	assert.InDelta(t, 0.5, sig.Sentiment.Positive, 1e-9)
	assert.InDelta(t, 0.5, sig.Sentiment.Negative, 1e-9)
	assert.InDelta(t, 0.0, sig.Sentiment.Neutral, 1e-9)
}

func TestNormalizeUniformScoresDefaultSentiment(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	items := []source.RawItem{
		postAt(10, base),
		postAt(10, base.Add(time.Hour)),
		postAt(10, base.Add(2*time.Hour)),
	}

	sig := NewNormalizer().Normalize(source.Reddit, items, "billing")

	assert.InDelta(t, 0.33, sig.Sentiment.Positive, 1e-9)
	assert.InDelta(t, 0.34, sig.Sentiment.Neutral, 1e-9)
	assert.InDelta(t, 0.33, sig.Sentiment.Negative, 1e-9)
}

func TestNormalizeGrowthRateFromChronologicalHalves(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	// early half mean 10, late half mean 20: growth (20-10)/10 = 1.0
	items := []source.RawItem{
		postAt(10, base),
		postAt(10, base.Add(time.Hour)),
		postAt(20, base.Add(2*time.Hour)),
		postAt(20, base.Add(3*time.Hour)),
	}

	sig := NewNormalizer().Normalize(source.Reddit, items, "billing")
	assert.InDelta(t, 1.0, sig.Metrics.GrowthRate, 1e-9)
}

func TestNormalizeGrowthRateEarlyZero(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	items := []source.RawItem{
		postAt(0, base),
		postAt(40, base.Add(time.Hour)),
	}

	sig := NewNormalizer().Normalize(source.Reddit, items, "billing")
	assert.InDelta(t, 1.0, sig.Metrics.GrowthRate, 1e-9)
}

func TestNormalizeKeywordFallback(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	items := []source.RawItem{
		source.RedditPost{Title: "zzz qqq xxx", Upvotes: 3, Posted: base},
	}

	sig := NewNormalizer().Normalize(source.Reddit, items, "billing")
	assert.Equal(t, []string{"startup", "business", "innovation"}, sig.TopKeywords)
}

func TestNormalizeKeywordsFromVocabulary(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	items := []source.RawItem{
		source.RedditPost{Title: "saas billing automation", Body: "billing for saas", Upvotes: 12, Posted: base},
	}

	sig := NewNormalizer().Normalize(source.Reddit, items, "billing")

	require.NotEmpty(t, sig.TopKeywords)
	assert.LessOrEqual(t, len(sig.TopKeywords), 5)
	assert.Contains(t, sig.TopKeywords, "billing")
	assert.Contains(t, sig.TopKeywords, "saas")
	// billing occurs twice, so it ranks first
	assert.Equal(t, "billing", sig.TopKeywords[0])
}

func TestNormalizeQuotesCappedAndLabeled(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	items := []source.RawItem{
		postAt(5, base),
		postAt(90, base.Add(time.Hour)),
		postAt(70, base.Add(2*time.Hour)),
		postAt(10, base.Add(3*time.Hour)),
		postAt(80, base.Add(4*time.Hour)),
	}

	sig := NewNormalizer().Normalize(source.Reddit, items, "billing")

	require.Len(t, sig.Quotes, 3)
	assert.Equal(t, 90.0, sig.Quotes[0].Score)
	assert.Equal(t, "positive", sig.Quotes[0].Sentiment)
	assert.GreaterOrEqual(t, sig.Quotes[0].Score, sig.Quotes[1].Score)
	assert.GreaterOrEqual(t, sig.Quotes[1].Score, sig.Quotes[2].Score)
}

func TestFallbackSignal(t *testing.T) {
	sig := Fallback(source.YouTube)

	assert.Equal(t, source.YouTube, sig.SourceID)
	assert.True(t, sig.Fallback)
	assert.Equal(t, 0, sig.Metrics.Volume)
	assert.Equal(t, 0.0, sig.Metrics.Engagement)
	assert.Equal(t, 0.0, sig.Metrics.GrowthRate)
	assert.InDelta(t, 0.33, sig.Sentiment.Positive, 1e-9)
	assert.InDelta(t, 0.34, sig.Sentiment.Neutral, 1e-9)
	assert.InDelta(t, 0.33, sig.Sentiment.Negative, 1e-9)
	assert.Equal(t, []string{"startup", "business", "innovation"}, sig.TopKeywords)
}

func TestNormalizeEmptyListFallsBack(t *testing.T) {
	sig := NewNormalizer().Normalize(source.GitHub, nil, "billing")
	assert.True(t, sig.Fallback)
	assert.Equal(t, source.GitHub, sig.SourceID)
}

func TestExtractCoversAllVariants(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	items := []source.RawItem{
		source.RedditPost{Title: "a", Upvotes: 1, Posted: now},
		source.HNStory{Title: "b", Points: 2, Posted: now},
		source.Launch{Name: "c", Votes: 3, Posted: now},
		source.Repo{Name: "d", Stars: 4, Created: now},
		source.Question{Title: "e", Score: 5, Asked: now},
		source.Article{Title: "f", Mentions: 6, Published: now},
		source.Video{Title: "g", Views: 7, Published: now},
	}
	for _, item := range items {
		f := extract(item)
		assert.NotEmpty(t, f.text)
		assert.False(t, f.timestamp.IsZero())
	}
}
