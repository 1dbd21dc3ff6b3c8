package digest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validationly/signalscan/internal/normalize"
	"github.com/validationly/signalscan/internal/source"
)

func sig(id source.ID, topic string, vol int, eng, growth, pos, neg float64) normalize.SourceSignal {
	return normalize.SourceSignal{
		SourceID:    id,
		Summary:     "summary for " + topic,
		Sentiment:   normalize.Sentiment{Positive: pos, Neutral: 1 - pos - neg, Negative: neg},
		Metrics:     normalize.Metrics{Volume: vol, Engagement: eng, GrowthRate: growth},
		TopKeywords: []string{topic, "startup", "tool"},
		Quotes:      []normalize.Quote{{Text: "launch day for " + topic, Score: 10, Influence: 0.4, Sentiment: "positive"}},
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func allSevenSignals() []normalize.SourceSignal {
	return []normalize.SourceSignal{
		sig(source.Reddit, "billing", 40, 0.3, 0.2, 0.5, 0.2),
		sig(source.HackerNews, "billing", 25, 0.5, 0.4, 0.6, 0.1),
		sig(source.GitHub, "api", 60, 0.4, 0.1, 0.5, 0.2),
		sig(source.StackOverflow, "api", 30, 0.2, 0.0, 0.4, 0.3),
		sig(source.ProductHunt, "saas", 15, 0.7, 0.6, 0.7, 0.1),
		sig(source.GoogleNews, "fintech", 12, 0.3, 0.1, 0.4, 0.2),
		sig(source.YouTube, "automation", 20, 0.2, 0.3, 0.5, 0.2),
	}
}

func TestBuildTopSignalsSortedAndCapped(t *testing.T) {
	d := NewBuilder(WithClock(fixedClock())).Build(allSevenSignals(), "b2b saas")

	assert.LessOrEqual(t, len(d.TopSignals), 5)
	require.NotEmpty(t, d.TopSignals)
	for i := 1; i < len(d.TopSignals); i++ {
		assert.GreaterOrEqual(t, d.TopSignals[i-1].SignalScore, d.TopSignals[i].SignalScore)
	}
}

func TestBuildEightTopicsTruncateToFive(t *testing.T) {
	signals := []normalize.SourceSignal{
		sig(source.Reddit, "billing", 40, 0.3, 0.2, 0.5, 0.2),
		sig(source.HackerNews, "payments", 25, 0.5, 0.4, 0.6, 0.1),
		sig(source.GitHub, "api", 60, 0.4, 0.1, 0.5, 0.2),
		sig(source.StackOverflow, "webhooks", 30, 0.2, 0.0, 0.4, 0.3),
		sig(source.ProductHunt, "saas", 15, 0.7, 0.6, 0.7, 0.1),
		sig(source.GoogleNews, "fintech", 12, 0.3, 0.1, 0.4, 0.2),
		sig(source.YouTube, "automation", 20, 0.2, 0.3, 0.5, 0.2),
		sig(source.Reddit, "invoicing", 35, 0.4, 0.2, 0.5, 0.2),
	}
	d := NewBuilder(WithClock(fixedClock())).Build(signals, "b2b saas")

	require.Len(t, d.TopSignals, 5)
	for i := 1; i < len(d.TopSignals); i++ {
		assert.GreaterOrEqual(t, d.TopSignals[i-1].SignalScore, d.TopSignals[i].SignalScore)
	}
}

func TestBuildSARBounds(t *testing.T) {
	d := NewBuilder(WithClock(fixedClock())).Build(allSevenSignals(), "b2b saas")
	assert.GreaterOrEqual(t, d.SAR, 0)
	assert.LessOrEqual(t, d.SAR, 100)
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(WithClock(fixedClock()))
	first := b.Build(allSevenSignals(), "b2b saas")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, b.Build(allSevenSignals(), "b2b saas"))
	}
}

func TestBuildPlayTriggers(t *testing.T) {
	d := NewBuilder(WithClock(fixedClock())).Build(allSevenSignals(), "b2b saas")

	require.NotEmpty(t, d.Plays)
	assert.LessOrEqual(t, len(d.Plays), 3)

	types := map[PlayType]bool{}
	for _, p := range d.Plays {
		types[p.Type] = true
		assert.NotEmpty(t, p.Why)
		assert.NotEmpty(t, p.CTA)
		assert.Contains(t, p.Templates.EmailBody, "{name}")
	}
	// github+stackoverflow coverage triggers diligence,
	// reddit+hackernews coverage triggers sourcing
	assert.True(t, types[PlayDiligence])
	assert.True(t, types[PlaySourcing])
}

func TestBuildMarketMakingNeedsCatalyst(t *testing.T) {
	// producthunt with launch language in quotes: CPS = 2/3 > 0.5
	signals := []normalize.SourceSignal{
		sig(source.ProductHunt, "saas", 15, 0.7, 0.6, 0.7, 0.1),
	}
	d := NewBuilder(WithClock(fixedClock())).Build(signals, "b2b saas")

	require.Len(t, d.Plays, 1)
	assert.Equal(t, PlayMarketMaking, d.Plays[0].Type)
	assert.Equal(t, "high", d.Plays[0].Urgency)
}

func TestBuildRiskFlags(t *testing.T) {
	signals := []normalize.SourceSignal{
		sig(source.Reddit, "billing", 5, 0.3, 0.1, 0.2, 0.6),
	}
	d := NewBuilder(WithClock(fixedClock())).Build(signals, "b2b saas")

	require.Len(t, d.TopSignals, 1)
	assert.Contains(t, d.TopSignals[0].RiskFlags, "high_negative_sentiment")
	assert.Contains(t, d.TopSignals[0].RiskFlags, "low_signal_volume")
}

func TestBuildHorizonDaysFromLag(t *testing.T) {
	// youtube lag is 1440 minutes, exactly one day
	signals := []normalize.SourceSignal{
		sig(source.YouTube, "automation", 20, 0.2, 0.3, 0.5, 0.2),
	}
	d := NewBuilder(WithClock(fixedClock())).Build(signals, "b2b saas")
	assert.Equal(t, 1, d.HorizonDays)
}

func TestComputeArbitrageAttentionImbalance(t *testing.T) {
	socialOnly := []normalize.SourceSignal{
		sig(source.Reddit, "billing", 40, 0.3, 0.2, 0.5, 0.2),
	}
	m := ComputeArbitrage(socialOnly[0], socialOnly)
	assert.Equal(t, 1.0, m.AttentionImbalance)

	mediaOnly := []normalize.SourceSignal{
		sig(source.GoogleNews, "fintech", 12, 0.3, 0.1, 0.4, 0.2),
	}
	m = ComputeArbitrage(mediaOnly[0], mediaOnly)
	assert.Equal(t, 0.0, m.AttentionImbalance)

	mixed := []normalize.SourceSignal{
		sig(source.Reddit, "billing", 30, 0.3, 0.2, 0.5, 0.2),
		sig(source.GoogleNews, "fintech", 10, 0.3, 0.1, 0.4, 0.2),
	}
	m = ComputeArbitrage(mixed[0], mixed)
	assert.InDelta(t, 0.75, m.AttentionImbalance, 1e-9)
}

func TestComputeArbitrageBounds(t *testing.T) {
	signals := allSevenSignals()
	for _, s := range signals {
		m := ComputeArbitrage(s, signals)
		assert.GreaterOrEqual(t, m.MispricingGap, 0.0)
		assert.LessOrEqual(t, m.MispricingGap, 1.0)
		assert.GreaterOrEqual(t, m.SentimentVelocity, -1.0)
		assert.LessOrEqual(t, m.SentimentVelocity, 1.0)
		assert.GreaterOrEqual(t, m.InfluencerMomentum, 0.0)
		assert.LessOrEqual(t, m.InfluencerMomentum, 1.0)
		assert.GreaterOrEqual(t, m.NarrativeConcentration, 0.0)
		assert.LessOrEqual(t, m.NarrativeConcentration, 1.0)
		assert.GreaterOrEqual(t, m.CatalystProximity, 0.0)
		assert.LessOrEqual(t, m.CatalystProximity, 1.0)
		assert.GreaterOrEqual(t, m.Confidence, 0.0)
		assert.LessOrEqual(t, m.Confidence, 1.0)
	}
}

func TestNarrativeConcentration(t *testing.T) {
	assert.Equal(t, 0.0, narrativeConcentration(nil))
	assert.Equal(t, 1.0, narrativeConcentration([]string{"only"}))
	broad := narrativeConcentration([]string{"a", "b", "c", "d", "e"})
	narrow := narrativeConcentration([]string{"a", "b"})
	assert.Less(t, broad, narrow)
}

func TestCrossPlatformLagTable(t *testing.T) {
	assert.Equal(t, 0.0, lagMinutes(source.GitHub))
	assert.Equal(t, 60.0, lagMinutes(source.HackerNews))
	assert.Equal(t, 120.0, lagMinutes(source.Reddit))
	assert.Equal(t, 180.0, lagMinutes(source.StackOverflow))
	assert.Equal(t, 360.0, lagMinutes(source.ProductHunt))
	assert.Equal(t, 720.0, lagMinutes(source.GoogleNews))
	assert.Equal(t, 1440.0, lagMinutes(source.YouTube))
}
