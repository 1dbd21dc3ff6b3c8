package digest

import (
	"math"
	"strings"

	"github.com/validationly/signalscan/internal/normalize"
	"github.com/validationly/signalscan/internal/source"
)

// crossPlatformLag estimates how many minutes a story needs to travel from
// this source to mainstream coverage. Developers see things first.
var crossPlatformLag = map[source.ID]float64{
	source.GitHub:        0,
	source.HackerNews:    60,
	source.Reddit:        120,
	source.StackOverflow: 180,
	source.ProductHunt:   360,
	source.GoogleNews:    720,
	source.YouTube:       1440,
}

// authorityWeight scales engagement into influencer momentum.
var authorityWeight = map[source.ID]float64{
	source.HackerNews:    0.9,
	source.GitHub:        0.85,
	source.StackOverflow: 0.8,
	source.ProductHunt:   0.75,
	source.Reddit:        0.7,
	source.YouTube:       0.65,
	source.GoogleNews:    0.6,
}

var socialSources = map[source.ID]bool{
	source.Reddit: true, source.HackerNews: true,
	source.GitHub: true, source.StackOverflow: true,
}

var mediaSources = map[source.ID]bool{
	source.GoogleNews: true, source.YouTube: true,
}

// ComputeArbitrage derives the information-arbitrage block for one signal in
// the context of the whole scan.
func ComputeArbitrage(sig normalize.SourceSignal, all []normalize.SourceSignal) normalize.ArbitrageMetrics {
	aii := attentionImbalance(all)
	lag := lagMinutes(sig.SourceID)
	sv := clampRange(sig.Sentiment.Positive-sig.Sentiment.Negative, -1, 1)
	iwm := math.Min(1, authorityFor(sig.SourceID)*sig.Metrics.Engagement)
	nc := narrativeConcentration(sig.TopKeywords)
	cps := catalystProximity(sig)
	mg := clampRange(0.4*aii+0.3*math.Min(1, lag/1440)+0.2*iwm+0.1*cps, 0, 1)

	return normalize.ArbitrageMetrics{
		AttentionImbalance:     aii,
		CrossPlatformLagMin:    lag,
		SentimentVelocity:      sv,
		InfluencerMomentum:     iwm,
		NarrativeConcentration: nc,
		CatalystProximity:      cps,
		MispricingGap:          mg,
		EdgeType:               edgeType(sig.SourceID, aii, cps, sv),
		Confidence:             confidence(sig),
	}
}

// Attach computes and sets the arbitrage block on every signal in place.
func Attach(signals []normalize.SourceSignal) {
	for i := range signals {
		m := ComputeArbitrage(signals[i], signals)
		signals[i].Arbitrage = &m
	}
}

// attentionImbalance compares social volume against media volume across the
// whole scan. No media coverage at all is maximal imbalance.
func attentionImbalance(all []normalize.SourceSignal) float64 {
	var social, media float64
	for _, s := range all {
		switch {
		case socialSources[s.SourceID]:
			social += float64(s.Metrics.Volume)
		case mediaSources[s.SourceID]:
			media += float64(s.Metrics.Volume)
		}
	}
	if media == 0 {
		return 1
	}
	if social == 0 {
		return 0
	}
	return clampRange(social/(social+media), 0, 1)
}

func lagMinutes(id source.ID) float64 {
	if lag, ok := crossPlatformLag[id]; ok {
		return lag
	}
	return 360
}

func authorityFor(id source.ID) float64 {
	if w, ok := authorityWeight[id]; ok {
		return w
	}
	return 0.5
}

// narrativeConcentration is a Herfindahl index over the keyword list using
// rank-decayed shares, so one dominant keyword reads as a concentrated
// narrative and a broad list as a diffuse one.
func narrativeConcentration(keywords []string) float64 {
	n := len(keywords)
	if n == 0 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		total += float64(n - i)
	}
	var h float64
	for i := 0; i < n; i++ {
		share := float64(n-i) / total
		h += share * share
	}
	return clampRange(h, 0, 1)
}

// catalystProximity counts launch indicators: being a launch platform, an
// actively growing repo source, and launch language in the quotes.
func catalystProximity(sig normalize.SourceSignal) float64 {
	count := 0
	if sig.SourceID == source.ProductHunt {
		count++
	}
	if sig.SourceID == source.GitHub && sig.Metrics.Volume > 10 {
		count++
	}
	for _, q := range sig.Quotes {
		text := strings.ToLower(q.Text)
		if strings.Contains(text, "launch") || strings.Contains(text, "release") || strings.Contains(text, "announce") {
			count++
			break
		}
	}
	return math.Min(1, float64(count)/3)
}

func edgeType(id source.ID, aii, cps, sv float64) string {
	if aii > 0.6 && sv > 0.2 {
		return "content"
	}
	if cps > 0.5 && (id == source.GitHub || id == source.ProductHunt || id == source.StackOverflow) {
		return "product"
	}
	if aii > 0.4 && cps > 0.3 {
		return "distribution"
	}
	return "none"
}

// confidence averages four data-quality factors.
func confidence(sig normalize.SourceSignal) float64 {
	factors := 0
	if sig.Metrics.Volume > 5 {
		factors++
	}
	if len(sig.Quotes) > 0 {
		factors++
	}
	if len(sig.TopKeywords) >= 3 {
		factors++
	}
	if sig.Sentiment.Positive+sig.Sentiment.Negative > 0.5 {
		factors++
	}
	return float64(factors) / 4
}

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
