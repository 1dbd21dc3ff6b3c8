package score

import (
	"fmt"
	"sort"

	"github.com/validationly/signalscan/internal/normalize"
	"github.com/validationly/signalscan/internal/source"
)

// insight is a candidate line with a significance weight used for ranking.
// Equal weights keep input order, so output is deterministic.
type insight struct {
	weight float64
	text   string
}

func rank(candidates []insight, limit int) []string {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].weight > candidates[j].weight
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.text
	}
	return out
}

const (
	maxOpportunities = 8
	maxRisks         = 6
	maxMVPGuidance   = 8
)

func opportunities(signals []normalize.SourceSignal, index float64) []string {
	var c []insight
	for _, sig := range signals {
		m := sig.Metrics
		if m.Volume >= 100 {
			c = append(c, insight{float64(m.Volume), fmt.Sprintf("High discussion volume on %s (%d items) indicates active demand", sig.SourceID, m.Volume)})
		}
		if m.GrowthRate >= 0.3 {
			c = append(c, insight{50 + m.GrowthRate*100, fmt.Sprintf("Interest on %s is accelerating (%.0f%% recent growth)", sig.SourceID, m.GrowthRate*100)})
		}
		if m.Engagement >= 0.6 {
			c = append(c, insight{40 + m.Engagement*50, fmt.Sprintf("Strong engagement on %s suggests a committed audience", sig.SourceID)})
		}
		if sig.Sentiment.Positive >= 0.5 && m.Volume >= 10 {
			c = append(c, insight{30 + sig.Sentiment.Positive*40, fmt.Sprintf("Sentiment on %s skews positive (%.0f%%)", sig.SourceID, sig.Sentiment.Positive*100)})
		}
	}
	if index >= 70 {
		c = append(c, insight{200, fmt.Sprintf("Overall demand index of %.0f signals a validated market need", index)})
	}
	return rank(c, maxOpportunities)
}

func risks(signals []normalize.SourceSignal) []string {
	var c []insight
	var totalVolume int
	for _, sig := range signals {
		m := sig.Metrics
		totalVolume += m.Volume
		if sig.Fallback {
			c = append(c, insight{90, fmt.Sprintf("No usable data from %s; coverage is incomplete", sig.SourceID)})
			continue
		}
		if m.Volume < 10 {
			c = append(c, insight{70, fmt.Sprintf("Thin evidence from %s (%d items)", sig.SourceID, m.Volume)})
		}
		if sig.Sentiment.Negative >= 0.4 {
			c = append(c, insight{60 + sig.Sentiment.Negative*40, fmt.Sprintf("Negative sentiment dominates on %s (%.0f%%)", sig.SourceID, sig.Sentiment.Negative*100)})
		}
		if m.GrowthRate < 0 {
			c = append(c, insight{50 - m.GrowthRate*50, fmt.Sprintf("Interest on %s is declining (%.0f%%)", sig.SourceID, m.GrowthRate*100)})
		}
	}
	if len(signals) > 0 && totalVolume/len(signals) > 100 {
		c = append(c, insight{80, "Mean volume above 100 suggests a crowded, mature market"})
	}
	return rank(c, maxRisks)
}

func mvpGuidance(signals []normalize.SourceSignal, buckets map[source.Bucket]int) []string {
	var c []insight
	if buckets[source.BucketDeveloper] > 0 {
		c = append(c, insight{80, "Developer channels are active: lead with an API or CLI surface"})
	}
	if buckets[source.BucketProduct] > 0 {
		c = append(c, insight{70, "Launch-platform presence: plan a Product Hunt style launch early"})
	}
	if buckets[source.BucketCommunity] > 0 {
		c = append(c, insight{60, "Community discussion exists: recruit beta users from those threads"})
	}
	for _, sig := range signals {
		m := sig.Metrics
		if m.Engagement >= 0.6 && m.Volume < 30 {
			c = append(c, insight{65, fmt.Sprintf("Niche but engaged audience on %s: scope a narrow first release", sig.SourceID)})
		}
		if m.GrowthRate >= 0.5 {
			c = append(c, insight{75, fmt.Sprintf("Rapid growth on %s: prioritize speed to market over breadth", sig.SourceID)})
		}
		if len(sig.TopKeywords) > 0 && !sig.Fallback {
			c = append(c, insight{30, fmt.Sprintf("Center %s messaging on %q", sig.SourceID, sig.TopKeywords[0])})
		}
	}
	return rank(c, maxMVPGuidance)
}
