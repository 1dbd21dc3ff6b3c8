package score

import (
	"math"

	"github.com/validationly/signalscan/internal/normalize"
	"github.com/validationly/signalscan/internal/source"
)

// SourceScore is the per-source breakdown of the Demand Index composite.
type SourceScore struct {
	SourceID   source.ID `json:"source_id"`
	Volume     int       `json:"volume"`
	Engagement int       `json:"engagement"`
	Growth     int       `json:"growth"`
	Sentiment  int       `json:"sentiment"`
	Diversity  int       `json:"diversity"`
	Total      int       `json:"total"`
}

// Result is the full output of the composite scorer.
type Result struct {
	DemandIndex   float64       `json:"demand_index"`
	PerSource     []SourceScore `json:"per_source"`
	Multiplier    float64       `json:"maturity_multiplier"`
	Opportunities []string      `json:"opportunities"`
	Risks         []string      `json:"risks"`
	MVPGuidance   []string      `json:"mvp_guidance"`
}

// Score computes the Demand Index and rule-based insight lists for one scan.
// The input order is preserved in the per-source breakdown. Empty input
// scores zero.
func Score(signals []normalize.SourceSignal) Result {
	if len(signals) == 0 {
		return Result{Multiplier: 1.0}
	}

	bucketCounts := make(map[source.Bucket]int)
	for _, sig := range signals {
		bucketCounts[source.BucketOf(sig.SourceID)]++
	}

	perSource := make([]SourceScore, 0, len(signals))
	var sum, totalVolume float64
	for _, sig := range signals {
		s := SourceScore{
			SourceID:   sig.SourceID,
			Volume:     volumeScore(sig.Metrics.Volume),
			Engagement: engagementScore(sig.Metrics.Engagement),
			Growth:     growthScore(sig.Metrics.GrowthRate),
			Sentiment:  sentimentScore(sig.Sentiment),
			Diversity:  diversityBonus(bucketCounts[source.BucketOf(sig.SourceID)]),
		}
		s.Total = s.Volume + s.Engagement + s.Growth + s.Sentiment + s.Diversity
		perSource = append(perSource, s)
		sum += float64(s.Total)
		totalVolume += float64(sig.Metrics.Volume)
	}

	mult := maturityMultiplier(totalVolume / float64(len(signals)))
	index := clamp(sum/(100*float64(len(signals)))*mult*100, 0, 100)

	return Result{
		DemandIndex:   index,
		PerSource:     perSource,
		Multiplier:    mult,
		Opportunities: opportunities(signals, index),
		Risks:         risks(signals),
		MVPGuidance:   mvpGuidance(signals, bucketCounts),
	}
}

// volumeScore maps raw item volume onto 0-20.
func volumeScore(v int) int {
	switch {
	case v >= 100:
		return 20
	case v >= 50:
		return 18
	case v >= 30:
		return 15
	case v >= 20:
		return 12
	case v >= 10:
		return 8
	case v >= 5:
		return 5
	default:
		return 2
	}
}

// engagementScore maps normalized engagement onto 8-25.
func engagementScore(e float64) int {
	switch {
	case e >= 0.8:
		return 25
	case e >= 0.6:
		return 22
	case e >= 0.4:
		return 18
	case e >= 0.3:
		return 15
	case e >= 0.2:
		return 12
	default:
		return 8
	}
}

// growthScore maps growth rate onto 0-20. Flat or declining sources score
// nothing.
func growthScore(g float64) int {
	switch {
	case g >= 0.5:
		return 20
	case g >= 0.3:
		return 16
	case g >= 0.2:
		return 12
	case g >= 0.1:
		return 8
	case g > 0:
		return 4
	default:
		return 0
	}
}

func sentimentScore(s normalize.Sentiment) int {
	return int(math.Round(20 * (0.7*s.Positive + 0.2*s.Neutral + 0.1*s.Negative)))
}

// diversityBonus rewards sources whose type bucket is sparsely covered.
func diversityBonus(sourcesInBucket int) int {
	switch sourcesInBucket {
	case 1:
		return 15
	case 2:
		return 10
	case 3:
		return 5
	default:
		return 0
	}
}

// maturityMultiplier dampens crowded markets and boosts nascent ones.
func maturityMultiplier(meanVolume float64) float64 {
	switch {
	case meanVolume > 100:
		return 0.9
	case meanVolume > 50:
		return 1.0
	case meanVolume > 20:
		return 1.1
	default:
		return 1.2
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
