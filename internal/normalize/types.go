package normalize

import "github.com/validationly/signalscan/internal/source"

// Sentiment is the positive/neutral/negative distribution over a source's
// items. The three fractions sum to 1.
type Sentiment struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// Metrics holds the normalized quantitative fields of a source signal.
type Metrics struct {
	Volume     int     `json:"volume"`
	Engagement float64 `json:"engagement"`
	GrowthRate float64 `json:"growth_rate"`
}

// Quote is a short representative excerpt with its inferred sentiment label.
type Quote struct {
	Text      string  `json:"text"`
	Author    string  `json:"author,omitempty"`
	Score     float64 `json:"score"`
	Influence float64 `json:"influence"`
	Sentiment string  `json:"sentiment"`
}

// ArbitrageMetrics is the per-source information-arbitrage block the digest
// builder derives after normalization.
type ArbitrageMetrics struct {
	AttentionImbalance     float64 `json:"attention_imbalance"`
	CrossPlatformLagMin    float64 `json:"cross_platform_lag_min"`
	SentimentVelocity      float64 `json:"sentiment_velocity"`
	InfluencerMomentum     float64 `json:"influencer_momentum"`
	NarrativeConcentration float64 `json:"narrative_concentration"`
	CatalystProximity      float64 `json:"catalyst_proximity"`
	MispricingGap          float64 `json:"mispricing_gap"`
	EdgeType               string  `json:"edge_type"`
	Confidence             float64 `json:"confidence"`
}

// SourceSignal is the uniform per-source record every scan produces, exactly
// one per requested source whether the fetch succeeded or not.
type SourceSignal struct {
	SourceID    source.ID         `json:"source_id"`
	Summary     string            `json:"summary"`
	Sentiment   Sentiment         `json:"sentiment"`
	Metrics     Metrics           `json:"metrics"`
	TopKeywords []string          `json:"top_keywords"`
	Quotes      []Quote           `json:"representative_quotes"`
	Arbitrage   *ArbitrageMetrics `json:"arbitrage,omitempty"`
	Fallback    bool              `json:"fallback,omitempty"`
}
