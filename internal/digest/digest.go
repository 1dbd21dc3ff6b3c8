package digest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/validationly/signalscan/internal/normalize"
	"github.com/validationly/signalscan/internal/score"
	"github.com/validationly/signalscan/internal/source"
)

// Evidence is the per-source backing of a signal.
type Evidence struct {
	Source     source.ID `json:"source"`
	Summary    string    `json:"summary"`
	Volume     int       `json:"volume"`
	Engagement float64   `json:"engagement"`
	GrowthRate float64   `json:"growth_rate"`
	TopQuote   string    `json:"top_quote,omitempty"`
}

// Signal is a topic-grouped aggregate across sources.
type Signal struct {
	Title         string                     `json:"title"`
	SignalScore   float64                    `json:"signal_score"`
	DemandIndex   float64                    `json:"demand_index"`
	Arbitrage     normalize.ArbitrageMetrics `json:"arbitrage"`
	Evidence      []Evidence                 `json:"evidence"`
	Sources       []source.ID                `json:"sources"`
	RiskFlags     []string                   `json:"risk_flags"`
	Notes         []string                   `json:"notes"`
	Novelty       float64                    `json:"novelty_score"`
	CrossEvidence float64                    `json:"cross_evidence_score"`
}

// PlayType classifies an actionable play.
type PlayType string

const (
	PlayDiligence    PlayType = "diligence"
	PlaySourcing     PlayType = "sourcing"
	PlayMarketMaking PlayType = "market_making"
)

// Templates carry outreach message drafts. {name} and {project} placeholders
// are substituted by the caller.
type Templates struct {
	EmailSubject    string `json:"email_subject"`
	EmailBody       string `json:"email_body"`
	LinkedInMessage string `json:"linkedin_message"`
}

// ActionablePlay is an investor-facing next step derived from the signals.
type ActionablePlay struct {
	Type        PlayType  `json:"type"`
	Where       string    `json:"where"`
	Why         string    `json:"why"`
	CTA         string    `json:"cta"`
	Urgency     string    `json:"urgency"`
	WindowHours int       `json:"estimated_window_hours"`
	Templates   Templates `json:"templates"`
}

// Summary condenses a digest to a few reader-facing lines.
type Summary struct {
	OneLiner     string   `json:"one_liner"`
	TopTakeaways []string `json:"top_takeaways"`
	Risks        []string `json:"risks"`
	Confidence   float64  `json:"confidence"`
}

// SourceStat is one row of the appendix.
type SourceStat struct {
	Volume            int     `json:"volume"`
	Engagement        float64 `json:"engagement"`
	GrowthRate        float64 `json:"growth_rate"`
	SentimentPositive float64 `json:"sentiment_positive"`
}

// Appendix holds per-source stats and methodology notes.
type Appendix struct {
	SourceStats      map[source.ID]SourceStat `json:"source_stats"`
	MethodologyNotes []string                 `json:"methodology_notes"`
}

// Digest is the full signal digest for a category scan.
type Digest struct {
	Category    string           `json:"category"`
	SAR         int              `json:"sar"`
	HorizonDays int              `json:"horizon_days"`
	Summary     Summary          `json:"summary"`
	TopSignals  []Signal         `json:"top_signals"`
	Plays       []ActionablePlay `json:"plays"`
	Appendix    Appendix         `json:"appendix"`
	Notes       []string         `json:"notes"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Builder turns a set of normalized signals into a digest.
type Builder struct {
	now func() time.Time
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build groups signals by dominant keyword, scores each topic, and emits the
// top five with plays and an overall Social-Arbitrage Rating. Signals missing
// an arbitrage block get one computed in place.
func (b *Builder) Build(signals []normalize.SourceSignal, category string) Digest {
	Attach(signals)

	topics := groupByTopic(signals)
	ranked := make([]Signal, 0, len(topics.order))
	for _, topic := range topics.order {
		ranked = append(ranked, buildSignal(topic, topics.groups[topic]))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SignalScore > ranked[j].SignalScore
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}

	sar := overallSAR(signals)
	plays := buildPlays(ranked, category)

	log.Info().Str("category", category).Int("sar", sar).
		Int("signals", len(ranked)).Int("plays", len(plays)).
		Msg("digest built")

	return Digest{
		Category:    category,
		SAR:         sar,
		HorizonDays: horizonDays(signals),
		Summary:     summarize(ranked, plays, sar),
		TopSignals:  ranked,
		Plays:       plays,
		Appendix:    buildAppendix(signals),
		Notes: []string{
			"APIs/RSS only. No scraping.",
			"Signal scores use arbitrage metrics for early opportunity detection.",
		},
		CreatedAt: b.now().UTC(),
	}
}

// topicGroups preserves first-seen topic order so output is deterministic.
type topicGroups struct {
	order  []string
	groups map[string][]normalize.SourceSignal
}

func groupByTopic(signals []normalize.SourceSignal) topicGroups {
	t := topicGroups{groups: make(map[string][]normalize.SourceSignal)}
	for _, sig := range signals {
		topic := string(sig.SourceID)
		if len(sig.TopKeywords) > 0 {
			topic = sig.TopKeywords[0]
		}
		if _, seen := t.groups[topic]; !seen {
			t.order = append(t.order, topic)
		}
		t.groups[topic] = append(t.groups[topic], sig)
	}
	return t
}

func buildSignal(topic string, group []normalize.SourceSignal) Signal {
	di := score.Score(group).DemandIndex

	var mg, iwm, totalVolume float64
	agg := normalize.ArbitrageMetrics{}
	for _, sig := range group {
		a := sig.Arbitrage
		mg += a.MispricingGap
		iwm += a.InfluencerMomentum
		totalVolume += float64(sig.Metrics.Volume)
		agg.AttentionImbalance += a.AttentionImbalance
		agg.CrossPlatformLagMin += a.CrossPlatformLagMin
		agg.SentimentVelocity += a.SentimentVelocity
		agg.NarrativeConcentration += a.NarrativeConcentration
		agg.CatalystProximity += a.CatalystProximity
		agg.Confidence += a.Confidence
	}
	n := float64(len(group))
	mg /= n
	iwm /= n
	agg.AttentionImbalance /= n
	agg.CrossPlatformLagMin /= n
	agg.SentimentVelocity /= n
	agg.NarrativeConcentration /= n
	agg.CatalystProximity /= n
	agg.Confidence /= n
	agg.MispricingGap = mg
	agg.InfluencerMomentum = iwm
	agg.EdgeType = aggregateEdgeType(mg, iwm)

	novelty := math.Max(0, 1-norm(totalVolume, 0, 5000))
	crossEvidence := math.Min(1, n/7)
	signalScore := 100 * (0.40*norm(di, 0, 100) + 0.25*mg + 0.15*iwm + 0.10*novelty + 0.10*crossEvidence)

	return Signal{
		Title:         signalTitle(topic, group),
		SignalScore:   math.Round(signalScore*10) / 10,
		DemandIndex:   math.Round(di),
		Arbitrage:     agg,
		Evidence:      buildEvidence(group),
		Sources:       sourcesOf(group),
		RiskFlags:     riskFlags(group),
		Notes:         signalNotes(group),
		Novelty:       novelty,
		CrossEvidence: crossEvidence,
	}
}

func aggregateEdgeType(mg, iwm float64) string {
	switch {
	case mg > 0.6 && iwm > 0.6:
		return "content"
	case mg > 0.5 && iwm > 0.4:
		return "distribution"
	case mg > 0.4:
		return "product"
	}
	return "none"
}

func signalTitle(topic string, group []normalize.SourceSignal) string {
	lead := group[0]
	for _, sig := range group[1:] {
		if sig.Metrics.Volume > lead.Metrics.Volume {
			lead = sig
		}
	}
	direction := "decline"
	if lead.Metrics.GrowthRate > 0 {
		direction = "surge"
	}
	noun := "source"
	if len(group) != 1 {
		noun = "sources"
	}
	return fmt.Sprintf("%s %s across %d %s", topic, direction, len(group), noun)
}

func buildEvidence(group []normalize.SourceSignal) []Evidence {
	out := make([]Evidence, 0, len(group))
	for _, sig := range group {
		e := Evidence{
			Source:     sig.SourceID,
			Summary:    sig.Summary,
			Volume:     sig.Metrics.Volume,
			Engagement: sig.Metrics.Engagement,
			GrowthRate: sig.Metrics.GrowthRate,
		}
		if len(sig.Quotes) > 0 {
			e.TopQuote = sig.Quotes[0].Text
		}
		out = append(out, e)
	}
	return out
}

func sourcesOf(group []normalize.SourceSignal) []source.ID {
	out := make([]source.ID, 0, len(group))
	for _, sig := range group {
		out = append(out, sig.SourceID)
	}
	return out
}

func riskFlags(group []normalize.SourceSignal) []string {
	var flags []string
	var negSum float64
	lowVolume := false
	for _, sig := range group {
		negSum += sig.Sentiment.Negative
		if sig.Metrics.Volume < 10 {
			lowVolume = true
		}
	}
	if negSum/float64(len(group)) > 0.3 {
		flags = append(flags, "high_negative_sentiment")
	}
	if lowVolume {
		flags = append(flags, "low_signal_volume")
	}
	return flags
}

func signalNotes(group []normalize.SourceSignal) []string {
	var notes []string
	hasNews, hasGitHub := false, false
	for _, sig := range group {
		if sig.SourceID == source.GoogleNews {
			hasNews = true
		}
		if sig.SourceID == source.GitHub {
			hasGitHub = true
		}
	}
	if !hasNews {
		notes = append(notes, "Low news coverage suggests high attention-imbalance potential")
	}
	if hasGitHub {
		notes = append(notes, "Active development signals detected")
	}
	return notes
}

// overallSAR is the Social-Arbitrage Rating across all scanned sources.
func overallSAR(signals []normalize.SourceSignal) int {
	if len(signals) == 0 {
		return 0
	}
	var mg, iwm, sv, cps, nc float64
	for _, sig := range signals {
		a := sig.Arbitrage
		mg += a.MispricingGap
		iwm += a.InfluencerMomentum
		sv += math.Max(0, a.SentimentVelocity)
		cps += a.CatalystProximity
		nc += a.NarrativeConcentration
	}
	n := float64(len(signals))
	sar := 100 * (0.30*mg/n + 0.20*iwm/n + 0.15*sv/n + 0.15*cps/n +
		0.10*(1-nc/n) + 0.10*norm(n, 1, 7))
	return int(math.Round(clampRange(sar, 0, 100)))
}

func horizonDays(signals []normalize.SourceSignal) int {
	if len(signals) == 0 {
		return 7
	}
	var lag float64
	for _, sig := range signals {
		lag += sig.Arbitrage.CrossPlatformLagMin
	}
	days := math.Round(lag / float64(len(signals)) / (60 * 24))
	if days < 1 {
		return 1
	}
	return int(days)
}

func summarize(signals []Signal, plays []ActionablePlay, sar int) Summary {
	highUrgency := 0
	for _, p := range plays {
		if p.Urgency == "high" {
			highUrgency++
		}
	}
	var takeaways []string
	var confidence float64
	if len(signals) > 0 {
		top := signals[0]
		takeaways = append(takeaways,
			fmt.Sprintf("Top signal: %s", top.Title),
			fmt.Sprintf("Average mispricing gap: %.0f%%", top.Arbitrage.MispricingGap*100),
			fmt.Sprintf("Cross-platform validation across %d sources", len(top.Sources)),
		)
		for _, s := range signals {
			confidence += s.Arbitrage.Confidence
		}
		confidence = math.Min(0.95, confidence/float64(len(signals)))
	}
	return Summary{
		OneLiner: fmt.Sprintf("%d strong signals detected with %d SAR; %d high-priority plays identified",
			len(signals), sar, highUrgency),
		TopTakeaways: takeaways,
		Risks: []string{
			"Early stage signals may have limited validation",
			"Arbitrage windows typically 3-10 days",
			"Market timing depends on catalyst proximity",
		},
		Confidence: confidence,
	}
}

func buildAppendix(signals []normalize.SourceSignal) Appendix {
	stats := make(map[source.ID]SourceStat, len(signals))
	for _, sig := range signals {
		stats[sig.SourceID] = SourceStat{
			Volume:            sig.Metrics.Volume,
			Engagement:        sig.Metrics.Engagement,
			GrowthRate:        sig.Metrics.GrowthRate,
			SentimentPositive: sig.Sentiment.Positive,
		}
	}
	return Appendix{
		SourceStats: stats,
		MethodologyNotes: []string{
			"Signal Score = 40% DemandIndex + 25% MG + 15% IWM + 10% Novelty + 10% CrossEvidence",
			"SAR = 30% MG + 20% IWM + 15% SV + 15% CPS + 10% (1-NC) + 10% source diversity",
			"APIs/RSS only; no scraping; heuristics noted where used",
		},
	}
}

func norm(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return clampRange((v-lo)/(hi-lo), 0, 1)
}
