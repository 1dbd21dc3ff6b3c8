package pain

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/validationly/signalscan/internal/normalize"
	"github.com/validationly/signalscan/internal/source"
)

// Intent classifies what a pain mention is asking for.
type Intent string

const (
	IntentComplaint      Intent = "complaint"
	IntentFeatureRequest Intent = "feature_request"
	IntentQuestion       Intent = "question"
)

// Mention is one pain-indicating excerpt pulled from normalized content.
type Mention struct {
	Text            string     `json:"text"`
	Source          source.ID  `json:"source"`
	Sentiment       string     `json:"sentiment"`
	Intent          Intent     `json:"intent"`
	Taxonomy        []Category `json:"taxonomy"`
	Confidence      float64    `json:"confidence"`
	AuthorInfluence float64    `json:"author_influence"`
}

// Metrics are the per-cluster sub-scores, each in [0,1] except the two
// composite scores in [0,100].
type Metrics struct {
	Freq      float64 `json:"freq"`
	Sev       float64 `json:"sev"`
	Urg       float64 `json:"urg"`
	Imp       float64 `json:"imp"`
	Addr      float64 `json:"addr"`
	CompGap   float64 `json:"comp_gap"`
	PainScore float64 `json:"pain_score"`
	OppScore  float64 `json:"opp_score"`
}

// IntentBreakdown is the fraction of each intent within a cluster; the three
// fractions sum to 1.
type IntentBreakdown struct {
	Complaint      float64 `json:"complaint"`
	FeatureRequest float64 `json:"feature_request"`
	Question       float64 `json:"question"`
}

// Actions holds the suggested follow-ups for one cluster.
type Actions struct {
	MVPFeatures    []string `json:"mvp_features"`
	GTM            []string `json:"gtm"`
	SuccessMetrics []string `json:"success_metrics"`
}

// Cluster groups mentions sharing a primary taxonomy category.
type Cluster struct {
	ID              string           `json:"cluster_id"`
	Label           string           `json:"label"`
	Taxonomy        []Category       `json:"taxonomy"`
	Keywords        []string         `json:"keywords"`
	Metrics         Metrics          `json:"metrics"`
	IntentBreakdown IntentBreakdown  `json:"intent_breakdown"`
	Quotes          []normalize.Quote `json:"representative_quotes"`
	Actions         Actions          `json:"actions"`
	CopyHooks       []string         `json:"copy_hooks"`
}

// TopPain is one entry of the result summary.
type TopPain struct {
	Label     string   `json:"label"`
	PainScore float64  `json:"pain_score"`
	OppScore  float64  `json:"opp_score"`
	Why       []string `json:"why"`
	QuickWins []string `json:"quick_wins"`
}

// Summary condenses the ranked clusters for a reader.
type Summary struct {
	TopPains   []TopPain `json:"top_pains"`
	Persona    Persona   `json:"persona_hint"`
	Confidence float64   `json:"confidence"`
}

// Result is the full pain extraction output.
type Result struct {
	Query      string     `json:"query"`
	Persona    Persona    `json:"persona"`
	Clusters   []Cluster  `json:"pain_clusters"`
	Summary    Summary    `json:"summary"`
	Taxonomies []Category `json:"taxonomies"`
	Sources    []source.ID `json:"sources"`
	Notes      []string   `json:"notes"`
}

// Extractor mines pain mentions from normalized signals and clusters them by
// taxonomy category.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

// Extract runs the full pipeline: mention mining, category clustering,
// metric computation, persona re-ranking, and action enrichment. Output is
// deterministic for identical input.
func (e *Extractor) Extract(signals []normalize.SourceSignal, query string, persona Persona) (Result, error) {
	if !ValidPersona(persona) {
		return Result{}, fmt.Errorf("unknown persona %q", persona)
	}

	mentions := mineMentions(signals)
	clusters, err := buildClusters(mentions, persona)
	if err != nil {
		return Result{}, err
	}
	for i := range clusters {
		clusters[i].Actions = actionsFor(clusters[i].Taxonomy[0], clusters[i].Label)
		clusters[i].CopyHooks = copyHooksFor(clusters[i].Taxonomy[0], clusters[i].Label)
	}

	log.Debug().Str("query", query).Str("persona", string(persona)).
		Int("mentions", len(mentions)).Int("clusters", len(clusters)).
		Msg("pain extraction complete")

	return Result{
		Query:      query,
		Persona:    persona,
		Clusters:   clusters,
		Summary:    summarize(clusters, persona),
		Taxonomies: topTaxonomies(clusters),
		Sources:    coveredSources(signals),
		Notes: []string{
			"APIs/RSS only. No scraping.",
			"Pain scores use persona-weighted taxonomy.",
		},
	}, nil
}

// mineMentions scans quotes and keywords of each signal for pain patterns.
func mineMentions(signals []normalize.SourceSignal) []Mention {
	var mentions []Mention
	for _, sig := range signals {
		if sig.Fallback {
			continue
		}
		texts := make([]string, 0, len(sig.Quotes)+1)
		for _, q := range sig.Quotes {
			texts = append(texts, q.Text)
		}
		texts = append(texts, sig.Summary)

		for i, text := range texts {
			cats := detectCategories(text)
			if len(cats) == 0 {
				continue
			}
			influence := sig.Metrics.Engagement
			label := "neutral"
			if i < len(sig.Quotes) {
				influence = sig.Quotes[i].Influence
				label = sig.Quotes[i].Sentiment
			} else {
				switch {
				case sig.Sentiment.Negative > 0.5:
					label = "negative"
				case sig.Sentiment.Positive > 0.5:
					label = "positive"
				}
			}
			mentions = append(mentions, Mention{
				Text:            text,
				Source:          sig.SourceID,
				Sentiment:       label,
				Intent:          classifyIntent(text),
				Taxonomy:        cats,
				Confidence:      math.Min(0.9, sig.Sentiment.Negative+sig.Metrics.Engagement),
				AuthorInfluence: influence,
			})
		}
	}
	return mentions
}

func classifyIntent(text string) Intent {
	if matchesAny(text, complaintPatterns) {
		return IntentComplaint
	}
	if matchesAny(text, questionPatterns) {
		return IntentQuestion
	}
	return IntentFeatureRequest
}

// buildClusters groups mentions by primary category and computes metrics.
// Cluster order follows the canonical taxonomy before re-ranking, so IDs are
// stable.
func buildClusters(mentions []Mention, persona Persona) ([]Cluster, error) {
	groups := make(map[Category][]Mention)
	for _, m := range mentions {
		primary := m.Taxonomy[0]
		groups[primary] = append(groups[primary], m)
	}

	var clusters []Cluster
	seq := 0
	for _, cat := range Categories {
		group := groups[cat]
		if len(group) == 0 {
			continue
		}
		seq++

		n := float64(len(group))
		var sev, imp, complaints, featureReqs, questions, solutions float64
		for _, m := range group {
			if m.Sentiment == "negative" {
				sev += 1.0
			} else {
				sev += 0.5
			}
			imp += m.AuthorInfluence
			switch m.Intent {
			case IntentComplaint:
				complaints++
			case IntentFeatureRequest:
				featureReqs++
			case IntentQuestion:
				questions++
			}
			if m.Source == source.ProductHunt || m.Source == source.GitHub {
				solutions++
			}
		}
		sev /= n
		imp /= n

		freq := math.Min(1, n/20)
		urg := complaints / n
		frFraction := featureReqs / n
		solutionCoverage := solutions / n
		addr := clamp01(0.2 + 0.6*frFraction + 0.2*(1-sev))
		compGap := clamp01(0.3 + 0.7*(1-solutionCoverage))

		painScore := 100 * (0.30*freq + 0.25*sev + 0.20*urg + 0.15*imp + 0.10*(1-addr))
		oppScore := 100 * (0.50*clamp01(painScore/100) + 0.30*compGap + 0.20*addr)

		weight, err := weightFor(persona, cat)
		if err != nil {
			return nil, err
		}

		label := clusterLabel(cat, group)
		clusters = append(clusters, Cluster{
			ID:       fmt.Sprintf("pc_%03d", seq),
			Label:    label,
			Taxonomy: []Category{cat},
			Keywords: clusterKeywords(group),
			Metrics: Metrics{
				Freq:      freq,
				Sev:       sev,
				Urg:       urg,
				Imp:       clamp01(imp),
				Addr:      addr,
				CompGap:   compGap,
				PainScore: round1(math.Min(100, painScore*weight*10)),
				OppScore:  round1(math.Min(100, oppScore*weight*10)),
			},
			IntentBreakdown: IntentBreakdown{
				Complaint:      urg,
				FeatureRequest: frFraction,
				Question:       questions / n,
			},
			Quotes: representativeQuotes(group),
		})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Metrics.PainScore > clusters[j].Metrics.PainScore
	})
	return clusters, nil
}

// representativeQuotes picks the three highest-confidence mentions.
func representativeQuotes(group []Mention) []normalize.Quote {
	ranked := append([]Mention(nil), group...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	limit := 3
	if len(ranked) < limit {
		limit = len(ranked)
	}
	quotes := make([]normalize.Quote, 0, limit)
	for _, m := range ranked[:limit] {
		quotes = append(quotes, normalize.Quote{
			Text:      m.Text,
			Score:     m.Confidence,
			Influence: m.AuthorInfluence,
			Sentiment: m.Sentiment,
		})
	}
	return quotes
}

// clusterKeywords counts words longer than three characters across mention
// text, top five by frequency.
func clusterKeywords(group []Mention) []string {
	counts := make(map[string]int)
	for _, m := range group {
		for _, word := range strings.Fields(strings.ToLower(m.Text)) {
			word = strings.Trim(word, ".,:;!?\"'()")
			if len(word) > 3 {
				counts[word]++
			}
		}
	}
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > 5 {
		words = words[:5]
	}
	return words
}

func summarize(clusters []Cluster, persona Persona) Summary {
	limit := 3
	if len(clusters) < limit {
		limit = len(clusters)
	}
	top := make([]TopPain, 0, limit)
	var freqSum float64
	for _, c := range clusters {
		freqSum += c.Metrics.Freq
	}
	for _, c := range clusters[:limit] {
		top = append(top, TopPain{
			Label:     c.Label,
			PainScore: c.Metrics.PainScore,
			OppScore:  c.Metrics.OppScore,
			Why: []string{
				fmt.Sprintf("Frequency score %.2f", c.Metrics.Freq),
				fmt.Sprintf("Severity score %.2f", c.Metrics.Sev),
				fmt.Sprintf("Complaints are %.0f%% of mentions", c.Metrics.Urg*100),
			},
			QuickWins: firstN(c.Actions.MVPFeatures, 2),
		})
	}
	confidence := 0.0
	if len(clusters) > 0 {
		confidence = math.Min(0.95, freqSum/float64(len(clusters)))
	}
	return Summary{TopPains: top, Persona: persona, Confidence: confidence}
}

func topTaxonomies(clusters []Cluster) []Category {
	limit := 3
	if len(clusters) < limit {
		limit = len(clusters)
	}
	out := make([]Category, 0, limit)
	for _, c := range clusters[:limit] {
		out = append(out, c.Taxonomy[0])
	}
	return out
}

func coveredSources(signals []normalize.SourceSignal) []source.ID {
	out := make([]source.ID, 0, len(signals))
	for _, sig := range signals {
		if !sig.Fallback {
			out = append(out, sig.SourceID)
		}
	}
	return out
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
