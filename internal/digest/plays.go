package digest

import (
	"fmt"
	"math"

	"github.com/validationly/signalscan/internal/source"
)

func covers(sig Signal, ids ...source.ID) bool {
	for _, have := range sig.Sources {
		for _, want := range ids {
			if have == want {
				return true
			}
		}
	}
	return false
}

// buildPlays derives at most three investor plays from the ranked signals.
// Rule triggers: technical coverage yields diligence, community coverage
// yields sourcing, launch proximity yields market making.
func buildPlays(signals []Signal, category string) []ActionablePlay {
	var plays []ActionablePlay

	for _, sig := range signals {
		if covers(sig, source.GitHub, source.StackOverflow) {
			urgency := "medium"
			if sig.Arbitrage.MispricingGap > 0.6 {
				urgency = "high"
			}
			plays = append(plays, ActionablePlay{
				Type:        PlayDiligence,
				Where:       "github|stackoverflow",
				Why:         fmt.Sprintf("High technical momentum in %s with %.0f%% mispricing gap", category, sig.Arbitrage.MispricingGap*100),
				CTA:         "Schedule 3x 15-min tech calls with top maintainers within 72h",
				Urgency:     urgency,
				WindowHours: int(math.Round(sig.Arbitrage.CrossPlatformLagMin / 60 * 2)),
				Templates: Templates{
					EmailSubject:    fmt.Sprintf("Early signal in %s - quick tech chat?", category),
					EmailBody:       fmt.Sprintf("Hi {name}, we're tracking strong early signals around %s with minimal mainstream coverage. Your work on {project} aligns perfectly. Would you be open to a 15-min call to compare notes?", category),
					LinkedInMessage: fmt.Sprintf("Hi {name}, seeing interesting early momentum in %s. Your expertise would be valuable for a quick 15-min insight exchange.", category),
				},
			})
			break
		}
	}

	for _, sig := range signals {
		if covers(sig, source.Reddit, source.HackerNews) {
			urgency := "medium"
			if sig.Arbitrage.SentimentVelocity > 0.1 {
				urgency = "high"
			}
			plays = append(plays, ActionablePlay{
				Type:        PlaySourcing,
				Where:       "reddit|hackernews",
				Why:         fmt.Sprintf("Active founder discussions with %.1fx cross-platform validation", sig.CrossEvidence),
				CTA:         "Direct outreach to 5 most engaged contributors within 48h",
				Urgency:     urgency,
				WindowHours: 48,
				Templates: Templates{
					EmailSubject:    fmt.Sprintf("%s momentum we're seeing - would love to connect", category),
					EmailBody:       fmt.Sprintf("Hi {name}, noticed your thoughtful contributions around %s. We're seeing strong early signals before mainstream coverage. Would you be interested in a brief chat about the space?", category),
					LinkedInMessage: fmt.Sprintf("Impressed by your insights on %s. Seeing similar trends in our data - worth a quick call?", category),
				},
			})
			break
		}
	}

	for _, sig := range signals {
		if covers(sig, source.ProductHunt) && sig.Arbitrage.CatalystProximity > 0.5 {
			plays = append(plays, ActionablePlay{
				Type:        PlayMarketMaking,
				Where:       "producthunt|youtube",
				Why:         fmt.Sprintf("Upcoming launches detected with %.0f%% catalyst proximity", sig.Arbitrage.CatalystProximity*100),
				CTA:         "Coordinate 2 content pieces + 1 co-marketing partnership pre-launch",
				Urgency:     "high",
				WindowHours: int(math.Round(sig.Arbitrage.CrossPlatformLagMin / 60)),
				Templates: Templates{
					EmailSubject:    fmt.Sprintf("Pre-launch opportunity in %s", category),
					EmailBody:       fmt.Sprintf("Hi {name}, our data shows strong pre-launch momentum for %s tools. Interested in coordinating content or co-marketing before the news cycle hits?", category),
					LinkedInMessage: fmt.Sprintf("Seeing pre-launch signals in %s. Potential for strategic content collaboration?", category),
				},
			})
			break
		}
	}

	if len(plays) > 3 {
		plays = plays[:3]
	}
	return plays
}
