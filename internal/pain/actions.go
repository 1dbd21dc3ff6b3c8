package pain

import (
	"fmt"
	"sort"
	"strings"
)

// clusterLabel names a cluster after its most common long word plus a
// category-specific suffix.
func clusterLabel(cat Category, group []Mention) string {
	counts := make(map[string]int)
	for _, m := range group {
		for _, word := range strings.Fields(strings.ToLower(m.Text)) {
			word = strings.Trim(word, ".,:;!?\"'()")
			if len(word) > 3 {
				counts[word]++
			}
		}
	}
	top := strings.ToLower(string(cat))
	best := 0
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Strings(words)
	for _, w := range words {
		if counts[w] > best {
			best = counts[w]
			top = w
		}
	}

	switch cat {
	case Functional:
		return top + " functionality gaps"
	case Integration:
		return top + " integration issues"
	case Performance:
		return top + " performance problems"
	case UX:
		return top + " usability concerns"
	case Onboarding:
		return top + " setup difficulties"
	case Pricing:
		return top + " pricing concerns"
	case Docs:
		return top + " documentation gaps"
	case Security:
		return top + " security issues"
	}
	return top + " issues"
}

// actionsFor returns the category's suggested MVP features, go-to-market
// ideas, and success metrics.
func actionsFor(cat Category, label string) Actions {
	switch cat {
	case Integration:
		return Actions{
			MVPFeatures:    []string{fmt.Sprintf("Native %s integration", label), fmt.Sprintf("API endpoints for %s", label), "Webhook support"},
			GTM:            []string{"Integration marketplace listing", "Developer documentation", "Partner co-marketing"},
			SuccessMetrics: []string{"API usage metrics", "Integration success rate", "Developer onboarding time"},
		}
	case Performance:
		return Actions{
			MVPFeatures:    []string{"Performance optimization", "Caching layer", "Load balancing"},
			GTM:            []string{"Performance benchmark content", "Speed comparison demos", "Technical blog posts"},
			SuccessMetrics: []string{"Page load time", "System uptime", "User retention"},
		}
	case UX:
		return Actions{
			MVPFeatures:    []string{fmt.Sprintf("Redesigned %s flow", label), "User onboarding wizard", "Contextual help"},
			GTM:            []string{"UX case studies", "Design system showcase", "User testimonials"},
			SuccessMetrics: []string{"Task completion rate", "User onboarding time", "Support requests"},
		}
	case Onboarding:
		return Actions{
			MVPFeatures:    []string{"Interactive tutorial", "Quick setup wizard", "Template library"},
			GTM:            []string{"Onboarding success stories", "Time-to-value content", "Comparison guides"},
			SuccessMetrics: []string{"Activation rate", "Time to first value", "Trial conversion"},
		}
	case Pricing:
		return Actions{
			MVPFeatures:    []string{"Flexible pricing tiers", "Usage-based billing", "Free tier expansion"},
			GTM:            []string{"Pricing transparency content", "ROI calculators", "Cost comparison guides"},
			SuccessMetrics: []string{"Conversion rate", "Customer lifetime value", "Churn rate"},
		}
	case Docs:
		return Actions{
			MVPFeatures:    []string{"Interactive documentation", "Code examples", "Video tutorials"},
			GTM:            []string{"Developer content marketing", "Community building", "Documentation SEO"},
			SuccessMetrics: []string{"Documentation usage", "Developer satisfaction", "Support deflection"},
		}
	case Security:
		return Actions{
			MVPFeatures:    []string{"Enhanced security features", "Compliance certifications", "Audit logging"},
			GTM:            []string{"Security-first messaging", "Compliance content", "Trust signals"},
			SuccessMetrics: []string{"Security incident rate", "Compliance score", "Enterprise adoption"},
		}
	}
	return Actions{
		MVPFeatures:    []string{fmt.Sprintf("Core %s functionality", label), fmt.Sprintf("Advanced %s options", label), fmt.Sprintf("%s automation", label)},
		GTM:            []string{"Feature comparison content", fmt.Sprintf("Demo videos for %s", label), fmt.Sprintf("Case studies solving %s", label)},
		SuccessMetrics: []string{"Feature adoption rate", "User satisfaction score", "Support ticket reduction"},
	}
}

// copyHooksFor returns conversion-oriented marketing lines for a cluster.
func copyHooksFor(cat Category, label string) []string {
	l := strings.ToLower(label)
	switch cat {
	case Integration:
		return []string{
			fmt.Sprintf("Seamless %s integration, no more headaches", l),
			fmt.Sprintf("Connect everything. %s made simple.", label),
			fmt.Sprintf("One-click %s setup. Really.", l),
		}
	case Performance:
		return []string{
			fmt.Sprintf("10x faster %s. Your users will notice.", l),
			fmt.Sprintf("Say goodbye to slow %s forever", l),
			fmt.Sprintf("Lightning-fast %s that actually works", l),
		}
	case UX:
		return []string{
			fmt.Sprintf("%s shouldn't be this hard. Now it isn't.", label),
			fmt.Sprintf("Beautiful %s that users actually love", l),
			fmt.Sprintf("Intuitive %s, no training required", l),
		}
	case Onboarding:
		return []string{
			"Get started in 60 seconds, not 60 minutes",
			"Zero-friction onboarding. Start creating immediately.",
			"Setup so easy it needs no manual",
		}
	case Pricing:
		return []string{
			"Fair pricing that scales with your success",
			"Start free. Upgrade when you're ready.",
			"Transparent pricing. No hidden fees. Ever.",
		}
	case Docs:
		return []string{
			"Documentation that developers actually read",
			"Clear guides, real examples, instant answers",
			"Everything you need to know, right when you need it",
		}
	case Security:
		return []string{
			"Enterprise security without the enterprise complexity",
			"Your data, protected by default",
			"Security-first design you can trust",
		}
	}
	return []string{
		fmt.Sprintf("Finally, a solution that actually handles %s", l),
		fmt.Sprintf("Stop struggling with %s, we've got you covered", l),
		fmt.Sprintf("%s? Solved in minutes, not hours", label),
	}
}
