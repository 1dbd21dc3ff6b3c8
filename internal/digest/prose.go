package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/validationly/signalscan/internal/textgen"
)

// ShareText asks the text-generation collaborator to phrase a digest as a
// short shareable note. Scoring is already done; a failed generation only
// loses the prose.
func ShareText(ctx context.Context, gen textgen.Generator, d Digest) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short, factual market-signal note for the category %q.\n", d.Category)
	fmt.Fprintf(&b, "Social arbitrage rating: %d/100, horizon %d days.\n", d.SAR, d.HorizonDays)
	for _, s := range d.TopSignals {
		fmt.Fprintf(&b, "- %s (score %.1f, demand %.0f)\n", s.Title, s.SignalScore, s.DemandIndex)
	}
	b.WriteString("Keep it under 120 words, no hype.")

	return gen.Generate(ctx, b.String(), textgen.Options{Temperature: 0.7})
}
