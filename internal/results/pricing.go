// internal/results/pricing.go
package results

import (
	"strings"

	"github.com/mwiater/cryptic/internal/appconfig"
)

// Cost prices a run in USD. The longest prefix in pricing that model starts
// with decides the rate; an unpriced model returns nil.
func Cost(pricing map[string]appconfig.Price, model string, inputTokens, outputTokens int) *float64 {
	best := ""
	for prefix := range pricing {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return nil
	}
	p := pricing[best]
	cost := float64(inputTokens)/1_000_000*p.Input + float64(outputTokens)/1_000_000*p.Output
	return &cost
}
