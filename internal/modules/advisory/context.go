package advisory

import (
	"fmt"
	"strings"

	"github.com/agriguard/agriguard-go/internal/clients/retrieval"
	"github.com/agriguard/agriguard-go/internal/domain"
	"github.com/agriguard/agriguard-go/internal/modules/stress"
)

const systemPrompt = `You are AgriBot, an expert in Iowa corn farming and stress analysis.
Interpret the live data below for the farmer. Keep responses concise and actionable.`

// BuildContext assembles the grounding context for narrative generation:
// live county data, the fixed knowledge block, and up to the configured
// number of retrieved snippets. A nil or empty snippet list still yields a
// valid context.
func (e *Engine) BuildContext(snap *stress.Snapshot, fc *domain.YieldForecast, countyName string, trend string, snippets []retrieval.Snippet) string {
	var b strings.Builder

	if countyName == "" {
		countyName = snap.CountyName
	}

	fmt.Fprintf(&b, "County: %s (FIPS %s)\n", countyName, snap.Fips)
	fmt.Fprintf(&b, "week_of_season: %d\n", fc.Week)
	fmt.Fprintf(&b, "Composite Stress Index: %.1f (%s)\n", snap.OverallStressIndex, stress.StatusFor(snap.OverallStressIndex))
	fmt.Fprintf(&b, "Components: water=%.1f heat=%.1f vegetation=%.1f atmospheric=%.1f\n",
		snap.WaterStressIndex, snap.HeatStressIndex, snap.VegetationIndex, snap.AtmosphericIndex)
	if snap.PrimaryDriver != "" {
		fmt.Fprintf(&b, "Primary driver: %s\n", snap.PrimaryDriver)
	}
	if trend != "" {
		fmt.Fprintf(&b, "CSI trend (3-week moving average): %s\n", trend)
	}
	fmt.Fprintf(&b, "Yield forecast: %.1f bu/acre (interval %.1f-%.1f, ±%g)\n",
		fc.PredictedYield, fc.ConfidenceLower, fc.ConfidenceUpper, fc.Uncertainty)
	if fc.BaselineYield > 0 {
		fmt.Fprintf(&b, "County baseline yield: %.1f bu/acre\n", fc.BaselineYield)
	}

	b.WriteString("\n")
	b.WriteString(cornGrowthStages)
	b.WriteString("\n\n")
	b.WriteString(criticalThresholds)
	b.WriteString("\n")

	if len(snippets) > 0 {
		b.WriteString("\nRetrieved knowledge:\n")
		for i, s := range snippets {
			if i >= e.cfg.Retrieval.MaxSnippets {
				break
			}
			fmt.Fprintf(&b, "- [similarity %.2f] %s\n", s.Similarity, truncate(s.Text, e.cfg.Retrieval.SnippetChars))
		}
	}

	return b.String()
}

// BuildPrompt wraps the context with the system prompt and an optional farmer
// question for the generation collaborator.
func (e *Engine) BuildPrompt(context, question string) string {
	var b strings.Builder

	b.WriteString(systemPrompt)
	b.WriteString("\n\n")
	b.WriteString(context)

	if question != "" {
		fmt.Fprintf(&b, "\nQuestion: %s\n", question)
	} else {
		b.WriteString("\nSummarize current conditions and the outlook for this county.\n")
	}

	b.WriteString("\nAnswer:")
	return b.String()
}

// truncate cuts s to limit characters on a rune boundary, so multi-byte
// snippets never leak invalid UTF-8 into the generation context.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
