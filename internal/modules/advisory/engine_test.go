package advisory

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriguard/agriguard-go/internal/clients/retrieval"
	"github.com/agriguard/agriguard-go/internal/domain"
	"github.com/agriguard/agriguard-go/internal/modules/stress"
)

func testEngine() *Engine {
	return NewEngine(DefaultConfig(), "gemini-2.0-flash", zerolog.Nop())
}

func baseSnapshot() *stress.Snapshot {
	return &stress.Snapshot{
		Fips:               "19001",
		CountyName:         "Adair",
		OverallStressIndex: 30,
		WaterStressIndex:   25,
		HeatStressIndex:    20,
		VegetationIndex:    15,
		AtmosphericIndex:   10,
		Indicators: stress.IndicatorSet{
			stress.IndicatorWaterDeficit: 1.5,
			stress.IndicatorLSTMean:      31.0,
		},
	}
}

func baseForecast() *domain.YieldForecast {
	return &domain.YieldForecast{
		Fips:            "19001",
		Week:            25,
		Year:            2025,
		PredictedYield:  200.0,
		Uncertainty:     0.31,
		ConfidenceLower: 199.69,
		ConfidenceUpper: 200.31,
		ModelR2:         0.835,
		BaselineYield:   199.2,
	}
}

func TestRecommendations_WaterAndYield(t *testing.T) {
	e := testEngine()

	snap := baseSnapshot()
	snap.WaterStressIndex = 42.3
	snap.Indicators[stress.IndicatorWaterDeficit] = 4.8

	fc := baseForecast()
	fc.PredictedYield = 180.0 // well below baseline*(1-0.02)

	recs := e.Recommendations(snap, fc)
	joined := strings.Join(recs, "\n")

	assert.Contains(t, joined, "WATER STRESS")
	assert.Contains(t, joined, "4.8")
	assert.Contains(t, joined, "YIELD RISK")
	assert.Contains(t, joined, "180.0")
}

func TestRecommendations_PollinationHeat(t *testing.T) {
	e := testEngine()

	snap := baseSnapshot()
	snap.HeatStressIndex = 75
	snap.Indicators[stress.IndicatorLSTMean] = 37.0

	fc := baseForecast()
	fc.Week = 30

	recs := e.Recommendations(snap, fc)
	joined := strings.Join(recs, "\n")

	assert.Contains(t, joined, "POLLINATION CRITICAL")
	assert.Contains(t, joined, "37.0")
}

func TestRecommendations_PollinationRuleNeedsWindow(t *testing.T) {
	e := testEngine()

	// Same heat exposure outside the window does not fire the rule.
	snap := baseSnapshot()
	snap.HeatStressIndex = 75
	snap.Indicators[stress.IndicatorLSTMean] = 37.0

	fc := baseForecast()
	fc.Week = 24

	joined := strings.Join(e.Recommendations(snap, fc), "\n")
	assert.NotContains(t, joined, "POLLINATION CRITICAL")
}

func TestRecommendations_Urgent(t *testing.T) {
	e := testEngine()

	snap := baseSnapshot()
	snap.OverallStressIndex = 85

	joined := strings.Join(e.Recommendations(snap, baseForecast()), "\n")
	assert.Contains(t, joined, "URGENT")
	assert.Contains(t, joined, "CRITICAL")
}

func TestRecommendations_NeverEmpty(t *testing.T) {
	e := testEngine()

	recs := e.Recommendations(baseSnapshot(), baseForecast())
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "normal ranges")
}

func TestAssessRisk(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name        string
		csi         float64
		uncertainty float64
		wantLevel   string
	}{
		{"low stress narrow interval", 10, 0.31, "LOW RISK"},
		{"moderate stress", 50, 0.31, "MODERATE RISK"},
		{"severe stress", 65, 0.31, "HIGH RISK"},
		{"critical stress", 90, 0.31, "HIGH RISK"},
		{"low stress wide interval", 10, 6.0, "MODERATE RISK"},
		{"low stress very wide interval", 10, 20.0, "HIGH RISK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot()
			snap.OverallStressIndex = tt.csi
			fc := baseForecast()
			fc.Uncertainty = tt.uncertainty

			risk := e.AssessRisk(snap, fc)
			assert.True(t, strings.HasPrefix(risk, tt.wantLevel), "got %q", risk)
			assert.Contains(t, risk, "±")
		})
	}
}

func TestAssessRisk_UncertaintyRenderedVerbatim(t *testing.T) {
	e := testEngine()

	fc := baseForecast()
	fc.Uncertainty = 0.31

	risk := e.AssessRisk(baseSnapshot(), fc)
	assert.Contains(t, risk, "±0.31 bu/acre")
}

func TestProvenance(t *testing.T) {
	e := testEngine()

	prov := e.Provenance(baseSnapshot(), baseForecast())

	assert.NotEmpty(t, prov.ReportID)
	assert.Equal(t, "19001", prov.MCSIService.Fips)
	assert.Equal(t, "Adair", prov.MCSIService.CountyName)
	assert.Equal(t, 30.0, prov.MCSIService.OverallStressIndex)
	assert.Equal(t, 25, prov.YieldForecastService.CurrentWeek)
	assert.Equal(t, 2025, prov.YieldForecastService.Year)
	assert.Equal(t, 0.835, prov.YieldForecastService.ModelR2)
	assert.Equal(t, "static_corn_knowledge_v1", prov.KnowledgeContext)
	assert.Contains(t, strings.ToLower(prov.Model), "gemini")

	// Each report gets a fresh ID.
	again := e.Provenance(baseSnapshot(), baseForecast())
	assert.NotEqual(t, prov.ReportID, again.ReportID)
}

func TestBuildContext(t *testing.T) {
	e := testEngine()

	snippets := []retrieval.Snippet{
		{Text: "Corn pollination is most sensitive to heat above 35C.", Similarity: 0.82},
	}

	ctx := e.BuildContext(baseSnapshot(), baseForecast(), "Adair", "stable", snippets)

	assert.Contains(t, ctx, "County: Adair (FIPS 19001)")
	assert.Contains(t, ctx, "week_of_season: 25")
	assert.Contains(t, ctx, "Composite Stress Index: 30.0 (MILD)")
	assert.Contains(t, ctx, "Yield forecast: 200.0")
	assert.Contains(t, ctx, "County baseline yield: 199.2")
	assert.Contains(t, ctx, "CORN_GROWTH_STAGES:")
	assert.Contains(t, ctx, "CRITICAL_THRESHOLDS:")
	assert.Contains(t, ctx, "similarity 0.82")
	assert.Contains(t, ctx, "pollination is most sensitive")
}

func TestBuildContext_SnippetBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Retrieval.MaxSnippets = 2
	cfg.Retrieval.SnippetChars = 20
	e := NewEngine(cfg, "gemini-2.0-flash", zerolog.Nop())

	long := strings.Repeat("x", 100)
	snippets := []retrieval.Snippet{
		{Text: long, Similarity: 0.9},
		{Text: long, Similarity: 0.8},
		{Text: long, Similarity: 0.7},
	}

	ctx := e.BuildContext(baseSnapshot(), baseForecast(), "Adair", "", snippets)

	assert.Equal(t, 2, strings.Count(ctx, "similarity"))
	assert.Contains(t, ctx, strings.Repeat("x", 20)+"...")
	assert.NotContains(t, ctx, strings.Repeat("x", 21))
}

func TestBuildContext_TruncatesOnRuneBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Retrieval.SnippetChars = 10
	e := NewEngine(cfg, "gemini-2.0-flash", zerolog.Nop())

	snippets := []retrieval.Snippet{
		{Text: strings.Repeat("é", 50), Similarity: 0.9},
	}

	ctx := e.BuildContext(baseSnapshot(), baseForecast(), "Adair", "", snippets)

	assert.True(t, utf8.ValidString(ctx))
	assert.Contains(t, ctx, strings.Repeat("é", 10)+"...")
	assert.NotContains(t, ctx, strings.Repeat("é", 11))
}

func TestBuildPrompt(t *testing.T) {
	e := testEngine()

	withQuestion := e.BuildPrompt("CONTEXT", "Should I irrigate?")
	assert.Contains(t, withQuestion, "AgriBot")
	assert.Contains(t, withQuestion, "CONTEXT")
	assert.Contains(t, withQuestion, "Question: Should I irrigate?")

	withoutQuestion := e.BuildPrompt("CONTEXT", "")
	assert.Contains(t, withoutQuestion, "Summarize current conditions")
}
