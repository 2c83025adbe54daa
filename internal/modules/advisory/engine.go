package advisory

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agriguard/agriguard-go/internal/domain"
	"github.com/agriguard/agriguard-go/internal/modules/stress"
)

// Engine turns a stress snapshot and a yield forecast into deterministic,
// threshold-driven recommendations, a risk assessment, and a provenance
// record. It never errors on well-formed input; boundary values degrade to a
// minimal non-empty recommendation set.
type Engine struct {
	cfg       Config
	modelName string
	log       zerolog.Logger
}

// NewEngine creates a new advisory engine. modelName identifies the narrative
// generation model for provenance tracking.
func NewEngine(cfg Config, modelName string, log zerolog.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		modelName: modelName,
		log:       log.With().Str("component", "advisory").Logger(),
	}
}

// MaxSnippets returns the configured bound on retrieved knowledge snippets.
func (e *Engine) MaxSnippets() int {
	return e.cfg.Retrieval.MaxSnippets
}

// Recommendations applies the rule triggers independently; several can fire
// together, and each appends at most one entry. The result is never empty.
func (e *Engine) Recommendations(snap *stress.Snapshot, fc *domain.YieldForecast) []string {
	var recs []string

	if snap.WaterStressIndex > e.cfg.Thresholds.WaterStress {
		deficit := snap.Indicators[stress.IndicatorWaterDeficit]
		recs = append(recs, fmt.Sprintf(
			"WATER STRESS: water deficit averaging %.1f mm/day; prioritize irrigation within the next 48 hours",
			deficit))
	}

	if fc.BaselineYield > 0 && fc.PredictedYield < fc.BaselineYield*(1-e.cfg.Thresholds.YieldMargin) {
		shortfall := (fc.BaselineYield - fc.PredictedYield) / fc.BaselineYield * 100
		recs = append(recs, fmt.Sprintf(
			"YIELD RISK: forecast %.1f bu/acre runs %.1f%% below the county baseline of %.1f bu/acre",
			fc.PredictedYield, shortfall, fc.BaselineYield))
	}

	if e.cfg.InPollinationWindow(fc.Week) {
		lst := snap.Indicators[stress.IndicatorLSTMean]
		if snap.HeatStressIndex >= e.cfg.Thresholds.HeatComponent || lst > e.cfg.Thresholds.LSTCritical {
			recs = append(recs, fmt.Sprintf(
				"POLLINATION CRITICAL: HEAT exposure (LST %.1f°C, heat index %.1f) during the pollination window can reduce kernel set; avoid additional crop stress this week",
				lst, snap.HeatStressIndex))
		}
	}

	// The urgency rule augments the others, it never suppresses them.
	if stress.StatusFor(snap.OverallStressIndex) == stress.StatusCritical {
		recs = append(recs, fmt.Sprintf(
			"URGENT: overall stress is CRITICAL (CSI %.1f); contact your agronomist and reassess within 24 hours",
			snap.OverallStressIndex))
	}

	if len(recs) == 0 {
		recs = append(recs, "Conditions within normal ranges; continue routine monitoring")
	}

	return recs
}

// AssessRisk derives a qualitative level from the stress status and the
// forecast uncertainty, rendered with the uncertainty verbatim.
func (e *Engine) AssessRisk(snap *stress.Snapshot, fc *domain.YieldForecast) string {
	level := "LOW"

	switch stress.StatusFor(snap.OverallStressIndex) {
	case stress.StatusSevere, stress.StatusCritical:
		level = "HIGH"
	case stress.StatusModerate:
		level = "MODERATE"
	}

	// Wide forecast intervals raise the floor even when current stress is low.
	if fc.Uncertainty >= e.cfg.Risk.HighUncertainty {
		level = "HIGH"
	} else if fc.Uncertainty >= e.cfg.Risk.ModerateUncertainty && level == "LOW" {
		level = "MODERATE"
	}

	return fmt.Sprintf("%s RISK (±%s bu/acre forecast uncertainty)",
		level, strconv.FormatFloat(fc.Uncertainty, 'f', -1, 64))
}

// Provenance records the identifying attributes of every upstream source
// consulted, plus the narrative generation model.
func (e *Engine) Provenance(snap *stress.Snapshot, fc *domain.YieldForecast) Provenance {
	return Provenance{
		ReportID: uuid.NewString(),
		MCSIService: StressSource{
			Fips:               snap.Fips,
			CountyName:         snap.CountyName,
			OverallStressIndex: snap.OverallStressIndex,
		},
		YieldForecastService: ForecastSource{
			CurrentWeek: fc.Week,
			Year:        fc.Year,
			ModelR2:     fc.ModelR2,
		},
		KnowledgeContext: "static_corn_knowledge_v1",
		Model:            e.modelName,
	}
}

// Provenance is the structured data-source record attached to every
// interpretation.
type Provenance struct {
	ReportID             string         `json:"report_id"`
	MCSIService          StressSource   `json:"mcsi_service"`
	YieldForecastService ForecastSource `json:"yield_forecast_service"`
	KnowledgeContext     string         `json:"knowledge_context"`
	Model                string         `json:"model"`
}

// StressSource identifies the consulted stress-data service response.
type StressSource struct {
	Fips               string  `json:"fips"`
	CountyName         string  `json:"county_name"`
	OverallStressIndex float64 `json:"overall_stress_index"`
}

// ForecastSource identifies the consulted forecast service response.
type ForecastSource struct {
	CurrentWeek int     `json:"current_week"`
	Year        int     `json:"year"`
	ModelR2     float64 `json:"model_r2"`
}
