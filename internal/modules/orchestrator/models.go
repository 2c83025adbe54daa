package orchestrator

import (
	"github.com/agriguard/agriguard-go/internal/domain"
	"github.com/agriguard/agriguard-go/internal/modules/advisory"
	"github.com/agriguard/agriguard-go/internal/modules/stress"
)

// Health status labels. "degraded" means at least one critical dependency is
// unreachable on both of its addresses; "unhealthy" means the check itself
// failed hard.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthReport aggregates per-dependency reachability.
type HealthReport struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
	Error    string            `json:"error,omitempty"`
}

// TimeseriesResponse wraps the upstream entries unchanged and adds a derived
// summary; the entries themselves are passed through verbatim so fallback
// reads are transparent to callers.
type TimeseriesResponse struct {
	Fips    string                   `json:"fips"`
	Entries []stress.TimeseriesEntry `json:"data"`
	Summary *TimeseriesSummary       `json:"summary,omitempty"`
}

// TimeseriesSummary is derived locally from the CSI series.
type TimeseriesSummary struct {
	Weeks     int     `json:"weeks"`
	LatestCSI float64 `json:"latest_csi"`
	Trend     string  `json:"trend"`
}

// Interpretation is the full synthesis served by /interpret/{county}.
type Interpretation struct {
	Fips            string               `json:"fips"`
	CountyName      string               `json:"county_name"`
	Week            int                  `json:"week"`
	Stress          *stress.Snapshot     `json:"stress"`
	Forecast        *domain.YieldForecast `json:"forecast"`
	Recommendations []string             `json:"recommendations"`
	RiskAssessment  string               `json:"risk_assessment"`
	Narrative       string               `json:"interpretation,omitempty"`
	NarrativeStatus string               `json:"narrative_status"`
	DataSources     advisory.Provenance  `json:"data_sources"`
	ModelVersion    string               `json:"model_version"`
	Timestamp       string               `json:"timestamp"`
}

// Narrative status values.
const (
	NarrativeGenerated   = "generated"
	NarrativeUnavailable = "generation_unavailable"
)
