package stress

// Indicator names produced by the sensing pipeline for one week of season.
// These are the wire keys on the MCSI timeseries payload.
const (
	IndicatorWaterDeficit  = "water_deficit_mean"
	IndicatorLSTMean       = "lst_mean"
	IndicatorNDVIMean      = "ndvi_mean"
	IndicatorVPDMean       = "vpd_mean"
	IndicatorPrecipitation = "precipitation_mean"
	IndicatorETOMean       = "eto_mean"
)

// IndicatorSet maps indicator name to its value for one (county, week) window.
// Immutable once received from the sensing collaborator.
type IndicatorSet map[string]float64

// Component weights for the composite stress index. Must sum to 1.0.
const (
	WeightWater       = 0.40
	WeightHeat        = 0.30
	WeightVegetation  = 0.20
	WeightAtmospheric = 0.10
)

// Components holds the four sub-scores, each clamped to [0, 100].
type Components struct {
	Water       float64 `json:"water_stress_index"`
	Heat        float64 `json:"heat_stress_index"`
	Vegetation  float64 `json:"vegetation_stress_index"`
	Atmospheric float64 `json:"atmospheric_stress_index"`
}

// Status is the qualitative label derived from the composite index.
type Status string

const (
	StatusHealthy  Status = "HEALTHY"
	StatusMild     Status = "MILD"
	StatusModerate Status = "MODERATE"
	StatusSevere   Status = "SEVERE"
	StatusCritical Status = "CRITICAL"
)

// Snapshot is the current-conditions payload served by the MCSI collaborator
// for one county.
type Snapshot struct {
	Fips               string       `json:"fips"`
	CountyName         string       `json:"county_name"`
	OverallStressIndex float64      `json:"overall_stress_index"`
	WaterStressIndex   float64      `json:"water_stress_index"`
	HeatStressIndex    float64      `json:"heat_stress_index"`
	VegetationIndex    float64      `json:"vegetation_health_index"`
	AtmosphericIndex   float64      `json:"atmospheric_stress_index"`
	PrimaryDriver      string       `json:"primary_driver"`
	Indicators         IndicatorSet `json:"indicators"`
}

// TimeseriesEntry is one week of indicator history for a county.
type TimeseriesEntry struct {
	Fips         string       `json:"fips,omitempty"`
	WeekOfSeason int          `json:"week_of_season"`
	Date         string       `json:"date,omitempty"`
	CSIOverall   float64      `json:"csi_overall"`
	Indicators   IndicatorSet `json:"indicators"`
}
