package domain

import "fmt"

// YieldForecast is the assembled forecast the orchestrator serves after
// merging the model service's response with fallback defaults for optional
// fields. JSON field names mirror the public API.
type YieldForecast struct {
	Fips            string  `json:"fips"`
	Week            int     `json:"week"`
	Year            int     `json:"year"`
	PredictedYield  float64 `json:"predicted_yield"`
	Uncertainty     float64 `json:"confidence_interval"`
	ConfidenceLower float64 `json:"confidence_lower"`
	ConfidenceUpper float64 `json:"confidence_upper"`
	PrimaryDriver   string  `json:"primary_driver"`
	ModelR2         float64 `json:"model_r2"`
	BaselineYield   float64 `json:"baseline_yield"`
}

// Fallback defaults applied when the model service omits optional enrichment
// fields. These are contract values, not guesses.
const (
	DefaultUncertainty = 0.31
	DefaultModelR2     = 0.835
)

// Validate checks the forecast invariants: a two-sided interval around the
// prediction and a strictly positive uncertainty.
func (f *YieldForecast) Validate() error {
	if f.ConfidenceLower > f.PredictedYield || f.PredictedYield > f.ConfidenceUpper {
		return fmt.Errorf("forecast interval violated: lower=%.2f predicted=%.2f upper=%.2f",
			f.ConfidenceLower, f.PredictedYield, f.ConfidenceUpper)
	}
	if f.Uncertainty <= 0 {
		return fmt.Errorf("forecast uncertainty must be positive, got %v", f.Uncertainty)
	}
	return nil
}
