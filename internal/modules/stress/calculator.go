package stress

import (
	"fmt"
	"math"

	"github.com/agriguard/agriguard-go/pkg/formulas"
)

// Heat thresholds. 35°C is the canonical high-temperature threshold for corn;
// 38°C is the hard threshold above which damage accelerates. The legacy
// feature name lst_days_above_32C survives only on the forecast wire format.
const (
	heatHighThreshold = 35.0
	heatHardThreshold = 38.0

	// Stress during pollination compounds; both water and heat scores are
	// amplified by the same factor and then clamped.
	pollinationMultiplier = 1.5
)

// ErrInvalidInput marks a missing or non-numeric indicator value. Calculator
// inputs are a caller contract; these are never retried or defaulted.
type ErrInvalidInput struct {
	Field string
	Value float64
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid input: %s is not a finite number (%v)", e.Field, e.Value)
}

// Calculator derives stress component scores and the composite index from raw
// agronomic indicators. All methods are pure; scores clamp rather than
// extrapolate outside their documented domains.
type Calculator struct{}

// NewCalculator creates a new stress calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// WaterStress scores the daily water deficit (mm/day) on a stepped scale:
//
//	deficit < 0       → 0   (surplus)
//	0 ≤ deficit < 2   → 20
//	2 ≤ deficit ≤ 4   → 50
//	4 < deficit < 6   → 75
//	deficit ≥ 6       → 100
//
// During the pollination window the score is multiplied by 1.5, then clamped.
func (c *Calculator) WaterStress(deficitMM float64, isPollination bool) (float64, error) {
	if !isFinite(deficitMM) {
		return 0, &ErrInvalidInput{Field: "deficit_mm", Value: deficitMM}
	}

	var score float64
	switch {
	case deficitMM < 0:
		score = 0
	case deficitMM < 2:
		score = 20
	case deficitMM <= 4:
		score = 50
	case deficitMM < 6:
		score = 75
	default:
		score = 100
	}

	if isPollination {
		score *= pollinationMultiplier
	}

	return formulas.Clamp100(score), nil
}

// HeatStress scores land-surface temperature against the 35°C threshold.
// Below the threshold there is no heat stress. Above it the score scales with
// the temperature excess plus the counts of days spent above 35°C and 38°C.
func (c *Calculator) HeatStress(lstMean float64, daysAbove35, daysAbove38 int, isPollination bool) (float64, error) {
	if !isFinite(lstMean) {
		return 0, &ErrInvalidInput{Field: "lst_mean", Value: lstMean}
	}
	if daysAbove35 < 0 {
		return 0, &ErrInvalidInput{Field: "days_above_35", Value: float64(daysAbove35)}
	}
	if daysAbove38 < 0 {
		return 0, &ErrInvalidInput{Field: "days_above_38", Value: float64(daysAbove38)}
	}

	if lstMean < heatHighThreshold {
		return 0, nil
	}

	excess := lstMean - heatHighThreshold
	score := excess*15 + float64(daysAbove35)*5 + float64(daysAbove38)*10

	if isPollination {
		score *= pollinationMultiplier
	}

	return formulas.Clamp100(score), nil
}

// VegetationStress scores the NDVI anomaly. Canopy at or above 0.70 reads as
// unstressed; the score rises linearly to 100 at NDVI 0.15.
func (c *Calculator) VegetationStress(ndviMean float64) (float64, error) {
	if !isFinite(ndviMean) {
		return 0, &ErrInvalidInput{Field: "ndvi_mean", Value: ndviMean}
	}

	return formulas.Clamp100(100 * (0.70 - ndviMean) / 0.55), nil
}

// AtmosphericStress scores vapor pressure deficit (kPa).
func (c *Calculator) AtmosphericStress(vpdMean float64) (float64, error) {
	if !isFinite(vpdMean) {
		return 0, &ErrInvalidInput{Field: "vpd_mean", Value: vpdMean}
	}

	return formulas.Clamp100(vpdMean * 10), nil
}

// Composite computes the weighted stress index from the four components.
// Out-of-domain component values are clamped to [0, 100] before weighting so
// the composite can never leave the [0, 100] range.
func (c *Calculator) Composite(water, heat, vegetation, atmospheric float64) (float64, error) {
	for field, v := range map[string]float64{
		"water_stress":       water,
		"heat_stress":        heat,
		"vegetation_stress":  vegetation,
		"atmospheric_stress": atmospheric,
	} {
		if !isFinite(v) {
			return 0, &ErrInvalidInput{Field: field, Value: v}
		}
	}

	csi := formulas.Clamp100(water)*WeightWater +
		formulas.Clamp100(heat)*WeightHeat +
		formulas.Clamp100(vegetation)*WeightVegetation +
		formulas.Clamp100(atmospheric)*WeightAtmospheric

	return formulas.Clamp100(csi), nil
}

// StatusFor maps a composite index to its qualitative band. Boundaries are
// inclusive on the lower edge of each band.
func StatusFor(csi float64) Status {
	switch {
	case csi < 20:
		return StatusHealthy
	case csi < 40:
		return StatusMild
	case csi < 60:
		return StatusModerate
	case csi < 80:
		return StatusSevere
	default:
		return StatusCritical
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
