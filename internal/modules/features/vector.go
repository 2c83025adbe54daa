package features

import (
	"github.com/agriguard/agriguard-go/internal/modules/stress"
	"github.com/agriguard/agriguard-go/pkg/formulas"
)

// Vector positions. The order is contractual with the forecasting model and
// must never change without a version bump on the forecast request.
const (
	PosHeatDays38 = iota
	PosHeatDays35
	PosWaterDeficitCumsum
	PosWaterDeficitPollination
	PosWaterDeficitMaxDaily
	PosPrecipCumsum
	PosPrecipMayJune
	PosNDVIPeakValue
	PosNDVIPeakWeek
	PosNDVIMean
	PosETOCumsum
	PosVPDMean
	PosCountyBaselineYield
	PosYearEncoded
	PosPlantingDateAvg

	VectorLen = 15
)

// Pollination window (weeks of season) and the May–June precipitation window
// used for the seasonal aggregates.
const (
	pollinationStartWeek = 27
	pollinationEndWeek   = 31
	mayJuneEndWeek       = 26

	yearEncodingBase = 1920 // year_encoded = season year − 1920
	plantingDateAvg  = 195  // historical average planting day-of-year for Iowa corn
)

// InPollinationWindow reports whether a week of season falls inside the fixed
// pollination window.
func InPollinationWindow(week int) bool {
	return week >= pollinationStartWeek && week <= pollinationEndWeek
}

// BuildVector aggregates the season-to-date history into the 15-position
// feature vector documented above. baselineYield is the county's historical
// yield in bu/acre; year is the season year.
func (t *Transformer) BuildVector(entries []stress.TimeseriesEntry, currentWeek int, baselineYield float64, year int) []float64 {
	weeks := sortedWeeks(entries, currentWeek)

	var (
		deficits     []float64
		precip       []float64
		precipEarly  []float64
		ndvi         []float64
		vpd          []float64
		eto          []float64
		pollDeficits []float64

		heatDays35, heatDays38 int
		ndviPeak               float64
		ndviPeakWeek           int
	)

	for _, w := range weeks {
		ind := w.Indicators

		deficit := ind[stress.IndicatorWaterDeficit]
		deficits = append(deficits, deficit)
		if InPollinationWindow(w.WeekOfSeason) {
			pollDeficits = append(pollDeficits, deficit)
		}

		pr := ind[stress.IndicatorPrecipitation]
		precip = append(precip, pr)
		if w.WeekOfSeason <= mayJuneEndWeek {
			precipEarly = append(precipEarly, pr)
		}

		n := indicatorOr(ind, stress.IndicatorNDVIMean, defaultNDVI)
		ndvi = append(ndvi, n)
		if n > ndviPeak {
			ndviPeak = n
			ndviPeakWeek = w.WeekOfSeason
		}

		vpd = append(vpd, ind[stress.IndicatorVPDMean])
		eto = append(eto, ind[stress.IndicatorETOMean])

		// Same intentional approximation as the weekly payload: the LST mean
		// stands in for day counts.
		lst := ind[stress.IndicatorLSTMean]
		if lst >= 35 {
			heatDays35++
		}
		if lst >= 38 {
			heatDays38++
		}
	}

	v := make([]float64, VectorLen)
	v[PosHeatDays38] = float64(heatDays38)
	v[PosHeatDays35] = float64(heatDays35)
	v[PosWaterDeficitCumsum] = formulas.Sum(deficits)
	v[PosWaterDeficitPollination] = formulas.Sum(pollDeficits)
	v[PosWaterDeficitMaxDaily] = formulas.Max(deficits)
	v[PosPrecipCumsum] = formulas.Sum(precip)
	v[PosPrecipMayJune] = formulas.Sum(precipEarly)
	v[PosNDVIPeakValue] = ndviPeak
	v[PosNDVIPeakWeek] = float64(ndviPeakWeek)
	v[PosNDVIMean] = formulas.Mean(ndvi)
	v[PosETOCumsum] = formulas.Sum(eto)
	v[PosVPDMean] = formulas.Mean(vpd)
	v[PosCountyBaselineYield] = baselineYield / 100
	v[PosYearEncoded] = float64(year - yearEncodingBase)
	v[PosPlantingDateAvg] = plantingDateAvg

	return v
}
