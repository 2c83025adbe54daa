package features

import (
	"sort"
	"strconv"

	"github.com/agriguard/agriguard-go/internal/modules/stress"
)

// Defaults substituted for missing indicator values. Every week present in the
// payload always carries all five sub-fields; keys are never omitted.
const (
	defaultNDVI = 0.5
)

// WeekFeatures is the per-week sub-schema expected by the yield forecasting
// service. Field names and the integer cast are part of the wire contract.
//
// LSTDaysAbove32 is an integer cast of the weekly LST mean, not a true count
// of days above 32°C. The forecasting model was trained on this approximation,
// so it is preserved as-is; fixing it would shift the model's input
// distribution.
type WeekFeatures struct {
	WaterDeficitMean float64 `json:"water_deficit_mean"`
	LSTDaysAbove32   int     `json:"lst_days_above_32C"`
	NDVIMean         float64 `json:"ndvi_mean"`
	VPDMean          float64 `json:"vpd_mean"`
	PrecipSum        float64 `json:"pr_sum"`
}

// RawData maps week-of-season (as a string key) to that week's features.
type RawData map[string]WeekFeatures

// Transformer builds model-ready feature payloads from indicator history.
type Transformer struct{}

// NewTransformer creates a new feature transformer
func NewTransformer() *Transformer {
	return &Transformer{}
}

// CurrentWeek resolves the effective current week: the caller's explicit week
// when positive, otherwise the maximum week present in the history.
func (t *Transformer) CurrentWeek(entries []stress.TimeseriesEntry, requested int) int {
	if requested > 0 {
		return requested
	}

	current := 0
	for _, e := range entries {
		if e.WeekOfSeason > current {
			current = e.WeekOfSeason
		}
	}
	return current
}

// BuildRawData converts the season-to-date indicator history into the weekly
// payload consumed by the forecast service. Entries after currentWeek are
// dropped; missing indicators get documented defaults rather than omitted
// keys.
func (t *Transformer) BuildRawData(entries []stress.TimeseriesEntry, currentWeek int) RawData {
	raw := make(RawData, len(entries))

	for _, e := range entries {
		if e.WeekOfSeason > currentWeek {
			continue
		}

		ind := e.Indicators
		raw[strconv.Itoa(e.WeekOfSeason)] = WeekFeatures{
			WaterDeficitMean: ind[stress.IndicatorWaterDeficit],
			LSTDaysAbove32:   int(ind[stress.IndicatorLSTMean]),
			NDVIMean:         indicatorOr(ind, stress.IndicatorNDVIMean, defaultNDVI),
			VPDMean:          ind[stress.IndicatorVPDMean],
			PrecipSum:        ind[stress.IndicatorPrecipitation],
		}
	}

	return raw
}

func indicatorOr(ind stress.IndicatorSet, key string, fallback float64) float64 {
	if v, ok := ind[key]; ok {
		return v
	}
	return fallback
}

// sortedWeeks returns the weeks ≤ currentWeek in ascending order.
func sortedWeeks(entries []stress.TimeseriesEntry, currentWeek int) []stress.TimeseriesEntry {
	weeks := make([]stress.TimeseriesEntry, 0, len(entries))
	for _, e := range entries {
		if e.WeekOfSeason <= currentWeek {
			weeks = append(weeks, e)
		}
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekOfSeason < weeks[j].WeekOfSeason
	})
	return weeks
}
