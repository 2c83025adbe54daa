package features

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agriguard/agriguard-go/internal/modules/stress"
)

func weekEntry(week int, ind stress.IndicatorSet) stress.TimeseriesEntry {
	return stress.TimeseriesEntry{WeekOfSeason: week, Indicators: ind}
}

func TestCurrentWeek(t *testing.T) {
	tr := NewTransformer()

	entries := []stress.TimeseriesEntry{
		weekEntry(12, nil),
		weekEntry(30, nil),
		weekEntry(25, nil),
	}

	// Explicit week wins.
	assert.Equal(t, 28, tr.CurrentWeek(entries, 28))

	// Otherwise the latest observed week.
	assert.Equal(t, 30, tr.CurrentWeek(entries, 0))
	assert.Equal(t, 30, tr.CurrentWeek(entries, -1))

	// Empty history resolves to zero.
	assert.Equal(t, 0, tr.CurrentWeek(nil, 0))
}

func TestBuildRawData(t *testing.T) {
	tr := NewTransformer()

	entries := []stress.TimeseriesEntry{
		weekEntry(27, stress.IndicatorSet{
			stress.IndicatorWaterDeficit:  3.2,
			stress.IndicatorLSTMean:       36.8,
			stress.IndicatorNDVIMean:      0.62,
			stress.IndicatorVPDMean:       1.4,
			stress.IndicatorPrecipitation: 8.5,
		}),
		weekEntry(28, stress.IndicatorSet{
			stress.IndicatorWaterDeficit: 4.1,
			stress.IndicatorLSTMean:      33.2,
		}),
		weekEntry(31, stress.IndicatorSet{
			stress.IndicatorWaterDeficit: 5.0,
		}),
	}

	raw := tr.BuildRawData(entries, 28)

	// Weeks past the current week are dropped.
	assert.Len(t, raw, 2)
	assert.NotContains(t, raw, "31")

	w27 := raw["27"]
	assert.Equal(t, 3.2, w27.WaterDeficitMean)
	assert.Equal(t, 36, w27.LSTDaysAbove32) // int cast of the LST mean
	assert.Equal(t, 0.62, w27.NDVIMean)
	assert.Equal(t, 1.4, w27.VPDMean)
	assert.Equal(t, 8.5, w27.PrecipSum)

	// Missing NDVI defaults to 0.5; other missing indicators read as zero.
	w28 := raw["28"]
	assert.Equal(t, 0.5, w28.NDVIMean)
	assert.Equal(t, 33, w28.LSTDaysAbove32)
	assert.Equal(t, 0.0, w28.VPDMean)
	assert.Equal(t, 0.0, w28.PrecipSum)
}

func TestBuildRawData_Empty(t *testing.T) {
	tr := NewTransformer()
	raw := tr.BuildRawData(nil, 30)
	assert.Empty(t, raw)
}
