package formulas

import (
	talib "github.com/markcheno/go-talib"
)

// MovingAverage calculates a simple moving average over data with the given
// window. The returned slice has the same length as data; the first window-1
// positions are zero (talib warm-up). Returns nil when data is shorter than
// the window.
func MovingAverage(data []float64, window int) []float64 {
	if window < 2 || len(data) < window {
		return nil
	}
	return talib.Sma(data, window)
}

// TrendDirection classifies the recent direction of a series by comparing the
// last two values of its moving average.
func TrendDirection(data []float64, window int) string {
	sma := MovingAverage(data, window)
	if len(sma) < 2 {
		return "insufficient_data"
	}

	last := sma[len(sma)-1]
	prev := sma[len(sma)-2]

	switch {
	case last > prev+0.5:
		return "worsening"
	case last < prev-0.5:
		return "improving"
	default:
		return "stable"
	}
}
