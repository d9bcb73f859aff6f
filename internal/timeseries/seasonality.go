package timeseries

import (
	"gonum.org/v1/gonum/stat"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

// seasonalVarianceThreshold is the minimum share of total variance the
// seasonal component must explain before seasonality is considered present.
const seasonalVarianceThreshold = 0.10

// SeasonalityDetector decides whether a series carries a meaningful seasonal
// component. Detection is an enhancement, not a requirement: it never errors,
// it only degrades to (false, 1).
type SeasonalityDetector struct{}

// NewSeasonalityDetector creates a seasonality detector.
func NewSeasonalityDetector() *SeasonalityDetector {
	return &SeasonalityDetector{}
}

// Detect decomposes the series additively with the candidate period and
// reports whether the seasonal component explains enough variance. Requires
// two full cycles of history; anything less returns (false, 1).
func (d *SeasonalityDetector) Detect(series models.TimeSeries, pointsPerYear int) (bool, int) {
	if pointsPerYear < 2 || len(series) < 2*pointsPerYear {
		return false, 1
	}

	values := series.Values()
	totalVar := stat.Variance(values, nil)
	if totalVar <= 0 {
		return false, 1
	}

	seasonal := seasonalComponent(values, pointsPerYear)
	if seasonal == nil {
		return false, 1
	}

	ratio := stat.Variance(seasonal, nil) / totalVar
	if ratio > seasonalVarianceThreshold {
		return true, pointsPerYear
	}
	return false, 1
}

// seasonalComponent extracts the additive seasonal component: a centered
// moving-average trend is removed, then the detrended values are averaged
// per position in the cycle.
func seasonalComponent(values []float64, period int) []float64 {
	n := len(values)
	half := period / 2
	if n <= 2*half {
		return nil
	}

	trend := make([]float64, n)
	for i := half; i < n-half; i++ {
		var sum float64
		for j := i - half; j <= i+half; j++ {
			sum += values[j]
		}
		trend[i] = sum / float64(2*half+1)
	}
	// Flat extrapolation at the edges keeps the component the same length
	// as the input.
	for i := 0; i < half; i++ {
		trend[i] = trend[half]
	}
	for i := n - half; i < n; i++ {
		trend[i] = trend[n-half-1]
	}

	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range values {
		idx := i % period
		pattern[idx] += v - trend[i]
		counts[idx]++
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}

	seasonal := make([]float64, n)
	for i := range seasonal {
		seasonal[i] = pattern[i%period]
	}
	return seasonal
}
