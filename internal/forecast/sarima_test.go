package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifference_RoundTrip(t *testing.T) {
	series := []float64{100, 105, 103, 110, 108, 115}

	diffs := difference(series, 1)
	require.Len(t, diffs, 5)
	assert.Equal(t, []float64{5, -2, 7, -2, 7}, diffs)

	restored := integrate(series[0], diffs, 1)
	assert.Equal(t, series[1:], restored)
}

func TestDifference_ZeroOrder(t *testing.T) {
	series := []float64{1, 2, 3}
	assert.Equal(t, series, difference(series, 0))
}

func TestSeasonalDifference_RoundTrip(t *testing.T) {
	// Two cycles of a period-4 pattern with drift
	series := []float64{10, 20, 15, 25, 12, 22, 17, 27}

	diffs := seasonalDifference(series, 4)
	require.Len(t, diffs, 4)
	assert.Equal(t, []float64{2, 2, 2, 2}, diffs)

	future := []float64{2, 2}
	restored := seasonalIntegrate(series, future, 4)
	assert.Equal(t, []float64{14, 24}, restored)
}

func TestLevinsonDurbin_AR1(t *testing.T) {
	// For an AR(1) process the lag-1 autocorrelation equals phi
	acf := []float64{1.0, 0.6}
	coeffs, err := levinsonDurbin(acf, 1)
	require.NoError(t, err)
	require.Len(t, coeffs, 1)
	assert.InDelta(t, 0.6, coeffs[0], 1e-9)
}

func TestLevinsonDurbin_AR2(t *testing.T) {
	// ACF of AR(2) with phi1=0.5, phi2=0.3:
	// rho1 = phi1/(1-phi2), rho2 = phi1*rho1 + phi2
	rho1 := 0.5 / (1 - 0.3)
	rho2 := 0.5*rho1 + 0.3
	coeffs, err := levinsonDurbin([]float64{1, rho1, rho2}, 2)
	require.NoError(t, err)
	require.Len(t, coeffs, 2)
	assert.InDelta(t, 0.5, coeffs[0], 1e-9)
	assert.InDelta(t, 0.3, coeffs[1], 1e-9)
}

func TestFitAR_FlatSeries(t *testing.T) {
	coeffs, err := fitAR([]float64{0, 0, 0, 0, 0, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, coeffs)
}

func TestFitMA_ClampsToInvertible(t *testing.T) {
	residuals := []float64{1, -1, 1, -1, 1, -1, 1, -1}
	coeffs := fitMA(residuals, 1)
	require.Len(t, coeffs, 1)
	assert.LessOrEqual(t, coeffs[0], 0.9)
	assert.GreaterOrEqual(t, coeffs[0], -0.9)
}

func TestAutocorr_Bounds(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	assert.Equal(t, 0.0, autocorr(series, -1))
	assert.Equal(t, 0.0, autocorr(series, len(series)))
	assert.InDelta(t, 1.0, autocorr(series, 0), 1e-9)
}

func TestNewSARIMA_SeasonalTermsNeedHistory(t *testing.T) {
	withSeason := newSARIMA(12, 37)
	assert.Equal(t, 12, withSeason.s)
	assert.Equal(t, 1, withSeason.P)

	dropped := newSARIMA(12, 24)
	assert.Equal(t, 0, dropped.s)
	assert.Equal(t, 0, dropped.P)
}
