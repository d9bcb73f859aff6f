package forecast

import (
	"errors"
	"math"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

// sarimaStrategy implements a seasonal ARIMA(p,d,q)(P,D,0,s) forecaster.
// AR coefficients come from the Yule-Walker equations solved with
// Levinson-Durbin; MA coefficients from residual autocorrelations. Seasonal
// terms are dropped automatically when the series is shorter than two full
// seasonal cycles plus the differencing overhead.
type sarimaStrategy struct {
	p, d, q int
	P, D    int
	s       int
}

func newSARIMA(seasonalPeriod int, historyLen int) *sarimaStrategy {
	m := &sarimaStrategy{p: 1, d: 1, q: 1}
	// Seasonal terms need 2 cycles after first differencing.
	if seasonalPeriod > 1 && historyLen >= 2*seasonalPeriod+seasonalPeriod+1 {
		m.P = 1
		m.D = 1
		m.s = seasonalPeriod
	}
	return m
}

func (m *sarimaStrategy) Name() string { return ModelSARIMA }

func (m *sarimaStrategy) FitForecast(series models.TimeSeries, horizon int) (*models.ForecastResult, error) {
	values := series.Values()

	// Stationary transform: regular differencing, then seasonal.
	w := difference(values, m.d)
	x := w
	if m.D > 0 && m.s > 0 && len(w) > m.s {
		x = seasonalDifference(w, m.s)
	} else {
		m.P, m.D, m.s = 0, 0, 0
	}
	if len(x) <= m.p+1 {
		return nil, &ModelFitError{Model: m.Name(), Cause: errors.New("series too short after differencing")}
	}

	mean := meanOf(x)
	centered := make([]float64, len(x))
	for i, v := range x {
		centered[i] = v - mean
	}

	arCoeffs, err := fitAR(centered, m.p)
	if err != nil {
		return nil, &ModelFitError{Model: m.Name(), Cause: err}
	}

	var sarCoeffs []float64
	if m.P > 0 {
		sarCoeffs, err = fitSeasonalAR(centered, m.P, m.s)
		if err != nil {
			// Seasonal fit failure degrades to the non-seasonal model.
			m.P, m.D, m.s = 0, 0, 0
			sarCoeffs = nil
		}
	}

	residuals := arResiduals(centered, arCoeffs, sarCoeffs, m.p, m.P, m.s)
	maCoeffs := fitMA(residuals, m.q)

	// Recursive forecast on the centered stationary series. MA terms only
	// reach as far as observed residuals do.
	ext := append([]float64(nil), centered...)
	for h := 0; h < horizon; h++ {
		var pred float64
		for i := 0; i < m.p && len(ext)-1-i >= 0; i++ {
			pred += arCoeffs[i] * ext[len(ext)-1-i]
		}
		for i := 0; i < m.P; i++ {
			idx := len(ext) - (i+1)*m.s
			if idx >= 0 {
				pred += sarCoeffs[i] * ext[idx]
			}
		}
		if h == 0 {
			for j := 0; j < m.q && j < len(residuals); j++ {
				pred += maCoeffs[j] * residuals[len(residuals)-1-j]
			}
		}
		if math.IsNaN(pred) || math.IsInf(pred, 0) {
			return nil, &ModelFitError{Model: m.Name(), Cause: errors.New("forecast diverged")}
		}
		ext = append(ext, pred)
	}

	// Undo centering, then integrate back through the differencing chain.
	xFuture := make([]float64, horizon)
	for i := range xFuture {
		xFuture[i] = ext[len(centered)+i] + mean
	}
	wFuture := xFuture
	if m.D > 0 {
		wFuture = seasonalIntegrate(w, xFuture, m.s)
	}
	vFuture := integrate(values[len(values)-1], wFuture, m.d)

	start, _ := series.NextPeriod()
	residStd := residualStd(residuals, m.p+m.q+m.P)

	forecast := make(models.TimeSeries, horizon)
	lower := make(models.TimeSeries, horizon)
	upper := make(models.TimeSeries, horizon)
	for h := 0; h < horizon; h++ {
		period := start.AddDate(0, h, 0)
		width := 1.96 * residStd * math.Sqrt(float64(h+1))
		forecast[h] = models.TimePoint{Period: period, Value: vFuture[h]}
		lower[h] = models.TimePoint{Period: period, Value: vFuture[h] - width}
		upper[h] = models.TimePoint{Period: period, Value: vFuture[h] + width}
	}

	return &models.ForecastResult{
		Forecast:        forecast,
		ModelName:       m.Name(),
		ConfidenceLower: lower,
		ConfidenceUpper: upper,
		Parameters: map[string]interface{}{
			"order":          []int{m.p, m.d, m.q},
			"seasonal_order": []int{m.P, m.D, 0, m.s},
		},
	}, nil
}

// difference applies d-order first differencing.
func difference(series []float64, d int) []float64 {
	if d == 0 || len(series) < 2 {
		return append([]float64(nil), series...)
	}
	out := make([]float64, len(series)-1)
	for i := range out {
		out[i] = series[i+1] - series[i]
	}
	if d > 1 {
		return difference(out, d-1)
	}
	return out
}

// seasonalDifference applies one order of differencing at lag s.
func seasonalDifference(series []float64, s int) []float64 {
	out := make([]float64, len(series)-s)
	for i := range out {
		out[i] = series[i+s] - series[i]
	}
	return out
}

// seasonalIntegrate inverts seasonalDifference for the forecast window,
// extending with already-integrated forecast values as needed.
func seasonalIntegrate(history []float64, diffs []float64, s int) []float64 {
	ext := append([]float64(nil), history...)
	out := make([]float64, len(diffs))
	for i, d := range diffs {
		v := d + ext[len(ext)-s]
		out[i] = v
		ext = append(ext, v)
	}
	return out
}

// integrate inverts d-order first differencing starting from the last
// observed level.
func integrate(lastValue float64, diffs []float64, d int) []float64 {
	if d == 0 {
		return diffs
	}
	out := make([]float64, len(diffs))
	level := lastValue
	for i, delta := range diffs {
		level += delta
		out[i] = level
	}
	// Orders above 1 are not used by this strategy.
	return out
}

func meanOf(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// autocorr computes the autocorrelation of the series at the given lag.
func autocorr(series []float64, lag int) float64 {
	if lag < 0 || lag >= len(series) {
		return 0
	}
	n := len(series)
	mean := meanOf(series)

	var c0, ck float64
	for i := 0; i < n; i++ {
		c0 += (series[i] - mean) * (series[i] - mean)
	}
	for i := 0; i < n-lag; i++ {
		ck += (series[i] - mean) * (series[i+lag] - mean)
	}
	if c0 == 0 {
		return 0
	}
	return ck / c0
}

// fitAR estimates AR coefficients from the Yule-Walker equations.
func fitAR(centered []float64, p int) ([]float64, error) {
	if p == 0 {
		return nil, nil
	}
	acf := make([]float64, p+1)
	for k := 0; k <= p; k++ {
		acf[k] = autocorr(centered, k)
	}
	if acf[0] == 0 {
		// Flat stationary series: zero coefficients forecast the mean.
		return make([]float64, p), nil
	}
	return levinsonDurbin(acf, p)
}

// fitSeasonalAR estimates seasonal AR coefficients at multiples of lag s.
func fitSeasonalAR(centered []float64, P, s int) ([]float64, error) {
	acf := make([]float64, P+1)
	for k := 0; k <= P; k++ {
		acf[k] = autocorr(centered, k*s)
	}
	if acf[0] == 0 {
		return make([]float64, P), nil
	}
	return levinsonDurbin(acf, P)
}

// levinsonDurbin solves the Yule-Walker system in O(p^2).
func levinsonDurbin(acf []float64, p int) ([]float64, error) {
	phi := make([][]float64, p+1)
	for i := range phi {
		phi[i] = make([]float64, p+1)
	}
	v := acf[0]

	for k := 1; k <= p; k++ {
		num := acf[k]
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-j]
		}
		if v == 0 {
			return nil, errors.New("numerical instability in Levinson-Durbin recursion")
		}
		phi[k][k] = num / v
		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
		v *= 1 - phi[k][k]*phi[k][k]
		if v < 0 {
			return nil, errors.New("negative innovation variance in Levinson-Durbin recursion")
		}
	}

	coeffs := make([]float64, p)
	for i := 0; i < p; i++ {
		coeffs[i] = phi[p][i+1]
	}
	return coeffs, nil
}

// arResiduals computes one-step-ahead prediction errors of the AR fit,
// used both for MA estimation and for the confidence band.
func arResiduals(centered []float64, arCoeffs, sarCoeffs []float64, p, P, s int) []float64 {
	start := p
	if P > 0 && P*s > start {
		start = P * s
	}
	if len(centered) <= start {
		return nil
	}
	residuals := make([]float64, len(centered)-start)
	for t := start; t < len(centered); t++ {
		var pred float64
		for i := 0; i < p && i < len(arCoeffs); i++ {
			pred += arCoeffs[i] * centered[t-1-i]
		}
		for i := 0; i < P && i < len(sarCoeffs); i++ {
			if t-(i+1)*s >= 0 {
				pred += sarCoeffs[i] * centered[t-(i+1)*s]
			}
		}
		residuals[t-start] = centered[t] - pred
	}
	return residuals
}

// fitMA estimates MA coefficients from residual autocorrelations, clamped
// into the invertible range.
func fitMA(residuals []float64, q int) []float64 {
	coeffs := make([]float64, q)
	for i := 0; i < q && i+1 < len(residuals); i++ {
		coeffs[i] = autocorr(residuals, i+1)
		if math.Abs(coeffs[i]) > 1 {
			coeffs[i] = coeffs[i] / math.Abs(coeffs[i]) * 0.9
		}
	}
	return coeffs
}
