package forecast

import (
	"errors"
	"math"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

// smoothingStrategy implements Holt-Winters exponential smoothing with an
// additive seasonal component. When seasonalPeriod <= 1 (or history is too
// short for two full cycles) it degrades to Holt's linear trend method.
//
// Level:    L_t = α(Y_t - S_{t-m}) + (1-α)(L_{t-1} + T_{t-1})
// Trend:    T_t = β(L_t - L_{t-1}) + (1-β)T_{t-1}
// Seasonal: S_t = γ(Y_t - L_t) + (1-γ)S_{t-m}
type smoothingStrategy struct {
	seasonalPeriod int
}

func newSmoothing(seasonalPeriod int) *smoothingStrategy {
	return &smoothingStrategy{seasonalPeriod: seasonalPeriod}
}

func (s *smoothingStrategy) Name() string { return ModelSmoothing }

// hwState is the fitted smoothing state after one pass over the data.
type hwState struct {
	level     float64
	trend     float64
	seasonals []float64
	fitted    []float64
	residuals []float64
	sse       float64
}

func (s *smoothingStrategy) FitForecast(series models.TimeSeries, horizon int) (*models.ForecastResult, error) {
	values := series.Values()
	m := s.seasonalPeriod
	if m <= 1 || len(values) < 2*m {
		m = 1
	}

	alpha, beta, gamma := s.optimize(values, m)
	state := runSmoothing(values, m, alpha, beta, gamma)

	if math.IsNaN(state.level) || math.IsInf(state.level, 0) {
		return nil, &ModelFitError{Model: s.Name(), Cause: errors.New("smoothing diverged")}
	}

	start, _ := series.NextPeriod()
	residStd := residualStd(state.residuals, 3)

	forecast := make(models.TimeSeries, horizon)
	lower := make(models.TimeSeries, horizon)
	upper := make(models.TimeSeries, horizon)
	n := len(values)
	for h := 1; h <= horizon; h++ {
		value := state.level + float64(h)*state.trend
		if m > 1 {
			value += state.seasonals[(n+h-1)%m]
		}
		period := start.AddDate(0, h-1, 0)
		width := 1.96 * residStd * math.Sqrt(float64(h))
		forecast[h-1] = models.TimePoint{Period: period, Value: value}
		lower[h-1] = models.TimePoint{Period: period, Value: value - width}
		upper[h-1] = models.TimePoint{Period: period, Value: value + width}
	}

	return &models.ForecastResult{
		Forecast:        forecast,
		ModelName:       s.Name(),
		ConfidenceLower: lower,
		ConfidenceUpper: upper,
		Parameters: map[string]interface{}{
			"alpha":           alpha,
			"beta":            beta,
			"gamma":           gamma,
			"seasonal_period": m,
		},
	}, nil
}

// optimize grid-searches the smoothing parameters by in-sample SSE. The grid
// is deliberately coarse so a single fit stays well under a second.
func (s *smoothingStrategy) optimize(values []float64, m int) (float64, float64, float64) {
	bestAlpha, bestBeta, bestGamma := 0.3, 0.1, 0.1
	bestSSE := math.MaxFloat64

	gammas := []float64{0.1}
	if m > 1 {
		gammas = []float64{0.05, 0.1, 0.2, 0.3, 0.5}
	}
	for alpha := 0.1; alpha <= 0.9; alpha += 0.1 {
		for beta := 0.05; beta <= 0.45; beta += 0.1 {
			for _, gamma := range gammas {
				state := runSmoothing(values, m, alpha, beta, gamma)
				if state.sse < bestSSE {
					bestSSE = state.sse
					bestAlpha, bestBeta, bestGamma = alpha, beta, gamma
				}
			}
		}
	}
	return bestAlpha, bestBeta, bestGamma
}

// runSmoothing initializes components and runs one smoothing pass.
func runSmoothing(values []float64, m int, alpha, beta, gamma float64) hwState {
	n := len(values)
	state := hwState{
		fitted:    make([]float64, n),
		residuals: make([]float64, n),
	}

	if m > 1 {
		// Level from the first season, trend from the season-over-season
		// change, seasonals as deviations from the first-season level.
		var sum float64
		for i := 0; i < m; i++ {
			sum += values[i]
		}
		state.level = sum / float64(m)

		if n >= 2*m {
			var trendSum float64
			for i := 0; i < m; i++ {
				trendSum += (values[m+i] - values[i]) / float64(m)
			}
			state.trend = trendSum / float64(m)
		}

		state.seasonals = make([]float64, m)
		for i := 0; i < m; i++ {
			state.seasonals[i] = values[i] - state.level
		}
	} else {
		state.level = values[0]
		if n > 1 {
			state.trend = values[1] - values[0]
		}
	}

	for t := 0; t < n; t++ {
		var fitted, seasonal float64
		if m > 1 {
			seasonal = state.seasonals[t%m]
		}
		fitted = state.level + state.trend + seasonal
		state.fitted[t] = fitted
		state.residuals[t] = values[t] - fitted
		state.sse += state.residuals[t] * state.residuals[t]

		prevLevel := state.level
		state.level = alpha*(values[t]-seasonal) + (1-alpha)*(state.level+state.trend)
		state.trend = beta*(state.level-prevLevel) + (1-beta)*state.trend
		if m > 1 {
			state.seasonals[t%m] = gamma*(values[t]-state.level) + (1-gamma)*seasonal
		}
	}
	return state
}

// residualStd is the residual standard error with the given number of fitted
// parameters subtracted from the degrees of freedom.
func residualStd(residuals []float64, params int) float64 {
	if len(residuals) < 2 {
		return 0
	}
	var sumSq float64
	for _, r := range residuals {
		sumSq += r * r
	}
	df := float64(len(residuals) - params)
	if df < 1 {
		df = 1
	}
	return math.Sqrt(sumSq / df)
}
