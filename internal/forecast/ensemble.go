package forecast

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

const (
	maxBoostRounds   = 200
	boostLearnRate   = 0.1
	minLagFeatures   = 3
	yearLagThreshold = 18
)

// ensembleStrategy forecasts with gradient-boosted regression stumps over
// lag and calendar features. Multi-step forecasts are produced iteratively:
// each prediction becomes the next step's lag-1 feature.
type ensembleStrategy struct{}

func newEnsemble() *ensembleStrategy { return &ensembleStrategy{} }

func (s *ensembleStrategy) Name() string { return ModelEnsemble }

// stump is a depth-1 regression tree: one feature, one threshold, two leaves.
type stump struct {
	feature   int
	threshold float64
	left      float64
	right     float64
}

func (st stump) predict(x []float64) float64 {
	if x[st.feature] <= st.threshold {
		return st.left
	}
	return st.right
}

func (s *ensembleStrategy) FitForecast(series models.TimeSeries, horizon int) (*models.ForecastResult, error) {
	values := series.Values()
	featureNames := []string{"lag_1", "lag_2", "lag_3"}
	useYearLag := len(values) >= yearLagThreshold
	if useYearLag {
		featureNames = append(featureNames, "lag_12")
	}
	featureNames = append(featureNames, "month", "quarter")

	X, y := buildTrainingSet(series, useYearLag)
	if len(y) < minLagFeatures {
		return nil, &ModelFitError{Model: s.Name(), Cause: errors.New("not enough samples after lag feature construction")}
	}

	base := meanOf(y)
	preds := make([]float64, len(y))
	for i := range preds {
		preds[i] = base
	}

	stumps := make([]stump, 0, maxBoostRounds)
	gains := make([]float64, len(featureNames))
	for round := 0; round < maxBoostRounds; round++ {
		residuals := make([]float64, len(y))
		for i := range y {
			residuals[i] = y[i] - preds[i]
		}
		best, gain, ok := bestStump(X, residuals)
		if !ok || gain <= 1e-9 {
			break
		}
		gains[best.feature] += gain
		stumps = append(stumps, best)
		for i := range preds {
			preds[i] += boostLearnRate * best.predict(X[i])
		}
	}

	// Training residual spread drives the confidence band.
	trainResiduals := make([]float64, len(y))
	for i := range y {
		trainResiduals[i] = y[i] - preds[i]
	}
	residStd := residualStd(trainResiduals, 1)

	// Iterative multi-step forecast: predicted values feed later lags.
	window := append([]float64(nil), values...)
	start, _ := series.NextPeriod()
	forecast := make(models.TimeSeries, horizon)
	lower := make(models.TimeSeries, horizon)
	upper := make(models.TimeSeries, horizon)
	for h := 0; h < horizon; h++ {
		period := start.AddDate(0, h, 0)
		x := featureRow(window, len(window), period, useYearLag)
		value := base
		for _, st := range stumps {
			value += boostLearnRate * st.predict(x)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, &ModelFitError{Model: s.Name(), Cause: errors.New("iterative prediction diverged")}
		}
		width := 1.96 * residStd * math.Sqrt(float64(h+1))
		forecast[h] = models.TimePoint{Period: period, Value: value}
		lower[h] = models.TimePoint{Period: period, Value: value - width}
		upper[h] = models.TimePoint{Period: period, Value: value + width}
		window = append(window, value)
	}

	return &models.ForecastResult{
		Forecast:          forecast,
		ModelName:         s.Name(),
		ConfidenceLower:   lower,
		ConfidenceUpper:   upper,
		FeatureImportance: rankImportances(featureNames, gains),
		Parameters: map[string]interface{}{
			"rounds":        len(stumps),
			"learning_rate": boostLearnRate,
			"features":      featureNames,
		},
	}, nil
}

// buildTrainingSet derives supervised (features, target) pairs from the
// series. Samples start after the deepest available lag.
func buildTrainingSet(series models.TimeSeries, useYearLag bool) ([][]float64, []float64) {
	values := series.Values()
	startLag := minLagFeatures
	if useYearLag {
		startLag = 12
	}

	var X [][]float64
	var y []float64
	for t := startLag; t < len(values); t++ {
		X = append(X, featureRow(values, t, series[t].Period, useYearLag))
		y = append(y, values[t])
	}
	return X, y
}

// featureRow builds the feature vector for predicting index t of history
// (or the next future period when t == len(history)).
func featureRow(history []float64, t int, period time.Time, useYearLag bool) []float64 {
	row := []float64{
		lagValue(history, t, 1),
		lagValue(history, t, 2),
		lagValue(history, t, 3),
	}
	if useYearLag {
		row = append(row, lagValue(history, t, 12))
	}
	row = append(row, float64(period.Month()), float64((int(period.Month())-1)/3+1))
	return row
}

func lagValue(history []float64, t, lag int) float64 {
	if t-lag < 0 {
		return 0
	}
	return history[t-lag]
}

// bestStump exhaustively searches features and thresholds for the split
// minimizing residual SSE. Gain is the SSE reduction against a single leaf.
func bestStump(X [][]float64, residuals []float64) (stump, float64, bool) {
	if len(X) == 0 {
		return stump{}, 0, false
	}
	nFeatures := len(X[0])
	baseSSE := sseAroundMean(residuals)

	var best stump
	bestGain := 0.0
	found := false

	for f := 0; f < nFeatures; f++ {
		thresholds := candidateThresholds(X, f)
		for _, thr := range thresholds {
			var leftSum, rightSum float64
			var leftN, rightN int
			for i := range X {
				if X[i][f] <= thr {
					leftSum += residuals[i]
					leftN++
				} else {
					rightSum += residuals[i]
					rightN++
				}
			}
			if leftN == 0 || rightN == 0 {
				continue
			}
			leftMean := leftSum / float64(leftN)
			rightMean := rightSum / float64(rightN)

			var sse float64
			for i := range X {
				var d float64
				if X[i][f] <= thr {
					d = residuals[i] - leftMean
				} else {
					d = residuals[i] - rightMean
				}
				sse += d * d
			}
			gain := baseSSE - sse
			if gain > bestGain {
				bestGain = gain
				best = stump{feature: f, threshold: thr, left: leftMean, right: rightMean}
				found = true
			}
		}
	}
	return best, bestGain, found
}

// candidateThresholds are midpoints between consecutive distinct values.
func candidateThresholds(X [][]float64, feature int) []float64 {
	vals := make([]float64, 0, len(X))
	for i := range X {
		vals = append(vals, X[i][feature])
	}
	sort.Float64s(vals)

	var out []float64
	for i := 1; i < len(vals); i++ {
		if vals[i] != vals[i-1] {
			out = append(out, (vals[i]+vals[i-1])/2)
		}
	}
	return out
}

func sseAroundMean(values []float64) float64 {
	mean := meanOf(values)
	var sse float64
	for _, v := range values {
		d := v - mean
		sse += d * d
	}
	return sse
}

// rankImportances normalizes accumulated split gains and sorts descending.
func rankImportances(names []string, gains []float64) []models.FeatureImportance {
	var total float64
	for _, g := range gains {
		total += g
	}
	out := make([]models.FeatureImportance, 0, len(names))
	for i, name := range names {
		importance := 0.0
		if total > 0 {
			importance = gains[i] / total
		}
		out = append(out, models.FeatureImportance{Feature: name, Importance: importance})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}
