package forecast

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/timeseries"
)

// Model identifiers accepted by the engine.
const (
	ModelSmoothing = "smoothing"
	ModelSARIMA    = "sarima"
	ModelEnsemble  = "ensemble"
	ModelNaive     = "naive"
)

// MinHistory is the minimum number of monthly observations any strategy
// accepts.
const MinHistory = 6

// monthsPerYear is the candidate seasonal period for monthly data.
const monthsPerYear = 12

// Strategy is one interchangeable forecasting model: fit on a series,
// produce horizon future points with a 95% confidence band.
type Strategy interface {
	Name() string
	FitForecast(series models.TimeSeries, horizon int) (*models.ForecastResult, error)
}

// Engine dispatches forecast requests to a model strategy, back-tests the
// fit for accuracy metrics, and enforces the non-negativity invariant.
type Engine struct {
	detector *timeseries.SeasonalityDetector
	logger   *logrus.Logger
}

// NewEngine creates a forecast engine.
func NewEngine(detector *timeseries.SeasonalityDetector, logger *logrus.Logger) *Engine {
	if detector == nil {
		detector = timeseries.NewSeasonalityDetector()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{detector: detector, logger: logger}
}

// Forecast fits the selected model on the series and produces a forecast
// for the requested horizon. The input series is never mutated.
func (e *Engine) Forecast(ctx context.Context, series models.TimeSeries, model string, horizon int) (*models.ForecastResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be at least 1, got %d", horizon)
	}
	if len(series) < MinHistory {
		return nil, &InsufficientHistoryError{Needed: MinHistory, Got: len(series)}
	}

	factory, err := e.strategyFactory(model, series)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"model":   model,
		"horizon": horizon,
		"history": len(series),
	}).Info("Generating forecast")

	result, err := factory().FitForecast(series.Clone(), horizon)
	if err != nil {
		return nil, err
	}

	result.Metrics = e.backtest(factory, series, horizon)
	clipResult(result)

	if result.Parameters == nil {
		result.Parameters = map[string]interface{}{}
	}
	result.Parameters["horizon"] = horizon
	return result, nil
}

// strategyFactory returns a constructor so the back-test can refit a fresh
// strategy on the truncated series.
func (e *Engine) strategyFactory(model string, series models.TimeSeries) (func() Strategy, error) {
	hasSeason, period := e.detector.Detect(series, monthsPerYear)
	seasonalPeriod := 1
	if hasSeason {
		seasonalPeriod = period
	}

	switch model {
	case ModelSmoothing:
		return func() Strategy { return newSmoothing(seasonalPeriod) }, nil
	case ModelSARIMA:
		n := len(series)
		return func() Strategy { return newSARIMA(seasonalPeriod, n) }, nil
	case ModelEnsemble:
		return func() Strategy { return newEnsemble() }, nil
	default:
		return nil, fmt.Errorf("unknown forecast model %q", model)
	}
}

// backtest withholds the trailing observations, refits on the remainder and
// scores the regenerated forecast against the actuals. Returns nil when the
// series is too short to hold anything out.
func (e *Engine) backtest(factory func() Strategy, series models.TimeSeries, horizon int) map[string]float64 {
	holdout := horizon
	if h := len(series) / 4; h < holdout {
		holdout = h
	}
	if holdout > 6 {
		holdout = 6
	}
	if holdout < 1 || len(series)-holdout < MinHistory {
		return nil
	}

	train := series[:len(series)-holdout]
	actual := series[len(series)-holdout:]

	result, err := factory().FitForecast(train.Clone(), holdout)
	if err != nil {
		e.logger.WithError(err).Debug("Back-test refit failed, skipping metrics")
		return nil
	}

	return scoreForecast(actual, result.Forecast)
}

// scoreForecast computes MAPE, RMSE and MAE between actuals and predictions.
func scoreForecast(actual, predicted models.TimeSeries) map[string]float64 {
	n := len(actual)
	if n == 0 || len(predicted) < n {
		return nil
	}

	var sumAbs, sumSq, sumAPE float64
	apeCount := 0
	for i := 0; i < n; i++ {
		err := actual[i].Value - predicted[i].Value
		sumAbs += math.Abs(err)
		sumSq += err * err
		if actual[i].Value != 0 {
			sumAPE += math.Abs(err) / math.Abs(actual[i].Value)
			apeCount++
		}
	}

	metrics := map[string]float64{
		models.MetricMAE:  sumAbs / float64(n),
		models.MetricRMSE: math.Sqrt(sumSq / float64(n)),
	}
	if apeCount > 0 {
		metrics[models.MetricMAPE] = sumAPE / float64(apeCount) * 100
	}
	return metrics
}

// clipResult floors the point forecast at zero and keeps the band ordered
// around it.
func clipResult(result *models.ForecastResult) {
	for i := range result.Forecast {
		if result.Forecast[i].Value < 0 {
			result.Forecast[i].Value = 0
		}
	}
	for i := range result.ConfidenceLower {
		if result.ConfidenceLower[i].Value < 0 {
			result.ConfidenceLower[i].Value = 0
		}
		if i < len(result.Forecast) && result.ConfidenceLower[i].Value > result.Forecast[i].Value {
			result.ConfidenceLower[i].Value = result.Forecast[i].Value
		}
	}
	for i := range result.ConfidenceUpper {
		if i < len(result.Forecast) && result.ConfidenceUpper[i].Value < result.Forecast[i].Value {
			result.ConfidenceUpper[i].Value = result.Forecast[i].Value
		}
	}
}
