package forecast

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

// naiveWindow is the trailing window averaged for the flat fallback.
const naiveWindow = 3

// Naive produces a flat continuation of the trailing average. It is the
// fallback callers use after a ModelFitError, or when PO planning runs with
// no approved scenario; it carries no confidence band and no metrics.
func Naive(series models.TimeSeries, horizon int) (*models.ForecastResult, error) {
	if len(series) < 1 {
		return nil, &InsufficientHistoryError{Needed: 1, Got: 0}
	}
	if horizon < 1 {
		horizon = 1
	}

	window := naiveWindow
	if len(series) < window {
		window = len(series)
	}

	sma := trend.NewSmaWithPeriod[float64](window)
	smoothed := helper.ChanToSlice(sma.Compute(helper.SliceToChan(series.Values())))
	level := smoothed[len(smoothed)-1]
	if level < 0 {
		level = 0
	}

	start, _ := series.NextPeriod()
	forecast := make(models.TimeSeries, horizon)
	for h := 0; h < horizon; h++ {
		forecast[h] = models.TimePoint{Period: start.AddDate(0, h, 0), Value: level}
	}

	return &models.ForecastResult{
		Forecast:  forecast,
		ModelName: ModelNaive,
		Parameters: map[string]interface{}{
			"window":  window,
			"horizon": horizon,
		},
	}, nil
}
