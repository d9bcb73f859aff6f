package scenario

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

// Adjuster applies scenario knobs to a base forecast. The five steps run in
// a fixed order because each is a multiplicative transform of the previous
// step's output: growth, seasonality reshape, quarterly override, pipeline
// blend, clip.
type Adjuster struct {
	logger *logrus.Logger
}

// NewAdjuster creates a scenario adjuster.
func NewAdjuster(logger *logrus.Logger) *Adjuster {
	if logger == nil {
		logger = logrus.New()
	}
	return &Adjuster{logger: logger}
}

// Adjust returns a new ForecastResult with the scenario parameters applied.
// The base result is never mutated. Confidence bounds are rescaled by the
// net multiplicative change of the point forecast (ratio of adjusted mean
// to base mean); this is a documented approximation, not a re-derived
// statistical interval.
func (a *Adjuster) Adjust(base *models.ForecastResult, historical models.TimeSeries, params models.ScenarioParams) *models.ForecastResult {
	result := base.Clone()

	// Step 1: compound annual growth spread over months.
	if params.GrowthRatePct != 0 {
		monthlyRate := math.Pow(1+params.GrowthRatePct/100, 1.0/12) - 1
		for i := range result.Forecast {
			result.Forecast[i].Value *= math.Pow(1+monthlyRate, float64(i+1))
		}
	}

	// Step 2: reshape the historical seasonal pattern. A factor of 1 keeps
	// it, 0 flattens it, above 1 exaggerates it.
	if params.SeasonalityFactor != 1 {
		indices := seasonalIndices(historical)
		for i := range result.Forecast {
			orig := indices[result.Forecast[i].Period.Month()]
			if orig <= 0 {
				continue
			}
			reshaped := 1 + (orig-1)*params.SeasonalityFactor
			result.Forecast[i].Value = result.Forecast[i].Value / orig * reshaped
		}
	}

	// Step 3: per-quarter percentage overrides.
	if len(params.QuarterlyAdjustments) > 0 {
		for i := range result.Forecast {
			q := quarterOf(result.Forecast[i].Period)
			if pct, ok := params.QuarterlyAdjustments[q]; ok {
				result.Forecast[i].Value *= 1 + pct/100
			}
		}
	}

	// Step 4: blend with the pipeline signal. Periods the pipeline does not
	// cover stay pure demand.
	if params.DemandWeight < 1 && len(params.PipelineSeries) > 0 {
		pipeline := make(map[time.Time]float64, len(params.PipelineSeries))
		for _, p := range params.PipelineSeries {
			pipeline[p.Period] = p.Value
		}
		w := params.DemandWeight
		for i := range result.Forecast {
			if pv, ok := pipeline[result.Forecast[i].Period]; ok {
				result.Forecast[i].Value = result.Forecast[i].Value*w + pv*(1-w)
			}
		}
	}

	// Step 5: demand cannot be negative.
	for i := range result.Forecast {
		if result.Forecast[i].Value < 0 {
			result.Forecast[i].Value = 0
		}
	}

	rescaleBounds(result, base)

	if result.Parameters == nil {
		result.Parameters = map[string]interface{}{}
	}
	result.Parameters["growth_rate_pct"] = params.GrowthRatePct
	result.Parameters["demand_weight"] = params.DemandWeight
	result.Parameters["seasonality_factor"] = params.SeasonalityFactor
	result.Parameters["quarterly_adjustments"] = params.QuarterlyAdjustments
	result.Parameters["pipeline_blended"] = params.DemandWeight < 1 && len(params.PipelineSeries) > 0

	a.logger.WithFields(logrus.Fields{
		"growth_rate_pct": params.GrowthRatePct,
		"demand_weight":   params.DemandWeight,
		"periods":         len(result.Forecast),
	}).Info("Applied scenario adjustments")

	return result
}

// seasonalIndices computes the per-calendar-month seasonal index of the
// historical series: mean by month divided by overall mean.
func seasonalIndices(historical models.TimeSeries) map[time.Month]float64 {
	indices := make(map[time.Month]float64)
	overall := historical.Mean()
	if overall == 0 {
		return indices
	}

	sums := make(map[time.Month]float64)
	counts := make(map[time.Month]int)
	for _, p := range historical {
		sums[p.Period.Month()] += p.Value
		counts[p.Period.Month()]++
	}
	for month, sum := range sums {
		indices[month] = sum / float64(counts[month]) / overall
	}
	return indices
}

func quarterOf(t time.Time) string {
	switch (int(t.Month()) - 1) / 3 {
	case 0:
		return "Q1"
	case 1:
		return "Q2"
	case 2:
		return "Q3"
	default:
		return "Q4"
	}
}

// rescaleBounds scales the confidence band by the same net change applied
// to the point forecast.
func rescaleBounds(result *models.ForecastResult, base *models.ForecastResult) {
	baseMean := base.Forecast.Mean()
	if baseMean == 0 || len(result.ConfidenceLower) == 0 {
		return
	}
	ratio := result.Forecast.Mean() / baseMean
	for i := range result.ConfidenceLower {
		result.ConfidenceLower[i].Value *= ratio
		if result.ConfidenceLower[i].Value < 0 {
			result.ConfidenceLower[i].Value = 0
		}
	}
	for i := range result.ConfidenceUpper {
		result.ConfidenceUpper[i].Value *= ratio
	}
	// Keep lower <= point <= upper after rescaling.
	for i := range result.Forecast {
		if i < len(result.ConfidenceLower) && result.ConfidenceLower[i].Value > result.Forecast[i].Value {
			result.ConfidenceLower[i].Value = result.Forecast[i].Value
		}
		if i < len(result.ConfidenceUpper) && result.ConfidenceUpper[i].Value < result.Forecast[i].Value {
			result.ConfidenceUpper[i].Value = result.Forecast[i].Value
		}
	}
}
