package models

import (
	"time"
)

// ScenarioParams captures every adjustment knob applied to a base forecast.
// Neutral values are GrowthRatePct 0, SeasonalityFactor 1 and DemandWeight 1;
// the HTTP layer substitutes them for omitted knobs, so a zero here is a
// deliberate setting (a flattened pattern, a pure-pipeline blend), not an
// absent one.
type ScenarioParams struct {
	GrowthRatePct        float64            `json:"growth_rate_pct"`
	DemandWeight         float64            `json:"demand_weight"`
	SeasonalityFactor    float64            `json:"seasonality_factor"`
	QuarterlyAdjustments map[string]float64 `json:"quarterly_adjustments,omitempty"`
	PipelineSeries       TimeSeries         `json:"pipeline_series,omitempty"`
}

// Scenario is a named, saved forecast variant. Scenarios are never mutated
// in place; replacing one is a save under the same name.
type Scenario struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	Params           ScenarioParams `json:"params"`
	Forecast         ForecastResult `json:"forecast"`
	HistoricalDemand TimeSeries     `json:"historical_demand"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Clone returns a deep copy including every nested series, so holders of a
// clone cannot reach the original's slices.
func (s Scenario) Clone() Scenario {
	out := s
	out.Forecast = *s.Forecast.Clone()
	out.HistoricalDemand = s.HistoricalDemand.Clone()
	out.Params.PipelineSeries = s.Params.PipelineSeries.Clone()
	if s.Params.QuarterlyAdjustments != nil {
		out.Params.QuarterlyAdjustments = make(map[string]float64, len(s.Params.QuarterlyAdjustments))
		for k, v := range s.Params.QuarterlyAdjustments {
			out.Params.QuarterlyAdjustments[k] = v
		}
	}
	return out
}

// ScenarioSummary is one row of a scenario comparison table.
type ScenarioSummary struct {
	Name            string    `json:"name"`
	TotalForecast   float64   `json:"total_forecast"`
	MonthlyAverage  float64   `json:"monthly_average"`
	PeakValue       float64   `json:"peak_value"`
	PeakPeriod      time.Time `json:"peak_period"`
	VarianceUnits   float64   `json:"variance_units"`
	VariancePct     float64   `json:"variance_pct"`
	FormattedTotal  string    `json:"formatted_total"`
	FormattedDelta  string    `json:"formatted_delta"`
	IsBaseline      bool      `json:"is_baseline"`
}

// ScenarioComparison is the result of comparing two or more scenarios
// against the first (baseline) entry.
type ScenarioComparison struct {
	Baseline  string            `json:"baseline"`
	Rows      []ScenarioSummary `json:"rows"`
	Generated time.Time         `json:"generated_at"`
}
