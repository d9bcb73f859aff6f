package models

// FeatureImportance is a single (feature, importance) entry for ensemble
// models, ranked by importance descending.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ForecastResult is the immutable output of a forecast generation or a
// scenario adjustment. Forecast covers exactly the requested horizon of
// future periods; all values are clipped to be non-negative.
type ForecastResult struct {
	Forecast          TimeSeries             `json:"forecast"`
	ModelName         string                 `json:"model_name"`
	ConfidenceLower   TimeSeries             `json:"confidence_lower,omitempty"`
	ConfidenceUpper   TimeSeries             `json:"confidence_upper,omitempty"`
	Metrics           map[string]float64     `json:"metrics,omitempty"`
	FeatureImportance []FeatureImportance    `json:"feature_importance,omitempty"`
	Parameters        map[string]interface{} `json:"parameters,omitempty"`
}

// Clone returns a deep copy so adjustments never mutate the base result.
func (fr *ForecastResult) Clone() *ForecastResult {
	out := &ForecastResult{
		Forecast:        fr.Forecast.Clone(),
		ModelName:       fr.ModelName,
		ConfidenceLower: fr.ConfidenceLower.Clone(),
		ConfidenceUpper: fr.ConfidenceUpper.Clone(),
	}
	if fr.Metrics != nil {
		out.Metrics = make(map[string]float64, len(fr.Metrics))
		for k, v := range fr.Metrics {
			out.Metrics[k] = v
		}
	}
	if fr.FeatureImportance != nil {
		out.FeatureImportance = make([]FeatureImportance, len(fr.FeatureImportance))
		copy(out.FeatureImportance, fr.FeatureImportance)
	}
	if fr.Parameters != nil {
		out.Parameters = make(map[string]interface{}, len(fr.Parameters))
		for k, v := range fr.Parameters {
			out.Parameters[k] = v
		}
	}
	return out
}

// Standard metric keys reported by the forecasting strategies.
const (
	MetricMAPE = "mape"
	MetricRMSE = "rmse"
	MetricMAE  = "mae"
)
