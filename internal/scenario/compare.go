package scenario

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

// Compare builds a side-by-side summary of the named scenarios. The first
// name is the baseline; every other row reports its variance against it in
// units and percent. At least two names are required.
func (s *Store) Compare(names []string) (*models.ScenarioComparison, error) {
	if len(names) < 2 {
		return nil, &InsufficientSelectionError{Got: len(names)}
	}

	scenarios := make([]*models.Scenario, 0, len(names))
	for _, name := range names {
		sc, err := s.Get(name)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}

	printer := message.NewPrinter(language.English)

	baseline := summarize(scenarios[0])
	baseline.IsBaseline = true
	baseline.FormattedTotal = printer.Sprintf("%.0f", baseline.TotalForecast)
	baseline.FormattedDelta = "baseline"

	rows := make([]models.ScenarioSummary, 0, len(scenarios))
	rows = append(rows, baseline)
	for _, sc := range scenarios[1:] {
		row := summarize(sc)
		row.VarianceUnits = row.TotalForecast - baseline.TotalForecast
		if baseline.TotalForecast != 0 {
			row.VariancePct = row.VarianceUnits / baseline.TotalForecast * 100
		}
		row.FormattedTotal = printer.Sprintf("%.0f", row.TotalForecast)
		row.FormattedDelta = printer.Sprintf("%+.0f (%+.1f%%)", row.VarianceUnits, row.VariancePct)
		rows = append(rows, row)
	}

	return &models.ScenarioComparison{
		Baseline:  baseline.Name,
		Rows:      rows,
		Generated: time.Now().UTC(),
	}, nil
}

func summarize(sc *models.Scenario) models.ScenarioSummary {
	forecast := sc.Forecast.Forecast
	summary := models.ScenarioSummary{
		Name:          sc.Name,
		TotalForecast: forecast.Total(),
	}
	if n := len(forecast); n > 0 {
		summary.MonthlyAverage = summary.TotalForecast / float64(n)
		if peak, ok := forecast.Peak(); ok {
			summary.PeakValue = peak.Value
			summary.PeakPeriod = peak.Period
		}
	}
	return summary
}
