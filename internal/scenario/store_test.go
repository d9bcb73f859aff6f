package scenario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

func testScenario(name string, monthlyValue float64, horizon int) models.Scenario {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	forecast := make(models.TimeSeries, horizon)
	for i := range forecast {
		forecast[i] = models.TimePoint{Period: start.AddDate(0, i, 0), Value: monthlyValue}
	}
	return models.Scenario{
		Name:     name,
		Params:   models.ScenarioParams{DemandWeight: 1, SeasonalityFactor: 1},
		Forecast: models.ForecastResult{Forecast: forecast, ModelName: "smoothing"},
	}
}

func TestStore_SaveAssignsIdentity(t *testing.T) {
	s := NewStore()

	saved := s.Save(testScenario("baseline", 100, 12))
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
}

func TestStore_SaveReplacesByName(t *testing.T) {
	s := NewStore()

	s.Save(testScenario("baseline", 100, 12))
	s.Save(testScenario("baseline", 150, 12))

	assert.Equal(t, 1, s.Len())
	sc, err := s.Get("baseline")
	require.NoError(t, err)
	assert.Equal(t, 150.0, sc.Forecast.Forecast[0].Value)
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore()

	_, err := s.Get("ghost")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.Name)
}

func TestStore_ListOrderedByCreation(t *testing.T) {
	s := NewStore()

	first := testScenario("first", 100, 6)
	first.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := testScenario("second", 100, 6)
	second.CreatedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	third := testScenario("third", 100, 6)
	third.CreatedAt = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of order
	s.Save(third)
	s.Save(first)
	s.Save(second)

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
	assert.Equal(t, "third", list[2].Name)
}

func TestStore_ReturnsDetachedCopies(t *testing.T) {
	s := NewStore()
	original := testScenario("iso", 100, 6)
	original.HistoricalDemand = models.TimeSeries{
		{Period: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), Value: 80},
	}
	s.Save(original)

	// Mutating the caller's value after save must not reach the store
	original.Forecast.Forecast[0].Value = -1
	got, err := s.Get("iso")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Forecast.Forecast[0].Value)

	// Mutating a returned copy must not reach the store either
	got.Forecast.Forecast[0].Value = -1
	got.HistoricalDemand[0].Value = -1
	again, err := s.Get("iso")
	require.NoError(t, err)
	assert.Equal(t, 100.0, again.Forecast.Forecast[0].Value)
	assert.Equal(t, 80.0, again.HistoricalDemand[0].Value)

	list := s.List()
	require.Len(t, list, 1)
	list[0].Forecast.Forecast[0].Value = -1

	require.NoError(t, s.Approve("iso"))
	approved := s.Approved()
	require.NotNil(t, approved)
	assert.Equal(t, 100.0, approved.Forecast.Forecast[0].Value)
	approved.Forecast.Forecast[0].Value = -1

	final, err := s.Get("iso")
	require.NoError(t, err)
	assert.Equal(t, 100.0, final.Forecast.Forecast[0].Value)
}

func TestStore_SingleApprovalInvariant(t *testing.T) {
	s := NewStore()
	s.Save(testScenario("a", 100, 6))
	s.Save(testScenario("b", 120, 6))

	require.NoError(t, s.Approve("a"))
	require.NoError(t, s.Approve("b"))

	approved := s.Approved()
	require.NotNil(t, approved)
	assert.Equal(t, "b", approved.Name, "last approval wins")

	require.NoError(t, s.Delete("b"))
	assert.Nil(t, s.Approved(), "deleting the approved scenario clears the approval")
}

func TestStore_ApproveMissing(t *testing.T) {
	s := NewStore()

	err := s.Approve("ghost")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestStore_DeleteOtherKeepsApproval(t *testing.T) {
	s := NewStore()
	s.Save(testScenario("a", 100, 6))
	s.Save(testScenario("b", 120, 6))
	require.NoError(t, s.Approve("a"))

	require.NoError(t, s.Delete("b"))
	approved := s.Approved()
	require.NotNil(t, approved)
	assert.Equal(t, "a", approved.Name)
}

func TestStore_Compare(t *testing.T) {
	s := NewStore()
	s.Save(testScenario("A", 100, 12)) // total 1200
	s.Save(testScenario("B", 125, 12)) // total 1500

	comparison, err := s.Compare([]string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, "A", comparison.Baseline)
	require.Len(t, comparison.Rows, 2)

	baseline := comparison.Rows[0]
	assert.True(t, baseline.IsBaseline)
	assert.Equal(t, 1200.0, baseline.TotalForecast)
	assert.Equal(t, 100.0, baseline.MonthlyAverage)
	assert.Equal(t, "baseline", baseline.FormattedDelta)

	row := comparison.Rows[1]
	assert.Equal(t, 1500.0, row.TotalForecast)
	assert.InDelta(t, 300.0, row.VarianceUnits, 1e-9)
	assert.InDelta(t, 25.0, row.VariancePct, 1e-9)
	assert.Equal(t, "1,500", row.FormattedTotal)
	assert.Contains(t, row.FormattedDelta, "+300")
	assert.Contains(t, row.FormattedDelta, "+25.0%")
}

func TestStore_CompareTooFew(t *testing.T) {
	s := NewStore()
	s.Save(testScenario("A", 100, 12))

	_, err := s.Compare([]string{"A"})
	var selection *InsufficientSelectionError
	require.ErrorAs(t, err, &selection)
	assert.Equal(t, 1, selection.Got)
}

func TestStore_CompareMissingScenario(t *testing.T) {
	s := NewStore()
	s.Save(testScenario("A", 100, 12))

	_, err := s.Compare([]string{"A", "ghost"})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	s := NewStore()
	s.Save(testScenario("conservative", 90, 12))
	s.Save(testScenario("aggressive", 140, 12))
	require.NoError(t, s.Approve("aggressive"))

	data, err := s.Export()
	require.NoError(t, err)

	restored := NewStore()
	require.NoError(t, restored.Import(data))

	assert.Equal(t, s.List(), restored.List())

	approved := restored.Approved()
	require.NotNil(t, approved)
	assert.Equal(t, "aggressive", approved.Name)
}

func TestStore_ImportRejectsGarbage(t *testing.T) {
	s := NewStore()
	assert.Error(t, s.Import([]byte("not json")))
	assert.Error(t, s.Import([]byte(`{"version": 99, "scenarios": []}`)))
	assert.Error(t, s.Import([]byte(`{"version": 1, "scenarios": [], "approved": "ghost"}`)))
}

func TestStore_ImportReplacesContents(t *testing.T) {
	source := NewStore()
	source.Save(testScenario("only", 100, 6))
	data, err := source.Export()
	require.NoError(t, err)

	s := NewStore()
	s.Save(testScenario("stale", 50, 6))
	require.NoError(t, s.Approve("stale"))

	require.NoError(t, s.Import(data))
	assert.Equal(t, 1, s.Len())
	_, err = s.Get("stale")
	assert.Error(t, err)
	assert.Nil(t, s.Approved())
}
