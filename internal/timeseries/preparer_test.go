package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

func TestPreparer_Prepare_MonotonicCoverage(t *testing.T) {
	p := NewPreparer(nil)

	rows := []models.DemandRow{
		{Date: "2025-01-15", Value: 10},
		{Date: "2025-01-20", Value: 5},
		{Date: "2025-04-02", Value: 7},
		{Date: "2025-03-09", Value: 3},
	}

	series := p.Prepare(rows)
	require.Len(t, series, 4, "one point per month from Jan to Apr")

	expected := []struct {
		period time.Time
		value  float64
	}{
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 15},
		{time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 3},
		{time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 7},
	}
	for i, exp := range expected {
		assert.Equal(t, exp.period, series[i].Period)
		assert.Equal(t, exp.value, series[i].Value)
	}
}

func TestPreparer_Prepare_EmptyInput(t *testing.T) {
	p := NewPreparer(nil)

	series := p.Prepare(nil)
	assert.True(t, series.IsEmpty())

	series = p.Prepare([]models.DemandRow{})
	assert.True(t, series.IsEmpty())
}

func TestPreparer_Prepare_DropsUnparseableDates(t *testing.T) {
	p := NewPreparer(nil)

	rows := []models.DemandRow{
		{Date: "2025-06-01", Value: 100},
		{Date: "not a date", Value: 50},
		{Date: "", Value: 25},
	}

	series := p.Prepare(rows)
	require.Len(t, series, 1)
	assert.Equal(t, 100.0, series[0].Value)
}

func TestPreparer_Prepare_DateFormats(t *testing.T) {
	p := NewPreparer(nil)

	tests := []struct {
		name string
		date string
	}{
		{"iso date", "2025-02-10"},
		{"iso datetime", "2025-02-10 08:30:00"},
		{"rfc3339", "2025-02-10T08:30:00Z"},
		{"year month", "2025-02"},
		{"us format", "02/10/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := p.Prepare([]models.DemandRow{{Date: tt.date, Value: 1}})
			require.Len(t, series, 1)
			assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), series[0].Period)
		})
	}
}

func TestPreparer_PrepareGrouped(t *testing.T) {
	p := NewPreparer(nil)

	rows := []models.DemandRow{
		{Date: "2025-01-05", Value: 10, Groups: map[string]string{"sku": "A", "region": "west"}},
		{Date: "2025-01-15", Value: 20, Groups: map[string]string{"sku": "A", "region": "west"}},
		{Date: "2025-01-10", Value: 5, Groups: map[string]string{"sku": "B", "region": "east"}},
	}

	grouped := p.PrepareGrouped(rows, []string{"sku", "region"})
	require.Len(t, grouped, 2)

	a := grouped["A|west"]
	require.Len(t, a, 1)
	assert.Equal(t, 30.0, a[0].Value)

	b := grouped["B|east"]
	require.Len(t, b, 1)
	assert.Equal(t, 5.0, b[0].Value)
}

func TestPreparer_PrepareGrouped_MissingKey(t *testing.T) {
	p := NewPreparer(nil)

	rows := []models.DemandRow{
		{Date: "2025-01-05", Value: 10},
	}

	grouped := p.PrepareGrouped(rows, []string{"sku"})
	require.Contains(t, grouped, "")
	assert.Equal(t, 10.0, grouped[""][0].Value)
}
