package scenario

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

func TestPipelineAdapter_GroupsByCloseMonth(t *testing.T) {
	a := NewPipelineAdapter(nil, nil)
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	deals := []models.DealRow{
		{Amount: decimal.NewFromInt(100), ExpectedClose: "2025-07-10", Status: "open"},
		{Amount: decimal.NewFromInt(50), ExpectedClose: "2025-07-25", Status: "negotiation"},
		{Amount: decimal.NewFromInt(80), ExpectedClose: "2025-08-05", Status: "open"},
	}

	series := a.ToPeriodSeries(deals, start, 2)
	require.Len(t, series, 2)
	assert.Equal(t, 150.0, series[0].Value)
	assert.Equal(t, 80.0, series[1].Value)
}

func TestPipelineAdapter_FiltersClosedDeals(t *testing.T) {
	a := NewPipelineAdapter(nil, nil)
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	deals := []models.DealRow{
		{Amount: decimal.NewFromInt(100), ExpectedClose: "2025-07-10", Status: "open"},
		{Amount: decimal.NewFromInt(999), ExpectedClose: "2025-07-11", Status: "closed won"},
		{Amount: decimal.NewFromInt(999), ExpectedClose: "2025-07-12", Status: "Lost"},
	}

	series := a.ToPeriodSeries(deals, start, 1)
	require.Len(t, series, 1)
	assert.Equal(t, 100.0, series[0].Value)
}

func TestPipelineAdapter_MeanSubstitutionForUncoveredPeriods(t *testing.T) {
	a := NewPipelineAdapter(nil, nil)
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	// July 100, September 300; August and beyond uncovered
	deals := []models.DealRow{
		{Amount: decimal.NewFromInt(100), ExpectedClose: "2025-07-10", Status: "open"},
		{Amount: decimal.NewFromInt(300), ExpectedClose: "2025-09-15", Status: "open"},
	}

	series := a.ToPeriodSeries(deals, start, 4)
	require.Len(t, series, 4)
	assert.Equal(t, 100.0, series[0].Value)
	assert.Equal(t, 200.0, series[1].Value, "uncovered month gets the mean of populated months")
	assert.Equal(t, 300.0, series[2].Value)
	assert.Equal(t, 200.0, series[3].Value)
}

func TestPipelineAdapter_NoOpenDeals(t *testing.T) {
	a := NewPipelineAdapter(nil, nil)
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	deals := []models.DealRow{
		{Amount: decimal.NewFromInt(100), ExpectedClose: "2025-07-10", Status: "closed"},
	}

	series := a.ToPeriodSeries(deals, start, 3)
	assert.True(t, series.IsEmpty())

	series = a.ToPeriodSeries(nil, start, 3)
	assert.True(t, series.IsEmpty())
}

func TestPipelineAdapter_SkipsUnparseableCloseDates(t *testing.T) {
	a := NewPipelineAdapter(nil, nil)
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	deals := []models.DealRow{
		{Amount: decimal.NewFromInt(100), ExpectedClose: "2025-07-10", Status: "open"},
		{Amount: decimal.NewFromInt(500), ExpectedClose: "whenever", Status: "open"},
	}

	series := a.ToPeriodSeries(deals, start, 1)
	require.Len(t, series, 1)
	assert.Equal(t, 100.0, series[0].Value)
}

func TestPipelineAdapter_CustomStatusPredicate(t *testing.T) {
	onlyCommit := func(status string) bool { return status == "commit" }
	a := NewPipelineAdapter(onlyCommit, nil)
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	deals := []models.DealRow{
		{Amount: decimal.NewFromInt(100), ExpectedClose: "2025-07-10", Status: "commit"},
		{Amount: decimal.NewFromInt(200), ExpectedClose: "2025-07-11", Status: "open"},
	}

	series := a.ToPeriodSeries(deals, start, 1)
	require.Len(t, series, 1)
	assert.Equal(t, 100.0, series[0].Value)
}

func TestDefaultOpenStatus(t *testing.T) {
	tests := []struct {
		status string
		open   bool
	}{
		{"open", true},
		{"negotiation", true},
		{"Proposal Sent", true},
		{"closed won", false},
		{"Closed Lost", false},
		{"won", false},
		{"lost", false},
		{"closed", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.open, DefaultOpenStatus(tt.status), tt.status)
	}
}
