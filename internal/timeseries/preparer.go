package timeseries

import (
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

// dateLayouts are tried in order when parsing row dates. The ingestion layer
// normalizes locale formats, so this list only covers the shapes it emits.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"01/02/2006",
}

// Preparer converts raw event-level rows into clean, gap-filled monthly
// series. It never errors: unparseable dates are dropped (and counted), and
// empty input yields an empty series.
type Preparer struct {
	logger *logrus.Logger
}

// NewPreparer creates a series preparer.
func NewPreparer(logger *logrus.Logger) *Preparer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Preparer{logger: logger}
}

// Prepare aggregates rows into a single monthly series: one point per
// calendar month from the first to the last observed month, missing months
// filled with zero.
func (p *Preparer) Prepare(rows []models.DemandRow) models.TimeSeries {
	buckets, dropped := p.bucketize(rows)
	if dropped > 0 {
		p.logger.WithFields(logrus.Fields{
			"dropped": dropped,
			"total":   len(rows),
		}).Warn("Dropped rows with unparseable dates")
	}
	return reindex(buckets)
}

// PrepareGrouped aggregates rows into one series per distinct combination of
// the given group keys. Rows missing a key fall into the "" bucket for it.
func (p *Preparer) PrepareGrouped(rows []models.DemandRow, groupKeys []string) map[string]models.TimeSeries {
	grouped := make(map[string][]models.DemandRow)
	for _, row := range rows {
		parts := make([]string, len(groupKeys))
		for i, key := range groupKeys {
			parts[i] = row.Groups[key]
		}
		gk := strings.Join(parts, "|")
		grouped[gk] = append(grouped[gk], row)
	}

	out := make(map[string]models.TimeSeries, len(grouped))
	for gk, groupRows := range grouped {
		out[gk] = p.Prepare(groupRows)
	}
	return out
}

// bucketize sums values per calendar month and counts dropped rows.
func (p *Preparer) bucketize(rows []models.DemandRow) (map[time.Time]float64, int) {
	buckets := make(map[time.Time]float64)
	dropped := 0
	for _, row := range rows {
		ts, ok := parseDate(row.Date)
		if !ok {
			dropped++
			continue
		}
		buckets[models.MonthStart(ts)] += row.Value
	}
	return buckets, dropped
}

// reindex expands month buckets into a continuous series with zero fill.
func reindex(buckets map[time.Time]float64) models.TimeSeries {
	if len(buckets) == 0 {
		return models.TimeSeries{}
	}

	months := make([]time.Time, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	first, last := months[0], months[len(months)-1]
	var series models.TimeSeries
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		series = append(series, models.TimePoint{Period: m, Value: buckets[m]})
	}
	return series
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
