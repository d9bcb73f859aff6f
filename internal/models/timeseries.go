package models

import (
	"time"
)

// TimePoint is a single monthly observation. Period is always normalized to
// the first day of the month at midnight UTC.
type TimePoint struct {
	Period time.Time `json:"period"`
	Value  float64   `json:"value"`
}

// TimeSeries is an ordered monthly series: periods strictly increasing,
// unique, aligned to month start, no gaps.
type TimeSeries []TimePoint

// Values returns the raw values in period order.
func (ts TimeSeries) Values() []float64 {
	values := make([]float64, len(ts))
	for i, p := range ts {
		values[i] = p.Value
	}
	return values
}

// Periods returns the period timestamps in order.
func (ts TimeSeries) Periods() []time.Time {
	periods := make([]time.Time, len(ts))
	for i, p := range ts {
		periods[i] = p.Period
	}
	return periods
}

// Clone returns a deep copy of the series. Nil stays nil so the JSON shape
// survives a copy.
func (ts TimeSeries) Clone() TimeSeries {
	if ts == nil {
		return nil
	}
	out := make(TimeSeries, len(ts))
	copy(out, ts)
	return out
}

// IsEmpty reports whether the series has no points.
func (ts TimeSeries) IsEmpty() bool {
	return len(ts) == 0
}

// Total returns the sum of all values.
func (ts TimeSeries) Total() float64 {
	var sum float64
	for _, p := range ts {
		sum += p.Value
	}
	return sum
}

// Mean returns the average value, or 0 for an empty series.
func (ts TimeSeries) Mean() float64 {
	if len(ts) == 0 {
		return 0
	}
	return ts.Total() / float64(len(ts))
}

// Last returns the final point of the series. The second return value is
// false when the series is empty.
func (ts TimeSeries) Last() (TimePoint, bool) {
	if len(ts) == 0 {
		return TimePoint{}, false
	}
	return ts[len(ts)-1], true
}

// Peak returns the point with the highest value.
func (ts TimeSeries) Peak() (TimePoint, bool) {
	if len(ts) == 0 {
		return TimePoint{}, false
	}
	peak := ts[0]
	for _, p := range ts[1:] {
		if p.Value > peak.Value {
			peak = p
		}
	}
	return peak, true
}

// MonthStart truncates a timestamp to the start of its calendar month in UTC.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextPeriod returns the start of the month immediately after the series'
// last period. The second return value is false when the series is empty.
func (ts TimeSeries) NextPeriod() (time.Time, bool) {
	last, ok := ts.Last()
	if !ok {
		return time.Time{}, false
	}
	return last.Period.AddDate(0, 1, 0), true
}
