package scenario

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

// PipelineAdapter converts deals into a period-aligned series usable for
// blending. The status taxonomy is caller-supplied: only deals whose status
// passes the filter count as open pipeline.
type PipelineAdapter struct {
	openStatus func(string) bool
	logger     *logrus.Logger
}

// NewPipelineAdapter creates an adapter with the given open-status
// predicate. A nil predicate treats every non-lost, non-closed status as
// open.
func NewPipelineAdapter(openStatus func(string) bool, logger *logrus.Logger) *PipelineAdapter {
	if openStatus == nil {
		openStatus = DefaultOpenStatus
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &PipelineAdapter{openStatus: openStatus, logger: logger}
}

// DefaultOpenStatus is the fallback status taxonomy: anything not closed
// or lost is open pipeline.
func DefaultOpenStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "lost", "closed lost", "closed", "closed won", "won":
		return false
	default:
		return true
	}
}

// ToPeriodSeries groups open deal amounts by expected-close month and
// returns one point for each of the horizon periods starting at start.
// Future periods with no deals get the mean of the populated periods, never
// zero, so a blend is not deflated artificially. No pipeline data at all
// yields an empty series, which the blend step treats as no signal.
func (a *PipelineAdapter) ToPeriodSeries(deals []models.DealRow, start time.Time, horizon int) models.TimeSeries {
	buckets := make(map[time.Time]decimal.Decimal)
	skipped := 0
	for _, deal := range deals {
		if !a.openStatus(deal.Status) {
			continue
		}
		ts, ok := parseDealDate(deal.ExpectedClose)
		if !ok {
			skipped++
			continue
		}
		month := models.MonthStart(ts)
		buckets[month] = buckets[month].Add(deal.Amount)
	}
	if skipped > 0 {
		a.logger.WithField("skipped", skipped).Warn("Skipped deals with unparseable close dates")
	}
	if len(buckets) == 0 {
		return models.TimeSeries{}
	}

	var total decimal.Decimal
	for _, amount := range buckets {
		total = total.Add(amount)
	}
	mean := total.Div(decimal.NewFromInt(int64(len(buckets)))).InexactFloat64()

	start = models.MonthStart(start)
	series := make(models.TimeSeries, horizon)
	for i := 0; i < horizon; i++ {
		period := start.AddDate(0, i, 0)
		value := mean
		if amount, ok := buckets[period]; ok {
			value = amount.InexactFloat64()
		}
		series[i] = models.TimePoint{Period: period, Value: value}
	}
	return series
}

func parseDealDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05", "01/02/2006"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
