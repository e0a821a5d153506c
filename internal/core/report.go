package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthReport carries every KPI derived from one month of records plus the
// settings snapshot. Values that can be undefined (not enough data, zero
// denominator) are nil pointers so callers cannot mistake "no data" for zero.
type MonthReport struct {
	Year  int
	Month time.Month

	DaysInMonth int
	ElapsedDays int

	TodayAmount       decimal.Decimal
	MonthToDate       decimal.Decimal
	ProgressRatio     float64
	RemainingToTarget decimal.Decimal
	GoalReached       bool

	DailyAverage      *decimal.Decimal
	ProjectedMonthEnd *decimal.Decimal
	// ProjectedGap is how much the linear projection falls short of the
	// target. Zero means on track; nil means no projection is possible.
	ProjectedGap *decimal.Decimal

	// Last7Sum covers the series' last 7 records by date order, not the last
	// 7 calendar days. Months with gaps silently shift the window; this
	// mirrors the behaviour the dashboard has always had.
	Last7Sum  decimal.Decimal
	Prev7Sum  *decimal.Decimal
	GrowthPct *float64
}

// DaysInMonth returns the number of calendar days in the given month,
// accounting for leap years.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonthReport computes all KPIs for one month. series must hold only
// records of today's month, sorted by date ascending (the store guarantees
// both); it may be empty. The function is pure: no I/O, no clock reads.
func BuildMonthReport(series []RevenueRecord, settings Settings, today Date) MonthReport {
	year, month := today.Year(), today.Month()
	r := MonthReport{
		Year:        year,
		Month:       month,
		DaysInMonth: DaysInMonth(year, month),
		ElapsedDays: today.Day(),
	}

	target := decimal.NewFromInt(settings.TargetMonthly)

	for _, rec := range series {
		r.MonthToDate = r.MonthToDate.Add(rec.Amount)
		if rec.Date.Equal(today.Time) {
			r.TodayAmount = rec.Amount
		}
	}

	if target.IsPositive() {
		ratio, _ := r.MonthToDate.Div(target).Float64()
		r.ProgressRatio = min(ratio, 1.0)
	}
	if remain := target.Sub(r.MonthToDate); remain.IsPositive() {
		r.RemainingToTarget = remain
	} else {
		r.RemainingToTarget = decimal.Zero
	}
	r.GoalReached = r.MonthToDate.GreaterThanOrEqual(target)

	if r.ElapsedDays > 0 {
		avg := r.MonthToDate.Div(decimal.NewFromInt(int64(r.ElapsedDays)))
		projected := avg.Mul(decimal.NewFromInt(int64(r.DaysInMonth)))
		r.DailyAverage = &avg
		r.ProjectedMonthEnd = &projected

		if target.IsPositive() {
			gap := target.Sub(projected)
			if gap.Sign() <= 0 {
				gap = decimal.Zero // on track, never report a surplus
			}
			r.ProjectedGap = &gap
		}
	}

	last7 := series
	if len(last7) > 7 {
		last7 = last7[len(last7)-7:]
	}
	for _, rec := range last7 {
		r.Last7Sum = r.Last7Sum.Add(rec.Amount)
	}

	if len(series) >= 14 {
		prev7 := decimal.Zero
		for _, rec := range series[len(series)-14 : len(series)-7] {
			prev7 = prev7.Add(rec.Amount)
		}
		r.Prev7Sum = &prev7

		if prev7.IsPositive() {
			growth, _ := r.Last7Sum.Div(prev7).
				Sub(decimal.NewFromInt(1)).
				Mul(decimal.NewFromInt(100)).
				Float64()
			r.GrowthPct = &growth
		}
	}

	return r
}

type (
	// SeriesPoint is a single day's takings, for the daily plot.
	SeriesPoint struct {
		Date   Date
		Amount decimal.Decimal
	}

	// CumulativePoint is a running month total together with the constant
	// target value used to draw the reference line.
	CumulativePoint struct {
		Date       Date
		Cumulative decimal.Decimal
		Target     decimal.Decimal
	}
)

// DailySeries converts records into plot points, preserving order.
func DailySeries(series []RevenueRecord) []SeriesPoint {
	points := make([]SeriesPoint, len(series))
	for i, rec := range series {
		points[i] = SeriesPoint{Date: rec.Date, Amount: rec.Amount}
	}
	return points
}

// CumulativeSeries builds the running-sum series with the target carried on
// every point.
func CumulativeSeries(series []RevenueRecord, settings Settings) []CumulativePoint {
	target := decimal.NewFromInt(settings.TargetMonthly)
	points := make([]CumulativePoint, len(series))
	sum := decimal.Zero
	for i, rec := range series {
		sum = sum.Add(rec.Amount)
		points[i] = CumulativePoint{Date: rec.Date, Cumulative: sum, Target: target}
	}
	return points
}
