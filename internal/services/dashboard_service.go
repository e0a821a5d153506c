package services

import (
	"context"
	"fmt"

	"incassi/internal/clock"
	"incassi/internal/core"
	"incassi/internal/store"
)

// DashboardView is everything the dashboard needs for one render: the
// current month report plus the chart series behind it.
type DashboardView struct {
	MonthLabel string
	Settings   core.Settings
	Report     core.MonthReport
	Daily      []core.SeriesPoint
	Cumulative []core.CumulativePoint
}

// DashboardService assembles the read side of the app. It holds no state
// beyond its dependencies; every View call reflects the store as of now.
type DashboardService struct {
	store store.Store
	clock clock.Clock
}

func NewDashboardService(s store.Store, c clock.Clock) *DashboardService {
	return &DashboardService{store: s, clock: c}
}

// View loads settings and the current month's records, then derives all
// KPIs for today in the service's timezone.
func (d *DashboardService) View(ctx context.Context) (DashboardView, error) {
	today := d.clock.Today()

	settings, err := d.store.GetSettings(ctx)
	if err != nil {
		return DashboardView{}, fmt.Errorf("load settings: %w", err)
	}

	records, err := d.store.MonthRecords(ctx, today.Year(), today.Month())
	if err != nil {
		return DashboardView{}, fmt.Errorf("load month records: %w", err)
	}

	report := core.BuildMonthReport(records, settings, today)
	return DashboardView{
		MonthLabel: fmt.Sprintf("%04d-%02d", today.Year(), int(today.Month())),
		Settings:   settings,
		Report:     report,
		Daily:      core.DailySeries(records),
		Cumulative: core.CumulativeSeries(records, settings),
	}, nil
}
