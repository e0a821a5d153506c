package http

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"incassi/internal/core"
	"incassi/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady verifies the storage backend answers before declaring the
// service ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.store.GetSettings(ctx); err != nil {
		s.logger.LogError(ctx, "Readiness check failed", err,
			log.ComponentHTTP, log.OpRead, log.NewFields())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"store":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type (
	settingsJSON struct {
		TargetMonthly int64  `json:"target_monthly"`
		BonusAmount   int64  `json:"bonus_amount"`
		BonusTitle    string `json:"bonus_title"`
	}

	reportJSON struct {
		Year        int `json:"year"`
		Month       int `json:"month"`
		DaysInMonth int `json:"days_in_month"`
		ElapsedDays int `json:"elapsed_days"`

		TodayAmount       decimal.Decimal `json:"today_amount"`
		MonthToDate       decimal.Decimal `json:"month_to_date"`
		ProgressRatio     float64         `json:"progress_ratio"`
		RemainingToTarget decimal.Decimal `json:"remaining_to_target"`
		GoalReached       bool            `json:"goal_reached"`

		DailyAverage      *decimal.Decimal `json:"daily_average"`
		ProjectedMonthEnd *decimal.Decimal `json:"projected_month_end"`
		ProjectedGap      *decimal.Decimal `json:"projected_gap"`

		Last7Sum  decimal.Decimal  `json:"last7_sum"`
		Prev7Sum  *decimal.Decimal `json:"prev7_sum"`
		GrowthPct *float64         `json:"growth_pct"`
	}

	dailyPointJSON struct {
		Date   string          `json:"date"`
		Amount decimal.Decimal `json:"amount"`
	}

	cumulativePointJSON struct {
		Date       string          `json:"date"`
		Cumulative decimal.Decimal `json:"cumulative"`
		Target     decimal.Decimal `json:"target"`
	}

	dashboardJSON struct {
		Month      string                `json:"month"`
		Settings   settingsJSON          `json:"settings"`
		Report     reportJSON            `json:"report"`
		Daily      []dailyPointJSON      `json:"daily"`
		Cumulative []cumulativePointJSON `json:"cumulative"`
	}
)

func toSettingsJSON(s core.Settings) settingsJSON {
	return settingsJSON{
		TargetMonthly: s.TargetMonthly,
		BonusAmount:   s.BonusAmount,
		BonusTitle:    s.BonusTitle,
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view, err := s.dashboard.View(r.Context())
	if err != nil {
		s.logger.LogError(r.Context(), "Dashboard view failed", err,
			log.ComponentDashboard, log.OpRead, log.NewFields())
		writeDomainError(w, err)
		return
	}

	rep := view.Report
	resp := dashboardJSON{
		Month:    view.MonthLabel,
		Settings: toSettingsJSON(view.Settings),
		Report: reportJSON{
			Year:              rep.Year,
			Month:             int(rep.Month),
			DaysInMonth:       rep.DaysInMonth,
			ElapsedDays:       rep.ElapsedDays,
			TodayAmount:       rep.TodayAmount,
			MonthToDate:       rep.MonthToDate,
			ProgressRatio:     rep.ProgressRatio,
			RemainingToTarget: rep.RemainingToTarget,
			GoalReached:       rep.GoalReached,
			DailyAverage:      rep.DailyAverage,
			ProjectedMonthEnd: rep.ProjectedMonthEnd,
			ProjectedGap:      rep.ProjectedGap,
			Last7Sum:          rep.Last7Sum,
			Prev7Sum:          rep.Prev7Sum,
			GrowthPct:         rep.GrowthPct,
		},
		Daily:      make([]dailyPointJSON, 0, len(view.Daily)),
		Cumulative: make([]cumulativePointJSON, 0, len(view.Cumulative)),
	}
	for _, p := range view.Daily {
		resp.Daily = append(resp.Daily, dailyPointJSON{Date: p.Date.ISO(), Amount: p.Amount})
	}
	for _, p := range view.Cumulative {
		resp.Cumulative = append(resp.Cumulative, cumulativePointJSON{
			Date:       p.Date.ISO(),
			Cumulative: p.Cumulative,
			Target:     p.Target,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
