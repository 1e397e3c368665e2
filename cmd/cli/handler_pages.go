package main

import (
	"net/http"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/history"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/Davidlouiz/passerelle-vhf/pkg/timeline"
	"go.uber.org/zap"
)

type dashboardView struct {
	Status        *models.SystemStatus
	Runner        string
	UpdatedAt     time.Time
	Stale         bool
	RefreshSecond int
}

type timelineView struct {
	timeline.Page
	Horizons []int
}

func (rm *RouteManager) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	status, updated, stale, err := rm.currentStatus(r.Context())
	if err != nil {
		rm.failPage(w, r, err)
		return
	}
	rm.render(w, r, http.StatusOK, "dashboard", "Dashboard", dashboardView{
		Status:        status,
		Runner:        status.Runner(),
		UpdatedAt:     updated.In(rm.loc),
		Stale:         stale,
		RefreshSecond: int(rm.cfg.StatusInterval.Seconds()),
	})
}

func (rm *RouteManager) timelineHandler(w http.ResponseWriter, r *http.Request) {
	hours := timeline.ParseHours(r.URL.Query().Get("hours"))
	view := timelineView{Horizons: timeline.Horizons}

	forecast, err := rm.gateway(w, r).GetForecast(r.Context(), hours)
	if err != nil {
		if rm.unauthorized(w, r, err) {
			return
		}
		rm.logger.Warn("load forecast", zap.Error(err))
		view.Page = timeline.ErrorPage(hours, err)
		rm.render(w, r, http.StatusOK, "timeline", "Forecast", view)
		return
	}

	view.Page = timeline.NewPage(hours, forecast, rm.now(), rm.loc)
	rm.render(w, r, http.StatusOK, "timeline", "Forecast", view)
}

type historyView struct {
	history.Page
	Statuses []string
	Modes    []string
}

func (rm *RouteManager) historyHandler(w http.ResponseWriter, r *http.Request) {
	client := rm.gateway(w, r)
	state := history.ParseState(r.URL.Query())
	if r.URL.Query().Get("apply") != "" {
		state = state.ApplyFilters(state.Filters)
	}

	view := historyView{
		Page:     history.Page{State: state},
		Statuses: models.Statuses,
		Modes:    []string{models.ModeScheduled, models.ModeManualTest},
	}

	channels, err := client.GetChannels(r.Context())
	if err != nil {
		rm.failPage(w, r, err)
		return
	}

	query, err := state.Query(rm.loc)
	if err != nil {
		view.Channels = channels
		view.Error = err.Error()
		rm.render(w, r, http.StatusOK, "history", "History", view)
		return
	}

	result, err := client.GetHistory(r.Context(), query)
	if err != nil {
		rm.failPage(w, r, err)
		return
	}
	stats, err := client.GetTxStats(r.Context(), 24)
	if err != nil {
		rm.failPage(w, r, err)
		return
	}

	view.Page = history.NewPage(state, result, rm.loc)
	view.Stats = stats
	view.Channels = channels
	rm.render(w, r, http.StatusOK, "history", "History", view)
}
