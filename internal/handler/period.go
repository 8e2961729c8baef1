package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/paydaypal/internal/archive"
	"github.com/dukerupert/paydaypal/internal/datekey"
	"github.com/dukerupert/paydaypal/internal/metrics"
	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/dukerupert/paydaypal/internal/money"
	"github.com/dukerupert/paydaypal/internal/period"
	"github.com/dukerupert/paydaypal/internal/report"
	"github.com/dukerupert/paydaypal/internal/store"
	"github.com/dukerupert/paydaypal/internal/websocket"
)

const (
	defaultPeriodPage = 20
	maxPeriodPage     = 100
)

type PeriodHandler struct {
	broadcaster
	households *store.HouseholdStore
	periods    *store.PeriodStore
	archives   *store.ArchiveStore
	manager    *period.Manager
	reports    *report.Builder
	archiver   *archive.Archiver
	clock      datekey.Clock
	logger     *slog.Logger
}

// NewPeriodHandler wires the period endpoints. archiver may be nil, in which
// case closed periods are not archived.
func NewPeriodHandler(hs *store.HouseholdStore, ps *store.PeriodStore, as *store.ArchiveStore, mgr *period.Manager,
	reports *report.Builder, archiver *archive.Archiver, clock datekey.Clock, hub *websocket.Hub, logger *slog.Logger) *PeriodHandler {
	return &PeriodHandler{
		broadcaster: broadcaster{hub},
		households:  hs,
		periods:     ps,
		archives:    as,
		manager:     mgr,
		reports:     reports,
		archiver:    archiver,
		clock:       clock,
		logger:      logger,
	}
}

func (h *PeriodHandler) Current(w http.ResponseWriter, r *http.Request) {
	household, ok := loadHousehold(w, r, h.households, h.logger)
	if !ok {
		return
	}
	status, err := h.manager.Current(household.ID)
	if err != nil {
		fail(w, h.logger, "get current period", err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *PeriodHandler) Start(w http.ResponseWriter, r *http.Request) {
	household, ok := loadHousehold(w, r, h.households, h.logger)
	if !ok {
		return
	}
	p, err := h.manager.Start(household.ID)
	if err != nil {
		fail(w, h.logger, "start period", err)
		return
	}
	metrics.PeriodTransitionsTotal.WithLabelValues("start").Inc()

	h.broadcast(websocket.NewMessage(household.ID, "period", "started", p.ID, map[string]any{"start_date": p.StartDate}))
	writeJSON(w, http.StatusCreated, p)
}

type finishRequest struct {
	StartNew bool `json:"start_new"`
}

// Finish closes the active period and optionally opens the next one. The
// payday statement of the closed period is archived in the background.
func (h *PeriodHandler) Finish(w http.ResponseWriter, r *http.Request) {
	household, ok := loadHousehold(w, r, h.households, h.logger)
	if !ok {
		return
	}
	var req finishRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	result, err := h.manager.Finish(household.ID, req.StartNew)
	if result != nil {
		metrics.PeriodTransitionsTotal.WithLabelValues("finish").Inc()
		h.broadcast(websocket.NewMessage(household.ID, "period", "finished", result.Closed.ID,
			map[string]any{"end_date": *result.Closed.EndDate}))
		h.archive(household, result.Closed)
	}
	if err != nil {
		fail(w, h.logger, "finish period", err)
		return
	}
	if result.Opened != nil {
		metrics.PeriodTransitionsTotal.WithLabelValues("start").Inc()
		h.broadcast(websocket.NewMessage(household.ID, "period", "started", result.Opened.ID,
			map[string]any{"start_date": result.Opened.StartDate}))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PeriodHandler) archive(household *model.Household, closed model.Period) {
	if h.archiver == nil {
		return
	}
	rep, err := h.reports.ForPeriod(household, closed)
	if err != nil {
		h.logger.Error("build statement", "household_id", household.ID, "period_id", closed.ID, "error", err)
		return
	}
	h.archiver.ArchiveAsync(archive.NewStatement(household, closed, rep.Payday, rep.Groups, h.clock.Now()))
}

// List returns closed periods newest first. ?before=<period id> pages.
func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	household, ok := loadHousehold(w, r, h.households, h.logger)
	if !ok {
		return
	}

	limit := defaultPeriodPage
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxPeriodPage)
	}

	periods, err := h.periods.ListClosed(household.ID, limit, r.URL.Query().Get("before"))
	if err != nil {
		fail(w, h.logger, "list periods", err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

type periodDetail struct {
	*report.Report
	TotalDisplay string                `json:"total_display"`
	Archives     []model.ArchiveRecord `json:"archives"`
}

// Detail returns a period's activity grouped by day and each member's payday.
func (h *PeriodHandler) Detail(w http.ResponseWriter, r *http.Request) {
	household, ok := loadHousehold(w, r, h.households, h.logger)
	if !ok {
		return
	}
	p, err := h.periods.GetByID(household.ID, r.PathValue("pid"))
	if err != nil {
		fail(w, h.logger, "get period", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "period not found")
		return
	}

	rep, err := h.reports.ForPeriod(household, *p)
	if err != nil {
		fail(w, h.logger, "build period history", err)
		return
	}
	archives, err := h.archives.ListByPeriod(p.ID)
	if err != nil {
		fail(w, h.logger, "list archives", err)
		return
	}

	writeJSON(w, http.StatusOK, periodDetail{
		Report:       rep,
		TotalDisplay: money.Localized(rep.Total, household.Language, household.Currency),
		Archives:     archives,
	})
}
