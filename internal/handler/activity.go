package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/paydaypal/internal/datekey"
	"github.com/dukerupert/paydaypal/internal/earnings"
	"github.com/dukerupert/paydaypal/internal/ledger"
	"github.com/dukerupert/paydaypal/internal/metrics"
	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/dukerupert/paydaypal/internal/money"
	"github.com/dukerupert/paydaypal/internal/period"
	"github.com/dukerupert/paydaypal/internal/store"
	"github.com/dukerupert/paydaypal/internal/websocket"
)

type ActivityHandler struct {
	broadcaster
	households *store.HouseholdStore
	ledgers    *store.LedgerStore
	periods    *store.PeriodStore
	clock      datekey.Clock
	logger     *slog.Logger
}

func NewActivityHandler(hs *store.HouseholdStore, ls *store.LedgerStore, ps *store.PeriodStore, clock datekey.Clock, hub *websocket.Hub, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		broadcaster: broadcaster{hub},
		households:  hs,
		ledgers:     ls,
		periods:     ps,
		clock:       clock,
		logger:      logger,
	}
}

type dayView struct {
	Date    string `json:"date"`
	Total   string `json:"total"`
	Display string `json:"display"`
}

type activityResponse struct {
	MemberID     string         `json:"member_id"`
	Today        string         `json:"today"`
	Period       *model.Period  `json:"period"`
	Days         []dayView      `json:"days"`
	Total        string         `json:"total"`
	TotalDisplay string         `json:"total_display"`
	Entries      []ledger.Entry `json:"entries"`
}

// Get returns a member's activity for the active period: every day from the
// period start through today (newest first) with its earnings, the period
// total, and the ledger entries from the start through today. Without an active period
// the day list is empty.
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	household, member, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	today := datekey.Today(h.clock)
	resp := activityResponse{
		MemberID: member.ID,
		Today:    today,
		Days:     []dayView{},
		Total:    money.Format(decimal.Zero),
		Entries:  []ledger.Entry{},
	}
	resp.TotalDisplay = money.Localized(decimal.Zero, household.Language, household.Currency)

	latest, err := h.periods.Latest(household.ID)
	if err != nil {
		fail(w, h.logger, "get period", err)
		return
	}
	status := period.Derive(latest)
	if status.State != period.StateActivePeriod {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Period = status.Period

	l, err := h.ledgers.Get(household.ID, member.ID)
	if err != nil {
		fail(w, h.logger, "get ledger", err)
		return
	}
	dates, err := datekey.Range(status.Period.StartDate, today)
	if err != nil {
		fail(w, h.logger, "build date range", err)
		return
	}
	days, err := earnings.DailyTotals(l, household.Chores, dates)
	if err != nil {
		fail(w, h.logger, "compute earnings", err)
		return
	}
	total, err := earnings.TotalForDates(l, household.Chores, dates)
	if err != nil {
		fail(w, h.logger, "compute earnings", err)
		return
	}

	for _, d := range days {
		resp.Days = append(resp.Days, dayView{
			Date:    d.DateKey,
			Total:   money.Format(d.Total),
			Display: money.Localized(d.Total, household.Language, household.Currency),
		})
	}
	resp.Total = money.Format(total)
	resp.TotalDisplay = money.Localized(total, household.Language, household.Currency)
	tomorrow, err := datekey.AddDays(today, 1)
	if err != nil {
		fail(w, h.logger, "build date range", err)
		return
	}
	if entries := l.Window(status.Period.StartDate, tomorrow); entries != nil {
		resp.Entries = entries
	}
	writeJSON(w, http.StatusOK, resp)
}

type incrementRequest struct {
	Date    string `json:"date"`
	ChoreID string `json:"chore_id"`
	Delta   int    `json:"delta"`
}

type setRequest struct {
	Date    string `json:"date"`
	ChoreID string `json:"chore_id"`
	Count   int    `json:"count"`
}

type entryResponse struct {
	Date    string `json:"date"`
	ChoreID string `json:"chore_id"`
	Count   int    `json:"count"`
}

// Increment applies an atomic +delta to one ledger entry, flooring at zero.
func (h *ActivityHandler) Increment(w http.ResponseWriter, r *http.Request) {
	household, member, ok := h.loadMember(w, r)
	if !ok {
		return
	}
	var req incrementRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if req.Delta == 0 {
		writeError(w, http.StatusBadRequest, "delta must be non-zero")
		return
	}
	if !knownChore(household, req.ChoreID) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown chore %q", req.ChoreID))
		return
	}
	if err := h.checkWritable(household.ID, req.Date); err != nil {
		fail(w, h.logger, "update ledger", err)
		return
	}

	count, err := h.ledgers.Increment(household.ID, member.ID, req.Date, req.ChoreID, req.Delta)
	if err != nil {
		fail(w, h.logger, "update ledger", err)
		return
	}
	metrics.LedgerUpdatesTotal.WithLabelValues("increment").Inc()
	h.logger.Debug("ledger incremented", "household_id", household.ID, "member_id", member.ID,
		"date", req.Date, "chore_id", req.ChoreID, "delta", req.Delta, "count", count)

	h.respondEntry(w, household.ID, member.ID, entryResponse{Date: req.Date, ChoreID: req.ChoreID, Count: count})
}

// Set overwrites one ledger entry. Concurrent sets are last-writer-wins.
func (h *ActivityHandler) Set(w http.ResponseWriter, r *http.Request) {
	household, member, ok := h.loadMember(w, r)
	if !ok {
		return
	}
	var req setRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if !knownChore(household, req.ChoreID) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown chore %q", req.ChoreID))
		return
	}
	if err := h.checkWritable(household.ID, req.Date); err != nil {
		fail(w, h.logger, "update ledger", err)
		return
	}

	if err := h.ledgers.Set(household.ID, member.ID, req.Date, req.ChoreID, req.Count); err != nil {
		fail(w, h.logger, "update ledger", err)
		return
	}
	metrics.LedgerUpdatesTotal.WithLabelValues("set").Inc()

	h.respondEntry(w, household.ID, member.ID, entryResponse{Date: req.Date, ChoreID: req.ChoreID, Count: req.Count})
}

func (h *ActivityHandler) respondEntry(w http.ResponseWriter, householdID, memberID string, e entryResponse) {
	h.broadcast(websocket.NewMessage(householdID, "ledger", "updated", memberID, map[string]any{
		"date":     e.Date,
		"chore_id": e.ChoreID,
		"count":    e.Count,
	}))
	writeJSON(w, http.StatusOK, e)
}

func (h *ActivityHandler) loadMember(w http.ResponseWriter, r *http.Request) (*model.Household, *model.Member, bool) {
	household, ok := loadHousehold(w, r, h.households, h.logger)
	if !ok {
		return nil, nil, false
	}
	member := household.Member(r.PathValue("mid"))
	if member == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return nil, nil, false
	}
	return household, member, true
}

// checkWritable allows writes only while a period is active and only for a
// day between its start and today.
func (h *ActivityHandler) checkWritable(householdID, dateKey string) error {
	if err := datekey.Validate(dateKey); err != nil {
		return err
	}
	latest, err := h.periods.Latest(householdID)
	if err != nil {
		return err
	}
	status := period.Derive(latest)
	if status.State != period.StateActivePeriod {
		return fmt.Errorf("%w: no active period", model.ErrInvalidState)
	}
	days, err := datekey.Range(status.Period.StartDate, datekey.Today(h.clock))
	if err != nil {
		return err
	}
	if !slices.Contains(days, dateKey) {
		return fmt.Errorf("%w: %s is outside the active period", model.ErrMalformedInput, dateKey)
	}
	return nil
}

func knownChore(h *model.Household, choreID string) bool {
	for _, c := range h.Chores {
		if c.ID == choreID {
			return true
		}
	}
	return false
}
