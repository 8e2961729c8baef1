package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/paydaypal/internal/datekey"
	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/dukerupert/paydaypal/internal/store"
	"github.com/dukerupert/paydaypal/internal/websocket"
)

type HouseholdHandler struct {
	broadcaster
	households *store.HouseholdStore
	clock      datekey.Clock
	logger     *slog.Logger
}

func NewHouseholdHandler(hs *store.HouseholdStore, clock datekey.Clock, hub *websocket.Hub, logger *slog.Logger) *HouseholdHandler {
	return &HouseholdHandler{broadcaster: broadcaster{hub}, households: hs, clock: clock, logger: logger}
}

type createHouseholdRequest struct {
	Name     string         `json:"name"`
	Members  []string       `json:"members"`
	Currency model.Currency `json:"currency"`
	Language model.Language `json:"language"`
}

func (h *HouseholdHandler) List(w http.ResponseWriter, r *http.Request) {
	households, err := h.households.List()
	if err != nil {
		fail(w, h.logger, "list households", err)
		return
	}
	writeJSON(w, http.StatusOK, households)
}

func (h *HouseholdHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createHouseholdRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	household, err := h.households.Create(store.HouseholdParams{
		Name:        req.Name,
		MemberNames: req.Members,
		Currency:    req.Currency,
		Language:    req.Language,
	}, datekey.Today(h.clock))
	if err != nil {
		fail(w, h.logger, "create household", err)
		return
	}

	h.logger.Info("household created", "household_id", household.ID, "members", len(household.Members))
	writeJSON(w, http.StatusCreated, household)
}

func (h *HouseholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	household, ok := loadHousehold(w, r, h.households, h.logger)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, household)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *HouseholdHandler) Rename(w http.ResponseWriter, r *http.Request) {
	household, ok := loadHousehold(w, r, h.households, h.logger)
	if !ok {
		return
	}
	var req renameRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	updated, err := h.households.Rename(household.ID, req.Name)
	if err != nil {
		fail(w, h.logger, "rename household", err)
		return
	}

	h.broadcast(websocket.NewMessage(updated.ID, "household", "updated", updated.ID, map[string]any{"name": updated.Name}))
	writeJSON(w, http.StatusOK, updated)
}

type memberRequest struct {
	Name string `json:"name"`
}

func (h *HouseholdHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	household, ok := loadHousehold(w, r, h.households, h.logger)
	if !ok {
		return
	}
	var req memberRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	member, err := h.households.AddMember(household.ID, req.Name)
	if err != nil {
		fail(w, h.logger, "add member", err)
		return
	}

	h.broadcast(websocket.NewMessage(household.ID, "member", "created", member.ID, nil))
	writeJSON(w, http.StatusCreated, member)
}

func (h *HouseholdHandler) ToggleMember(w http.ResponseWriter, r *http.Request) {
	householdID := r.PathValue("hid")
	member, err := h.households.ToggleMember(householdID, r.PathValue("mid"))
	if err != nil {
		fail(w, h.logger, "toggle member", err)
		return
	}

	h.broadcast(websocket.NewMessage(householdID, "member", "toggled", member.ID, map[string]any{"disabled": member.Disabled}))
	writeJSON(w, http.StatusOK, member)
}

// loadHousehold resolves the {hid} path value, writing 404 when absent.
func loadHousehold(w http.ResponseWriter, r *http.Request, hs *store.HouseholdStore, logger *slog.Logger) (*model.Household, bool) {
	household, err := hs.GetByID(r.PathValue("hid"))
	if err != nil {
		fail(w, logger, "get household", err)
		return nil, false
	}
	if household == nil {
		writeError(w, http.StatusNotFound, "household not found")
		return nil, false
	}
	return household, true
}
