package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/paydaypal/internal/middleware"
	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/dukerupert/paydaypal/internal/store"
)

const (
	activeMemberPrefix = "active_member:"
	maxPreferenceValue = 256
)

type PreferenceHandler struct {
	prefs  *store.PreferenceStore
	logger *slog.Logger
}

func NewPreferenceHandler(ps *store.PreferenceStore, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefs: ps, logger: logger}
}

func validPreference(key, value string) error {
	switch {
	case key == "theme":
	case strings.HasPrefix(key, activeMemberPrefix) && len(key) > len(activeMemberPrefix):
	default:
		return fmt.Errorf("%w: unknown preference %q", model.ErrMalformedInput, key)
	}
	if len(value) > maxPreferenceValue {
		return fmt.Errorf("%w: preference %q is too long", model.ErrMalformedInput, key)
	}
	return nil
}

func deviceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.Header.Get(middleware.DeviceIDHeader))
	if id == "" {
		writeError(w, http.StatusBadRequest, middleware.DeviceIDHeader+" header is required")
		return "", false
	}
	return id, true
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	device, ok := deviceID(w, r)
	if !ok {
		return
	}
	prefs, err := h.prefs.GetAll(device)
	if err != nil {
		fail(w, h.logger, "get preferences", err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// Update applies a map of preferences. An empty value removes the key.
func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	device, ok := deviceID(w, r)
	if !ok {
		return
	}
	var req map[string]string
	if !decodeJSON(w, r, &req, false) {
		return
	}
	for key, value := range req {
		if err := validPreference(key, value); err != nil {
			fail(w, h.logger, "update preferences", err)
			return
		}
	}

	for key, value := range req {
		var err error
		if value == "" {
			err = h.prefs.Delete(device, key)
		} else {
			_, err = h.prefs.Set(device, key, value)
		}
		if err != nil {
			fail(w, h.logger, "update preferences", err)
			return
		}
	}

	prefs, err := h.prefs.GetAll(device)
	if err != nil {
		fail(w, h.logger, "get preferences", err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}
