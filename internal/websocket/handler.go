package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// HouseholdExists reports whether a household id is known.
type HouseholdExists func(id string) (bool, error)

// HandleWebSocket upgrades requests for /ws?household={id} and runs them as
// hub clients scoped to that household.
func HandleWebSocket(hub *Hub, exists HouseholdExists, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := r.URL.Query().Get("household")
		if householdID == "" {
			http.Error(w, "household is required", http.StatusBadRequest)
			return
		}
		ok, err := exists(householdID)
		if err != nil {
			logger.Error("websocket household lookup", "household_id", householdID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "household not found", http.StatusNotFound)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin; devices connect over the household LAN
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, householdID)
		client.Run(r.Context())
	}
}
