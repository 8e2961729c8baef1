package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"
)

func knownHouseholds(ids ...string) HouseholdExists {
	return func(id string) (bool, error) {
		for _, known := range ids {
			if id == known {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestHandleWebSocketRejectsUnknownHousehold(t *testing.T) {
	hub := NewHub(slog.Default())
	h := HandleWebSocket(hub, knownHouseholds("h1"), slog.Default())

	for _, target := range []string{"/ws", "/ws?household=nope"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
		if rec.Code == http.StatusSwitchingProtocols || rec.Code == http.StatusOK {
			t.Errorf("%s: status = %d, want rejection", target, rec.Code)
		}
	}
}

func TestHandleWebSocketDeliversHouseholdMessages(t *testing.T) {
	hub := NewHub(slog.Default())
	srv := httptest.NewServer(HandleWebSocket(hub, knownHouseholds("h1"), slog.Default()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?household=h1"
	conn, _, err := ws.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(ws.StatusNormalClosure, "")

	deadline := time.Now().Add(2 * time.Second)
	for hub.HouseholdClientCount("h1") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(NewMessage("h1", "period", "finished", "p1", nil))

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != "period_finished" || msg.ID != "p1" {
		t.Errorf("message = %+v", msg)
	}
}
