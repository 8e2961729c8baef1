package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "10.0.0.5:4321", "10.0.0.5"},
		{"x-real-ip", map[string]string{"X-Real-IP": "192.168.1.9"}, "10.0.0.5:4321", "192.168.1.9"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.5:4321", "203.0.113.7"},
		{"bare remote", nil, "pipe", "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := RealIP(req); got != tt.want {
				t.Errorf("RealIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError} {
		buf.Reset()
		h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte("body"))
		}))
		req := httptest.NewRequest("GET", "/api/households", nil)
		req.Header.Set(DeviceIDHeader, "tablet")
		h.ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		want := map[int]string{200: "level=INFO", 404: "level=WARN", 500: "level=ERROR"}[status]
		if !strings.Contains(out, want) {
			t.Errorf("status %d: output %q missing %q", status, out, want)
		}
		if !strings.Contains(out, "bytes=4") || !strings.Contains(out, "device=tablet") {
			t.Errorf("status %d: output %q missing attrs", status, out)
		}
	}
}
