package middleware

import (
	"net"
	"net/http"
	"strings"
)

// DeviceIDHeader carries the client-chosen device id used for preferences
// and rate limiting.
const DeviceIDHeader = "X-Device-ID"

// RealIP prefers X-Real-IP, then the first X-Forwarded-For hop, then
// RemoteAddr.
func RealIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// DeviceOrIP keys a request by its device id, falling back to the client IP.
func DeviceOrIP(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(DeviceIDHeader)); id != "" {
		return "device:" + id
	}
	return "ip:" + RealIP(r)
}
