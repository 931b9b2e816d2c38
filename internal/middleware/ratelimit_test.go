// Copyright (c) 2025-2026 Calyptra Studio
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of 2, then rejected.
	if code := do("10.0.0.1"); code != http.StatusOK {
		t.Errorf("first request = %d, want 200", code)
	}
	if code := do("10.0.0.1"); code != http.StatusOK {
		t.Errorf("second request = %d, want 200", code)
	}
	if code := do("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", code)
	}

	// A different client has its own budget.
	if code := do("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client = %d, want 200", code)
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")

	if lc.clearIfExceeds(5) {
		t.Error("cleared below the threshold")
	}
	if !lc.clearIfExceeds(1) {
		t.Error("did not clear above the threshold")
	}
	if len(lc.limiters) != 0 {
		t.Errorf("len = %d after clear, want 0", len(lc.limiters))
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		realIP     string
		want       string
	}{
		{"remote addr strips port", "203.0.113.7:51234", "", "", "203.0.113.7"},
		{"remote addr without port", "203.0.113.7", "", "", "203.0.113.7"},
		{"ipv6 remote addr strips port", "[2001:db8::1]:443", "", "", "2001:db8::1"},
		{"forwarded chain takes first hop", "10.0.0.1:80", "203.0.113.7, 70.41.3.18", "", "203.0.113.7"},
		{"forwarded single entry trimmed", "10.0.0.1:80", " 203.0.113.7 ", "", "203.0.113.7"},
		{"real ip", "10.0.0.1:80", "", "198.51.100.2", "198.51.100.2"},
		{"forwarded beats real ip", "10.0.0.1:80", "203.0.113.7", "198.51.100.2", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

// The extracted value must be usable as a GeoIP lookup input, so it has to
// be a bare address with no port or proxy-chain remnants.
func TestGetClientIPIsParseableAddress(t *testing.T) {
	for _, remoteAddr := range []string{"203.0.113.7:51234", "[::1]:8080"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		got := GetClientIP(req)
		if net.ParseIP(got) == nil {
			t.Errorf("GetClientIP(%q) = %q, not a parseable IP", remoteAddr, got)
		}
	}
}
