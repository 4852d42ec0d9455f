package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	e := NewClientIPExtractor()

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{"direct connection", "203.0.113.9:4321", "", "", "203.0.113.9"},
		{"forwarded via trusted proxy", "127.0.0.1:80", "203.0.113.9, 10.0.0.1", "", "203.0.113.9"},
		{"forwarded via untrusted peer is ignored", "203.0.113.9:80", "198.51.100.1", "", "203.0.113.9"},
		{"real ip via trusted proxy", "10.0.0.5:80", "", "203.0.113.9", "203.0.113.9"},
		{"garbage forwarded header", "127.0.0.1:80", "not-an-ip", "", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := e.ExtractClientIP(req); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
