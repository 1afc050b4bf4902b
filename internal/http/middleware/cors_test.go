package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSOriginHandling(t *testing.T) {
	cases := []struct {
		name      string
		allowed   []string
		origin    string
		wantAllow string
	}{
		{name: "listed origin echoed", allowed: []string{"https://example.com"}, origin: "https://example.com", wantAllow: "https://example.com"},
		{name: "unknown origin denied", allowed: []string{"https://example.com"}, origin: "https://unknown.example", wantAllow: ""},
		{name: "wildcard echoes any origin", allowed: []string{"*"}, origin: "https://random.example", wantAllow: "https://random.example"},
		{name: "blank entries ignored", allowed: []string{"", " https://example.com "}, origin: "https://example.com", wantAllow: "https://example.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()
			CORS(tc.allowed)(handler).ServeHTTP(rec, req)

			if !called {
				t.Fatalf("expected handler to be called")
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllow {
				t.Fatalf("expected allow origin %q, got %q", tc.wantAllow, got)
			}
			if tc.wantAllow != "" {
				if rec.Header().Get("Access-Control-Allow-Methods") == "" {
					t.Fatalf("expected allow methods header")
				}
				if rec.Header().Get("Access-Control-Allow-Headers") == "" {
					t.Fatalf("expected allow headers header")
				}
			}
		})
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/bookings", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	CORS([]string{"https://example.com"})(handler).ServeHTTP(rec, req)

	if called {
		t.Fatalf("expected handler to not be called on preflight")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}
