package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedAdminToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "admin-user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAdminJWTRejects(t *testing.T) {
	cases := []struct {
		name   string
		secret string
		header string
	}{
		{name: "no secret configured", secret: "", header: ""},
		{name: "missing header", secret: "secret", header: ""},
		{name: "not a bearer token", secret: "secret", header: "Basic abc"},
		{name: "wrong signing secret", secret: "secret", header: "Bearer " + signedAdminToken(t, "other", time.Minute)},
		{name: "expired token", secret: "secret", header: "Bearer " + signedAdminToken(t, "secret", -time.Minute)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mw := AdminJWT(tc.secret)
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatalf("handler should not be called")
			})).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
			}
		})
	}
}

func TestAdminJWTValidTokenExposesClaims(t *testing.T) {
	mw := AdminJWT("secret")
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signedAdminToken(t, "secret", 5*time.Minute))
	rec := httptest.NewRecorder()

	called := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, ok := AdminClaimsFromContext(r.Context())
		if !ok {
			t.Fatalf("expected admin claims in context")
		}
		if claims.Subject != "admin-user" {
			t.Fatalf("expected subject admin-user, got %q", claims.Subject)
		}
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}
