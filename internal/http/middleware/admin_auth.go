package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const adminClaimsKey contextKey = "adminClaims"

var errNotBearer = errors.New("authorization header is not a bearer token")

// AdminJWT guards back-office endpoints with an HMAC-signed JWT. An empty
// secret disables admin access entirely rather than opening it up.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "admin auth disabled", http.StatusUnauthorized)
				return
			}
			claims, err := parseAdminToken(r.Header.Get("Authorization"), secret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseAdminToken(header, secret string) (jwt.RegisteredClaims, error) {
	claims := jwt.RegisteredClaims{}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return claims, errNotBearer
	}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return claims, err
	}
	if !token.Valid {
		return claims, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// AdminClaimsFromContext returns the admin JWT claims if present.
func AdminClaimsFromContext(ctx context.Context) (jwt.RegisteredClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(jwt.RegisteredClaims)
	return claims, ok
}
