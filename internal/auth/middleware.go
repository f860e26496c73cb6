package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserContextKey contextKey = "user"

// Middleware guards a route group with bearer-token auth. The client only
// ever sees a generic message; the rejection reason goes to the server log.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				reason := "missing"
				if header != "" {
					reason = "malformed"
				}
				log.Printf("auth: rejected %s %s: %s authorization header", r.Method, r.URL.Path, reason)
				http.Error(w, `{"msg":"No token, authorization denied"}`, http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")
			claims, err := ValidateToken(secret, tokenStr)
			if err != nil {
				log.Printf("auth: rejected %s %s: %s token", r.Method, r.URL.Path, rejectReason(err))
				http.Error(w, `{"msg":"Token is not valid"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return "bad-signature"
	default:
		return "malformed"
	}
}

// GetUser returns the authenticated principal, or nil on public routes.
func GetUser(ctx context.Context) *Claims {
	claims, _ := ctx.Value(UserContextKey).(*Claims)
	return claims
}
