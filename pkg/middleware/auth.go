package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtutil "github.com/Dias221467/Recipe_Manager/pkg/jwt"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware validates the bearer token and stores its claims in the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Missing or invalid Authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := jwtutil.ValidateToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil {
				logrus.WithError(err).Warn("Rejected request with invalid token")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			if claims.IsRefresh() {
				http.Error(w, "Refresh tokens cannot access resources", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
		})
	}
}

// WithUser returns a copy of ctx carrying the authenticated claims.
func WithUser(ctx context.Context, claims *jwtutil.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

// GetUserFromContext returns the authenticated claims or nil.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, _ := ctx.Value(userContextKey).(*jwtutil.Claims)
	return claims
}
